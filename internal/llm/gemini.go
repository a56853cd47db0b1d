// Package llm constructs the Gemini-backed chat models and adapts them to
// the core's generator and agent contracts.
package llm

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	agentpkg "github.com/studybuddy/server/internal/bot/agent"
	"github.com/studybuddy/server/internal/bot/model"
	logx "github.com/studybuddy/server/pkg/logger"
)

type Config struct {
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	Classifier model.ClassifierModelConfig
	Responder  model.ResponseModelConfig
}

// Models holds the constructed backends: a small classifier generator, the
// response generator for the mentors, and the tool-bound agent model.
type Models struct {
	Classifier model.TextGenerator
	Responder  model.TextGenerator
	Agent      agentpkg.ChatModel
}

// New builds the genai client and all three chat models from config.
func New(ctx context.Context, cfg Config) (*Models, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	classifier, err := newChatModel(ctx, client, cfg.Classifier.Model, cfg.Classifier.Temperature, cfg.Classifier.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	responder, err := newChatModel(ctx, client, cfg.Responder.Model, cfg.Responder.Temperature, cfg.Responder.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("error creating response model: %w", err)
	}

	// The agent gets its own instance so tool binding never leaks into the
	// plain mentor generations.
	agentModel, err := newChatModel(ctx, client, cfg.Responder.Model, cfg.Responder.Temperature, cfg.Responder.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("error creating agent model: %w", err)
	}
	if err := agentModel.BindTools(agentpkg.ToolInfos()); err != nil {
		logx.Error().Err(err).Msg("failed to bind tools to agent model")
		return nil, fmt.Errorf("failed to bind tools: %w", err)
	}

	return &Models{
		Classifier: &generator{cm: classifier, modelName: cfg.Classifier.Model},
		Responder:  &generator{cm: responder, modelName: cfg.Responder.Model},
		Agent:      &usageLoggingModel{cm: agentModel, modelName: cfg.Responder.Model},
	}, nil
}

func newChatModel(ctx context.Context, client *genai.Client, name string, temperature float32, maxTokens int) (*gemini.ChatModel, error) {
	return gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       name,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
}

// generator adapts an eino chat model to the prompt-in/completion-out
// TextGenerator contract.
type generator struct {
	cm        *gemini.ChatModel
	modelName string
}

func (g *generator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := g.cm.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", fmt.Errorf("model %s returned empty completion", g.modelName)
	}
	logUsage(g.modelName, out)
	return strings.TrimSpace(out.Content), nil
}

var _ model.TextGenerator = (*generator)(nil)

// usageLoggingModel wraps the agent chat model so every loop iteration
// logs its token usage.
type usageLoggingModel struct {
	cm        *gemini.ChatModel
	modelName string
}

func (m *usageLoggingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	out, err := m.cm.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	logUsage(m.modelName, out)
	return out, nil
}

var _ agentpkg.ChatModel = (*usageLoggingModel)(nil)
