package llm

import (
	"github.com/cloudwego/eino/schema"

	logx "github.com/studybuddy/server/pkg/logger"
)

// pricing is USD per 1M text tokens (standard tier). Unknown models log
// zero cost but still log token counts.
type pricing struct {
	inputPerM  float64
	outputPerM float64
}

var modelPricing = map[string]pricing{
	"gemini-2.5-flash":      {inputPerM: 0.30, outputPerM: 2.50},
	"gemini-2.5-flash-lite": {inputPerM: 0.10, outputPerM: 0.40},
}

// logUsage emits token usage and USD cost for one model invocation.
func logUsage(modelName string, out *schema.Message) {
	if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	p := modelPricing[modelName]
	inputCost := p.inputPerM * float64(usage.PromptTokens) / 1_000_000.0
	outputCost := p.outputPerM * float64(usage.CompletionTokens) / 1_000_000.0

	logx.Debug().
		Str("model", modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inputCost).
		Float64("output_cost_usd", outputCost).
		Float64("total_cost_usd", inputCost+outputCost).
		Msg("LLM usage")
}
