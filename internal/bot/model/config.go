package model

// ================ Config ================

type RouterConfig struct {
	// Policy selects the routing strategy: "keyword" or "llm".
	// Chosen once at startup; routers are never mixed within a deployment.
	Policy          string `envconfig:"ROUTER_POLICY" default:"keyword"`
	AcademicTrigger string `envconfig:"ROUTER_ACADEMIC_TRIGGER" default:"digit-or-keyword"`
}

type ConversationConfig struct {
	// HistoryBudget caps the total retained transcript size in characters.
	// Oldest turns are evicted first once the budget is exceeded.
	HistoryBudget int `envconfig:"CONVERSATION_HISTORY_BUDGET" default:"8000"`
	Tools         struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"6"`
	}
}

type SessionConfig struct {
	Backend string `envconfig:"SESSION_BACKEND" default:"memory"`
	TTL     string `envconfig:"SESSION_TTL" default:"24h"`
}

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"200"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.0"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.2"`
}
