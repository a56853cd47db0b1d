package agent

import (
	"github.com/cloudwego/eino/schema"
)

// Capability is the closed set of tools the fallback agent may invoke.
// Dispatch happens through a single switch in the agent loop; there is no
// dynamic tool registry.
type Capability string

const (
	CapabilityPositive Capability = "PositiveResponse"
	CapabilityNegative Capability = "NegativeResponse"
	CapabilityAcademic Capability = "AcademicHelper"
	CapabilitySafety   Capability = "Safety"
)

// ParseCapability resolves a tool name reported by the model.
func ParseCapability(name string) (Capability, bool) {
	switch Capability(name) {
	case CapabilityPositive, CapabilityNegative, CapabilityAcademic, CapabilitySafety:
		return Capability(name), true
	default:
		return "", false
	}
}

// toolMessageParam is the single argument every capability takes.
var toolMessageParam = map[string]*schema.ParameterInfo{
	"message": {
		Type:     "string",
		Desc:     "The user's message to respond to, verbatim.",
		Required: true,
	},
}

// ToolInfos describes the capabilities for binding to the chat model.
func ToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name:        string(CapabilityPositive),
			Desc:        "Use for happy, excited, proud, or positive messages.",
			ParamsOneOf: schema.NewParamsOneOfByParams(toolMessageParam),
		},
		{
			Name:        string(CapabilityNegative),
			Desc:        "Use for sad, stressed, anxious, lonely, or negative messages.",
			ParamsOneOf: schema.NewParamsOneOfByParams(toolMessageParam),
		},
		{
			Name:        string(CapabilityAcademic),
			Desc:        "Use for anything about marks, grades, scores, subjects, averages, or academic performance.",
			ParamsOneOf: schema.NewParamsOneOfByParams(toolMessageParam),
		},
		{
			Name:        string(CapabilitySafety),
			Desc:        "Use if the user mentions suicide, self-harm, or wanting to die.",
			ParamsOneOf: schema.NewParamsOneOfByParams(toolMessageParam),
		},
	}
}
