// Package router decides which reply strategy handles a message. Two
// interchangeable policies exist: a deterministic keyword rule table and a
// single-call LLM classifier. A deployment picks one at startup.
package router

import (
	"context"
	"fmt"
)

// Route is the closed set of reply strategies a policy can select.
type Route int

const (
	RouteAcademic Route = iota
	RoutePositive
	RouteNegative
	RouteSafety
	RouteClarify
	RouteFallback
)

func (r Route) String() string {
	switch r {
	case RouteAcademic:
		return "academic"
	case RoutePositive:
		return "positive"
	case RouteNegative:
		return "negative"
	case RouteSafety:
		return "safety"
	case RouteClarify:
		return "clarify"
	default:
		return "fallback"
	}
}

// Policy classifies a message into a Route. Safety overrides, exit phrases
// and name binding are handled by the engine before any policy runs.
type Policy interface {
	Classify(ctx context.Context, message string) (Route, error)
}

// AcademicTriggerMode controls which messages count as academic for the
// keyword policy: any digit or grading keyword, or digits only with the
// report keywords reserved for re-rendering.
type AcademicTriggerMode int

const (
	TriggerDigitOrKeyword AcademicTriggerMode = iota
	TriggerDigitOnly
)

// ParseTriggerMode maps the ROUTER_ACADEMIC_TRIGGER config value.
func ParseTriggerMode(v string) (AcademicTriggerMode, error) {
	switch v {
	case "", "digit-or-keyword":
		return TriggerDigitOrKeyword, nil
	case "digit-only":
		return TriggerDigitOnly, nil
	default:
		return TriggerDigitOrKeyword, fmt.Errorf("unknown academic trigger mode %q", v)
	}
}
