package services

import "context"

type contextKey string

const (
	planIDKey contextKey = "plan_id"
	phaseKey  contextKey = "phase"
)

// WithPlanID annotates context with the edit plan identifier.
func WithPlanID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, planIDKey, id)
}

// PlanIDFromContext extracts the edit plan identifier if present.
func PlanIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(planIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPhase annotates context with the pipeline phase name.
func WithPhase(ctx context.Context, phase string) context.Context {
	if phase == "" {
		return ctx
	}
	return context.WithValue(ctx, phaseKey, phase)
}

// PhaseFromContext returns the pipeline phase name if present.
func PhaseFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(phaseKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
