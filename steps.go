package gosolve

import (
	"context"
	"log/slog"
)

// StepLogger receives work steps: a short description of a rewrite with the
// expression before and after it. Every call site works with NopSteps.
type StepLogger interface {
	Step(description string, before, after Expr)
}

// NopSteps discards every step.
type NopSteps struct{}

func (NopSteps) Step(string, Expr, Expr) {}

// SlogSteps writes steps as debug records.
type SlogSteps struct {
	Logger *slog.Logger
}

func (s SlogSteps) Step(description string, before, after Expr) {
	if s.Logger == nil || !s.Logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	s.Logger.Debug("step", "desc", description, "before", before.String(), "after", after.String())
}

// RecordedStep is one step kept by a StepRecorder.
type RecordedStep struct {
	Description string `json:"description"`
	Before      string `json:"before"`
	After       string `json:"after"`
}

// StepRecorder keeps every step in order.
type StepRecorder struct {
	Steps []RecordedStep
}

func (r *StepRecorder) Step(description string, before, after Expr) {
	r.Steps = append(r.Steps, RecordedStep{Description: description, Before: before.String(), After: after.String()})
}
