package runner

import (
	"errors"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// StepStatus is the outcome of an optional UI step.
type StepStatus int

const (
	// StepDone means the step ran to completion.
	StepDone StepStatus = iota
	// StepSkipped means the step was not requested or its element never
	// became visible within the wait budget.
	StepSkipped
	// StepFailed means the step hit an unexpected error. The item still
	// proceeds to the screenshot.
	StepFailed
)

// String returns the lowercase status name.
func (s StepStatus) String() string {
	switch s {
	case StepDone:
		return "done"
	case StepSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Optional step names.
const (
	StepPanelClose = "panel-close"
	StepTitle      = "title"
	StepPanZoom    = "pan-zoom"
)

// StepResult records what happened to one optional step.
type StepResult struct {
	Name   string
	Status StepStatus
	Err    error
}

func stepDone(name string) StepResult {
	return StepResult{Name: name, Status: StepDone}
}

func stepNotRequested(name string) StepResult {
	return StepResult{Name: name, Status: StepSkipped}
}

// stepFromError classifies err: a wait that timed out means the control is
// absent and the step is skipped, anything else is a failure.
func stepFromError(name string, err error) StepResult {
	if err == nil {
		return stepDone(name)
	}
	if isTimeout(err) {
		return StepResult{Name: name, Status: StepSkipped, Err: err}
	}
	return StepResult{Name: name, Status: StepFailed, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, playwright.ErrTimeout) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Timeout") && strings.Contains(msg, "exceeded")
}

// benignNavigationMessage marks navigation errors caused by the page
// redirecting itself while the requested navigation was in flight.
const benignNavigationMessage = "interrupted by another navigation"

func isBenignNavigationError(err error) bool {
	return err != nil && strings.Contains(err.Error(), benignNavigationMessage)
}
