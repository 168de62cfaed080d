package workflow

import (
	"github.com/spigell/cv-tailor/internal/jobs"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// State is a snapshot of the controller. Message is set only while processing,
// Packages only when done and Error only when the run failed.
type State struct {
	RunID    string         `json:"runId,omitempty"`
	Status   Status         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Packages *jobs.Packages `json:"packages,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Observer receives every state change in the order it happened.
type Observer func(State)

func (s State) clone() State {
	if s.Packages == nil {
		return s
	}

	items := make([]*jobs.ApplicationPackage, 0, s.Packages.Len())
	for _, pkg := range s.Packages.Items {
		cp := *pkg
		items = append(items, &cp)
	}
	s.Packages = &jobs.Packages{Items: items}

	return s
}
