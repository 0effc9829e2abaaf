package models

import "time"

type StepLabel string

const (
	StepReceived  StepLabel = "Received"
	StepInReview  StepLabel = "In review"
	StepAdmitted  StepLabel = "Admitted"
	StepPaid      StepLabel = "Paid"
	StepCancelled StepLabel = "Cancelled"
)

// Step is one stage of a transaction's lifecycle view. Timestamp is only set on done steps.
type Step struct {
	Label     StepLabel  `json:"label"`
	Done      bool       `json:"done"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
