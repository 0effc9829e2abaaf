package models

import "time"

type Action string

const (
	ActionCancel   Action = "cancel"
	ActionClearAll Action = "clear_all"
	ActionExport   Action = "export"
)

// JournalEntry records an operator intent issued from the console and its outcome.
type JournalEntry struct {
	Action   Action         `json:"action" bson:"action"`
	Target   string         `json:"target,omitempty" bson:"target,omitempty"`
	Params   map[string]any `json:"params,omitempty" bson:"params,omitempty"`
	Success  bool           `json:"success" bson:"success"`
	Error    string         `json:"error,omitempty" bson:"error,omitempty"`
	IssuedAt time.Time      `json:"issued_at" bson:"issued_at"`
}
