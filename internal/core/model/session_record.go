package model

import "time"

// SessionOutcome describes how a timer session ended.
type SessionOutcome string

const (
	OutcomeStopped SessionOutcome = "stopped"
	OutcomeExpired SessionOutcome = "expired"
	OutcomeClosed  SessionOutcome = "closed"
)

// SessionRecord is the study-log entry written when a timer session ends.
type SessionRecord struct {
	ID        string         `yaml:"id"`
	Mode      string         `yaml:"mode"`
	StartedAt time.Time      `yaml:"started_at"`
	EndedAt   time.Time      `yaml:"ended_at"`
	Seconds   int            `yaml:"seconds"`
	Outcome   SessionOutcome `yaml:"outcome"`
}
