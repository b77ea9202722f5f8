package storage

import (
	"time"
)

// Run summarizes one completed search. Only the summary is stored, never
// the matches themselves.
type Run struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Mode       string        `json:"mode"`
	Glob       string        `json:"glob"`
	Expression string        `json:"expression"`
	Output     string        `json:"output"`
	Hits       int           `json:"hits"`
	Errors     int           `json:"errors"`
}
