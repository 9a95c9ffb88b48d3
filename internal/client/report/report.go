// Package report surfaces terminal booking outcomes. Presentation only: no
// retries, no side effects beyond display.
package report

import (
	"log"
	"time"
)

// Detail is diagnostic-only; nothing downstream depends on it.
type Detail struct {
	Status    int
	Message   string
	Timestamp time.Time
}

type Outcome struct {
	Success bool
	Title   string
	Message string
	Detail  *Detail
}

func Success(title, message string) Outcome {
	return Outcome{Success: true, Title: title, Message: message}
}

func Failure(title, message string, status int, raw string) Outcome {
	return Outcome{
		Success: false,
		Title:   title,
		Message: message,
		Detail:  &Detail{Status: status, Message: raw, Timestamp: time.Now()},
	}
}

type Reporter interface {
	Report(Outcome)
}

// LogReporter writes outcomes to a standard logger.
type LogReporter struct {
	logger *log.Logger
}

func NewLogReporter(logger *log.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Report(o Outcome) {
	if o.Success {
		r.logger.Printf("%s: %s", o.Title, o.Message)
		return
	}
	if o.Detail != nil {
		r.logger.Printf("%s: %s (status=%d detail=%q)", o.Title, o.Message, o.Detail.Status, o.Detail.Message)
		return
	}
	r.logger.Printf("%s: %s", o.Title, o.Message)
}
