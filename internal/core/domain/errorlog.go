package domain

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// ErrorLogEntry is the payload published to the error log topic whenever
// a handler or the registry sync fails. The id lets downstream consumers
// deduplicate redeliveries.
type ErrorLogEntry struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Error  string `json:"error"`
	Time   string `json:"time"`
}

func NewErrorLogEntry(source string, err error) ErrorLogEntry {
	id, _ := uuid.NewV4()

	return ErrorLogEntry{
		ID:     id.String(),
		Source: source,
		Error:  err.Error(),
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
}
