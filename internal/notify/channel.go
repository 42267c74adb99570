package notify

import (
	"context"
	"errors"
	"fmt"

	"jobradar/pkg/models"
)

// Channel is a single notification delivery mechanism
type Channel interface {
	// Name returns the channel name used in config and results
	Name() string

	// IsConfigured reports whether the channel has the credentials it needs
	IsConfigured() bool

	// Send delivers a digest of the given jobs
	Send(ctx context.Context, jobs []models.JobRecord) error
}

// Result is the outcome of one channel's delivery attempt
type Result struct {
	Channel string `json:"channel"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SendError wraps a channel failure and marks whether retrying can help
type SendError struct {
	Channel   string
	Permanent bool
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Channel, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether a delivery error is worth retrying
func IsTransient(err error) bool {
	var se *SendError
	if errors.As(err, &se) {
		return !se.Permanent
	}
	return true
}
