package logging

import (
	"context"

	"github.com/google/uuid"
)

// NewRunID returns a fresh identifier for one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// StartRun attaches a new run id to ctx and returns both.
func StartRun(ctx context.Context) (context.Context, string) {
	id := NewRunID()
	return WithRunID(ctx, id), id
}
