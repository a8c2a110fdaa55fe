package httpapi

import (
	"context"

	"github.com/meridian-travel/itinerary-api/internal/domain"
)

type callerKey struct{}

// Caller is the request identity resolved by the auth middleware.
type Caller struct {
	ID         domain.UserID
	Privileged bool
}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok && c.ID != ""
}
