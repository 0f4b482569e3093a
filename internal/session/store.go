package session

import "context"

// Store keeps per-visitor state between requests. The web layer keys it
// by a cookie; tests key it however they like.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	Delete(ctx context.Context, id string) error
	NewID() string
}
