// Package ratelimit limits login submissions per client, since every
// submission opens a database connection with the submitted credentials.
package ratelimit

import "context"

// Limiter decides whether one more request for key is allowed now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
