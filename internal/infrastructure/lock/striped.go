// Package lock provides an in-process per-user lock for single-instance
// deployments.
package lock

import (
	"context"
	"hash/fnv"
)

const defaultStripes = 64

// Striped maps each user id to one of a fixed set of stripes with fnv
// hashing. Two users may share a stripe, which only costs contention.
type Striped struct {
	stripes []chan struct{}
}

// NewStriped returns a lock with n stripes, or defaultStripes when n <= 0.
func NewStriped(n int) *Striped {
	if n <= 0 {
		n = defaultStripes
	}
	s := &Striped{stripes: make([]chan struct{}, n)}
	for i := range s.stripes {
		s.stripes[i] = make(chan struct{}, 1)
	}
	return s
}

// Lock waits for the user's stripe or for ctx to end.
func (s *Striped) Lock(ctx context.Context, userID string) (func(), error) {
	ch := s.stripes[s.stripeIndex(userID)]
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Striped) stripeIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(s.stripes)))
}
