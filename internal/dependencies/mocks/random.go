package mocks

import (
	"sync"

	"github.com/mcoot/crystalclicker/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu sync.Mutex

	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// BetweenResults is a queue of results to return from Between
	BetweenResults []int64
	betweenIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// Between returns the next queued result, or min if none remaining
func (r *MockRandom) Between(min, max int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.betweenIndex >= len(r.BetweenResults) {
		return min
	}
	result := r.BetweenResults[r.betweenIndex]
	r.betweenIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueBetween adds values to the Between result queue
func (r *MockRandom) QueueBetween(values ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.BetweenResults = append(r.BetweenResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = nil
	r.intnIndex = 0
	r.BetweenResults = nil
	r.betweenIndex = 0
}
