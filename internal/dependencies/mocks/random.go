package mocks

import (
	"sync"

	"github.com/mcoot/sweepbot/internal/dependencies/random"
)

// MockRandom replays queued values. Intn answers 0 once its queue is empty
// and String answers "", so tests that create games queue an ID first.
// Queued Intn values are clamped into [0, n).
type MockRandom struct {
	mu sync.Mutex

	ints    []int
	strings []string

	// bounds passed to Intn, in call order
	intnBounds []int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a MockRandom with empty queues
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.intnBounds = append(r.intnBounds, n)
	if len(r.ints) == 0 || n <= 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return min(max(v, 0), n-1)
}

func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.strings) == 0 {
		return ""
	}
	v := r.strings[0]
	r.strings = r.strings[1:]
	return v
}

// QueueIntn appends values for upcoming Intn calls
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, values...)
}

// QueueString appends values for upcoming String calls, typically game IDs
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strings = append(r.strings, values...)
}

// IntnBounds returns the n of every Intn call so far
func (r *MockRandom) IntnBounds() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.intnBounds...)
}
