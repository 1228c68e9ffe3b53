package testutil

import (
	"math/rand"
	"strings"
	"sync"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Line returns a random line of 1..maxLen characters without a terminator.
func (r *RNG) Line(maxLen int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.line(maxLen)
}

// Text returns n random lines, each terminated by '\n'.
// Locks only once per call.
func (r *RNG) Text(n, maxLen int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(r.line(maxLen))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r *RNG) line(maxLen int) string {
	if maxLen <= 0 {
		maxLen = 1
	}
	b := make([]byte, 1+r.rand.Intn(maxLen))
	for i := range b {
		b[i] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return string(b)
}
