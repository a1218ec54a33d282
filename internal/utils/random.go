package utils

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is a math/rand generator that is safe for concurrent use
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a generator seeded with seed
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededRand returns a generator seeded from the clock
func NewTimeSeededRand() *Rand {
	return NewRand(time.Now().UnixNano())
}

// Intn returns a uniform int in [0, n)
func (g *Rand) Intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.r.Intn(n)
}

// Between returns a uniform int in [min, max], both inclusive
func (g *Rand) Between(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + g.Intn(max-min+1)
}

// Float64 returns a uniform float in [0, 1)
func (g *Rand) Float64() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.r.Float64()
}
