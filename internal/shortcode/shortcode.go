package shortcode

import (
	"math/rand/v2"
	"sync"
)

// Alphanumeric charset used for generated codes (62 characters)
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Code length bounds, inclusive
const (
	MinLength = 6
	MaxLength = 8
)

// Generator produces random short codes
// The random source is injected so tests can seed it deterministically,
// instead of consuming ambient process-wide randomness
type Generator struct {
	mu  sync.Mutex // rand sources are not safe for concurrent use
	rnd *rand.Rand
}

// New creates a generator seeded from the runtime's entropy source
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewFromSource creates a generator over the given source
// Used in tests to get reproducible codes
func NewFromSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Generate returns a new random code
// Length is chosen uniformly from [MinLength, MaxLength] and each character
// uniformly from the alphanumeric charset. Uniqueness is NOT guaranteed here -
// the store's unique constraint is the authoritative guard
func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	length := MinLength + g.rnd.IntN(MaxLength-MinLength+1)
	code := make([]byte, length)
	for i := range code {
		code[i] = charset[g.rnd.IntN(len(charset))]
	}
	return string(code)
}

// Valid reports whether code satisfies the short code format:
// 6-8 characters, all alphanumeric. Pure function, no side effects
func Valid(code string) bool {
	if len(code) < MinLength || len(code) > MaxLength {
		return false
	}
	for _, c := range code {
		if !isAlphanumeric(c) {
			return false
		}
	}
	return true
}

func isAlphanumeric(c rune) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
