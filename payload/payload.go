// Package payload generates deterministic property and value material for
// benchmark workloads.
package payload

import (
	"fmt"
	"math/rand"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Pattern selects the shape of generated values.
type Pattern uint8

const (
	// PatternCompressible produces values a compressor collapses well.
	PatternCompressible Pattern = iota

	// PatternRandom produces values with no exploitable redundancy.
	PatternRandom
)

func (p Pattern) String() string {
	switch p {
	case PatternCompressible:
		return "compressible"
	case PatternRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParsePattern maps a configuration string to a Pattern.
func ParsePattern(s string) (Pattern, error) {
	switch s {
	case "", "compressible":
		return PatternCompressible, nil
	case "random":
		return PatternRandom, nil
	default:
		return PatternCompressible, fmt.Errorf("payload: unknown pattern %q", s)
	}
}

// PropertyNames returns n stable property names.
func PropertyNames(n int) []string {
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, fmt.Sprintf("p%02d", i))
	}
	return names
}

// Value draws a size-byte value from rng in the given pattern.
// Compressible values repeat a single letter; random values draw every
// byte independently from the charset.
func Value(rng *rand.Rand, size int, pattern Pattern) string {
	if size <= 0 {
		return ""
	}
	b := make([]byte, size)
	switch pattern {
	case PatternRandom:
		for i := range b {
			b[i] = charset[rng.Intn(len(charset))]
		}
	default:
		fill := charset[rng.Intn(26)]
		for i := range b {
			b[i] = fill
		}
	}
	return string(b)
}
