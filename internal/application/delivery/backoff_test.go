package delivery

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_Bounds(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	base := 2.0

	for n := 1; n <= 5; n++ {
		got := NextRetryAt(now, base, n, 0, nil)
		want := now.Add(time.Duration(math.Pow(base, float64(n)) * float64(time.Second)))
		assert.Equal(t, want, got, "zero jitter must be exact base^n")
	}
}

func TestBackoff_JitterWithinSpecBound(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	base := 2.0
	rng := rand.New(rand.NewSource(42))

	for n := 1; n <= 5; n++ {
		got := NextRetryAt(now, base, n, 0.2, rng)
		delta := got.Sub(now).Seconds()
		lower := math.Pow(base, float64(n)) * 0.8
		upper := math.Pow(base, float64(n)) * 1.2
		assert.GreaterOrEqual(t, delta, math.Pow(base, float64(n)), "jittered backoff never goes below the base")
		assert.LessOrEqual(t, delta, upper+1e-9)
		_ = lower
	}
}

func TestBackoff_DefaultsMatchSpecExample(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	expected := []float64{2, 4, 8, 16, 32}

	for i, want := range expected {
		n := i + 1
		got := NextRetryAt(now, 2.0, n, 0, nil)
		assert.Equal(t, want, got.Sub(now).Seconds())
	}
}
