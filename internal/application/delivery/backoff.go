package delivery

import (
	"math"
	"math/rand"
	"time"
)

// NextRetryAt computes now + base^attemptNumber seconds. When jitter > 0,
// the result is uniformly spread across [base^n, base^n * (1+jitter)].
func NextRetryAt(now time.Time, base float64, attemptNumber int, jitter float64, rng *rand.Rand) time.Time {
	backoff := math.Pow(base, float64(attemptNumber))
	if jitter > 0 {
		if rng == nil {
			rng = rand.New(rand.NewSource(now.UnixNano()))
		}
		backoff += backoff * jitter * rng.Float64()
	}
	return now.Add(time.Duration(backoff * float64(time.Second)))
}
