package recombination

import (
	"math"
	"testing"
)

func TestUpperTailProbabilityNaNIsNotSignificant(t *testing.T) {
	if got := UpperTailProbability(5, 10, math.NaN()); got != 1 {
		t.Fatalf("got %v, want 1 for NaN rate", got)
	}
}

func TestUpperTailProbabilityNonPositiveKIsCertain(t *testing.T) {
	if got := UpperTailProbability(0, 10, 0.1); got != 1 {
		t.Fatalf("got %v, want 1 for k<=0", got)
	}
	if got := UpperTailProbability(-3, 10, 0.1); got != 1 {
		t.Fatalf("got %v, want 1 for negative k", got)
	}
}

func TestUpperTailProbabilityKAboveNIsImpossible(t *testing.T) {
	if got := UpperTailProbability(11, 10, 0.5); got != 0 {
		t.Fatalf("got %v, want 0 when k>n", got)
	}
}

func TestUpperTailProbabilityDegenerateRates(t *testing.T) {
	if got := UpperTailProbability(1, 10, 0); got != 0 {
		t.Fatalf("got %v, want 0 for p<=0", got)
	}
	if got := UpperTailProbability(1, 10, 1); got != 1 {
		t.Fatalf("got %v, want 1 for p>=1", got)
	}
}

func TestUpperTailProbabilityIsMonotonicInK(t *testing.T) {
	n, p := 200, 0.05
	prev := UpperTailProbability(1, n, p)
	for k := 2; k <= n; k += 5 {
		got := UpperTailProbability(k, n, p)
		if got > prev {
			t.Fatalf("P(X>=%d) = %v should not exceed P(X>=%d) = %v", k, got, k-5, prev)
		}
		prev = got
	}
}

func TestUpperTailProbabilityStaysInUnitInterval(t *testing.T) {
	cases := []struct {
		k, n int
		p    float64
	}{
		{5, 50, 0.1},
		{500, 1900, 0.1},  // exercises the exact incomplete-beta branch, n below the threshold
		{5000, 6000, 0.8}, // exercises the normal-approximation branch, n above the threshold
	}
	for _, c := range cases {
		got := UpperTailProbability(c.k, c.n, c.p)
		if got < 0 || got > 1 || math.IsNaN(got) {
			t.Errorf("UpperTailProbability(%d, %d, %v) = %v, want a value in [0,1]", c.k, c.n, c.p, got)
		}
	}
}

func TestUpperTailProbabilityLargeWindowUsesNormalApproximation(t *testing.T) {
	n := largeWindowThreshold + 500
	p := 0.01
	mean := float64(n) * p
	below := UpperTailProbability(int(mean)-10, n, p)
	above := UpperTailProbability(int(mean)+10, n, p)
	if below <= above {
		t.Fatalf("a count below the mean should be more likely to be exceeded than one above it: below=%v above=%v", below, above)
	}
}

func TestPoissonUpperTailDegenerateLambda(t *testing.T) {
	if got := poissonUpperTail(0, 0); got != 1 {
		t.Fatalf("got %v, want 1 when lambda<=0 and k<=0", got)
	}
	if got := poissonUpperTail(1, 0); got != 0 {
		t.Fatalf("got %v, want 0 when lambda<=0 and k>0", got)
	}
	if got := poissonUpperTail(0, 5); got != 1 {
		t.Fatalf("got %v, want 1 for k=0 regardless of lambda", got)
	}
}

func TestPoissonUpperTailIsMonotonicInK(t *testing.T) {
	lambda := 15.0
	prev := poissonUpperTail(1, lambda)
	for k := 2; k <= 40; k++ {
		got := poissonUpperTail(k, lambda)
		if got > prev+1e-9 {
			t.Fatalf("P(X>=%d) = %v should not exceed P(X>=%d) = %v", k, got, k-1, prev)
		}
		prev = got
	}
}

// TestPoissonUpperTailTracksBinomialApproximation pins poissonUpperTail's
// documented role as an alternate null-model approximation: for a large
// trial count and small success probability, the Poisson(lambda=n*p) upper
// tail and the exact binomial upper tail (UpperTailProbability, still below
// largeWindowThreshold here) should land within a generous tolerance of one
// another.
func TestPoissonUpperTailTracksBinomialApproximation(t *testing.T) {
	n, p, k := 1500, 0.01, 20
	binomial := UpperTailProbability(k, n, p)
	poisson := poissonUpperTail(k, float64(n)*p)
	if math.Abs(binomial-poisson) > 0.1 {
		t.Fatalf("binomial tail %v and Poisson approximation %v diverged by more than expected", binomial, poisson)
	}
}
