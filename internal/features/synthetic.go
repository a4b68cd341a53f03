package features

import (
	"math"
	"math/rand"

	"retainbot/internal/domain"
)

// Synthetic feature distributions. They only need to produce plausible
// spreads for cold-start training, not realism.
var (
	syntheticPlanPrices    = []float64{50, 80, 120, 200}
	syntheticPlanDurations = []float64{1, 6, 12}
)

// GenerateSynthetic produces n labeled rows drawn from fixed distributions,
// with the churn label assigned probabilistically from the shared heuristic
// rule table. The same seed yields the same dataset.
func GenerateSynthetic(n int, seed int64) []domain.TrainingExample {
	r := rand.New(rand.NewSource(seed))

	rows := make([]domain.TrainingExample, 0, n)
	for i := 0; i < n; i++ {
		f := domain.NewFeatureVector()

		// Gamma(shape=2, scale=1.5): mean weekly frequency around 3.
		f.Set(domain.FeatWeeklyFrequency, gamma2(r, 1.5))
		// Exponential with mean 7 days since the last visit.
		f.Set(domain.FeatDaysSinceLastVisit, math.Floor(r.ExpFloat64()*7))
		// Normal(60, 20) session length, floored at zero.
		f.Set(domain.FeatAvgSessionMinutes, math.Max(0, r.NormFloat64()*20+60))
		f.Set(domain.FeatPlanPrice, syntheticPlanPrices[r.Intn(len(syntheticPlanPrices))])
		f.Set(domain.FeatPlanDurationMonths, syntheticPlanDurations[r.Intn(len(syntheticPlanDurations))])
		f.Set(domain.FeatDaysEnrolled, math.Floor(30+r.Float64()*335))

		label := 0
		if r.Float64() < domain.SyntheticChurnPropensity(f) {
			label = 1
		}
		rows = append(rows, domain.TrainingExample{Features: f, Label: label})
	}
	return rows
}

// gamma2 samples Gamma(shape=2, scale) as the sum of two exponentials.
func gamma2(r *rand.Rand, scale float64) float64 {
	return scale * (r.ExpFloat64() + r.ExpFloat64())
}
