package domain

// Feature names, in model input order. The order is part of the predictor
// contract and must not change between training and inference.
const (
	FeatWeeklyFrequency    = "weekly_frequency"
	FeatDaysSinceLastVisit = "days_since_last_visit"
	FeatAvgSessionMinutes  = "avg_session_minutes"
	FeatPlanPrice          = "plan_price"
	FeatPlanDurationMonths = "plan_duration_months"
	FeatDaysEnrolled       = "days_enrolled"
)

// NoVisitSentinel is the days_since_last_visit value for members with no
// attendance events in the window.
const NoVisitSentinel = 999

var featureSchema = []string{
	FeatWeeklyFrequency,
	FeatDaysSinceLastVisit,
	FeatAvgSessionMinutes,
	FeatPlanPrice,
	FeatPlanDurationMonths,
	FeatDaysEnrolled,
}

// FeatureNames returns the fixed feature schema in model input order.
func FeatureNames() []string {
	out := make([]string, len(featureSchema))
	copy(out, featureSchema)
	return out
}

// FeatureVector holds named numeric features. A feature that was never set
// contributes its zero default everywhere it is read; readers that care about
// the distinction use Lookup.
type FeatureVector struct {
	vals map[string]float64
}

func NewFeatureVector() FeatureVector {
	return FeatureVector{vals: make(map[string]float64, len(featureSchema))}
}

func (f FeatureVector) Set(name string, value float64) {
	f.vals[name] = value
}

// Value returns the feature value, or 0 when the feature is absent.
func (f FeatureVector) Value(name string) float64 {
	return f.vals[name]
}

// Lookup returns the feature value and whether it was set.
func (f FeatureVector) Lookup(name string) (float64, bool) {
	v, ok := f.vals[name]
	return v, ok
}

// Slice returns the values in schema order, substituting 0 for absent
// features. This is the predictor's input representation.
func (f FeatureVector) Slice() []float64 {
	out := make([]float64, len(featureSchema))
	for i, name := range featureSchema {
		out[i] = f.vals[name]
	}
	return out
}
