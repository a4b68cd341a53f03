package domain

import (
	"reflect"
	"testing"
)

func TestFeatureSchemaOrder(t *testing.T) {
	want := []string{
		FeatWeeklyFrequency,
		FeatDaysSinceLastVisit,
		FeatAvgSessionMinutes,
		FeatPlanPrice,
		FeatPlanDurationMonths,
		FeatDaysEnrolled,
	}
	if got := FeatureNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("feature schema order changed: %v", got)
	}
}

func TestFeatureVectorSliceFollowsSchema(t *testing.T) {
	f := NewFeatureVector()
	f.Set(FeatWeeklyFrequency, 2.5)
	f.Set(FeatDaysEnrolled, 120)

	got := f.Slice()
	want := []float64{2.5, 0, 0, 0, 0, 120}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Slice() = %v, want %v", got, want)
	}
}

func TestFeatureVectorLookup(t *testing.T) {
	f := NewFeatureVector()
	f.Set(FeatPlanPrice, 80)

	if v, ok := f.Lookup(FeatPlanPrice); !ok || v != 80 {
		t.Fatalf("Lookup set feature = (%v, %v)", v, ok)
	}
	if _, ok := f.Lookup(FeatAvgSessionMinutes); ok {
		t.Fatal("Lookup reported an unset feature as present")
	}
	if v := f.Value(FeatAvgSessionMinutes); v != 0 {
		t.Fatalf("Value on unset feature = %v, want 0", v)
	}
}
