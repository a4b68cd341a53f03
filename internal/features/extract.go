// Package features derives model inputs from raw attendance history, both
// for single-member inference and for bulk training snapshots.
package features

import (
	"math"
	"time"

	"retainbot/internal/domain"
)

// WindowDays is the historical span behavioral features are computed over.
// LabelWindowDays is the forward span that decides the churn outcome when
// building training labels. Both are fixed by the model contract.
const (
	WindowDays      = 90
	LabelWindowDays = 90
)

// Extract computes the fixed feature schema for one member from the events
// inside the feature window. A missing plan yields zero plan features rather
// than an error.
func Extract(member domain.Member, events []domain.AttendanceEvent, plan *domain.Plan, asOf time.Time, windowDays int) domain.FeatureVector {
	f := domain.NewFeatureVector()

	weeks := math.Max(1, float64(windowDays)/7)
	f.Set(domain.FeatWeeklyFrequency, float64(len(events))/weeks)

	if len(events) == 0 {
		f.Set(domain.FeatDaysSinceLastVisit, domain.NoVisitSentinel)
	} else {
		last := events[0].EntryAt
		for _, e := range events[1:] {
			if e.EntryAt.After(last) {
				last = e.EntryAt
			}
		}
		f.Set(domain.FeatDaysSinceLastVisit, daysBetween(last, asOf))
	}

	var totalMinutes, closed int
	for _, e := range events {
		if e.DurationMinutes != nil {
			totalMinutes += *e.DurationMinutes
			closed++
		}
	}
	if closed > 0 {
		f.Set(domain.FeatAvgSessionMinutes, float64(totalMinutes)/float64(closed))
	} else {
		f.Set(domain.FeatAvgSessionMinutes, 0)
	}

	if plan != nil {
		f.Set(domain.FeatPlanPrice, plan.Price)
		f.Set(domain.FeatPlanDurationMonths, float64(plan.DurationMonths))
	} else {
		f.Set(domain.FeatPlanPrice, 0)
		f.Set(domain.FeatPlanDurationMonths, 0)
	}

	f.Set(domain.FeatDaysEnrolled, daysBetween(member.EnrolledAt, asOf))

	return f
}

func daysBetween(from, to time.Time) float64 {
	return math.Floor(to.Sub(from).Hours() / 24)
}
