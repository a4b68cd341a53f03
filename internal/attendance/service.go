// Package attendance covers the check-in/check-out flow and per-member
// frequency summaries.
package attendance

import (
	"encoding/json"
	"math"
	"time"

	"retainbot/internal/cache"
	"retainbot/internal/domain"
)

// FrequencyTTL bounds how long a frequency summary is served from cache.
const FrequencyTTL = 15 * time.Minute

const recentEventLimit = 10

type Store interface {
	GetMember(id int64) (domain.Member, error)
	ListEventsByMember(memberID int64) ([]domain.AttendanceEvent, error)
	CheckIn(memberID int64, entryAt time.Time) (domain.AttendanceEvent, error)
	CheckOut(eventID int64, exitAt time.Time) (domain.AttendanceEvent, error)
}

type Service struct {
	store Store
	cache cache.Cache
	now   func() time.Time
}

func NewService(store Store, c cache.Cache) *Service {
	return &Service{store: store, cache: c, now: time.Now}
}

// CheckIn opens a visit. The store enforces that the member exists, is
// active, and has no other open visit.
func (s *Service) CheckIn(memberID int64) (domain.AttendanceEvent, error) {
	return s.store.CheckIn(memberID, s.now().UTC())
}

// CheckOut closes a visit, stamping the exit time and derived duration.
func (s *Service) CheckOut(eventID int64) (domain.AttendanceEvent, error) {
	return s.store.CheckOut(eventID, s.now().UTC())
}

// FrequencySummary returns attendance aggregates for one member, served from
// cache when fresh.
func (s *Service) FrequencySummary(memberID int64) (domain.FrequencySummary, error) {
	key := cache.Key("frequency_summary", memberID)
	blob, err := cache.GetOrCompute(s.cache, key, FrequencyTTL, func() ([]byte, error) {
		summary, err := s.computeSummary(memberID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(summary)
	})
	if err != nil {
		return domain.FrequencySummary{}, err
	}

	var summary domain.FrequencySummary
	if err := json.Unmarshal(blob, &summary); err != nil {
		// Unexpected cache payload; fall back to a fresh computation.
		return s.computeSummary(memberID)
	}
	return summary, nil
}

// RefreshFrequencySummary recomputes the summary and overwrites the cached
// entry. Used after new attendance lands.
func (s *Service) RefreshFrequencySummary(memberID int64) (domain.FrequencySummary, error) {
	summary, err := s.computeSummary(memberID)
	if err != nil {
		return domain.FrequencySummary{}, err
	}
	if s.cache != nil {
		if blob, err := json.Marshal(summary); err == nil {
			s.cache.Set(cache.Key("frequency_summary", memberID), blob, FrequencyTTL)
		}
	}
	return summary, nil
}

func (s *Service) computeSummary(memberID int64) (domain.FrequencySummary, error) {
	member, err := s.store.GetMember(memberID)
	if err != nil {
		return domain.FrequencySummary{}, err
	}
	events, err := s.store.ListEventsByMember(memberID)
	if err != nil {
		return domain.FrequencySummary{}, err
	}

	now := s.now().UTC()
	summary := domain.FrequencySummary{
		MemberID:    memberID,
		TotalVisits: len(events),
	}

	last30 := now.AddDate(0, 0, -30)
	last7 := now.AddDate(0, 0, -7)
	var totalMinutes, closed int
	for _, e := range events {
		if !e.EntryAt.Before(last30) {
			summary.VisitsLast30Days++
		}
		if !e.EntryAt.Before(last7) {
			summary.VisitsLast7Days++
		}
		if e.DurationMinutes != nil {
			totalMinutes += *e.DurationMinutes
			closed++
		}
	}
	if closed > 0 {
		summary.AvgSessionMinutes = float64(totalMinutes) / float64(closed)
	}

	weeks := math.Max(1, now.Sub(member.EnrolledAt).Hours()/24/7)
	summary.WeeklyAverage = float64(len(events)) / weeks

	if len(events) > 0 {
		last := events[len(events)-1].EntryAt
		summary.LastVisit = &last

		start := len(events) - recentEventLimit
		if start < 0 {
			start = 0
		}
		summary.RecentEvents = events[start:]
	}

	return summary, nil
}
