package attendance

import (
	"errors"
	"testing"
	"time"

	"retainbot/internal/cache"
	"retainbot/internal/domain"
)

type fakeStore struct {
	members map[int64]domain.Member
	events  map[int64][]domain.AttendanceEvent

	listCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members: make(map[int64]domain.Member),
		events:  make(map[int64][]domain.AttendanceEvent),
	}
}

func (s *fakeStore) GetMember(id int64) (domain.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return domain.Member{}, domain.ErrMemberNotFound
	}
	return m, nil
}

func (s *fakeStore) ListEventsByMember(memberID int64) ([]domain.AttendanceEvent, error) {
	s.listCalls++
	return s.events[memberID], nil
}

func (s *fakeStore) CheckIn(memberID int64, entryAt time.Time) (domain.AttendanceEvent, error) {
	if _, ok := s.members[memberID]; !ok {
		return domain.AttendanceEvent{}, domain.ErrMemberNotFound
	}
	e := domain.AttendanceEvent{ID: int64(len(s.events[memberID]) + 1), MemberID: memberID, EntryAt: entryAt}
	s.events[memberID] = append(s.events[memberID], e)
	return e, nil
}

func (s *fakeStore) CheckOut(eventID int64, exitAt time.Time) (domain.AttendanceEvent, error) {
	for memberID, events := range s.events {
		for i, e := range events {
			if e.ID != eventID {
				continue
			}
			if e.Closed() {
				return domain.AttendanceEvent{}, domain.ErrVisitClosed
			}
			d := int(exitAt.Sub(e.EntryAt).Minutes())
			e.ExitAt = &exitAt
			e.DurationMinutes = &d
			s.events[memberID][i] = e
			return e, nil
		}
	}
	return domain.AttendanceEvent{}, domain.ErrEventNotFound
}

func (s *fakeStore) addVisit(memberID int64, entry time.Time, minutes int) {
	exit := entry.Add(time.Duration(minutes) * time.Minute)
	s.events[memberID] = append(s.events[memberID], domain.AttendanceEvent{
		ID:              int64(len(s.events[memberID]) + 1),
		MemberID:        memberID,
		EntryAt:         entry,
		ExitAt:          &exit,
		DurationMinutes: &minutes,
	})
}

func TestCheckInCheckOutFlow(t *testing.T) {
	store := newFakeStore()
	store.members[1] = domain.Member{ID: 1, Active: true, EnrolledAt: time.Now().AddDate(0, 0, -30)}
	svc := NewService(store, nil)

	event, err := svc.CheckIn(1)
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if event.Closed() {
		t.Fatal("fresh check-in should be open")
	}

	closed, err := svc.CheckOut(event.ID)
	if err != nil {
		t.Fatalf("CheckOut failed: %v", err)
	}
	if !closed.Closed() || closed.DurationMinutes == nil {
		t.Fatalf("checkout should close the visit, got %+v", closed)
	}
}

func TestFrequencySummaryAggregates(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeStore()
	store.members[1] = domain.Member{ID: 1, Active: true, EnrolledAt: now.AddDate(0, 0, -70)}

	// Two visits in the last week, one more in the last month, one older.
	store.addVisit(1, now.AddDate(0, 0, -60), 40)
	store.addVisit(1, now.AddDate(0, 0, -20), 50)
	store.addVisit(1, now.AddDate(0, 0, -5), 60)
	store.addVisit(1, now.AddDate(0, 0, -2), 70)

	svc := NewService(store, cache.NewMemory())
	summary, err := svc.FrequencySummary(1)
	if err != nil {
		t.Fatalf("FrequencySummary failed: %v", err)
	}

	if summary.TotalVisits != 4 {
		t.Fatalf("TotalVisits = %d, want 4", summary.TotalVisits)
	}
	if summary.VisitsLast30Days != 3 {
		t.Fatalf("VisitsLast30Days = %d, want 3", summary.VisitsLast30Days)
	}
	if summary.VisitsLast7Days != 2 {
		t.Fatalf("VisitsLast7Days = %d, want 2", summary.VisitsLast7Days)
	}
	if summary.AvgSessionMinutes != 55 {
		t.Fatalf("AvgSessionMinutes = %v, want 55", summary.AvgSessionMinutes)
	}
	if summary.LastVisit == nil {
		t.Fatal("LastVisit should be set")
	}
	if summary.WeeklyAverage <= 0 {
		t.Fatalf("WeeklyAverage = %v, want > 0", summary.WeeklyAverage)
	}
	if len(summary.RecentEvents) != 4 {
		t.Fatalf("RecentEvents has %d entries, want 4", len(summary.RecentEvents))
	}
}

func TestFrequencySummaryServedFromCache(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeStore()
	store.members[1] = domain.Member{ID: 1, Active: true, EnrolledAt: now.AddDate(0, 0, -30)}
	store.addVisit(1, now.AddDate(0, 0, -1), 60)

	svc := NewService(store, cache.NewMemory())
	for i := 0; i < 3; i++ {
		if _, err := svc.FrequencySummary(1); err != nil {
			t.Fatalf("FrequencySummary call %d failed: %v", i, err)
		}
	}
	if store.listCalls != 1 {
		t.Fatalf("store was read %d times, want 1 (cache hit)", store.listCalls)
	}
}

func TestRefreshFrequencySummaryOverwritesCache(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeStore()
	store.members[1] = domain.Member{ID: 1, Active: true, EnrolledAt: now.AddDate(0, 0, -30)}
	store.addVisit(1, now.AddDate(0, 0, -3), 60)

	svc := NewService(store, cache.NewMemory())
	first, err := svc.FrequencySummary(1)
	if err != nil {
		t.Fatalf("FrequencySummary failed: %v", err)
	}
	if first.TotalVisits != 1 {
		t.Fatalf("TotalVisits = %d, want 1", first.TotalVisits)
	}

	store.addVisit(1, now.AddDate(0, 0, -1), 60)

	// A plain read still sees the stale cached summary.
	stale, err := svc.FrequencySummary(1)
	if err != nil {
		t.Fatalf("FrequencySummary failed: %v", err)
	}
	if stale.TotalVisits != 1 {
		t.Fatalf("stale TotalVisits = %d, want 1", stale.TotalVisits)
	}

	refreshed, err := svc.RefreshFrequencySummary(1)
	if err != nil {
		t.Fatalf("RefreshFrequencySummary failed: %v", err)
	}
	if refreshed.TotalVisits != 2 {
		t.Fatalf("refreshed TotalVisits = %d, want 2", refreshed.TotalVisits)
	}

	after, err := svc.FrequencySummary(1)
	if err != nil {
		t.Fatalf("FrequencySummary failed: %v", err)
	}
	if after.TotalVisits != 2 {
		t.Fatalf("post-refresh TotalVisits = %d, want 2", after.TotalVisits)
	}
}

func TestFrequencySummaryUnknownMember(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	if _, err := svc.FrequencySummary(42); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}
