package domain

import "time"

type Plan struct {
	ID             int64
	Name           string
	Price          float64
	DurationMonths int
	CreatedAt      time.Time
}

type Member struct {
	ID         int64
	Name       string
	Email      string
	Phone      string
	EnrolledAt time.Time
	PlanID     int64
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AttendanceEvent is one check-in/check-out pair. ExitAt is nil while the
// visit is still open; DurationMinutes is derived when the visit closes.
type AttendanceEvent struct {
	ID              int64
	MemberID        int64
	EntryAt         time.Time
	ExitAt          *time.Time
	DurationMinutes *int
	CreatedAt       time.Time
}

func (e AttendanceEvent) Closed() bool {
	return e.ExitAt != nil
}

// ChurnEstimate is the output of one inference pass. It is never mutated
// after creation.
type ChurnEstimate struct {
	MemberID        int64     `json:"member_id"`
	Probability     float64   `json:"probability"`
	Tier            RiskTier  `json:"tier"`
	Factors         []string  `json:"factors"`
	Recommendations []string  `json:"recommendations"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// RiskMember is the shape handed to the alert sink for one at-risk member.
type RiskMember struct {
	MemberID    int64   `json:"member_id"`
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

// FrequencySummary aggregates a member's attendance history.
type FrequencySummary struct {
	MemberID          int64             `json:"member_id"`
	TotalVisits       int               `json:"total_visits"`
	VisitsLast30Days  int               `json:"visits_last_30_days"`
	VisitsLast7Days   int               `json:"visits_last_7_days"`
	WeeklyAverage     float64           `json:"weekly_average"`
	LastVisit         *time.Time        `json:"last_visit,omitempty"`
	AvgSessionMinutes float64           `json:"avg_session_minutes"`
	RecentEvents      []AttendanceEvent `json:"recent_events,omitempty"`
}

// TrainingExample is one labeled row of a training snapshot. Label is 1 when
// the member churned in the window following the feature window.
type TrainingExample struct {
	MemberID int64
	Features FeatureVector
	Label    int
}
