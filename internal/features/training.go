package features

import (
	"errors"
	"fmt"
	"log"
	"time"

	"retainbot/internal/domain"
)

// RecordStore is the slice of the record store the training-set builder and
// single-member extraction need.
type RecordStore interface {
	GetMember(id int64) (domain.Member, error)
	ListMembersEnrolledBefore(cutoff time.Time) ([]domain.Member, error)
	GetPlan(id int64) (domain.Plan, error)
	QueryEvents(memberID int64, from, to time.Time) ([]domain.AttendanceEvent, error)
	CountEvents(memberID int64, from, to time.Time) (int, error)
}

// ExtractForMember loads a member's recent window from the store and computes
// the feature vector. The member must exist; a missing plan is tolerated.
func ExtractForMember(store RecordStore, memberID int64, asOf time.Time) (domain.FeatureVector, error) {
	member, err := store.GetMember(memberID)
	if err != nil {
		return domain.FeatureVector{}, err
	}
	return ExtractMember(store, member, asOf)
}

// ExtractMember is ExtractForMember for an already loaded member record.
func ExtractMember(store RecordStore, member domain.Member, asOf time.Time) (domain.FeatureVector, error) {
	events, err := store.QueryEvents(member.ID, asOf.AddDate(0, 0, -WindowDays), asOf)
	if err != nil {
		return domain.FeatureVector{}, fmt.Errorf("query events for member %d: %w", member.ID, err)
	}

	var plan *domain.Plan
	if p, err := store.GetPlan(member.PlanID); err == nil {
		plan = &p
	} else if !errors.Is(err, domain.ErrPlanNotFound) {
		return domain.FeatureVector{}, fmt.Errorf("load plan %d: %w", member.PlanID, err)
	}

	return Extract(member, events, plan, asOf, WindowDays), nil
}

// CreateTrainingDataset builds a labeled snapshot over the lookback period.
// For each member enrolled by the start of the period, features come from the
// 90 days starting there and the label is 1 when the following 90 days hold
// no events. The two windows share a boundary and never overlap. Members
// whose feature+label span does not fit before asOf are excluded.
func CreateTrainingDataset(store RecordStore, asOf time.Time, lookbackMonths int) ([]domain.TrainingExample, error) {
	start := asOf.AddDate(0, 0, -lookbackMonths*30)
	featureEnd := start.AddDate(0, 0, WindowDays)
	labelEnd := featureEnd.AddDate(0, 0, LabelWindowDays)
	if labelEnd.After(asOf) {
		log.Printf("training window [%s, %s) extends past %s, no usable rows",
			start.Format("2006-01-02"), labelEnd.Format("2006-01-02"), asOf.Format("2006-01-02"))
		return nil, nil
	}

	members, err := store.ListMembersEnrolledBefore(start)
	if err != nil {
		return nil, fmt.Errorf("list members for training snapshot: %w", err)
	}

	var rows []domain.TrainingExample
	for _, member := range members {
		events, err := store.QueryEvents(member.ID, start, featureEnd)
		if err != nil {
			return nil, fmt.Errorf("query feature window for member %d: %w", member.ID, err)
		}

		var plan *domain.Plan
		if p, err := store.GetPlan(member.PlanID); err == nil {
			plan = &p
		} else if !errors.Is(err, domain.ErrPlanNotFound) {
			return nil, fmt.Errorf("load plan %d: %w", member.PlanID, err)
		}

		f := Extract(member, events, plan, featureEnd, WindowDays)

		future, err := store.CountEvents(member.ID, featureEnd, labelEnd)
		if err != nil {
			return nil, fmt.Errorf("count label window for member %d: %w", member.ID, err)
		}
		label := 0
		if future == 0 {
			label = 1
		}

		rows = append(rows, domain.TrainingExample{MemberID: member.ID, Features: f, Label: label})
	}
	return rows, nil
}
