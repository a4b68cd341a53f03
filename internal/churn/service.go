// Package churn runs the scoring pipeline for one member: feature
// extraction, probability estimation, tier classification and advice.
package churn

import (
	"encoding/json"
	"time"

	"retainbot/internal/cache"
	"retainbot/internal/domain"
	"retainbot/internal/features"
	"retainbot/internal/predictor"
)

// EstimateTTL bounds how long a churn estimate is served from cache.
const EstimateTTL = 60 * time.Minute

type Service struct {
	store     features.RecordStore
	predictor *predictor.Predictor
	cache     cache.Cache
	now       func() time.Time
}

func NewService(store features.RecordStore, pred *predictor.Predictor, c cache.Cache) *Service {
	return &Service{store: store, predictor: pred, cache: c, now: time.Now}
}

// Estimate scores one member, serving a cached estimate when fresh. The
// member must exist; everything else degrades to defaults.
func (s *Service) Estimate(memberID int64) (domain.ChurnEstimate, error) {
	key := cache.Key("churn_estimate", memberID)
	blob, err := cache.GetOrCompute(s.cache, key, EstimateTTL, func() ([]byte, error) {
		est, err := s.compute(memberID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(est)
	})
	if err != nil {
		return domain.ChurnEstimate{}, err
	}

	var est domain.ChurnEstimate
	if err := json.Unmarshal(blob, &est); err != nil {
		// Unexpected cache payload; fall back to a fresh computation.
		return s.compute(memberID)
	}
	return est, nil
}

// Refresh recomputes the estimate and overwrites the cached entry.
func (s *Service) Refresh(memberID int64) (domain.ChurnEstimate, error) {
	est, err := s.compute(memberID)
	if err != nil {
		return domain.ChurnEstimate{}, err
	}
	if s.cache != nil {
		if blob, err := json.Marshal(est); err == nil {
			s.cache.Set(cache.Key("churn_estimate", memberID), blob, EstimateTTL)
		}
	}
	return est, nil
}

// EstimateMember scores an already loaded member record without touching the
// cache. Used by the cohort scan, which visits every member anyway.
func (s *Service) EstimateMember(member domain.Member) (domain.ChurnEstimate, error) {
	f, err := features.ExtractMember(s.store, member, s.now().UTC())
	if err != nil {
		return domain.ChurnEstimate{}, err
	}
	return s.estimateFromFeatures(member.ID, f), nil
}

func (s *Service) compute(memberID int64) (domain.ChurnEstimate, error) {
	f, err := features.ExtractForMember(s.store, memberID, s.now().UTC())
	if err != nil {
		return domain.ChurnEstimate{}, err
	}
	return s.estimateFromFeatures(memberID, f), nil
}

func (s *Service) estimateFromFeatures(memberID int64, f domain.FeatureVector) domain.ChurnEstimate {
	prob := s.predictor.EstimateProbability(f)
	tier := domain.ClassifyRisk(prob)
	factors := domain.RiskFactors(f)
	return domain.ChurnEstimate{
		MemberID:        memberID,
		Probability:     prob,
		Tier:            tier,
		Factors:         factors,
		Recommendations: domain.Recommendations(tier, factors),
		GeneratedAt:     s.now().UTC(),
	}
}
