package domain

type RiskTier string

const (
	TierLow    RiskTier = "low"
	TierMedium RiskTier = "medium"
	TierHigh   RiskTier = "high"
)

// Tier cutoffs are fixed; callers needing different cutoffs post-process.
const (
	HighRiskThreshold   = 0.70
	MediumRiskThreshold = 0.40
)

func ClassifyRisk(probability float64) RiskTier {
	switch {
	case probability >= HighRiskThreshold:
		return TierHigh
	case probability >= MediumRiskThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Rule thresholds shared by the heuristic score, the risk-factor labels and
// the synthetic-data label propensity. Keeping one table prevents the scoring
// and generation paths from drifting apart.
const (
	lowFrequencyCutoff      = 1.0
	reducedFrequencyCutoff  = 2.0
	modestFrequencyCutoff   = 3.0
	longAbsenceDays         = 14.0
	veryLongAbsenceDays     = 30.0
	shortAbsenceDays        = 7.0
	shortSessionMinutes     = 30.0
	modestSessionMinutes    = 45.0
	onboardingPeriodDays    = 90.0
	declineFrequencyCutoff  = reducedFrequencyCutoff
	syntheticBasePropensity = 0.10
)

// HeuristicScore is the rule-based churn probability used while no trained
// model exists. Rules apply independently, sum, and clamp to [0,1]. An absent
// feature contributes nothing.
func HeuristicScore(f FeatureVector) float64 {
	score := 0.0

	if freq, ok := f.Lookup(FeatWeeklyFrequency); ok {
		switch {
		case freq < lowFrequencyCutoff:
			score += 0.3
		case freq < reducedFrequencyCutoff:
			score += 0.2
		case freq < modestFrequencyCutoff:
			score += 0.1
		}
	}

	if days, ok := f.Lookup(FeatDaysSinceLastVisit); ok {
		switch {
		case days > veryLongAbsenceDays:
			score += 0.4
		case days > longAbsenceDays:
			score += 0.3
		case days > shortAbsenceDays:
			score += 0.1
		}
	}

	if avg, ok := f.Lookup(FeatAvgSessionMinutes); ok {
		switch {
		case avg < shortSessionMinutes:
			score += 0.2
		case avg < modestSessionMinutes:
			score += 0.1
		}
	}

	enrolled, okEnrolled := f.Lookup(FeatDaysEnrolled)
	freq, okFreq := f.Lookup(FeatWeeklyFrequency)
	if okEnrolled && okFreq && enrolled > onboardingPeriodDays && freq < declineFrequencyCutoff {
		score += 0.2
	}

	if score > 1 {
		score = 1
	}
	return score
}

// SyntheticChurnPropensity is the probability that a generated training row
// is labeled churned. It reuses the heuristic rule table on top of a small
// base rate.
func SyntheticChurnPropensity(f FeatureVector) float64 {
	p := syntheticBasePropensity + HeuristicScore(f)
	if p > 1 {
		p = 1
	}
	return p
}

// Risk factor labels, emitted in this fixed order.
const (
	FactorLowWeeklyFrequency    = "low weekly frequency"
	FactorLongAbsence           = "long absence"
	FactorShortSessions         = "short sessions"
	FactorPostOnboardingDecline = "post-onboarding decline"
)

// RiskFactors derives human-readable risk factor labels from a feature
// vector. Rules are evaluated independently and in a fixed order so the
// output is deterministic.
func RiskFactors(f FeatureVector) []string {
	var factors []string
	if f.Value(FeatWeeklyFrequency) < lowFrequencyCutoff {
		factors = append(factors, FactorLowWeeklyFrequency)
	}
	if f.Value(FeatDaysSinceLastVisit) > longAbsenceDays {
		factors = append(factors, FactorLongAbsence)
	}
	if f.Value(FeatAvgSessionMinutes) < shortSessionMinutes {
		factors = append(factors, FactorShortSessions)
	}
	if f.Value(FeatDaysEnrolled) > onboardingPeriodDays && f.Value(FeatWeeklyFrequency) < declineFrequencyCutoff {
		factors = append(factors, FactorPostOnboardingDecline)
	}
	return factors
}

var tierRecommendations = map[RiskTier][]string{
	TierHigh: {
		"Immediate outreach from the retention team",
		"Offer a free fitness assessment",
		"Propose a discount or loyalty benefit",
	},
	TierMedium: {
		"Schedule a conversation with a personal trainer",
		"Invite to group classes",
		"Send motivational tips",
	},
	TierLow: {
		"Keep engagement with motivational content",
		"Congratulate on consistency",
	},
}

var factorRecommendations = map[string]string{
	FactorLowWeeklyFrequency: "Build a more flexible workout plan",
	FactorLongAbsence:        "Reach out to check how they are doing",
	FactorShortSessions:      "Suggest more dynamic and varied workouts",
}

// Recommendations returns the tier's base recommendations followed by one
// extra line per detected factor, in factor order, with duplicates removed.
func Recommendations(tier RiskTier, factors []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(rec string) {
		if rec == "" || seen[rec] {
			return
		}
		seen[rec] = true
		out = append(out, rec)
	}
	for _, rec := range tierRecommendations[tier] {
		add(rec)
	}
	for _, factor := range factors {
		add(factorRecommendations[factor])
	}
	return out
}
