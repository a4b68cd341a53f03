package alert

import (
	"strings"
	"testing"

	"retainbot/internal/domain"
)

func TestFormatAlertMessage(t *testing.T) {
	members := []domain.RiskMember{
		{MemberID: 7, Name: "Ana Gomez", Probability: 0.82},
		{MemberID: 12, Name: "Li Wei", Probability: 0.74},
	}

	msg := FormatAlertMessage(members, domain.TierHigh)

	if !strings.Contains(msg, "2 member(s) at high churn risk") {
		t.Fatalf("missing header:\n%s", msg)
	}
	if !strings.Contains(msg, "Ana Gomez (ID 7): churn probability 82%") {
		t.Fatalf("missing first member line:\n%s", msg)
	}
	if !strings.Contains(msg, "Li Wei (ID 12): churn probability 74%") {
		t.Fatalf("missing second member line:\n%s", msg)
	}
	if !strings.Contains(msg, "reach out") {
		t.Fatalf("missing call to action:\n%s", msg)
	}
}

func TestLogSinkNeverFails(t *testing.T) {
	sink := LogSink{}
	if err := sink.Dispatch(nil, domain.TierHigh); err != nil {
		t.Fatalf("empty dispatch failed: %v", err)
	}
	members := []domain.RiskMember{{MemberID: 1, Name: "A", Probability: 0.5}}
	if err := sink.Dispatch(members, domain.TierMedium); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
}
