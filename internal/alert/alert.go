// Package alert delivers retention alerts to the team.
package alert

import (
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack"

	"retainbot/internal/domain"
)

// Sink receives one tier bucket of at-risk members per dispatch.
type Sink interface {
	Dispatch(members []domain.RiskMember, tier domain.RiskTier) error
}

// SlackSink posts retention alerts to a channel.
type SlackSink struct {
	api       *slack.Client
	channelID string
}

func NewSlackSink(api *slack.Client, channelID string) *SlackSink {
	return &SlackSink{api: api, channelID: channelID}
}

func (s *SlackSink) Dispatch(members []domain.RiskMember, tier domain.RiskTier) error {
	if len(members) == 0 {
		return nil
	}
	msg := FormatAlertMessage(members, tier)
	_, _, err := s.api.PostMessage(s.channelID, slack.MsgOptionText(msg, false))
	if err != nil {
		return fmt.Errorf("post retention alert: %w", err)
	}
	log.Printf("alert: dispatched %d %s-risk members to %s", len(members), tier, s.channelID)
	return nil
}

// FormatAlertMessage renders one tier bucket as a channel message.
func FormatAlertMessage(members []domain.RiskMember, tier domain.RiskTier) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Retention alert: %d member(s) at %s churn risk*\n", len(members), tier)
	for _, m := range members {
		fmt.Fprintf(&b, "• %s (ID %d): churn probability %.0f%%\n", m.Name, m.MemberID, m.Probability*100)
	}
	b.WriteString("Please reach out to the members above.")
	return b.String()
}

// LogSink writes alerts to the process log. Used when no Slack channel is
// configured so alert dispatch still has an observable outcome.
type LogSink struct{}

func (LogSink) Dispatch(members []domain.RiskMember, tier domain.RiskTier) error {
	for _, m := range members {
		log.Printf("alert [%s]: member %s (ID %d) churn probability %.2f%%", tier, m.Name, m.MemberID, m.Probability*100)
	}
	return nil
}
