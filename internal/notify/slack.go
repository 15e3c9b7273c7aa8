// Package notify posts a Slack alert after a pipeline run when calls were
// flagged for manual review or scored below the quality threshold.
// Notification failures are logged and never fail the run.
package notify

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"

	"github.com/valentinaclaros/evaluation-system/internal/models"
)

// maxListedCalls caps how many flagged calls one alert enumerates.
const maxListedCalls = 10

// Notifier posts run alerts to a Slack channel.
type Notifier struct {
	api     *slack.Client
	channel string
	logger  *logrus.Logger
}

// NewNotifier creates a Notifier posting to the given channel.
func NewNotifier(token, channel string, logger *logrus.Logger) *Notifier {
	return &Notifier{
		api:     slack.New(token),
		channel: channel,
		logger:  logger,
	}
}

// NotifyFlagged posts a summary of the flagged calls of one run. It does
// nothing when the list is empty.
func (n *Notifier) NotifyFlagged(runID string, flagged []models.AuditResult) {
	if len(flagged) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, ":rotating_light: *Auditoría de llamadas*: %d llamadas requieren atención (corrida %s)\n", len(flagged), runID)
	for i, res := range flagged {
		if i == maxListedCalls {
			fmt.Fprintf(&b, "... y %d más\n", len(flagged)-maxListedCalls)
			break
		}
		fmt.Fprintf(&b, "• %s | puntaje %d (%s)", res.CallSID, res.QualityScore, res.QualityCategory)
		if res.ForbiddenWordsCount > 0 {
			fmt.Fprintf(&b, " | %d palabras prohibidas", res.ForbiddenWordsCount)
		}
		b.WriteString("\n")
	}

	_, _, err := n.api.PostMessage(n.channel, slack.MsgOptionText(b.String(), false))
	if err != nil {
		n.logger.WithError(err).WithField("channel", n.channel).Error("Failed to post Slack alert")
		return
	}

	n.logger.WithFields(logrus.Fields{
		"run_id":  runID,
		"flagged": len(flagged),
	}).Info("Slack alert posted")
}
