package delivery

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/meridianfcu/stmtdelivery/internal/mailer"
)

const (
	// AlertSubject is fixed for every alert.
	AlertSubject = "Statement Delivery Method Update Alert"
	// alertFromName wraps the configured from-address.
	alertFromName = "Account Maintenance"
)

// Reasons reported when no mail goes out.
const (
	reasonNoFailures   = "No failures to report"
	reasonNoRecipients = "No email recipients"
	reasonDisabled     = "Email sending disabled"
	reasonLocalEnv     = "Email suppressed outside scheduler environment"
	reasonSent         = "Email Sent"
)

// SendNotificationEmail emails the alert when any row-level updates failed.
// It is a no-op without failures. The returned reason explains the decision;
// a non-nil error means the SMTP round trip itself failed and the run should
// abort.
func SendNotificationEmail(ctx context.Context, sc *ScriptContext, fails []Outcome) (sent bool, reason string, err error) {
	if len(fails) == 0 {
		return false, reasonNoFailures, nil
	}

	sent, reason, err = sendAlert(ctx, sc, fails)
	sc.log().Info("notification decision",
		slog.String("run_id", sc.RunID.String()),
		slog.Bool("sent", sent),
		slog.String("reason", reason))
	return sent, reason, err
}

func sendAlert(ctx context.Context, sc *ScriptContext, fails []Outcome) (bool, string, error) {
	recipients := sc.Params.Recipients
	if len(recipients) == 0 {
		return false, reasonNoRecipients, nil
	}
	// A configured test address diverts the alert away from the real list.
	if sc.Params.TestAddr != "" {
		recipients = []string{sc.Params.TestAddr}
	}
	if !sc.Params.SendEmail {
		return false, reasonDisabled, nil
	}
	if sc.LocalEnv {
		return false, reasonLocalEnv, nil
	}

	var body bytes.Buffer
	data := AlertData{
		RunID:       sc.RunID.String(),
		RunLabel:    sc.RunLabel(),
		GeneratedAt: time.Now(),
		Fails:       fails,
	}
	if err := sc.Template.Execute(&body, data); err != nil {
		return false, "", err
	}

	msg := mailer.Message{
		FromName: alertFromName,
		FromAddr: sc.Params.FromAddr,
		To:       recipients,
		Subject:  AlertSubject,
		HTMLBody: body.String(),
	}
	if err := sc.Mailer.Send(ctx, msg); err != nil {
		return false, "", err
	}
	return true, reasonSent, nil
}
