package handlers

import (
	"context"
	"log/slog"

	"github.com/serenvista/portal/internal/logger"
)

// Mailer sends transactional email. The real implementation wraps the email
// provider's SDK; the portal core only needs this call.
type Mailer interface {
	Send(ctx context.Context, to, subject string) error
}

// AnalyticsSink records a usage-analytics event for a user.
type AnalyticsSink interface {
	Record(ctx context.Context, userID string) error
}

// SubscriptionChecker re-checks a user's subscription with the billing
// provider.
type SubscriptionChecker interface {
	Check(ctx context.Context, userID string) error
}

// Loopback is a stand-in collaborator that logs and succeeds. Used in local
// development when no provider credentials are present.
type Loopback struct {
	log *slog.Logger
}

// NewLoopback creates a loopback collaborator.
func NewLoopback() *Loopback {
	return &Loopback{log: logger.NewLogger("loopback")}
}

func (l *Loopback) Send(ctx context.Context, to, subject string) error {
	l.log.Info("loopback email send", "subject", subject)
	return nil
}

func (l *Loopback) Record(ctx context.Context, userID string) error {
	l.log.Info("loopback analytics record", "user_id", userID)
	return nil
}

func (l *Loopback) Check(ctx context.Context, userID string) error {
	l.log.Info("loopback subscription check", "user_id", userID)
	return nil
}
