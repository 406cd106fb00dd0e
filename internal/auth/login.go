package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// LoginGuard puts the attempt tracker in front of a credential check. A
// locked key is rejected before the password is looked at.
type LoginGuard struct {
	tracker *AttemptTracker
	checker CredentialChecker
}

func NewLoginGuard(tracker *AttemptTracker, checker CredentialChecker) *LoginGuard {
	return &LoginGuard{tracker: tracker, checker: checker}
}

func (g *LoginGuard) Login(ctx context.Context, email, password, ip string) (*Account, error) {
	if g.tracker.IsBlocked(email, ip) {
		return nil, ErrLocked
	}

	acc, err := g.checker.Check(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			if g.tracker.RecordFailure(email, ip) {
				slog.Warn("login locked out", "email", email, "ip", ip)
			}
		}
		return nil, err
	}

	g.tracker.ClearOnSuccess(email, ip)
	return acc, nil
}

// RetryAfter reports how long the key stays locked.
func (g *LoginGuard) RetryAfter(email, ip string) time.Duration {
	return g.tracker.RetryAfter(email, ip)
}
