package orchestrators

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mergington/internal/adapters/email"
	"mergington/internal/domain/account"
)

// AccountStoreForReset defines the account store interface needed by the
// password reset orchestrators.
type AccountStoreForReset interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ResetTokenStore defines the token store interface needed here.
type ResetTokenStore interface {
	Save(ctx context.Context, t account.ResetToken) error
	GetByToken(ctx context.Context, token string) (account.ResetToken, error)
	InvalidateForAccount(ctx context.Context, accountID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// RequestPasswordResetInput carries input for requesting a reset link.
type RequestPasswordResetInput struct {
	Username string
	Email    string // where the reset link is delivered
	BaseURL  string // public base URL used to build the link
}

// PasswordResetDeps holds dependencies for the password reset flow.
type PasswordResetDeps struct {
	AccountStore AccountStoreForReset
	TokenStore   ResetTokenStore
	EmailSender  email.Sender
	EmailFrom    string
}

// ExecuteRequestPasswordReset creates a one-hour reset token and emails it.
// An unknown username is reported as success to the caller so the endpoint
// does not leak which accounts exist; the real outcome is logged.
// POST: At most one new token is stored; prior tokens stay valid until used
// or expired
func ExecuteRequestPasswordReset(ctx context.Context, input RequestPasswordResetInput, deps PasswordResetDeps) error {
	acct, err := deps.AccountStore.GetByUsername(ctx, input.Username)
	if err != nil {
		slog.Info("auth_event", "event", "reset_requested", "username", input.Username, "reason", "not_found")
		return nil
	}

	tokenValue, err := generateResetToken()
	if err != nil {
		return err
	}

	now := time.Now()
	token := account.ResetToken{
		ID:        uuid.New().String(),
		AccountID: acct.ID,
		Token:     tokenValue,
		ExpiresAt: now.Add(account.ResetTokenTTL),
		CreatedAt: now,
	}
	if err := deps.TokenStore.Save(ctx, token); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", input.BaseURL, tokenValue)
	_, err = deps.EmailSender.Send(ctx, email.SendRequest{
		From:    deps.EmailFrom,
		To:      []string{input.Email},
		Subject: "Mergington High School password reset",
		HTML: fmt.Sprintf("<p>Hello %s,</p><p>A password reset was requested for your account. The link below is valid for one hour.</p><p><a href=%q>Reset your password</a></p>",
			acct.DisplayName, link),
	})
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "reset_requested", "username", input.Username)
	return nil
}

// ResetPasswordInput carries input for redeeming a reset token.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// ExecuteResetPassword redeems a token and sets a new password.
// PRE: Token was issued by ExecuteRequestPasswordReset
// POST: Password is updated and every token for the account is invalidated
func ExecuteResetPassword(ctx context.Context, input ResetPasswordInput, deps PasswordResetDeps) error {
	token, err := deps.TokenStore.GetByToken(ctx, input.Token)
	if err != nil || token.Used {
		return account.ErrTokenInvalid
	}
	if token.IsExpired(time.Now()) {
		return account.ErrTokenExpired
	}

	acct, err := deps.AccountStore.GetByID(ctx, token.AccountID)
	if err != nil {
		return account.ErrTokenInvalid
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return err
	}
	acct.ResetFailedLogins()
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}
	if err := deps.TokenStore.InvalidateForAccount(ctx, acct.ID); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_reset", "username", acct.Username)
	return nil
}

// ExecutePurgeResetTokens removes expired reset tokens. Run periodically.
// POST: No token with a past expiry remains
func ExecutePurgeResetTokens(ctx context.Context, deps PasswordResetDeps) error {
	n, err := deps.TokenStore.DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("auth_event", "event", "reset_tokens_purged", "count", n)
	}
	return nil
}

func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
