package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/campusnest/campusnest-api/internal/domain"
	"github.com/campusnest/campusnest-api/internal/email"
	"github.com/campusnest/campusnest-api/internal/repository"
	"github.com/campusnest/campusnest-api/internal/token"
)

// RegisterUsecase issues email-verification tokens for pending accounts:
// generate a fresh plaintext token, store only its hash, email the link.
type RegisterUsecase struct {
	users    repository.UserRepository
	tokens   repository.VerificationTokenRepository
	codec    *token.Codec
	email    email.Sender
	linkBase string
	ttlMin   int
	logger   *slog.Logger
}

func NewRegisterUsecase(
	users repository.UserRepository,
	tokens repository.VerificationTokenRepository,
	codec *token.Codec,
	sender email.Sender,
	linkBase string,
	ttlMin int,
	logger *slog.Logger,
) *RegisterUsecase {
	return &RegisterUsecase{
		users:    users,
		tokens:   tokens,
		codec:    codec,
		email:    sender,
		linkBase: linkBase,
		ttlMin:   ttlMin,
		logger:   logger.With("component", "register_usecase"),
	}
}

// IssueVerification creates and emails a fresh verification token for the
// pending account behind emailAddr. Unknown emails and already-active
// accounts return nil so the endpoint cannot be used to enumerate users.
func (u *RegisterUsecase) IssueVerification(ctx context.Context, emailAddr string) error {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			u.logger.InfoContext(ctx, "verification requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	if user.Status != domain.UserStatusPending {
		u.logger.InfoContext(ctx, "verification requested for non-pending account", "status", user.Status)
		return nil
	}

	plain, err := u.codec.GeneratePlain()
	if err != nil {
		return err
	}

	expiresAt := token.AddMinutesISO(u.ttlMin)
	if err := u.tokens.Create(ctx, user.ID, u.codec.Hash(plain), domain.PurposeEmailVerify, expiresAt); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	link := u.linkBase + "/verify?t=" + plain
	subject := "Verify your CampusNest account"
	body := fmt.Sprintf(
		`<p>Welcome to CampusNest! Click the link below to verify your email address:</p><p><a href="%s">%s</a></p>`,
		link, link,
	)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}
