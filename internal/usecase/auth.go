package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/kashvicrafts/storefront-api/internal/auth"
	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
	"github.com/kashvicrafts/storefront-api/internal/security"
)

// AuthUsecase covers credential validation, token issuance and the
// two-phase password reset flow.
type AuthUsecase interface {
	// ValidateCredentials returns the matching user, or (nil, nil) when the
	// email is unknown or the password does not match. Callers decide how
	// the absence surfaces.
	ValidateCredentials(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// RequestPasswordReset issues a single-use token, persists it with its
	// expiry and mails the reset link. The mail is best effort.
	RequestPasswordReset(ctx context.Context, email string) error
	// CompletePasswordReset consumes the token: it sets the new password
	// and clears the token in one update, so the token cannot be replayed.
	CompletePasswordReset(ctx context.Context, token, newPassword string) error
}

// LoginResult carries the issued access token and its subject.
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type authUsecase struct {
	users         repository.UserRepository
	authenticator *auth.JWTAuthenticator
	notifier      Notifier
	frontendURL   string
	tokenTTL      time.Duration
	resetTokenTTL time.Duration
	logger        *zerolog.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	authenticator *auth.JWTAuthenticator,
	notifier Notifier,
	frontendURL string,
	tokenTTL time.Duration,
	resetTokenTTL time.Duration,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		users:         users,
		authenticator: authenticator,
		notifier:      notifier,
		frontendURL:   frontendURL,
		tokenTTL:      tokenTTL,
		resetTokenTTL: resetTokenTTL,
		logger:        logger,
	}
}

func (u *authUsecase) ValidateCredentials(ctx context.Context, email, password string) (*model.User, error) {
	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	ok, err := security.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return nil, nil
	}

	user.Password = ""
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := u.ValidateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Unknown email and wrong password surface identically.
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	token, err := u.authenticator.GenerateToken(&auth.Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    u.authenticator.Issuer(),
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.tokenTTL)),
		},
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

func (u *authUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return mapNotFound(err, ErrUserNotFound)
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(u.resetTokenTTL)
	if err := u.users.UpdateResetToken(ctx, user.Email, &token, &expiresAt); err != nil {
		return err
	}

	u.notifier.SendPasswordResetEmail(ctx, user.Email, passwordResetLink(u.frontendURL, token))
	return nil
}

func (u *authUsecase) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	user, err := u.users.GetByResetToken(ctx, token)
	if err != nil {
		return mapNotFound(err, ErrInvalidOrExpiredToken)
	}

	if user.ResetTokenExpires == nil || time.Now().After(*user.ResetTokenExpires) {
		return ErrInvalidOrExpiredToken
	}

	hashed, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := u.users.UpdatePasswordAndClearResetToken(ctx, user.ID, hashed); err != nil {
		// The token already proved possession, so a failure here leaves
		// the account in its prior state and must be visible.
		u.logger.Error().Err(err).Str("user_id", user.ID.Hex()).
			Msg("failed to finalize password reset")
		return err
	}

	return nil
}

// generateResetToken returns 32 bytes of hex-encoded entropy.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func passwordResetLink(frontendURL, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", frontendURL, url.QueryEscape(token))
}
