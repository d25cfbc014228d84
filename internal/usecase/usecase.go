// Package usecase implements the business operations on top of the stores:
// the order and user creation sagas, authentication and the password-reset
// lifecycle. Sagas compensate committed steps in reverse order when a later
// step fails, since the store offers no multi-document transactions.
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
)

// Notifier dispatches best-effort outbound email. Implementations log and
// swallow their own failures.
type Notifier interface {
	SendUserOrderConfirmation(
		ctx context.Context,
		user *model.User,
		order *model.Order,
		items []model.OrderItem,
		address *model.Address,
		passwordResetLink string,
	)
	SendPasswordResetEmail(ctx context.Context, email, resetLink string)
}

// mapDeleteResult turns a store soft-delete result into the caller-visible
// outcome: matched-none means the entity is absent or already deleted,
// matched-but-unmodified is a benign concurrent race worth logging.
func mapDeleteResult(logger *zerolog.Logger, result repository.DeleteResult, entity string, notFound error) error {
	if result.Matched == 0 {
		return notFound
	}
	if result.Modified == 0 {
		logger.Warn().Str("entity", entity).Msg("soft delete matched but modified nothing")
		return ErrConflict
	}
	return nil
}

// mapNotFound converts the driver's no-documents error to a domain error.
func mapNotFound(err, notFound error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return err
}
