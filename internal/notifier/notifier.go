// Package notifier composes order and user data into outbound email
// requests. Dispatch is best effort: send failures are logged and swallowed
// here and never reach the calling saga.
package notifier

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
)

// ConfirmationMail is the payload of the order/onboarding confirmation.
type ConfirmationMail struct {
	To                string              `json:"to"`
	Subject           string              `json:"subject"`
	Name              string              `json:"name"`
	Order             *model.OrderDetails `json:"order"`
	ShippingAddress   *model.Address      `json:"shippingAddress,omitempty"`
	PasswordResetLink string              `json:"passwordResetLink,omitempty"`
}

// Mail is a plain outbound email.
type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers composed emails to the outside world.
type Sender interface {
	SendConfirmation(ctx context.Context, mail ConfirmationMail) error
	SendMail(ctx context.Context, mail Mail) error
}

// Service builds notification payloads and hands them to a Sender.
type Service struct {
	products repository.ProductRepository
	sender   Sender
	logger   *zerolog.Logger
}

func NewService(products repository.ProductRepository, sender Sender, logger *zerolog.Logger) *Service {
	return &Service{
		products: products,
		sender:   sender,
		logger:   logger,
	}
}

// SendUserOrderConfirmation resolves product names for the order lines,
// builds the confirmation payload and dispatches it. order and address may
// be nil; passwordResetLink is included only when non-empty.
func (s *Service) SendUserOrderConfirmation(
	ctx context.Context,
	user *model.User,
	order *model.Order,
	items []model.OrderItem,
	address *model.Address,
	passwordResetLink string,
) {
	mail := ConfirmationMail{
		To:                user.Email,
		Subject:           "User Onboarding",
		Name:              user.FullName,
		ShippingAddress:   address,
		PasswordResetLink: passwordResetLink,
	}

	if order != nil {
		details, err := s.resolveOrder(ctx, order, items)
		if err != nil {
			s.logger.Error().Err(err).
				Str("order_id", order.ID.Hex()).
				Msg("failed to resolve products for confirmation mail")
			return
		}
		mail.Order = details
		mail.Subject = fmt.Sprintf("Confirmation of Your Inquiry #%s", order.ID.Hex())
	}

	if err := s.sender.SendConfirmation(ctx, mail); err != nil {
		s.logger.Error().Err(err).Str("to", user.Email).Msg("failed to send confirmation mail")
	}
}

// SendPasswordResetEmail dispatches the reset-link email.
func (s *Service) SendPasswordResetEmail(ctx context.Context, email, resetLink string) {
	mail := Mail{
		To:      email,
		Subject: "Password Reset Request",
		HTML: fmt.Sprintf(
			`<p>You requested a password reset. Click the link below to reset your password:</p>
<a href="%s">%s</a>`,
			resetLink, resetLink,
		),
	}

	if err := s.sender.SendMail(ctx, mail); err != nil {
		s.logger.Error().Err(err).Str("to", email).Msg("failed to send password reset mail")
	}
}

func (s *Service) resolveOrder(
	ctx context.Context,
	order *model.Order,
	items []model.OrderItem,
) (*model.OrderDetails, error) {
	ids := make([]bson.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[bson.ObjectID]string, len(products))
	for _, product := range products {
		names[product.ID] = product.Name
	}

	details := &model.OrderDetails{Order: *order}
	for _, item := range items {
		details.Items = append(details.Items, model.OrderItemDetails{
			OrderItem:   item,
			ProductName: names[item.ProductID],
		})
	}

	return details, nil
}
