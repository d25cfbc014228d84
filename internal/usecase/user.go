package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
	"github.com/kashvicrafts/storefront-api/internal/security"
)

// UserUsecase implements the user saga, registration and the user read
// paths. CreateUser historically served two purposes; the two branches are
// explicit named operations here and CreateUser only dispatches between
// them on whether a live user already holds the email.
type UserUsecase interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*model.User, error)
	// RegisterUserWithOrder creates a new user plus optional address plus
	// optional order, compensating in reverse order on failure: an order
	// failure rolls back the address and the user, an address failure rolls
	// back the user.
	RegisterUserWithOrder(ctx context.Context, params CreateUserParams) (*model.User, error)
	// AttachToExistingUser adds an address (only if the user has none) and
	// an order to a user that already exists, then dispatches the
	// confirmation without a password-reset link.
	AttachToExistingUser(ctx context.Context, user *model.User, params CreateUserParams) (*model.User, error)
	// SignupUser is the strict registration path: it rejects duplicate
	// mobile or email among live users and hashes the password.
	SignupUser(ctx context.Context, params SignupParams) (*model.User, error)
	FetchUserDetails(ctx context.Context, id bson.ObjectID) (*model.UserDetails, error)
	FetchAllUsers(ctx context.Context, filter repository.FilterUsersParams, opts model.PageOptions) (*model.Page[model.User], error)
	UpdateUser(ctx context.Context, id bson.ObjectID, params UpdateUserParams) (*model.User, error)
	UpdateUserResetToken(ctx context.Context, email string, token *string, expiresAt *time.Time) error
	DeleteUser(ctx context.Context, id bson.ObjectID) error
}

// CreateUserParams is the inquiry-style creation input: a user with an
// optional address and an optional order.
type CreateUserParams struct {
	FullName string
	Email    string
	Password string
	Mobile   string
	Address  *AddressParams
	Order    *CreateOrderParams
}

// AddressParams defines a shipping address without its owner.
type AddressParams struct {
	City         string
	State        string
	Pincode      string
	AddressLine1 string
	AddressLine2 string
	Landmark     string
}

// SignupParams is the strict registration input.
type SignupParams struct {
	FullName string
	Email    string
	Password string
	Mobile   string
}

// UpdateUserParams is the usecase-level partial update; Password is
// plaintext here and hashed before it reaches the store.
type UpdateUserParams struct {
	FullName *string
	Email    *string
	Mobile   *string
	Password *string
}

type userUsecase struct {
	users         repository.UserRepository
	addresses     repository.AddressRepository
	orders        OrderUsecase
	notifier      Notifier
	frontendURL   string
	resetTokenTTL time.Duration
	logger        *zerolog.Logger
}

func NewUserUsecase(
	users repository.UserRepository,
	addresses repository.AddressRepository,
	orders OrderUsecase,
	notifier Notifier,
	frontendURL string,
	resetTokenTTL time.Duration,
	logger *zerolog.Logger,
) UserUsecase {
	return &userUsecase{
		users:         users,
		addresses:     addresses,
		orders:        orders,
		notifier:      notifier,
		frontendURL:   frontendURL,
		resetTokenTTL: resetTokenTTL,
		logger:        logger,
	}
}

func (u *userUsecase) CreateUser(ctx context.Context, params CreateUserParams) (*model.User, error) {
	existing, err := u.users.GetByEmail(ctx, params.Email)
	switch {
	case err == nil:
		return u.AttachToExistingUser(ctx, existing, params)
	case errors.Is(err, mongo.ErrNoDocuments):
		return u.RegisterUserWithOrder(ctx, params)
	default:
		return nil, err
	}
}

func (u *userUsecase) RegisterUserWithOrder(ctx context.Context, params CreateUserParams) (*model.User, error) {
	password := params.Password
	if password != "" {
		hashed, err := security.HashPassword(password)
		if err != nil {
			return nil, err
		}
		password = hashed
	}

	user, err := u.users.Create(ctx, &model.User{
		FullName: params.FullName,
		Email:    params.Email,
		Password: password,
		Mobile:   params.Mobile,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	comp := newCompensationStack(u.logger)
	comp.push("user", func(ctx context.Context) error {
		return u.users.Delete(ctx, user.ID)
	})

	var address *model.Address
	if params.Address != nil {
		address, err = u.addresses.Create(ctx, newAddress(user.ID, *params.Address))
		if err != nil {
			return nil, comp.unwind(ctx, ErrUserCreationFailed, err)
		}
		comp.push("address", func(ctx context.Context) error {
			return u.addresses.DeleteByUser(ctx, user.ID)
		})
	}

	var order *model.Order
	if params.Order != nil {
		order, err = u.orders.CreateOrder(ctx, user.ID, *params.Order, false)
		if err != nil {
			return nil, comp.unwind(ctx, ErrUserCreationFailed, err)
		}
	}

	items := orderItems(order, params.Order)
	u.notifier.SendUserOrderConfirmation(ctx, user, order, items, address, u.welcomeResetLink(ctx, user.Email))

	user.Password = ""
	return user, nil
}

func (u *userUsecase) AttachToExistingUser(
	ctx context.Context,
	user *model.User,
	params CreateUserParams,
) (*model.User, error) {
	var address *model.Address
	if params.Address != nil {
		count, err := u.addresses.CountLiveByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			address, err = u.addresses.Create(ctx, newAddress(user.ID, *params.Address))
			if err != nil {
				return nil, err
			}
		}
	}

	var order *model.Order
	if params.Order != nil {
		var err error
		order, err = u.orders.CreateOrder(ctx, user.ID, *params.Order, false)
		if err != nil {
			return nil, err
		}
	}

	// The user already has credentials, so no reset link is attached.
	items := orderItems(order, params.Order)
	u.notifier.SendUserOrderConfirmation(ctx, user, order, items, address, "")

	user.Password = ""
	return user, nil
}

func (u *userUsecase) SignupUser(ctx context.Context, params SignupParams) (*model.User, error) {
	// Mobile is checked before email so the reported conflict does not
	// depend on which document a combined lookup happens to return.
	switch _, err := u.users.GetByMobile(ctx, params.Mobile); {
	case err == nil:
		return nil, ErrMobileExists
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, err
	}

	switch _, err := u.users.GetByEmail(ctx, params.Email); {
	case err == nil:
		return nil, ErrEmailExists
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, err
	}
	// Free to register; the unique indexes still back this up.

	hashed, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.users.Create(ctx, &model.User{
		FullName: params.FullName,
		Email:    params.Email,
		Password: hashed,
		Mobile:   params.Mobile,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race with a concurrent signup; the existence check
			// above is only a fast path.
			return nil, ErrConflict
		}
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (u *userUsecase) FetchUserDetails(ctx context.Context, id bson.ObjectID) (*model.UserDetails, error) {
	user, err := u.users.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}

	addresses, err := u.addresses.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return &model.UserDetails{User: *user, Addresses: addresses}, nil
}

func (u *userUsecase) FetchAllUsers(
	ctx context.Context,
	filter repository.FilterUsersParams,
	opts model.PageOptions,
) (*model.Page[model.User], error) {
	return u.users.List(ctx, filter, opts)
}

func (u *userUsecase) UpdateUser(
	ctx context.Context,
	id bson.ObjectID,
	params UpdateUserParams,
) (*model.User, error) {
	storeParams := repository.UpdateUserParams{
		FullName: params.FullName,
		Email:    params.Email,
		Mobile:   params.Mobile,
	}
	if params.Password != nil {
		hashed, err := security.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		storeParams.Password = &hashed
	}

	user, err := u.users.Update(ctx, id, storeParams)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, mapNotFound(err, ErrUserNotFound)
	}

	user.Password = ""
	return user, nil
}

func (u *userUsecase) UpdateUserResetToken(
	ctx context.Context,
	email string,
	token *string,
	expiresAt *time.Time,
) error {
	if err := u.users.UpdateResetToken(ctx, email, token, expiresAt); err != nil {
		return mapNotFound(err, ErrUserNotFound)
	}
	return nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, id bson.ObjectID) error {
	// Cascade first: the user's addresses stop being reachable with it.
	if _, err := u.addresses.SoftDeleteByUser(ctx, id); err != nil {
		return err
	}

	result, err := u.users.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	return mapDeleteResult(u.logger, result, "user", ErrUserNotFound)
}

// welcomeResetLink issues a reset token for a freshly created user so the
// welcome mail can carry a set-password link. Best effort: on failure the
// mail simply goes out without the link.
func (u *userUsecase) welcomeResetLink(ctx context.Context, email string) string {
	token, err := generateResetToken()
	if err != nil {
		u.logger.Error().Err(err).Msg("failed to generate welcome reset token")
		return ""
	}

	expiresAt := time.Now().Add(u.resetTokenTTL)
	if err := u.users.UpdateResetToken(ctx, email, &token, &expiresAt); err != nil {
		u.logger.Error().Err(err).Msg("failed to persist welcome reset token")
		return ""
	}

	return passwordResetLink(u.frontendURL, token)
}

func newAddress(userID bson.ObjectID, params AddressParams) *model.Address {
	return &model.Address{
		UserID:       userID,
		City:         params.City,
		State:        params.State,
		Pincode:      params.Pincode,
		AddressLine1: params.AddressLine1,
		AddressLine2: params.AddressLine2,
		Landmark:     params.Landmark,
	}
}

// orderItems reconstructs the stored line items for the confirmation mail.
func orderItems(order *model.Order, params *CreateOrderParams) []model.OrderItem {
	if order == nil || params == nil {
		return nil
	}

	items := make([]model.OrderItem, len(params.Items))
	for i, item := range params.Items {
		items[i] = model.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return items
}
