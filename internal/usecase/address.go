package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
)

// AddressUsecase manages shipping addresses outside the user saga.
type AddressUsecase interface {
	CreateAddress(ctx context.Context, userID bson.ObjectID, params AddressParams) (*model.Address, error)
	FetchAddressDetails(ctx context.Context, id bson.ObjectID) (*model.Address, error)
	FetchAllAddresses(ctx context.Context, filter repository.FilterAddressesParams, opts model.PageOptions) (*model.Page[model.Address], error)
	UpdateAddress(ctx context.Context, id bson.ObjectID, params repository.UpdateAddressParams) (*model.Address, error)
	DeleteAddress(ctx context.Context, id bson.ObjectID) error
}

type addressUsecase struct {
	addresses repository.AddressRepository
	users     repository.UserRepository
	logger    *zerolog.Logger
}

func NewAddressUsecase(
	addresses repository.AddressRepository,
	users repository.UserRepository,
	logger *zerolog.Logger,
) AddressUsecase {
	return &addressUsecase{addresses: addresses, users: users, logger: logger}
}

func (u *addressUsecase) CreateAddress(
	ctx context.Context,
	userID bson.ObjectID,
	params AddressParams,
) (*model.Address, error) {
	// The owner must be a live user; an address without one is unreachable.
	if _, err := u.users.Get(ctx, userID); err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}

	return u.addresses.Create(ctx, newAddress(userID, params))
}

func (u *addressUsecase) FetchAddressDetails(ctx context.Context, id bson.ObjectID) (*model.Address, error) {
	address, err := u.addresses.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrAddressNotFound)
	}
	return address, nil
}

func (u *addressUsecase) FetchAllAddresses(
	ctx context.Context,
	filter repository.FilterAddressesParams,
	opts model.PageOptions,
) (*model.Page[model.Address], error) {
	return u.addresses.List(ctx, filter, opts)
}

func (u *addressUsecase) UpdateAddress(
	ctx context.Context,
	id bson.ObjectID,
	params repository.UpdateAddressParams,
) (*model.Address, error) {
	address, err := u.addresses.Update(ctx, id, params)
	if err != nil {
		return nil, mapNotFound(err, ErrAddressNotFound)
	}
	return address, nil
}

func (u *addressUsecase) DeleteAddress(ctx context.Context, id bson.ObjectID) error {
	result, err := u.addresses.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	return mapDeleteResult(u.logger, result, "address", ErrAddressNotFound)
}
