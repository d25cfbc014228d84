package usecase

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrAddressNotFound   = errors.New("address not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrGiftBoxNotFound   = errors.New("gift box not found")

	// ErrConflict covers unique-constraint violations and benign
	// concurrent-mutation races.
	ErrConflict = errors.New("conflicting concurrent modification")

	ErrMobileExists = errors.New("a user with this mobile already exists")
	ErrEmailExists  = errors.New("a user with this email already exists")

	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired password reset token")

	// Saga failures after compensation ran.
	ErrUserCreationFailed  = errors.New("user creation failed and was rolled back")
	ErrOrderCreationFailed = errors.New("order creation failed and was rolled back")

	// ErrCompensationFailed means a rollback itself failed and left
	// inconsistent state behind. It must be logged loudly and investigated;
	// it is never safe to retry blindly.
	ErrCompensationFailed = errors.New("saga compensation failed, state may be inconsistent")
)
