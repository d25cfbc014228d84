package usecase

import (
	"context"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
)

// GiftBoxUsecase resolves curated gift boxes by their display name.
type GiftBoxUsecase interface {
	FetchGiftBoxDetails(ctx context.Context, name string) (*model.GiftBox, error)
}

type giftBoxUsecase struct {
	giftBoxes repository.GiftBoxRepository
}

func NewGiftBoxUsecase(giftBoxes repository.GiftBoxRepository) GiftBoxUsecase {
	return &giftBoxUsecase{giftBoxes: giftBoxes}
}

func (u *giftBoxUsecase) FetchGiftBoxDetails(ctx context.Context, name string) (*model.GiftBox, error) {
	box, err := u.giftBoxes.GetByName(ctx, name)
	if err != nil {
		return nil, mapNotFound(err, ErrGiftBoxNotFound)
	}
	return box, nil
}
