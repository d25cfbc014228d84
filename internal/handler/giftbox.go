package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kashvicrafts/storefront-api/internal/usecase"
)

type GiftBoxHandler struct {
	giftBoxes usecase.GiftBoxUsecase
	logger    *zerolog.Logger
}

func NewGiftBoxHandler(giftBoxes usecase.GiftBoxUsecase, logger *zerolog.Logger) *GiftBoxHandler {
	return &GiftBoxHandler{giftBoxes: giftBoxes, logger: logger}
}

func (h *GiftBoxHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	box, err := h.giftBoxes.FetchGiftBoxDetails(r.Context(), name)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, box)
}
