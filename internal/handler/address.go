package handler

import (
	"net/http"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kashvicrafts/storefront-api/internal/repository"
	"github.com/kashvicrafts/storefront-api/internal/usecase"
)

type AddressHandler struct {
	addresses usecase.AddressUsecase
	logger    *zerolog.Logger
}

func NewAddressHandler(addresses usecase.AddressUsecase, logger *zerolog.Logger) *AddressHandler {
	return &AddressHandler{addresses: addresses, logger: logger}
}

type createAddressRequest struct {
	UserID string `json:"user_id" validate:"required,len=24,hexadecimal"`
	addressPayload
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAddressRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID, err := bson.ObjectIDFromHex(req.UserID)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user_id"})
		return
	}

	address, err := h.addresses.CreateAddress(r.Context(), userID, usecase.AddressParams{
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		Landmark:     req.Landmark,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, address)
}

func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	address, err := h.addresses.FetchAddressDetails(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, address)
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.FilterAddressesParams{
		City:     queryString(r, "city"),
		State:    queryString(r, "state"),
		Pincode:  queryString(r, "pincode"),
		Landmark: queryString(r, "landmark"),
	}
	if raw := queryString(r, "user_id"); raw != nil {
		userID, err := bson.ObjectIDFromHex(*raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user_id"})
			return
		}
		filter.UserID = &userID
	}

	page, err := h.addresses.FetchAllAddresses(r.Context(), filter, pageOptionsFromQuery(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

type updateAddressRequest struct {
	City         *string `json:"city"         validate:"omitempty,min=1"`
	State        *string `json:"state"        validate:"omitempty,min=1"`
	Pincode      *string `json:"pincode"      validate:"omitempty,min=1"`
	AddressLine1 *string `json:"addressLine1" validate:"omitempty,min=1"`
	AddressLine2 *string `json:"addressLine2"`
	Landmark     *string `json:"landmark"`
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	var req updateAddressRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	address, err := h.addresses.UpdateAddress(r.Context(), id, repository.UpdateAddressParams{
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		Landmark:     req.Landmark,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, address)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.addresses.DeleteAddress(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
