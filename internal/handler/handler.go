// Package handler is the HTTP surface. Handlers decode and validate
// payloads, call the matching usecase and translate sentinel errors into
// statuses; business rules live below this layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
	"github.com/kashvicrafts/storefront-api/internal/usecase"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondError maps usecase sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message so internals never leak.
func respondError(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrAddressNotFound),
		errors.Is(err, usecase.ErrProductNotFound),
		errors.Is(err, usecase.ErrOrderNotFound),
		errors.Is(err, usecase.ErrOrderItemNotFound),
		errors.Is(err, usecase.ErrGiftBoxNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, usecase.ErrMobileExists),
		errors.Is(err, usecase.ErrEmailExists),
		errors.Is(err, usecase.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidOrExpiredToken):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, repository.ErrTransient):
		status, message = http.StatusServiceUnavailable, "temporarily unavailable"
	default:
		status, message = http.StatusInternalServerError, "something went wrong"
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	respondJSON(w, status, errorResponse{Error: message})
}

// decodeAndValidate unmarshals the request body into dst and runs the
// validator tags. A false return means the response is already written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

// objectIDParam parses the named chi URL parameter as an ObjectID.
func objectIDParam(w http.ResponseWriter, r *http.Request, name string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return bson.ObjectID{}, false
	}
	return id, true
}

// pageOptionsFromQuery reads page, limit, sort_field and sort_order.
// Absent or malformed values fall back to the defaults.
func pageOptionsFromQuery(r *http.Request) model.PageOptions {
	query := r.URL.Query()
	opts := model.PageOptions{
		SortField: query.Get("sort_field"),
		SortOrder: model.SortOrder(query.Get("sort_order")),
	}
	if page, err := strconv.ParseInt(query.Get("page"), 10, 64); err == nil {
		opts.Page = page
	}
	if limit, err := strconv.ParseInt(query.Get("limit"), 10, 64); err == nil {
		opts.Limit = limit
	}
	return opts.Normalized()
}

func queryString(r *http.Request, name string) *string {
	if value := r.URL.Query().Get(name); value != "" {
		return &value
	}
	return nil
}
