package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
	"github.com/kashvicrafts/storefront-api/internal/usecase"
)

type OrderHandler struct {
	orders usecase.OrderUsecase
	logger *zerolog.Logger
}

func NewOrderHandler(orders usecase.OrderUsecase, logger *zerolog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

type createOrderRequest struct {
	UserID string `json:"user_id" validate:"required,len=24,hexadecimal"`
	createOrderRequestBody
	Notify bool `json:"notify"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID, err := bson.ObjectIDFromHex(req.UserID)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user_id"})
		return
	}

	params, ok := orderParamsFromBody(w, req.createOrderRequestBody)
	if !ok {
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), userID, *params, req.Notify)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	details, err := h.orders.FetchOrderDetails(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, details)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.FilterOrdersParams{}
	if raw := queryString(r, "user_id"); raw != nil {
		userID, err := bson.ObjectIDFromHex(*raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user_id"})
			return
		}
		filter.UserID = &userID
	}
	if raw := queryString(r, "status"); raw != nil {
		status := model.OrderStatus(*raw)
		filter.Status = &status
	}

	page, err := h.orders.FetchAllOrders(r.Context(), filter, pageOptionsFromQuery(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// Report is the date-range export used for reporting: orders joined with
// their items, user and addresses.
func (h *OrderHandler) Report(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start_date"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid start_date"})
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end_date"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid end_date"})
		return
	}

	rows, err := h.orders.ListOrders(r.Context(), start, end)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

type updateOrderRequest struct {
	TotalPrice *float64 `json:"total_price" validate:"omitempty,gte=0"`
	Status     *string  `json:"status"      validate:"omitempty,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	var req updateOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	params := repository.UpdateOrderParams{TotalPrice: req.TotalPrice}
	if req.Status != nil {
		status := model.OrderStatus(*req.Status)
		params.Status = &status
	}

	order, err := h.orders.UpdateOrder(r.Context(), id, params)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// orderStatusFromString defaults blank input to PENDING; unknown values are
// caught by payload validation before this point.
func orderStatusFromString(raw string) model.OrderStatus {
	if raw == "" {
		return model.OrderStatusPending
	}
	return model.OrderStatus(raw)
}
