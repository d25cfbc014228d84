package handler

import (
	"net/http"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kashvicrafts/storefront-api/internal/repository"
	"github.com/kashvicrafts/storefront-api/internal/usecase"
)

type OrderItemHandler struct {
	items  usecase.OrderItemUsecase
	logger *zerolog.Logger
}

func NewOrderItemHandler(items usecase.OrderItemUsecase, logger *zerolog.Logger) *OrderItemHandler {
	return &OrderItemHandler{items: items, logger: logger}
}

func (h *OrderItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.items.FetchOrderItemDetails(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (h *OrderItemHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.FilterOrderItemsParams{}
	if raw := queryString(r, "order_id"); raw != nil {
		orderID, err := bson.ObjectIDFromHex(*raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order_id"})
			return
		}
		filter.OrderID = &orderID
	}
	if raw := queryString(r, "product_id"); raw != nil {
		productID, err := bson.ObjectIDFromHex(*raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product_id"})
			return
		}
		filter.ProductID = &productID
	}

	page, err := h.items.FetchAllOrderItems(r.Context(), filter, pageOptionsFromQuery(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

type updateOrderItemRequest struct {
	Quantity *int     `json:"quantity" validate:"omitempty,gt=0"`
	Price    *float64 `json:"price"    validate:"omitempty,gte=0"`
}

func (h *OrderItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	var req updateOrderItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.items.UpdateOrderItem(r.Context(), id, repository.UpdateOrderItemParams{
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (h *OrderItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.items.DeleteOrderItem(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
