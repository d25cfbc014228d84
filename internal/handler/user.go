package handler

import (
	"net/http"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kashvicrafts/storefront-api/internal/repository"
	"github.com/kashvicrafts/storefront-api/internal/usecase"
)

type UserHandler struct {
	users  usecase.UserUsecase
	logger *zerolog.Logger
}

func NewUserHandler(users usecase.UserUsecase, logger *zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type createUserRequest struct {
	FullName string                  `json:"full_name" validate:"required"`
	Email    string                  `json:"email"     validate:"required,email"`
	Password string                  `json:"password"  validate:"omitempty,min=8"`
	Mobile   string                  `json:"mobile"    validate:"required,len=10"`
	Address  *addressPayload         `json:"address"   validate:"omitempty"`
	Order    *createOrderRequestBody `json:"order"     validate:"omitempty"`
}

type addressPayload struct {
	City         string `json:"city"          validate:"required"`
	State        string `json:"state"         validate:"required"`
	Pincode      string `json:"pincode"       validate:"required"`
	AddressLine1 string `json:"addressLine1"  validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	Landmark     string `json:"landmark"`
}

type createOrderRequestBody struct {
	TotalPrice float64            `json:"total_price" validate:"gte=0"`
	Status     string             `json:"status"`
	Items      []orderItemPayload `json:"items" validate:"omitempty,dive"`
}

type orderItemPayload struct {
	ProductID string  `json:"product_id" validate:"required,len=24,hexadecimal"`
	Quantity  int     `json:"quantity"   validate:"required,gt=0"`
	Price     float64 `json:"price"      validate:"gte=0"`
}

// Create is the inquiry entry point: a new user is registered with the
// given address and order, an existing one gets them attached.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	params := usecase.CreateUserParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Mobile:   req.Mobile,
	}
	if req.Address != nil {
		params.Address = &usecase.AddressParams{
			City:         req.Address.City,
			State:        req.Address.State,
			Pincode:      req.Address.Pincode,
			AddressLine1: req.Address.AddressLine1,
			AddressLine2: req.Address.AddressLine2,
			Landmark:     req.Address.Landmark,
		}
	}
	if req.Order != nil {
		orderParams, ok := orderParamsFromBody(w, *req.Order)
		if !ok {
			return
		}
		params.Order = orderParams
	}

	user, err := h.users.CreateUser(r.Context(), params)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	details, err := h.users.FetchUserDetails(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, details)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.FilterUsersParams{
		FullName: queryString(r, "full_name"),
		Email:    queryString(r, "email"),
		Mobile:   queryString(r, "mobile"),
	}

	page, err := h.users.FetchAllUsers(r.Context(), filter, pageOptionsFromQuery(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

type updateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Mobile   *string `json:"mobile"    validate:"omitempty,len=10"`
	Password *string `json:"password"  validate:"omitempty,min=8"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.UpdateUser(r.Context(), id, usecase.UpdateUserParams{
		FullName: req.FullName,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// orderParamsFromBody converts the wire order payload, rejecting malformed
// product ids before the saga starts.
func orderParamsFromBody(w http.ResponseWriter, body createOrderRequestBody) (*usecase.CreateOrderParams, bool) {
	params := &usecase.CreateOrderParams{
		TotalPrice: body.TotalPrice,
		Status:     orderStatusFromString(body.Status),
		Items:      make([]usecase.OrderItemParams, 0, len(body.Items)),
	}
	for _, item := range body.Items {
		productID, err := bson.ObjectIDFromHex(item.ProductID)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product_id"})
			return nil, false
		}
		params.Items = append(params.Items, usecase.OrderItemParams{
			ProductID: productID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return params, true
}
