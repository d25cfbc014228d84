package handler

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
	"github.com/kashvicrafts/storefront-api/internal/usecase"
)

type ProductHandler struct {
	products usecase.ProductUsecase
	logger   *zerolog.Logger
}

func NewProductHandler(products usecase.ProductUsecase, logger *zerolog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

type createProductRequest struct {
	SerialNumber     int     `json:"serial_number"     validate:"gte=0"`
	Name             string  `json:"name"              validate:"required"`
	Category         string  `json:"category"          validate:"required"`
	RateInRs         float64 `json:"rate_in_rs"        validate:"gte=0"`
	Per              float64 `json:"per"               validate:"gte=0"`
	UnitType         string  `json:"unit_type"         validate:"required,oneof=PIECE SET KG DOZEN"`
	UnitPrice        float64 `json:"unit_price"        validate:"gte=0"`
	ProfitPercentage float64 `json:"profit_percentage" validate:"gte=0"`
	DisplayPrice     float64 `json:"display_price"     validate:"gte=0"`
	UnitOfSale       string  `json:"unit_of_sale"`
	Description      string  `json:"description"`
	Image            string  `json:"image"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.products.CreateProduct(r.Context(), &model.Product{
		SerialNumber:     req.SerialNumber,
		Name:             req.Name,
		Category:         req.Category,
		RateInRs:         req.RateInRs,
		Per:              req.Per,
		UnitType:         model.UnitType(req.UnitType),
		UnitPrice:        req.UnitPrice,
		ProfitPercentage: req.ProfitPercentage,
		DisplayPrice:     req.DisplayPrice,
		UnitOfSale:       req.UnitOfSale,
		Description:      req.Description,
		Image:            req.Image,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	product, err := h.products.FetchProductDetails(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.FilterProductsParams{
		Name:     queryString(r, "name"),
		Category: queryString(r, "category"),
	}
	if raw := queryString(r, "unit_type"); raw != nil {
		unitType := model.UnitType(*raw)
		filter.UnitType = &unitType
	}
	if raw := queryString(r, "rate_in_rs"); raw != nil {
		rate, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rate_in_rs"})
			return
		}
		filter.RateInRs = &rate
	}
	if raw := queryString(r, "display_price"); raw != nil {
		price, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid display_price"})
			return
		}
		filter.DisplayPrice = &price
	}

	page, err := h.products.FetchAllProducts(r.Context(), filter, pageOptionsFromQuery(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.FetchProductCategories(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

type updateProductRequest struct {
	SerialNumber     *int     `json:"serial_number"     validate:"omitempty,gte=0"`
	Name             *string  `json:"name"              validate:"omitempty,min=1"`
	Category         *string  `json:"category"          validate:"omitempty,min=1"`
	RateInRs         *float64 `json:"rate_in_rs"        validate:"omitempty,gte=0"`
	Per              *float64 `json:"per"               validate:"omitempty,gte=0"`
	UnitType         *string  `json:"unit_type"         validate:"omitempty,oneof=PIECE SET KG DOZEN"`
	UnitPrice        *float64 `json:"unit_price"        validate:"omitempty,gte=0"`
	ProfitPercentage *float64 `json:"profit_percentage" validate:"omitempty,gte=0"`
	DisplayPrice     *float64 `json:"display_price"     validate:"omitempty,gte=0"`
	UnitOfSale       *string  `json:"unit_of_sale"`
	Description      *string  `json:"description"`
	Image            *string  `json:"image"`
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	var req updateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	params := repository.UpdateProductParams{
		SerialNumber:     req.SerialNumber,
		Name:             req.Name,
		Category:         req.Category,
		RateInRs:         req.RateInRs,
		Per:              req.Per,
		UnitPrice:        req.UnitPrice,
		ProfitPercentage: req.ProfitPercentage,
		DisplayPrice:     req.DisplayPrice,
		UnitOfSale:       req.UnitOfSale,
		Description:      req.Description,
		Image:            req.Image,
	}
	if req.UnitType != nil {
		unitType := model.UnitType(*req.UnitType)
		params.UnitType = &unitType
	}

	product, err := h.products.UpdateProduct(r.Context(), id, params)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
