package handlers

import (
	"context"
	"net/http"

	"productcatalog/models"
	"productcatalog/repository"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type CatalogService interface {
	CreateProduct(ctx context.Context, in models.ProductInput) (string, error)
	UpdateProduct(ctx context.Context, id string, in models.ProductInput) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SearchProducts(ctx context.Context, q repository.ProductQuery) ([]models.ProductSummary, error)
	DeleteProduct(ctx context.Context, id string) error
}

type ProductHandler struct {
	Catalog CatalogService
	Log     *logrus.Logger
}

type messageResponse struct {
	Message string `json:"message"`
}

type createProductResponse struct {
	Message   string `json:"message"`
	ProductID string `json:"productId"`
}

type productListResponse struct {
	Products []models.ProductSummary `json:"products"`
}

// SearchProducts handles GET /products.
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.Catalog.SearchProducts(r.Context(), repository.BuildProductQuery(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}
	if list == nil {
		list = []models.ProductSummary{}
	}

	writeJSON(w, http.StatusOK, productListResponse{Products: list})
}

// GetProduct handles GET /products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /products.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.Catalog.CreateProduct(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, createProductResponse{
		Message:   "Product created successfully",
		ProductID: id,
	})
}

// UpdateProduct handles PUT /products/{id}.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Catalog.UpdateProduct(r.Context(), mux.Vars(r)["id"], in); err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Product updated successfully"})
}

// DeleteProduct handles DELETE /products/{id}.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}
