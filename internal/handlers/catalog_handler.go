package handlers

import (
	"net/http"
	"strconv"

	"seller-backend/internal/models"
	"seller-backend/internal/services"
	"seller-backend/pkg/utils"
)

// CatalogHandler serves customers, brands, products and campaigns
type CatalogHandler struct {
	Service *services.CatalogService
}

func NewCatalogHandler(s *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

// ---- Customers ----

func (h *CatalogHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	customers, err := h.Service.ListCustomers(r.Context(), seller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

func (h *CatalogHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req models.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	customer, err := h.Service.CreateCustomer(r.Context(), seller, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, customer)
}

func (h *CatalogHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	customer, err := h.Service.GetCustomer(r.Context(), seller, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CatalogHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	customer, err := h.Service.UpdateCustomer(r.Context(), seller, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

// DeleteCustomer fails with 409 while orders still reference the customer
func (h *CatalogHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteCustomer(r.Context(), seller, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Brands ----

func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	brands, err := h.Service.ListBrands(r.Context(), seller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, brands)
}

func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req models.BrandRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	brand, err := h.Service.CreateBrand(r.Context(), seller, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, brand)
}

func (h *CatalogHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	brand, err := h.Service.GetBrand(r.Context(), seller, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, brand)
}

func (h *CatalogHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.BrandRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	brand, err := h.Service.UpdateBrand(r.Context(), seller, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, brand)
}

func (h *CatalogHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteBrand(r.Context(), seller, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Products ----

// ListProducts accepts ?brand_id= to narrow the list to one brand
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	brandID := 0
	if raw := r.URL.Query().Get("brand_id"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid brand_id", http.StatusBadRequest)
			return
		}
		brandID = n
	}
	products, err := h.Service.ListProducts(r.Context(), seller, brandID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req models.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	product, err := h.Service.CreateProduct(r.Context(), seller, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := h.Service.GetProduct(r.Context(), seller, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	product, err := h.Service.UpdateProduct(r.Context(), seller, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteProduct(r.Context(), seller, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Campaigns ----

// ListCampaigns lists the campaigns of the brand in the path
func (h *CatalogHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	brandID, ok := pathID(w, r)
	if !ok {
		return
	}
	campaigns, err := h.Service.ListCampaigns(r.Context(), seller, brandID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, campaigns)
}

func (h *CatalogHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req models.CampaignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	campaign, err := h.Service.CreateCampaign(r.Context(), seller, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, campaign)
}

func (h *CatalogHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteCampaign(r.Context(), seller, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
