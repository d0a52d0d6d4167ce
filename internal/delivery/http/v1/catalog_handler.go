package v1

import (
	"net/http"
	"strconv"
	"strings"

	"velora-storefront/internal/usecase"
	"velora-storefront/pkg/utils"
)

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(catalogUC *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC}
}

func (h *CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 20)
	offset := utils.ParseInt(r.URL.Query().Get("offset"), 0)

	products, err := h.catalogUC.GetProducts(r.Context(), limit, offset)
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, "Failed to fetch products")
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.catalogUC.GetProduct(r.Context(), id)
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, "Failed to fetch product")
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) GetProductsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	products, err := h.catalogUC.GetProductsByCategory(r.Context(), categoryID)
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, "Failed to fetch products")
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		utils.WriteJSON(w, http.StatusOK, []struct{}{})
		return
	}

	products, err := h.catalogUC.SearchProducts(r.Context(), query)
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, "Failed to search products")
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogUC.GetCategories(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, "Failed to fetch categories")
		return
	}
	utils.WriteJSON(w, http.StatusOK, categories)
}
