package v1

import (
	"net/http"
	"strconv"

	"velora-storefront/internal/domain"
	"velora-storefront/internal/usecase"
	"velora-storefront/pkg/utils"

	"github.com/goccy/go-json"
)

type WishlistHandler struct {
	wishlistUC *usecase.WishlistUsecase
}

func NewWishlistHandler(wishlistUC *usecase.WishlistUsecase) *WishlistHandler {
	return &WishlistHandler{wishlistUC: wishlistUC}
}

func (h *WishlistHandler) GetMyWishlist(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.wishlistUC.GetMyWishlist(r.Context(), session.UID))
}

type wishlistReq struct {
	ProductID int64 `json:"productId"`
}

func (h *WishlistHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req wishlistReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == 0 {
		utils.WriteError(w, http.StatusBadRequest, "productId is required")
		return
	}

	wishlist, err := h.wishlistUC.AddToWishlist(r.Context(), session.UID, req.ProductID)
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, "Failed to add to wishlist")
		return
	}
	utils.WriteJSON(w, http.StatusOK, wishlist)
}

func (h *WishlistHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	productID, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.wishlistUC.RemoveFromWishlist(r.Context(), session.UID, productID))
}

func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.wishlistUC.ClearWishlist(r.Context(), session.UID))
}

func (h *WishlistHandler) MoveAllToCart(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cart, wishlist, err := h.wishlistUC.MoveAllToCart(r.Context(), session.UID)
	if err != nil {
		utils.WriteError(w, http.StatusConflict, "Could not move every item to the cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cart":     cart,
		"wishlist": wishlist,
	})
}
