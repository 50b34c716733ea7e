package controllers

import (
	"net/http"

	"rental-backend/middleware"
	"rental-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WishlistController struct {
	Wishlist *services.WishlistService
}

func NewWishlistController(wishlist *services.WishlistService) *WishlistController {
	return &WishlistController{Wishlist: wishlist}
}

// GET /api/wishlist/
func (wc *WishlistController) ListWishlist(c *gin.Context) {
	items, err := wc.Wishlist.List(middleware.CurrentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /api/wishlist/
func (wc *WishlistController) AddToWishlist(c *gin.Context) {
	var req struct {
		PropertyID string `json:"property_id" binding:"required,uuid"`
	}
	if !bindJSON(c, &req) {
		return
	}
	item, err := wc.Wishlist.Add(middleware.CurrentAccount(c), uuid.MustParse(req.PropertyID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// DELETE /api/wishlist/:property_id/remove/
func (wc *WishlistController) RemoveFromWishlist(c *gin.Context) {
	id, ok := uuidParam(c, "property_id")
	if !ok {
		return
	}
	if err := wc.Wishlist.Remove(middleware.CurrentAccount(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
