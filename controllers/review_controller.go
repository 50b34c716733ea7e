package controllers

import (
	"net/http"

	"rental-backend/middleware"
	"rental-backend/services"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{Reviews: reviews}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// GET /api/properties/:id/reviews/
func (rc *ReviewController) ListReviews(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	reviews, err := rc.Reviews.ListForProperty(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// POST /api/properties/:id/reviews/
func (rc *ReviewController) CreateReview(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := rc.Reviews.Create(middleware.CurrentAccount(c), id, services.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// DELETE /api/reviews/:id/
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := rc.Reviews.Delete(middleware.CurrentAccount(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
