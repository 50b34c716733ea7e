package controllers

import (
	"net/http"

	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type PropertyController struct {
	Properties *services.PropertyService
}

func NewPropertyController(properties *services.PropertyService) *PropertyController {
	return &PropertyController{Properties: properties}
}

type propertyRequest struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	Location      *string              `json:"location"`
	Address       *string              `json:"address"`
	Latitude      *float64             `json:"latitude"`
	Longitude     *float64             `json:"longitude"`
	PropertyType  *models.PropertyType `json:"property_type"`
	PricePerNight *float64             `json:"price_per_night"`
	Guests        *int                 `json:"guests"`
	Bedrooms      *int                 `json:"bedrooms"`
	Bathrooms     *int                 `json:"bathrooms"`
	AmenitiesList *[]string            `json:"amenities_list"`
	IsAvailable   *bool                `json:"is_available"`
	MinimumNights *int                 `json:"minimum_nights"`
	MaximumNights *int                 `json:"maximum_nights"`
}

func (r propertyRequest) input() services.PropertyInput {
	return services.PropertyInput{
		Title:         r.Title,
		Description:   r.Description,
		Location:      r.Location,
		Address:       r.Address,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		PropertyType:  r.PropertyType,
		PricePerNight: r.PricePerNight,
		Guests:        r.Guests,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		Amenities:     r.AmenitiesList,
		IsAvailable:   r.IsAvailable,
		MinimumNights: r.MinimumNights,
		MaximumNights: r.MaximumNights,
	}
}

// GET /api/properties/
func (pc *PropertyController) ListProperties(c *gin.Context) {
	filter, _ := parsePropertyFilter(c, false)
	props, err := pc.Properties.List(filter, middleware.CurrentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, props)
}

// GET /api/properties/search/
func (pc *PropertyController) SearchProperties(c *gin.Context) {
	filter, fields := parsePropertyFilter(c, true)
	if len(fields) > 0 {
		utils.JSONFieldErrors(c, http.StatusBadRequest, "Invalid search parameters.", fields)
		return
	}
	props, err := pc.Properties.List(filter, middleware.CurrentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, props)
}

// GET /api/properties/user/properties/
func (pc *PropertyController) ListMyProperties(c *gin.Context) {
	props, err := pc.Properties.ListByHost(middleware.CurrentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, props)
}

// POST /api/properties/
func (pc *PropertyController) CreateProperty(c *gin.Context) {
	var req propertyRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := pc.Properties.Create(middleware.CurrentAccount(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /api/properties/:id/
func (pc *PropertyController) GetProperty(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := pc.Properties.Get(id, middleware.CurrentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PUT|PATCH /api/properties/:id/
func (pc *PropertyController) UpdateProperty(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req propertyRequest
	if !bindJSON(c, &req) {
		return
	}
	partial := c.Request.Method == http.MethodPatch
	p, err := pc.Properties.Update(middleware.CurrentAccount(c), id, req.input(), partial)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /api/properties/:id/
func (pc *PropertyController) DeleteProperty(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := pc.Properties.Delete(middleware.CurrentAccount(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type imageRequest struct {
	Image     string `json:"image" binding:"required"`
	Caption   string `json:"caption" binding:"max=255"`
	IsPrimary bool   `json:"is_primary"`
	Order     int    `json:"order" binding:"min=0"`
}

// POST /api/properties/:id/images/
func (pc *PropertyController) UploadImage(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req imageRequest
	if !bindJSON(c, &req) {
		return
	}
	img, err := pc.Properties.AddImage(middleware.CurrentAccount(c), id, services.ImageInput{
		Data:      req.Image,
		Caption:   req.Caption,
		IsPrimary: req.IsPrimary,
		Order:     req.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

// DELETE /api/properties/:id/images/:image_id/
func (pc *PropertyController) DeleteImage(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := uintParam(c, "image_id")
	if !ok {
		return
	}
	if err := pc.Properties.DeleteImage(middleware.CurrentAccount(c), id, imageID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
