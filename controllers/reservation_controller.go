package controllers

import (
	"encoding/json"
	"net/http"

	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

type createReservationRequest struct {
	PropertyID  string `json:"property_id" binding:"required,uuid"`
	CheckIn     string `json:"check_in" binding:"required"`
	CheckOut    string `json:"check_out" binding:"required"`
	GuestsCount *int   `json:"guests_count"`
}

// POST /api/reservations/create/
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	fields := map[string]string{}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		fields["check_in"] = msgBadDate
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		fields["check_out"] = msgBadDate
	}
	if len(fields) > 0 {
		utils.JSONFieldErrors(c, http.StatusBadRequest, "Invalid data.", fields)
		return
	}

	guests := 1
	if req.GuestsCount != nil {
		guests = *req.GuestsCount
	}

	res, err := rc.Reservations.Create(middleware.CurrentAccount(c), services.CreateReservationInput{
		PropertyID:  uuid.MustParse(req.PropertyID),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		GuestsCount: guests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /api/reservations/ (?role=host lists bookings on the caller's properties)
func (rc *ReservationController) ListReservations(c *gin.Context) {
	account := middleware.CurrentAccount(c)

	var (
		out []models.Reservation
		err error
	)
	if c.Query("role") == "host" {
		out, err = rc.Reservations.ListForHost(account)
	} else {
		out, err = rc.Reservations.ListForGuest(account)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/reservations/:id/
func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := rc.Reservations.GetForGuest(middleware.CurrentAccount(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT|PATCH /api/reservations/:id/
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if !bindJSON(c, &body) {
		return
	}

	var update services.ReservationUpdate
	for key, raw := range body {
		if key != "status" {
			update.OtherFields = true
			continue
		}
		var status models.ReservationStatus
		if err := json.Unmarshal(raw, &status); err != nil {
			utils.JSONFieldErrors(c, http.StatusBadRequest, "Invalid data.",
				map[string]string{"status": "Invalid value type."})
			return
		}
		update.Status = &status
	}

	res, err := rc.Reservations.Update(middleware.CurrentAccount(c), id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/reservations/:id/cancel/
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := rc.Reservations.Cancel(middleware.CurrentAccount(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/reservations/:id/confirm/
func (rc *ReservationController) ConfirmReservation(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := rc.Reservations.Confirm(middleware.CurrentAccount(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/reservations/:id/decline/
func (rc *ReservationController) DeclineReservation(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := rc.Reservations.Decline(middleware.CurrentAccount(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
