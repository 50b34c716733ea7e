package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rental-backend/middleware"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

const msgBadDate = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

// respondError writes err in the error envelope. Domain errors keep their
// status and message; anything else is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		switch {
		case errors.Is(se, services.ErrValidation):
			utils.JSONFieldErrors(c, http.StatusBadRequest, se.Message, se.Fields)
		case errors.Is(se, services.ErrUnauthorized):
			utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", se.Message)
		case errors.Is(se, services.ErrForbidden):
			utils.JSONError(c, http.StatusForbidden, "error.forbidden", se.Message)
		case errors.Is(se, services.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "error.not_found", se.Message)
		case errors.Is(se, services.ErrConflict):
			utils.JSONError(c, http.StatusConflict, "error.conflict", se.Message)
		default:
			utils.JSONError(c, http.StatusBadRequest, "error.bad_request", se.Message)
		}
		return
	}

	_ = c.Error(err)
	slog.Error("request failed",
		"request_id", middleware.RequestID(c),
		"path", c.Request.URL.Path,
		"error", err)
	utils.JSONError(c, http.StatusInternalServerError, "error.internal", "Internal server error.")
}

// bindJSON decodes the body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	if fields, ok := services.ValidationFields(err); ok {
		utils.JSONFieldErrors(c, http.StatusBadRequest, "Invalid data.", fields)
		return false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		utils.JSONFieldErrors(c, http.StatusBadRequest, "Invalid data.",
			map[string]string{typeErr.Field: "Invalid value type."})
		return false
	}
	if errors.Is(err, io.EOF) {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "Request body is empty.")
		return false
	}
	utils.JSONError(c, http.StatusBadRequest, "error.validation", "Malformed JSON body.")
	return false
}

// uuidParam parses a path parameter. Malformed ids answer 404 like any
// unknown resource.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "error.not_found", "Not found.")
		return uuid.Nil, false
	}
	return id, true
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusNotFound, "error.not_found", "Not found.")
		return 0, false
	}
	return uint(id), true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}
