package controllers

import (
	"net/http"

	"rental-backend/middleware"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type AccountController struct {
	Accounts *services.AccountService
}

func NewAccountController(accounts *services.AccountService) *AccountController {
	return &AccountController{Accounts: accounts}
}

type registerRequest struct {
	Email           string `json:"email" binding:"required"`
	Name            string `json:"name"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// POST /api/accounts/register/
func (ac *AccountController) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	acc, err := ac.Accounts.Register(services.RegisterInput{
		Email:           req.Email,
		Name:            req.Name,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, acc)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login/
func (ac *AccountController) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := ac.Accounts.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GET /api/accounts/profile/
func (ac *AccountController) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentAccount(c))
}

type profileRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Bio         *string `json:"bio"`
	Avatar      *string `json:"avatar" binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=32"`
	IsHost      *bool   `json:"is_host"`
}

// PUT|PATCH /api/accounts/profile/
func (ac *AccountController) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req) {
		return
	}
	acc, err := ac.Accounts.UpdateProfile(middleware.CurrentAccount(c), services.ProfileInput{
		Name:        req.Name,
		Bio:         req.Bio,
		Avatar:      req.Avatar,
		PhoneNumber: req.PhoneNumber,
		IsHost:      req.IsHost,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

type changePasswordRequest struct {
	OldPassword        string `json:"old_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" binding:"required"`
}

// POST /api/accounts/change-password/
func (ac *AccountController) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	err := ac.Accounts.ChangePassword(middleware.CurrentAccount(c), services.ChangePasswordInput{
		OldPassword:        req.OldPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Password changed successfully")
}

// POST /api/accounts/become-host/
func (ac *AccountController) BecomeHost(c *gin.Context) {
	isHost, err := ac.Accounts.ToggleHost(middleware.CurrentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Host status removed."
	if isHost {
		message = "You are now a host!"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "is_host": isHost})
}

// GET /api/accounts/stats/
func (ac *AccountController) Stats(c *gin.Context) {
	stats, err := ac.Accounts.Stats(middleware.CurrentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
