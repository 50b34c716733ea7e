package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"gorm.io/gorm"
)

const (
	minPasswordLength = 8
	msgEmailTaken     = "An account with this email already exists."
	msgBadCredentials = "Unable to log in with provided credentials."
)

type AccountService struct {
	DB     *gorm.DB
	Tokens *utils.TokenIssuer
}

func NewAccountService(db *gorm.DB, tokens *utils.TokenIssuer) *AccountService {
	return &AccountService{DB: db, Tokens: tokens}
}

type RegisterInput struct {
	Email           string
	Name            string
	Password        string
	PasswordConfirm string
}

func passwordTooShort() string {
	return fmt.Sprintf("Ensure this field has at least %d characters.", minPasswordLength)
}

func (s *AccountService) Register(in RegisterInput) (*models.Account, error) {
	acc := models.Account{
		Email:    models.NormalizeEmail(in.Email),
		Name:     strings.TrimSpace(in.Name),
		IsActive: true,
	}

	fields := map[string]string{}
	if err := validateEntity(&acc); err != nil {
		var verr *Error
		if !errors.As(err, &verr) {
			return nil, err
		}
		for k, v := range verr.Fields {
			fields[k] = v
		}
	}
	if len(in.Password) < minPasswordLength {
		fields["password"] = passwordTooShort()
	}
	if len(fields) > 0 {
		return nil, fieldErrors(fields)
	}
	if in.Password != in.PasswordConfirm {
		return nil, fieldError("password_confirm", "Passwords do not match.")
	}

	var n int64
	if err := s.DB.Model(&models.Account{}).Where("email = ?", acc.Email).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return nil, fieldError("email", msgEmailTaken)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acc.Password = hash

	if err := s.DB.Create(&acc).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return nil, fieldError("email", msgEmailTaken)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	slog.Info("account registered", "account_id", acc.ID)
	return &acc, nil
}

// Session is the result of a successful login.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      *models.Account `json:"user"`
}

func (s *AccountService) Login(email, password string) (*Session, error) {
	var acc models.Account
	err := s.DB.Where("email = ?", models.NormalizeEmail(email)).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorized(msgBadCredentials)
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	if !utils.CheckPasswordHash(password, acc.Password) {
		return nil, unauthorized(msgBadCredentials)
	}
	if !acc.IsActive {
		return nil, unauthorized("User account is disabled.")
	}

	token, exp, err := s.Tokens.Generate(acc.ID, acc.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: &acc}, nil
}

// Authenticate resolves a bearer token to an active account.
func (s *AccountService) Authenticate(token string) (*models.Account, error) {
	claims, err := s.Tokens.Validate(token)
	if err != nil {
		return nil, unauthorized("Invalid or expired token.")
	}
	acc, err := s.GetByID(claims.AccountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, unauthorized("Invalid or expired token.")
		}
		return nil, err
	}
	if !acc.IsActive {
		return nil, unauthorized("User account is disabled.")
	}
	return acc, nil
}

func (s *AccountService) GetByID(id uint) (*models.Account, error) {
	var acc models.Account
	if err := s.DB.First(&acc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Account not found.")
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &acc, nil
}

// ProfileInput lists the editable profile fields. Nil means unchanged.
type ProfileInput struct {
	Name        *string
	Bio         *string
	Avatar      *string
	PhoneNumber *string
	IsHost      *bool
}

func (s *AccountService) UpdateProfile(acc *models.Account, in ProfileInput) (*models.Account, error) {
	updated := *acc
	if in.Name != nil {
		updated.Name = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		updated.Bio = *in.Bio
	}
	if in.Avatar != nil {
		updated.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if in.PhoneNumber != nil {
		updated.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.IsHost != nil {
		updated.IsHost = *in.IsHost
	}
	if err := validateEntity(&updated); err != nil {
		return nil, err
	}
	// Only profile columns; the password may have changed since acc was loaded.
	err := s.DB.Model(acc).
		Select("name", "bio", "avatar", "phone_number", "is_host").
		Updates(map[string]interface{}{
			"name":         updated.Name,
			"bio":          updated.Bio,
			"avatar":       updated.Avatar,
			"phone_number": updated.PhoneNumber,
			"is_host":      updated.IsHost,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	acc.Name, acc.Bio, acc.Avatar = updated.Name, updated.Bio, updated.Avatar
	acc.PhoneNumber, acc.IsHost = updated.PhoneNumber, updated.IsHost
	return acc, nil
}

type ChangePasswordInput struct {
	OldPassword        string
	NewPassword        string
	NewPasswordConfirm string
}

func (s *AccountService) ChangePassword(acc *models.Account, in ChangePasswordInput) error {
	fields := map[string]string{}
	if in.OldPassword == "" {
		fields["old_password"] = "This field is required."
	} else if !utils.CheckPasswordHash(in.OldPassword, acc.Password) {
		fields["old_password"] = "Old password is incorrect."
	}
	if len(in.NewPassword) < minPasswordLength {
		fields["new_password"] = passwordTooShort()
	}
	if len(fields) > 0 {
		return fieldErrors(fields)
	}
	if in.NewPassword != in.NewPasswordConfirm {
		return fieldError("new_password_confirm", "New passwords do not match.")
	}

	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.DB.Model(acc).Update("password", hash).Error; err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	acc.Password = hash
	slog.Info("password changed", "account_id", acc.ID)
	return nil
}

// ToggleHost flips the host flag and returns the new value.
func (s *AccountService) ToggleHost(acc *models.Account) (bool, error) {
	next := !acc.IsHost
	if err := s.DB.Model(acc).Update("is_host", next).Error; err != nil {
		return acc.IsHost, fmt.Errorf("toggle host: %w", err)
	}
	acc.IsHost = next
	return next, nil
}

type AccountStats struct {
	TotalProperties       int64  `json:"total_properties"`
	TotalReservations     int64  `json:"total_reservations"`
	TotalReviewsGiven     int64  `json:"total_reviews_given"`
	TotalReviewsReceived  int64  `json:"total_reviews_received"`
	HostTotalBookings     *int64 `json:"host_total_bookings,omitempty"`
	HostCompletedBookings *int64 `json:"host_completed_bookings,omitempty"`
}

type countQuery struct {
	dst *int64
	q   *gorm.DB
}

func (s *AccountService) Stats(acc *models.Account) (*AccountStats, error) {
	var st AccountStats
	hosted := s.DB.Model(&models.Property{}).Select("id").Where("host_id = ?", acc.ID)

	counts := []countQuery{
		{&st.TotalProperties, s.DB.Model(&models.Property{}).Where("host_id = ?", acc.ID)},
		{&st.TotalReservations, s.DB.Model(&models.Reservation{}).Where("guest_id = ?", acc.ID)},
		{&st.TotalReviewsGiven, s.DB.Model(&models.Review{}).Where("guest_id = ?", acc.ID)},
		{&st.TotalReviewsReceived, s.DB.Model(&models.Review{}).Where("property_id IN (?)", hosted)},
	}
	if acc.IsHost {
		var total, completed int64
		st.HostTotalBookings = &total
		st.HostCompletedBookings = &completed
		counts = append(counts,
			countQuery{&total, s.DB.Model(&models.Reservation{}).Where("property_id IN (?)", hosted)},
			countQuery{&completed, s.DB.Model(&models.Reservation{}).
				Where("property_id IN (?) AND status = ?", hosted, models.ReservationCompleted)},
		)
	}

	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("account stats: %w", err)
		}
	}
	return &st, nil
}
