// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/config"
	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/tasks"
	"github.com/procurex/orders-backend/internal/utils"
)

type AuthService struct {
	db            *gorm.DB
	cfg           *config.Config
	queue         *tasks.Queue
	notifications *NotificationService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,strong_password"`
	FirstName string          `json:"first_name" validate:"max=30"`
	LastName  string          `json:"last_name" validate:"max=30"`
	Role      models.UserRole `json:"role,omitempty"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strong_password"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config, queue *tasks.Queue, notifications *NotificationService) *AuthService {
	return &AuthService{
		db:            db,
		cfg:           cfg,
		queue:         queue,
		notifications: notifications,
	}
}

// Register creates an inactive account and mails out a confirmation link.
// The account cannot log in until the link is followed.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Check if user already exists
	var existingUser models.User
	if err := s.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return nil, fmt.Errorf("user with this email already exists: %w", ErrConflict)
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleBuyer
	}
	if !models.ValidUserRole(role) {
		return nil, errors.New("invalid user role")
	}

	user := &models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		IsActive:  false,
	}

	// Set password
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Save user
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Send confirmation email (async)
	userID := user.ID
	s.queue.Enqueue("registration_confirmation_email", func() error {
		return s.notifications.SendRegistrationConfirmationEmail(userID)
	})

	return user, nil
}

// ConfirmRegistration validates the mailed token and activates the account.
func (s *AuthService) ConfirmRegistration(userID uuid.UUID, token string) error {
	subject, err := utils.ValidateConfirmationToken(token)
	if err != nil {
		return fmt.Errorf("invalid confirmation token: %w", err)
	}

	if subject != userID.String() {
		return errors.New("confirmation token does not match user")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user: %w", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if user.IsActive {
		return nil
	}

	return s.db.Model(&user).Update("is_active", true).Error
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Find user by email
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Verify password
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Unconfirmed registrations cannot log in
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	return s.issueTokens(&user)
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	// Validate refresh token
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	// Find user
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	return s.issueTokens(&user)
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(
		user.ID,
		user.Email,
		string(user.Role),
		user.IsStaff,
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}

// RequestPasswordReset issues a single-use token and mails it. The response
// is identical whether or not the email is registered.
func (s *AuthService) RequestPasswordReset(req *PasswordResetRequest) error {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// Don't reveal if email exists or not
		return nil
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	reset := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := s.db.Create(reset).Error; err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	userID := user.ID
	s.queue.Enqueue("password_reset_email", func() error {
		return s.notifications.SendPasswordResetEmail(userID, token)
	})

	return nil
}

func (s *AuthService) ConfirmPasswordReset(req *PasswordResetConfirmRequest) error {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var reset models.PasswordResetToken
	if err := s.db.Where("token = ?", req.Token).First(&reset).Error; err != nil {
		return errors.New("invalid or expired reset token")
	}

	if reset.ExpiresAt.Before(time.Now()) {
		return errors.New("reset token has expired")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", reset.UserID).Error; err != nil {
		return fmt.Errorf("user: %w", ErrNotFound)
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.db.Delete(&reset).Error
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}
