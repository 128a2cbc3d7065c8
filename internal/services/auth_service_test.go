// internal/services/auth_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	auth *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	cfg := newTestConfig(suite.T())
	queue := newTestQueue()
	notifications := NewNotificationService(suite.db, cfg)
	suite.auth = NewAuthService(suite.db, cfg, queue, notifications)
}

func (suite *AuthServiceTestSuite) TestRegisterCreatesInactiveAccount() {
	user, err := suite.auth.Register(&RegisterRequest{
		Email:     "new@example.com",
		Password:  "secret123",
		FirstName: "New",
		LastName:  "User",
	})
	suite.Require().NoError(err)

	suite.False(user.IsActive)
	suite.Equal(models.UserRoleBuyer, user.Role)
	suite.NoError(user.CheckPassword("secret123"))

	// Login rejected until the registration is confirmed
	_, err = suite.auth.Login(&LoginRequest{Email: "new@example.com", Password: "secret123"})
	suite.ErrorIs(err, ErrInactiveAccount)
}

func (suite *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	_, err := suite.auth.Register(&RegisterRequest{Email: "dup@example.com", Password: "secret123"})
	suite.Require().NoError(err)

	_, err = suite.auth.Register(&RegisterRequest{Email: "dup@example.com", Password: "secret456"})
	suite.ErrorIs(err, ErrConflict)
}

func (suite *AuthServiceTestSuite) TestRegisterWeakPasswordRejected() {
	_, err := suite.auth.Register(&RegisterRequest{Email: "weak@example.com", Password: "short"})
	suite.Error(err)

	_, err = suite.auth.Register(&RegisterRequest{Email: "weak@example.com", Password: "lettersonly"})
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestConfirmRegistrationActivates() {
	user, err := suite.auth.Register(&RegisterRequest{
		Email:    "confirm@example.com",
		Password: "secret123",
		Role:     models.UserRoleSeller,
	})
	suite.Require().NoError(err)

	token, err := utils.GenerateConfirmationToken(user.ID)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.auth.ConfirmRegistration(user.ID, token))

	resp, err := suite.auth.Login(&LoginRequest{Email: "confirm@example.com", Password: "secret123"})
	suite.Require().NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.NotEmpty(resp.RefreshToken)
	suite.Equal("Bearer", resp.TokenType)
	suite.Equal(models.UserRoleSeller, resp.User.Role)
}

func (suite *AuthServiceTestSuite) TestConfirmRegistrationWrongUser() {
	user, err := suite.auth.Register(&RegisterRequest{Email: "a@example.com", Password: "secret123"})
	suite.Require().NoError(err)
	other, err := suite.auth.Register(&RegisterRequest{Email: "b@example.com", Password: "secret123"})
	suite.Require().NoError(err)

	token, err := utils.GenerateConfirmationToken(other.ID)
	suite.Require().NoError(err)

	suite.Error(suite.auth.ConfirmRegistration(user.ID, token))
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	createTestUser(suite.T(), suite.db, "known@example.com", models.UserRoleBuyer)

	_, err := suite.auth.Login(&LoginRequest{Email: "known@example.com", Password: "wrongpass1"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	_, err = suite.auth.Login(&LoginRequest{Email: "unknown@example.com", Password: "password1"})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestRefreshToken() {
	createTestUser(suite.T(), suite.db, "refresh@example.com", models.UserRoleBuyer)

	resp, err := suite.auth.Login(&LoginRequest{Email: "refresh@example.com", Password: "password1"})
	suite.Require().NoError(err)

	refreshed, err := suite.auth.RefreshToken(resp.RefreshToken)
	suite.Require().NoError(err)
	suite.NotEmpty(refreshed.AccessToken)

	_, err = suite.auth.RefreshToken("not-a-token")
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestPasswordResetFlow() {
	user := createTestUser(suite.T(), suite.db, "reset@example.com", models.UserRoleBuyer)

	suite.Require().NoError(suite.auth.RequestPasswordReset(&PasswordResetRequest{Email: "reset@example.com"}))

	var reset models.PasswordResetToken
	suite.Require().NoError(suite.db.Where("user_id = ?", user.ID).First(&reset).Error)
	suite.Len(reset.Token, 64)
	suite.True(reset.ExpiresAt.After(time.Now()))

	suite.Require().NoError(suite.auth.ConfirmPasswordReset(&PasswordResetConfirmRequest{
		Token:       reset.Token,
		NewPassword: "newsecret1",
	}))

	// Old password out, new password in
	_, err := suite.auth.Login(&LoginRequest{Email: "reset@example.com", Password: "password1"})
	suite.ErrorIs(err, ErrInvalidCredentials)
	_, err = suite.auth.Login(&LoginRequest{Email: "reset@example.com", Password: "newsecret1"})
	suite.NoError(err)

	// The token is single use
	err = suite.auth.ConfirmPasswordReset(&PasswordResetConfirmRequest{
		Token:       reset.Token,
		NewPassword: "another12",
	})
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestPasswordResetUnknownEmailSilent() {
	// No information leak about registered addresses
	suite.NoError(suite.auth.RequestPasswordReset(&PasswordResetRequest{Email: "ghost@example.com"}))
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
