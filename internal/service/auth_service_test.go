package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/repository"
)

func newAuthService(t *testing.T) (*AuthService, *fakeMailer, *fakeLimiter, *repository.UserRepository) {
	t.Helper()
	db := setupTestDB(t)
	mailer := newFakeMailer()
	limiter := &fakeLimiter{allowed: true}
	userRepo := repository.NewUserRepository(db)
	return NewAuthService(userRepo, mailer, limiter, testLogger()), mailer, limiter, userRepo
}

func registerRequest(email string) models.RegisterRequest {
	return models.RegisterRequest{
		FirstName:       "Ayesha",
		LastName:        "Khan",
		Email:           email,
		Role:            "customer",
		MobileNo:        "5551234567",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
		AcceptedTerms:   true,
	}
}

func TestRegisterCreatesUnverifiedUserAndSendsOTP(t *testing.T) {
	svc, mailer, _, _ := newAuthService(t)

	user, err := svc.Register(registerRequest("ayesha@example.com"))
	require.NoError(t, err)

	assert.False(t, user.IsVerified)
	require.NotNil(t, user.OTP)
	assert.Len(t, *user.OTP, 6)
	assert.Equal(t, *user.OTP, mailer.otpByEmail["ayesha@example.com"])
	assert.NotEqual(t, "supersecret", user.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthService(t)

	_, err := svc.Register(registerRequest("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(registerRequest("dup@example.com"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterInvalidRole(t *testing.T) {
	svc, _, _, _ := newAuthService(t)

	req := registerRequest("badrole@example.com")
	req.Role = "superuser"
	_, err := svc.Register(req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterMailerFailureKeepsAccount(t *testing.T) {
	svc, mailer, _, userRepo := newAuthService(t)
	mailer.fail = true

	_, err := svc.Register(registerRequest("flaky@example.com"))
	assert.ErrorIs(t, err, ErrMailer)

	// Account persists so resend-otp can recover.
	user, err := userRepo.GetByEmail("flaky@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
}

func TestVerifyOTP(t *testing.T) {
	svc, mailer, _, userRepo := newAuthService(t)

	_, err := svc.Register(registerRequest("verify@example.com"))
	require.NoError(t, err)
	otp := mailer.otpByEmail["verify@example.com"]

	t.Run("wrong code", func(t *testing.T) {
		err := svc.VerifyOTP("verify@example.com", "000000")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown email", func(t *testing.T) {
		err := svc.VerifyOTP("nobody@example.com", otp)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, svc.VerifyOTP("verify@example.com", otp))

		user, err := userRepo.GetByEmail("verify@example.com")
		require.NoError(t, err)
		assert.True(t, user.IsVerified)
		assert.Nil(t, user.OTP)
	})

	t.Run("already verified", func(t *testing.T) {
		err := svc.VerifyOTP("verify@example.com", otp)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, mailer, _, userRepo := newAuthService(t)

	user, err := svc.Register(registerRequest("expired@example.com"))
	require.NoError(t, err)

	stale := time.Now().Add(-OTPExpiry - time.Minute)
	require.NoError(t, userRepo.SetOTP(user.ID, mailer.otpByEmail["expired@example.com"], stale))

	err = svc.VerifyOTP("expired@example.com", mailer.otpByEmail["expired@example.com"])
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResendOTPCooldown(t *testing.T) {
	svc, mailer, _, userRepo := newAuthService(t)

	user, err := svc.Register(registerRequest("resend@example.com"))
	require.NoError(t, err)

	// Immediately after registration the cooldown is still running.
	err = svc.ResendOTP(context.Background(), "resend@example.com", "10.0.0.1")
	assert.ErrorIs(t, err, ErrRateLimited)

	past := time.Now().Add(-2 * time.Minute)
	require.NoError(t, userRepo.SetOTP(user.ID, *user.OTP, past))

	first := mailer.otpByEmail["resend@example.com"]
	require.NoError(t, svc.ResendOTP(context.Background(), "resend@example.com", "10.0.0.1"))
	assert.NotEqual(t, first, mailer.otpByEmail["resend@example.com"])
}

func TestResendOTPRateLimited(t *testing.T) {
	svc, _, limiter, _ := newAuthService(t)
	limiter.allowed = false

	_, err := svc.Register(registerRequest("limited@example.com"))
	require.NoError(t, err)

	err = svc.ResendOTP(context.Background(), "limited@example.com", "10.0.0.9")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, limiter.keys, "otp:10.0.0.9")
}

func TestLogin(t *testing.T) {
	svc, mailer, _, _ := newAuthService(t)

	_, err := svc.Register(registerRequest("login@example.com"))
	require.NoError(t, err)

	t.Run("unverified", func(t *testing.T) {
		_, err := svc.Login(models.LoginRequest{Email: "login@example.com", Password: "supersecret"})
		assert.ErrorIs(t, err, ErrPermission)
	})

	require.NoError(t, svc.VerifyOTP("login@example.com", mailer.otpByEmail["login@example.com"]))

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(models.LoginRequest{Email: "login@example.com", Password: "nope-nope-nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(models.LoginRequest{Email: "ghost@example.com", Password: "supersecret"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("success", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		auth, err := svc.Login(models.LoginRequest{Email: "login@example.com", Password: "supersecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, auth.Token)
		assert.Equal(t, "login@example.com", auth.User.Email)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	svc, mailer, _, userRepo := newAuthService(t)
	t.Setenv("JWT_SECRET", "test-secret")

	user, err := svc.Register(registerRequest("reset@example.com"))
	require.NoError(t, err)
	require.NoError(t, svc.VerifyOTP("reset@example.com", mailer.otpByEmail["reset@example.com"]))

	require.NoError(t, svc.ForgotPassword(context.Background(), "reset@example.com", "10.0.0.2"))
	code := mailer.resetByEmail["reset@example.com"]
	require.Len(t, code, 6)

	t.Run("wrong code", func(t *testing.T) {
		err := svc.ResetPassword(models.ResetPasswordRequest{
			Email:           "reset@example.com",
			OTP:             "000000",
			NewPassword:     "freshsecret",
			ConfirmPassword: "freshsecret",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	require.NoError(t, svc.ResetPassword(models.ResetPasswordRequest{
		Email:           "reset@example.com",
		OTP:             code,
		NewPassword:     "freshsecret",
		ConfirmPassword: "freshsecret",
	}))

	_, err = svc.Login(models.LoginRequest{Email: "reset@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(models.LoginRequest{Email: "reset@example.com", Password: "freshsecret"})
	require.NoError(t, err)

	// The used code is cleared.
	refetched, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, refetched.OTP)
}
