package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/repository"
	"github.com/evenzo/evenzo-backend/pkg/bcrypt"
	jwtPkg "github.com/evenzo/evenzo-backend/pkg/jwt"
	"github.com/evenzo/evenzo-backend/pkg/ratelimit"
	"github.com/evenzo/evenzo-backend/pkg/utils"
)

const (
	// OTP codes expire 10 minutes after issue.
	OTPExpiry = 10 * time.Minute
	// A user must wait a minute between OTP sends.
	OTPResendCooldown = 1 * time.Minute
	// Per-IP cap on OTP issuance.
	OTPRateLimit  = 5
	OTPRateWindow = time.Hour
)

// Mailer is the external email collaborator. Delivery failures surface to
// callers as ErrMailer, never as a crash.
type Mailer interface {
	SendOTPEmail(to, otp string) error
	SendPasswordResetEmail(to, otp string) error
}

type AuthService struct {
	userRepo *repository.UserRepository
	mailer   Mailer
	limiter  ratelimit.Limiter
	logger   *zap.SugaredLogger
}

func NewAuthService(userRepo *repository.UserRepository, mailer Mailer, limiter ratelimit.Limiter, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		mailer:   mailer,
		limiter:  limiter,
		logger:   logger,
	}
}

// Register creates an unverified account and sends the verification OTP.
// The account stays unverified until the code is confirmed.
func (s *AuthService) Register(req models.RegisterRequest) (*models.User, error) {
	role, ok := models.ParseUserRole(req.Role)
	if !ok {
		return nil, fmt.Errorf("%w: invalid role %q", ErrValidation, req.Role)
	}
	if !req.AcceptedTerms {
		return nil, fmt.Errorf("%w: you must accept the terms and conditions to register", ErrValidation)
	}

	exists, err := s.userRepo.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: this email is already registered", ErrConflict)
	}

	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	otp := utils.GenerateOTP()
	now := time.Now()
	user := &models.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      hashedPassword,
		Role:          role,
		MobileNo:      req.MobileNo,
		IsVerified:    false,
		OTP:           &otp,
		OTPCreatedAt:  &now,
		AcceptedTerms: true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: this email is already registered", ErrConflict)
		}
		s.logger.Errorw("user creation failed", "email", req.Email, "error", err)
		return nil, err
	}

	if err := s.mailer.SendOTPEmail(user.Email, otp); err != nil {
		// The account exists; resend-otp is the recovery path.
		s.logger.Errorw("verification email failed", "email", user.Email, "error", err)
		return nil, ErrMailer
	}

	return user, nil
}

func (s *AuthService) VerifyOTP(email, otp string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("%w: user with this email does not exist", ErrNotFound)
	}

	if user.IsVerified {
		return fmt.Errorf("%w: email is already verified", ErrValidation)
	}
	if user.OTP == nil || user.OTPCreatedAt == nil {
		return fmt.Errorf("%w: no OTP was generated for this user", ErrValidation)
	}
	if time.Now().After(user.OTPCreatedAt.Add(OTPExpiry)) {
		return fmt.Errorf("%w: OTP has expired, please request a new one", ErrValidation)
	}
	if *user.OTP != otp {
		return fmt.Errorf("%w: invalid OTP, please try again", ErrValidation)
	}

	return s.userRepo.MarkVerified(user.ID)
}

// ResendOTP regenerates the verification code, throttled per IP and per user.
func (s *AuthService) ResendOTP(ctx context.Context, email, clientIP string) error {
	allowed, err := s.limiter.Allow(ctx, "otp:"+clientIP, OTPRateLimit, OTPRateWindow)
	if err != nil {
		s.logger.Warnw("rate limiter unavailable", "error", err)
	} else if !allowed {
		return fmt.Errorf("%w: too many OTP requests, please try again later", ErrRateLimited)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("%w: user not found", ErrNotFound)
	}
	if user.IsVerified {
		return fmt.Errorf("%w: email already verified", ErrValidation)
	}
	if user.OTPCreatedAt != nil && time.Now().Before(user.OTPCreatedAt.Add(OTPResendCooldown)) {
		return fmt.Errorf("%w: please wait at least 1 minute before requesting a new OTP", ErrRateLimited)
	}

	otp := utils.GenerateOTP()
	if err := s.userRepo.SetOTP(user.ID, otp, time.Now()); err != nil {
		return err
	}

	if err := s.mailer.SendOTPEmail(user.Email, otp); err != nil {
		s.logger.Errorw("otp resend failed", "email", user.Email, "error", err)
		return ErrMailer
	}
	return nil
}

// Login authenticates a verified user and issues a JWT carrying the role.
func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: user with this email does not exist", ErrNotFound)
	}

	if !user.IsVerified {
		return nil, fmt.Errorf("%w: to continue, please confirm your email using the OTP we sent", ErrPermission)
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwtPkg.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		s.logger.Errorw("token generation failed", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("token generation failed: %v", err)
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

// ForgotPassword issues a reset OTP, throttled like resend.
func (s *AuthService) ForgotPassword(ctx context.Context, email, clientIP string) error {
	allowed, err := s.limiter.Allow(ctx, "pwd-reset:"+clientIP, OTPRateLimit, OTPRateWindow)
	if err != nil {
		s.logger.Warnw("rate limiter unavailable", "error", err)
	} else if !allowed {
		return fmt.Errorf("%w: too many password reset requests, please try again later", ErrRateLimited)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("%w: no user is registered with this email address", ErrNotFound)
	}
	if user.OTPCreatedAt != nil && time.Now().Before(user.OTPCreatedAt.Add(OTPResendCooldown)) {
		return fmt.Errorf("%w: please wait at least 1 minute before requesting a new password reset OTP", ErrRateLimited)
	}

	otp := utils.GenerateOTP()
	if err := s.userRepo.SetOTP(user.ID, otp, time.Now()); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(user.Email, otp); err != nil {
		s.logger.Errorw("password reset email failed", "email", user.Email, "error", err)
		return ErrMailer
	}
	return nil
}

// ResetPassword sets a new password after validating the reset OTP.
func (s *AuthService) ResetPassword(req models.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return fmt.Errorf("%w: invalid password reset request", ErrValidation)
	}

	if user.OTP == nil || user.OTPCreatedAt == nil {
		return fmt.Errorf("%w: no password reset OTP was generated for this user", ErrValidation)
	}
	if time.Now().After(user.OTPCreatedAt.Add(OTPExpiry)) {
		return fmt.Errorf("%w: password reset OTP has expired, please request a new one", ErrValidation)
	}
	if *user.OTP != req.OTP {
		return fmt.Errorf("%w: invalid OTP, please try again", ErrValidation)
	}

	hashedPassword, err := bcrypt.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(user.ID, hashedPassword); err != nil {
		return err
	}
	return s.userRepo.ClearOTP(user.ID)
}
