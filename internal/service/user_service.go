package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/repository"
	"github.com/evenzo/evenzo-backend/pkg/storage"
	"github.com/evenzo/evenzo-backend/pkg/utils"
)

type UserService struct {
	userRepo *repository.UserRepository
	storage  storage.ObjectStorage
	logger   *zap.SugaredLogger
}

func NewUserService(userRepo *repository.UserRepository, store storage.ObjectStorage, logger *zap.SugaredLogger) *UserService {
	return &UserService{
		userRepo: userRepo,
		storage:  store,
		logger:   logger,
	}
}

func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return user, nil
}

// UpdateProfile changes name and phone, optionally replacing the profile
// image. Email and role are immutable.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest, image *multipart.FileHeader) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	if image != nil {
		if err := validateImageFile(image); err != nil {
			return nil, err
		}
		key := fmt.Sprintf("uploads/profiles/%d/%s-%s", userID, utils.GenerateRandomString(10), image.Filename)
		url, err := uploadImage(ctx, s.storage, key, image)
		if err != nil {
			s.logger.Errorw("profile image upload failed", "user_id", userID, "error", err)
			return nil, fmt.Errorf("failed to upload profile image: %w", err)
		}
		user.ProfileImage = url
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.MobileNo != "" {
		user.MobileNo = req.MobileNo
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
