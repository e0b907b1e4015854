package services

import (
	"context"
	"errors"
	"fmt"

	"courtfinder/dto"
	apperrors "courtfinder/errors"
	"courtfinder/models"
	"courtfinder/repository"
	"courtfinder/services/logger"
)

type UserService struct {
	store  repository.Store
	logger logger.Logger
}

type UserServiceOptions struct {
	Store  repository.Store
	Logger logger.Logger
}

func NewUserService(opts UserServiceOptions) *UserService {
	s := &UserService{
		store:  opts.Store,
		logger: opts.Logger,
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	return s
}

// GetProfile trả về hồ sơ công khai kèm trust score
func (s *UserService) GetProfile(ctx context.Context, id uint) (*dto.UserProfileResponse, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("user", id)
	}
	if err != nil {
		s.logger.Error("UserService.GetProfile: %v", err)
		return nil, apperrors.Internal("failed to load user", fmt.Errorf("UserService.GetProfile: %w", err))
	}
	return toUserProfile(user), nil
}

func toUserProfile(u *models.User) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		ID:            u.ID,
		DisplayName:   u.DisplayName,
		UpvoteCount:   u.UpvoteCount,
		DownvoteCount: u.DownvoteCount,
		TrustScore:    TrustScore(u.UpvoteCount, u.DownvoteCount),
		CreatedAt:     u.CreatedAt,
	}
}
