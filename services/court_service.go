package services

import (
	"context"
	"errors"
	"strconv"

	"courtfinder/constants"
	"courtfinder/dto"
	apperrors "courtfinder/errors"
	"courtfinder/models"
	"courtfinder/repository"
	"courtfinder/services/logger"

	"golang.org/x/sync/singleflight"
)

type CourtFetcher interface {
	FetchCourt(ctx context.Context, id int64) (*models.Court, error)
}

// CourtService tra sân trong DB trước, sau đó mới gọi Overpass và lưu lại kết quả
type CourtService struct {
	store   repository.Store
	fetcher CourtFetcher
	logger  logger.Logger
	group   singleflight.Group
}

type CourtServiceOptions struct {
	Store   repository.Store
	Fetcher CourtFetcher
	Logger  logger.Logger
}

func NewCourtService(opts CourtServiceOptions) *CourtService {
	s := &CourtService{
		store:   opts.Store,
		fetcher: opts.Fetcher,
		logger:  opts.Logger,
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	return s
}

func (s *CourtService) GetCourt(ctx context.Context, id int64) (*models.Court, error) {
	court, err := s.store.Courts().FindByID(ctx, id)
	if err == nil {
		return court, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("failed to load court", err)
	}
	if s.fetcher == nil {
		return nil, apperrors.NotFound("court", id)
	}

	// các request đồng thời cho cùng một sân chỉ gọi Overpass một lần
	v, err, _ := s.group.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		fetched, err := s.fetcher.FetchCourt(ctx, id)
		if errors.Is(err, ErrCourtNotFound) {
			return nil, apperrors.NotFound("court", id)
		}
		if err != nil {
			s.logger.Error("overpass lookup for court %d: %v", id, err)
			return nil, apperrors.External("failed to look up court", err)
		}
		fetched.ID = id
		if err := s.store.Courts().Save(ctx, fetched); err != nil {
			s.logger.Error("save court %d: %v", id, err)
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Court), nil
}

func (s *CourtService) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.GetCourt(ctx, id)
	if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PartialUpdate sửa thông tin sân do người dùng cung cấp. Sân phải có sẵn trong DB.
func (s *CourtService) PartialUpdate(ctx context.Context, id int64, req dto.UpdateCourtRequest) (*models.Court, error) {
	court, err := s.store.Courts().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("court", id)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load court", err)
	}
	if req.Empty() {
		return nil, apperrors.InvalidArgument("no changes supplied")
	}
	if req.Netting != nil && (*req.Netting < 0 || *req.Netting > constants.MaxNetting) {
		return nil, apperrors.InvalidArgument("netting must be set to a predefined option")
	}
	if req.RimType != nil && (*req.RimType < 0 || *req.RimType > constants.MaxRimType) {
		return nil, apperrors.InvalidArgument("rim type must be set to a predefined option")
	}

	if req.Hoops != nil {
		court.Hoops = *req.Hoops
	}
	if req.Surface != nil {
		court.Surface = *req.Surface
	}
	if req.Indoor != nil {
		court.Indoor = req.Indoor
	}
	if req.Netting != nil {
		court.Netting = req.Netting
	}
	if req.RimType != nil {
		court.RimType = req.RimType
	}
	if req.RimHeight != nil {
		court.RimHeight = req.RimHeight
	}
	if req.Address != nil {
		court.Address = *req.Address
	}
	if req.Amenity != nil {
		court.Amenity = *req.Amenity
	}
	if req.Website != nil {
		court.Website = *req.Website
	}
	if req.OpeningHours != nil {
		court.OpeningHours = *req.OpeningHours
	}
	if req.Phone != nil {
		court.Phone = *req.Phone
	}

	if err := s.store.Courts().Save(ctx, court); err != nil {
		s.logger.Error("CourtService.PartialUpdate court %d: %v", id, err)
		return nil, apperrors.Internal("failed to save court", err)
	}
	s.logger.Info("court %d updated", id)
	return court, nil
}
