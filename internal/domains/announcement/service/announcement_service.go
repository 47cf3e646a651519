package service

import (
	"context"

	"github.com/google/uuid"

	"laptopshop-backend/internal/domains/announcement/model"
	"laptopshop-backend/internal/domains/announcement/repository"
)

type AnnouncementService struct {
	repo repository.AnnouncementRepository
}

func NewAnnouncementService(repo repository.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{repo: repo}
}

func (s *AnnouncementService) Create(ctx context.Context, req model.CreateAnnouncementRequest) (*model.Announcement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := &model.Announcement{
		ID:       uuid.New(),
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		IsActive: true,
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnnouncementService) Update(ctx context.Context, id uuid.UUID, req model.UpdateAnnouncementRequest) (*model.Announcement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Content != nil {
		a.Content = *req.Content
	}
	if req.ImageURL != nil {
		a.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *AnnouncementService) Get(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPublic returns only active announcements for the storefront.
func (s *AnnouncementService) ListPublic(ctx context.Context) ([]model.Announcement, error) {
	return s.repo.List(ctx, true)
}

func (s *AnnouncementService) ListAll(ctx context.Context) ([]model.Announcement, error) {
	return s.repo.List(ctx, false)
}
