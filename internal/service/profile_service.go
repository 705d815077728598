package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/repository"
	"gorm.io/gorm"
)

type ProfileService interface {
	Upsert(ctx context.Context, uid, displayName string, avatarURL *string) (*model.Profile, error)
	Get(ctx context.Context, uid string) (*model.Profile, error)
}

type profileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) Upsert(ctx context.Context, uid, displayName string, avatarURL *string) (*model.Profile, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" || len(displayName) > 120 {
		return nil, errors.New("invalid display name")
	}
	p := &model.Profile{UID: uid, DisplayName: displayName, AvatarURL: avatarURL}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) Get(ctx context.Context, uid string) (*model.Profile, error) {
	p, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
