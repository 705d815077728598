package repository

import (
	"context"

	"github.com/hondana/bookmarket-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *model.Profile) error
	FindByUID(ctx context.Context, uid string) (*model.Profile, error)
	FindByUIDs(ctx context.Context, uids []string) (map[string]model.Profile, error)
	SetDB(db *gorm.DB)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *profileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "avatar_url"}),
		}).
		Create(profile).Error
}

func (r *profileRepository) FindByUID(ctx context.Context, uid string) (*model.Profile, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var profile model.Profile
	if err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUIDs batches the profile lookup for the conversation list. UIDs
// with no profile row are simply absent from the result.
func (r *profileRepository) FindByUIDs(ctx context.Context, uids []string) (map[string]model.Profile, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	result := make(map[string]model.Profile, len(uids))
	if len(uids) == 0 {
		return result, nil
	}
	var profiles []model.Profile
	if err := r.db.WithContext(ctx).Where("uid IN ?", uids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		result[p.UID] = p
	}
	return result, nil
}
