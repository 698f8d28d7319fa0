package repository

import (
	"context"
	"time"

	"github.com/photoshare/api/internal/model"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// UpsertTags makes sure every name exists in tags and returns the rows.
func (r *PhotoRepository) UpsertTags(ctx context.Context, names []string) ([]model.Tag, error) {
	if len(names) == 0 {
		return []model.Tag{}, nil
	}

	rows := make([]model.Tag, 0, len(names))
	for _, n := range names {
		rows = append(rows, model.Tag{TagName: n})
	}

	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "tag_name"}}, DoNothing: true}).
		Create(&rows).Error; err != nil {
		return nil, err
	}

	var tags []model.Tag
	if err := db.Where("tag_name IN ?", names).Order("tag_name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *PhotoRepository) Create(ctx context.Context, photo *model.Photo) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "PhotoRepository.Create")

	start := time.Now()
	if err := r.db.WithContext(ctx).Omit("Tags.*").Create(photo).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create photo").
			Uint("owner_id", photo.UserID).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Photo created").
		Uint("photo_id", photo.ID).
		Int("tag_count", len(photo.Tags)).
		Duration(time.Since(start)).
		Log()
	return nil
}

func (r *PhotoRepository) GetByID(ctx context.Context, id uint) (*model.Photo, error) {
	var photo model.Photo
	if err := r.db.WithContext(ctx).Preload("Tags").First(&photo, id).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) List(ctx context.Context, limit, offset int, tag string) ([]model.Photo, int64, error) {
	var photos []model.Photo
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Photo{})
	if tag != "" {
		query = query.
			Joins("JOIN photo_m2m_tag ON photo_m2m_tag.photo_id = photos.id").
			Joins("JOIN tags ON tags.id = photo_m2m_tag.tag_id").
			Where("tags.tag_name = ?", tag)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Preload("Tags").Order("photos.id DESC").Limit(limit).Offset(offset).Find(&photos).Error; err != nil {
		return nil, 0, err
	}
	return photos, total, nil
}

// Update saves scalar fields and, when tags is non-nil, replaces the tag set.
func (r *PhotoRepository) Update(ctx context.Context, photo *model.Photo, tags []model.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Save(photo).Error; err != nil {
			return err
		}
		if tags == nil {
			return nil
		}
		if err := tx.Model(photo).Association("Tags").Replace(tags); err != nil {
			return err
		}
		photo.Tags = tags
		return nil
	})
}

// Delete removes the photo together with its tag links, ratings and comments.
func (r *PhotoRepository) Delete(ctx context.Context, photo *model.Photo) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "PhotoRepository.Delete")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(photo).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", photo.ID).Delete(&model.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", photo.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(photo).Error
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to delete photo").
			Uint("photo_id", photo.ID).
			Err(err).
			Log()
	}
	return err
}

// UpsertRating stores one score per (user, photo); a repeat overwrites the score.
func (r *PhotoRepository) UpsertRating(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "photo_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating"}),
		}).
		Create(rating).Error
}

func (r *PhotoRepository) RatingStats(ctx context.Context, photoID uint) (float64, int64, error) {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("photo_id = ?", photoID).
		Scan(&stats).Error
	return stats.Avg, stats.Count, err
}
