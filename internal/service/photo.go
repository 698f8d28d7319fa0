package service

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/dto"
	apperrors "github.com/photoshare/api/internal/errors"
	"github.com/photoshare/api/internal/model"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/logger"
	"gorm.io/gorm"
)

// PhotoDetail is a photo with its rating summary.
type PhotoDetail struct {
	Photo         *model.Photo
	AverageRating float64
	RatingCount   int64
}

type PhotoService struct {
	photos    PhotoStore
	sanitizer *bluemonday.Policy
}

func NewPhotoService(photos PhotoStore) *PhotoService {
	return &PhotoService{photos: photos, sanitizer: bluemonday.StrictPolicy()}
}

func (s *PhotoService) Create(ctx context.Context, owner *model.User, req dto.CreatePhotoRequest) (*PhotoDetail, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "PhotoService.Create")

	names, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}
	tags, err := s.photos.UpsertTags(ctx, names)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	photo := &model.Photo{
		URL:         strings.TrimSpace(req.URL),
		Description: s.sanitize(req.Description),
		UserID:      owner.ID,
		Tags:        tags,
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Photo created").
		Uint("photo_id", photo.ID).
		Log()
	return &PhotoDetail{Photo: photo}, nil
}

func (s *PhotoService) Get(ctx context.Context, id uint) (*PhotoDetail, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "PhotoService.Get")

	photo, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, photo)
}

// List pages through photos, newest first, optionally only those carrying tag.
func (s *PhotoService) List(ctx context.Context, params constants.PaginationParams, tag string) ([]PhotoDetail, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "PhotoService.List")

	photos, total, err := s.photos.List(ctx, params.Limit, params.Offset, strings.ToLower(strings.TrimSpace(tag)))
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list photos").
			Err(err).
			Log()
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	details := make([]PhotoDetail, 0, len(photos))
	for i := range photos {
		d, err := s.detail(ctx, &photos[i])
		if err != nil {
			return nil, 0, err
		}
		details = append(details, *d)
	}
	return details, total, nil
}

// Update is allowed to the owner and to admins. Nil tags keep the current set.
func (s *PhotoService) Update(ctx context.Context, actor *model.User, id uint, req dto.UpdatePhotoRequest) (*PhotoDetail, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "PhotoService.Update")

	photo, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, photo.UserID) {
		return nil, apperrors.ErrNotOwner
	}

	if req.Description != nil {
		photo.Description = s.sanitize(*req.Description)
	}

	var tags []model.Tag
	if req.Tags != nil {
		names, err := normalizeTags(req.Tags)
		if err != nil {
			return nil, err
		}
		if tags, err = s.photos.UpsertTags(ctx, names); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	if err := s.photos.Update(ctx, photo, tags); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return s.detail(ctx, photo)
}

func (s *PhotoService) Delete(ctx context.Context, actor *model.User, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "PhotoService.Delete")

	photo, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, photo.UserID) {
		return apperrors.ErrNotOwner
	}
	if err := s.photos.Delete(ctx, photo); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Photo deleted").
		Uint("photo_id", id).
		Log()
	return nil
}

// Rate records the caller's score. Owners cannot rate their own photo.
func (s *PhotoService) Rate(ctx context.Context, rater *model.User, id uint, score int) (*model.Rating, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "PhotoService.Rate")

	if score < constants.MinRating || score > constants.MaxRating {
		return nil, apperrors.ErrInvalidInput
	}
	photo, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if photo.UserID == rater.ID {
		return nil, apperrors.ErrRateOwnPhoto
	}

	rating := &model.Rating{Rating: score, UserID: rater.ID, PhotoID: photo.ID}
	if err := s.photos.UpsertRating(ctx, rating); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return rating, nil
}

func (s *PhotoService) load(ctx context.Context, id uint) (*model.Photo, error) {
	photo, err := s.photos.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrPhotoNotFound
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return photo, nil
}

func (s *PhotoService) detail(ctx context.Context, photo *model.Photo) (*PhotoDetail, error) {
	avg, count, err := s.photos.RatingStats(ctx, photo.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return &PhotoDetail{Photo: photo, AverageRating: avg, RatingCount: count}, nil
}

func (s *PhotoService) sanitize(text string) string {
	return plainText(s.sanitizer, text)
}

// plainText drops markup and returns the text as typed. The policy escapes what it keeps,
// so the entities are decoded again; JSON output needs no HTML escaping.
func plainText(policy *bluemonday.Policy, text string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(text)))
}

func canModify(actor *model.User, ownerID uint) bool {
	return actor.ID == ownerID || actor.Role == constants.RoleAdmin
}

// normalizeTags lower-cases, trims and de-duplicates tag names, keeping first-seen order.
func normalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, t := range raw {
		name := strings.ToLower(strings.TrimSpace(t))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if len(names) > constants.MaxTagsPerPhoto {
		return nil, apperrors.WrapError(apperrors.ErrInvalidInput, errors.New("too many tags"))
	}
	return names, nil
}
