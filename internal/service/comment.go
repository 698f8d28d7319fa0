package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/photoshare/api/internal/constants"
	apperrors "github.com/photoshare/api/internal/errors"
	"github.com/photoshare/api/internal/model"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/logger"
	"gorm.io/gorm"
)

type CommentService struct {
	comments  CommentStore
	photos    PhotoStore
	sanitizer *bluemonday.Policy
}

func NewCommentService(comments CommentStore, photos PhotoStore) *CommentService {
	return &CommentService{comments: comments, photos: photos, sanitizer: bluemonday.StrictPolicy()}
}

func (s *CommentService) Create(ctx context.Context, author *model.User, photoID uint, content string) (*model.Comment, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CommentService.Create")

	if err := s.requirePhoto(ctx, photoID); err != nil {
		return nil, err
	}
	content, err := s.clean(content)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{Content: content, PhotoID: photoID, UserID: author.ID}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Comment created").
		Uint("comment_id", comment.ID).
		Uint("photo_id", photoID).
		Log()
	return comment, nil
}

func (s *CommentService) ListByPhoto(ctx context.Context, photoID uint) ([]model.Comment, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CommentService.ListByPhoto")

	if err := s.requirePhoto(ctx, photoID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPhoto(ctx, photoID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return comments, nil
}

// Update only touches comments the author owns; anything else looks absent.
func (s *CommentService) Update(ctx context.Context, author *model.User, id uint, content string) (*model.Comment, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CommentService.Update")

	comment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != author.ID {
		return nil, apperrors.ErrCommentNotFound
	}
	if comment.Content, err = s.clean(content); err != nil {
		return nil, err
	}

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return comment, nil
}

// Delete removes any comment and returns it. Callers gate this on the moderator or admin role.
func (s *CommentService) Delete(ctx context.Context, id uint) (*model.Comment, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CommentService.Delete")

	comment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Delete(ctx, comment); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Comment deleted").
		Uint("comment_id", id).
		Log()
	return comment, nil
}

func (s *CommentService) requirePhoto(ctx context.Context, photoID uint) error {
	_, err := s.photos.GetByID(ctx, photoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrPhotoNotFound
	}
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func (s *CommentService) load(ctx context.Context, id uint) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrCommentNotFound
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return comment, nil
}

func (s *CommentService) clean(content string) (string, error) {
	content = plainText(s.sanitizer, content)
	if n := utf8.RuneCountInString(content); n == 0 || n > constants.MaxCommentLength {
		return "", apperrors.WrapError(apperrors.ErrInvalidInput, errors.New("comment must be 1 to 1000 characters"))
	}
	return content, nil
}
