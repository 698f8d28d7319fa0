package service

import (
	"context"
	"time"

	"github.com/photoshare/api/internal/model"
	"github.com/photoshare/api/pkg/events"
)

// Lookups return gorm.ErrRecordNotFound when nothing matches.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	List(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
}

type TokenStore interface {
	Create(ctx context.Context, token *model.Token) error
	ListActiveByUser(ctx context.Context, userID uint, now time.Time) ([]model.Token, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type BlacklistStore interface {
	Add(ctx context.Context, token string, at time.Time) error
	Exists(ctx context.Context, token string) (bool, error)
	DeleteForExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// RevocationCache is an optional fast path in front of BlacklistStore.
type RevocationCache interface {
	Enabled() bool
	MarkRevoked(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type PhotoStore interface {
	UpsertTags(ctx context.Context, names []string) ([]model.Tag, error)
	Create(ctx context.Context, photo *model.Photo) error
	GetByID(ctx context.Context, id uint) (*model.Photo, error)
	List(ctx context.Context, limit, offset int, tag string) ([]model.Photo, int64, error)
	Update(ctx context.Context, photo *model.Photo, tags []model.Tag) error
	Delete(ctx context.Context, photo *model.Photo) error
	UpsertRating(ctx context.Context, rating *model.Rating) error
	RatingStats(ctx context.Context, photoID uint) (float64, int64, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uint) (*model.Comment, error)
	ListByPhoto(ctx context.Context, photoID uint) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, comment *model.Comment) error
}

// Clock is injected wherever expiry is compared, so tests can move time.
type Clock func() time.Time

// publishAudit sends an audit event and only logs on failure.
func publishAudit(ctx context.Context, publisher events.Publisher, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logAuditFailure(ctx, event, err)
	}
}
