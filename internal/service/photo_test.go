package service

import (
	"context"
	"testing"

	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/dto"
	apperrors "github.com/photoshare/api/internal/errors"
	"github.com/photoshare/api/internal/model"
	"github.com/photoshare/api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagNames(p *model.Photo) []string {
	out := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		out = append(out, t.TagName)
	}
	return out
}

func TestNormalizeTags(t *testing.T) {
	got, err := normalizeTags([]string{" Sunset", "sunset", "", "BEACH", "beach "})
	require.NoError(t, err)
	assert.Equal(t, []string{"sunset", "beach"}, got)

	_, err = normalizeTags([]string{"a", "b", "c", "d", "e", "f"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// duplicates do not count against the limit
	got, err = normalizeTags([]string{"a", "b", "c", "d", "e", "A", "B"})
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestPhotoService_CreateGetList(t *testing.T) {
	store := testutil.NewPhotoStore()
	svc := NewPhotoService(store)
	ctx := context.Background()
	owner := &model.User{ID: 1, Role: constants.RoleUser}

	created, err := svc.Create(ctx, owner, dto.CreatePhotoRequest{
		URL:         "https://cdn.example.com/a.jpg",
		Description: `<script>alert(1)</script>Sunset at <b>the</b> beach`,
		Tags:        []string{"Sunset", "beach", "sunset"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunset at the beach", created.Photo.Description)
	assert.Equal(t, []string{"sunset", "beach"}, tagNames(created.Photo))

	_, err = svc.Create(ctx, owner, dto.CreatePhotoRequest{URL: "https://cdn.example.com/b.jpg", Tags: []string{"city"}})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.Photo.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.Photo.UserID)
	assert.Zero(t, got.RatingCount)

	list, total, err := svc.List(ctx, constants.PaginationParams{Limit: 10}, "SUNSET")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, created.Photo.ID, list[0].Photo.ID)

	_, err = svc.Get(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrPhotoNotFound)
}

func TestPhotoService_DescriptionKeepsPlainText(t *testing.T) {
	svc := NewPhotoService(testutil.NewPhotoStore())
	ctx := context.Background()
	owner := &model.User{ID: 1, Role: constants.RoleUser}

	created, err := svc.Create(ctx, owner, dto.CreatePhotoRequest{
		URL:         "https://cdn.example.com/a.jpg",
		Description: `Fish & chips "to go" <3`,
	})
	require.NoError(t, err)
	assert.Equal(t, `Fish & chips "to go" <3`, created.Photo.Description)

	desc := `<em>Salt</em> & vinegar`
	updated, err := svc.Update(ctx, owner, created.Photo.ID, dto.UpdatePhotoRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Salt & vinegar", updated.Photo.Description)
}

func TestPhotoService_UpdateAndDeletePermissions(t *testing.T) {
	store := testutil.NewPhotoStore()
	svc := NewPhotoService(store)
	ctx := context.Background()
	owner := &model.User{ID: 1, Role: constants.RoleUser}
	stranger := &model.User{ID: 2, Role: constants.RoleModerator}
	admin := &model.User{ID: 3, Role: constants.RoleAdmin}

	created, err := svc.Create(ctx, owner, dto.CreatePhotoRequest{URL: "https://cdn.example.com/a.jpg", Tags: []string{"a"}})
	require.NoError(t, err)
	id := created.Photo.ID

	_, err = svc.Update(ctx, stranger, id, dto.UpdatePhotoRequest{Description: strPtr("mine now")})
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	updated, err := svc.Update(ctx, owner, id, dto.UpdatePhotoRequest{Description: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Photo.Description)
	assert.Equal(t, []string{"a"}, tagNames(updated.Photo))

	updated, err = svc.Update(ctx, admin, id, dto.UpdatePhotoRequest{Tags: []string{"b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, tagNames(updated.Photo))

	assert.ErrorIs(t, svc.Delete(ctx, stranger, id), apperrors.ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, admin, id))
	assert.ErrorIs(t, svc.Delete(ctx, owner, id), apperrors.ErrPhotoNotFound)
}

func TestPhotoService_Rate(t *testing.T) {
	store := testutil.NewPhotoStore()
	svc := NewPhotoService(store)
	ctx := context.Background()
	owner := &model.User{ID: 1}
	alice := &model.User{ID: 2}
	bob := &model.User{ID: 3}

	created, err := svc.Create(ctx, owner, dto.CreatePhotoRequest{URL: "https://cdn.example.com/a.jpg"})
	require.NoError(t, err)
	id := created.Photo.ID

	_, err = svc.Rate(ctx, owner, id, 5)
	assert.ErrorIs(t, err, apperrors.ErrRateOwnPhoto)
	_, err = svc.Rate(ctx, alice, id, 6)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = svc.Rate(ctx, alice, 404, 3)
	assert.ErrorIs(t, err, apperrors.ErrPhotoNotFound)

	_, err = svc.Rate(ctx, alice, id, 2)
	require.NoError(t, err)
	_, err = svc.Rate(ctx, alice, id, 4)
	require.NoError(t, err)
	_, err = svc.Rate(ctx, bob, id, 5)
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.RatingCount)
	assert.InDelta(t, 4.5, got.AverageRating, 0.0001)
}
