// Package testutil holds in-memory stand-ins for the gorm repositories. Lookups that miss
// return gorm.ErrRecordNotFound, like the real ones.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/photoshare/api/internal/model"
	"gorm.io/gorm"
)

type UserStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]model.User

	// Err, when set, is returned by every call.
	Err error
}

func NewUserStore() *UserStore {
	return &UserStore{rows: map[uint]model.User{}}
}

func (s *UserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.rows {
		if sameString(u.Email, user.Email) || sameString(u.Username, user.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.Disabled = !user.IsActive
	s.rows[user.ID] = *user
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.ID == id })
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	email = strings.ToLower(email)
	return s.find(func(u model.User) bool { return u.EmailValue() == email })
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.Username != nil && *u.Username == username })
}

func (s *UserStore) GetByLogin(_ context.Context, login string) (*model.User, error) {
	email := strings.ToLower(login)
	return s.find(func(u model.User) bool {
		return (u.Email != nil && *u.Email == email) || (u.Username != nil && *u.Username == login)
	})
}

func (s *UserStore) List(_ context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var all []model.User
	for _, u := range s.rows {
		if search == "" || strings.Contains(u.EmailValue(), search) || strings.Contains(u.UsernameValue(), search) {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), int64(len(all)), nil
}

func (s *UserStore) Update(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for id, u := range s.rows {
		if id != user.ID && sameString(u.Username, user.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	user.Disabled = !user.IsActive
	s.rows[user.ID] = *user
	return nil
}

// Put stores user as is, assigning an id when it has none.
func (s *UserStore) Put(user *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		s.nextID++
		user.ID = s.nextID
	} else if user.ID > s.nextID {
		s.nextID = user.ID
	}
	s.rows[user.ID] = *user
	return user
}

func (s *UserStore) find(match func(model.User) bool) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.rows {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type TokenStore struct {
	mu     sync.Mutex
	nextID uint
	rows   []model.Token

	Err error
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) Create(_ context.Context, token *model.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.nextID++
	token.ID = s.nextID
	s.rows = append(s.rows, *token)
	return nil
}

func (s *TokenStore) ListActiveByUser(_ context.Context, userID uint, now time.Time) ([]model.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Token
	for _, t := range s.rows {
		if t.UserID == userID && t.ExpiresAt.After(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TokenStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	kept := s.rows[:0]
	var n int64
	for _, t := range s.rows {
		if t.ExpiresAt.After(now) {
			kept = append(kept, t)
		} else {
			n++
		}
	}
	s.rows = kept
	return n, nil
}

func (s *TokenStore) All() []model.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Token(nil), s.rows...)
}

func (s *TokenStore) expiresAt(token string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.rows {
		if t.Token == token {
			return t.ExpiresAt, true
		}
	}
	return time.Time{}, false
}

type BlacklistStore struct {
	mu     sync.Mutex
	rows   map[string]time.Time
	tokens *TokenStore

	Err error
}

// NewBlacklistStore needs the token store to resolve expiries when pruning.
func NewBlacklistStore(tokens *TokenStore) *BlacklistStore {
	return &BlacklistStore{rows: map[string]time.Time{}, tokens: tokens}
}

func (s *BlacklistStore) Add(_ context.Context, token string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[token]; !ok {
		s.rows[token] = at
	}
	return nil
}

func (s *BlacklistStore) Exists(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.rows[token]
	return ok, nil
}

func (s *BlacklistStore) DeleteForExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for token := range s.rows {
		if exp, ok := s.tokens.expiresAt(token); ok && !exp.After(now) {
			delete(s.rows, token)
			n++
		}
	}
	return n, nil
}

func (s *BlacklistStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// RevocationCache is a map-backed cache with a switch.
type RevocationCache struct {
	mu      sync.Mutex
	On      bool
	entries map[string]time.Duration

	Err error
}

func NewRevocationCache() *RevocationCache {
	return &RevocationCache{On: true, entries: map[string]time.Duration{}}
}

func (c *RevocationCache) Enabled() bool { return c.On }

func (c *RevocationCache) MarkRevoked(_ context.Context, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.entries[token] = ttl
	return nil
}

func (c *RevocationCache) IsRevoked(_ context.Context, token string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	_, ok := c.entries[token]
	return ok, nil
}

func (c *RevocationCache) Has(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[token]
	return ok
}

type PhotoStore struct {
	mu      sync.Mutex
	nextID  uint
	nextTag uint
	photos  map[uint]model.Photo
	tags    map[string]model.Tag
	ratings map[[2]uint]model.Rating

	Err error
}

func NewPhotoStore() *PhotoStore {
	return &PhotoStore{
		photos:  map[uint]model.Photo{},
		tags:    map[string]model.Tag{},
		ratings: map[[2]uint]model.Rating{},
	}
}

func (s *PhotoStore) UpsertTags(_ context.Context, names []string) ([]model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Tag, 0, len(names))
	for _, n := range names {
		t, ok := s.tags[n]
		if !ok {
			s.nextTag++
			t = model.Tag{ID: s.nextTag, TagName: n}
			s.tags[n] = t
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *PhotoStore) Create(_ context.Context, photo *model.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.nextID++
	photo.ID = s.nextID
	photo.CreatedAt = time.Now()
	photo.UpdatedAt = photo.CreatedAt
	s.photos[photo.ID] = *photo
	return nil
}

func (s *PhotoStore) GetByID(_ context.Context, id uint) (*model.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.photos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p.Tags = append([]model.Tag(nil), p.Tags...)
	return &p, nil
}

func (s *PhotoStore) List(_ context.Context, limit, offset int, tag string) ([]model.Photo, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var all []model.Photo
	for _, p := range s.photos {
		if tag == "" || hasTag(p, tag) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return page(all, limit, offset), int64(len(all)), nil
}

func (s *PhotoStore) Update(_ context.Context, photo *model.Photo, tags []model.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if tags != nil {
		photo.Tags = tags
	}
	photo.UpdatedAt = time.Now()
	s.photos[photo.ID] = *photo
	return nil
}

func (s *PhotoStore) Delete(_ context.Context, photo *model.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.photos, photo.ID)
	for k := range s.ratings {
		if k[1] == photo.ID {
			delete(s.ratings, k)
		}
	}
	return nil
}

func (s *PhotoStore) UpsertRating(_ context.Context, rating *model.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	key := [2]uint{rating.UserID, rating.PhotoID}
	if existing, ok := s.ratings[key]; ok {
		rating.ID = existing.ID
	} else {
		rating.ID = uint(len(s.ratings) + 1)
	}
	s.ratings[key] = *rating
	return nil
}

func (s *PhotoStore) RatingStats(_ context.Context, photoID uint) (float64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, 0, s.Err
	}
	var sum, n int64
	for k, r := range s.ratings {
		if k[1] == photoID {
			sum += int64(r.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

type CommentStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]model.Comment

	Err error
}

func NewCommentStore() *CommentStore {
	return &CommentStore{rows: map[uint]model.Comment{}}
}

func (s *CommentStore) Create(_ context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.nextID++
	comment.ID = s.nextID
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	s.rows[comment.ID] = *comment
	return nil
}

func (s *CommentStore) GetByID(_ context.Context, id uint) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (s *CommentStore) ListByPhoto(_ context.Context, photoID uint) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []model.Comment{}
	for _, c := range s.rows {
		if c.PhotoID == photoID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *CommentStore) Update(_ context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[comment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	comment.UpdatedAt = time.Now()
	s.rows[comment.ID] = *comment
	return nil
}

func (s *CommentStore) Delete(_ context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.rows, comment.ID)
	return nil
}

func hasTag(p model.Photo, tag string) bool {
	for _, t := range p.Tags {
		if t.TagName == tag {
			return true
		}
	}
	return false
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}

func sameString(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
