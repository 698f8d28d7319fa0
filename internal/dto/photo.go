package dto

import (
	"time"

	"github.com/photoshare/api/internal/model"
)

type CreatePhotoRequest struct {
	URL         string   `json:"url" binding:"required,url,max=2048"`
	Description string   `json:"description" binding:"max=500"`
	Tags        []string `json:"tags" binding:"max=5,dive,required,max=32"`
}

type UpdatePhotoRequest struct {
	Description *string  `json:"description" binding:"omitempty,max=500"`
	Tags        []string `json:"tags" binding:"omitempty,max=5,dive,required,max=32"`
}

type RatePhotoRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

type PhotoResponse struct {
	ID            uint      `json:"id"`
	URL           string    `json:"url"`
	Description   string    `json:"description"`
	UserID        uint      `json:"user_id"`
	Tags          []string  `json:"tags"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int64     `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewPhotoResponse(p *model.Photo, avg float64, count int64) PhotoResponse {
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.TagName)
	}
	return PhotoResponse{
		ID:            p.ID,
		URL:           p.URL,
		Description:   p.Description,
		UserID:        p.UserID,
		Tags:          tags,
		AverageRating: avg,
		RatingCount:   count,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type RatingResponse struct {
	PhotoID uint `json:"photo_id"`
	UserID  uint `json:"user_id"`
	Rating  int  `json:"rating"`
}
