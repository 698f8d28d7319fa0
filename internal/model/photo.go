package model

import "time"

type Photo struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	Description string    `gorm:"column:description"`
	URL         string    `gorm:"column:url;not null"`
	UserID      uint      `gorm:"column:user_id;not null;index"`
	User        *User     `gorm:"foreignKey:UserID"`
	Tags        []Tag     `gorm:"many2many:photo_m2m_tag;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (Photo) TableName() string { return "photos" }

type Tag struct {
	ID      uint   `gorm:"column:id;primaryKey"`
	TagName string `gorm:"column:tag_name;uniqueIndex;not null"`
}

func (Tag) TableName() string { return "tags" }

// Rating is one user's score for one photo.
type Rating struct {
	ID      uint `gorm:"column:id;primaryKey"`
	Rating  int  `gorm:"column:rating;not null;index:ix_ratings_rating"`
	UserID  uint `gorm:"column:user_id;not null;uniqueIndex:ux_ratings_user_photo"`
	PhotoID uint `gorm:"column:photo_id;not null;uniqueIndex:ux_ratings_user_photo"`
}

func (Rating) TableName() string { return "ratings" }

type Comment struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Content   string    `gorm:"column:content;not null"`
	PhotoID   uint      `gorm:"column:photo_id;not null;index"`
	UserID    uint      `gorm:"column:user_id;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Comment) TableName() string { return "comments" }
