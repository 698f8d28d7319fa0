package model

import "time"

// Token records every issued access token.
type Token struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Token     string    `gorm:"column:token;uniqueIndex;not null"`
	UserID    uint      `gorm:"column:user_id;not null;index"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
}

func (Token) TableName() string { return "tokens" }

// BlacklistedToken marks a token string as revoked.
type BlacklistedToken struct {
	Token         string    `gorm:"column:token;primaryKey"`
	BlacklistedOn time.Time `gorm:"column:blacklisted_on;not null"`
}

func (BlacklistedToken) TableName() string { return "blacklisted_tokens" }
