package database

import (
	"github.com/photoshare/api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// lookupIndexes cover the query shapes the struct tags cannot express.
var lookupIndexes = []string{
	// tag filter on the photo listing joins through the association table by tag
	"CREATE INDEX IF NOT EXISTS idx_photo_m2m_tag_tag_id ON photo_m2m_tag(tag_id);",
	// revoke-all and pruning scan a user's unexpired tokens
	"CREATE INDEX IF NOT EXISTS idx_tokens_user_expires ON tokens(user_id, expires_at);",
	"CREATE INDEX IF NOT EXISTS idx_photos_created_at ON photos(created_at DESC);",
	"CREATE INDEX IF NOT EXISTS idx_comments_photo_created ON comments(photo_id, created_at);",
}

// EnsureIndexes creates the composite indexes. Failures are logged and skipped,
// the service works without them, only slower.
func EnsureIndexes(db *gorm.DB) error {
	for _, stmt := range lookupIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			logger.GetLogger().Warn("Failed to create index",
				zap.String("statement", stmt),
				zap.Error(err),
			)
		}
	}
	return nil
}
