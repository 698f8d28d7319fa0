package constants

// Field Length Limits
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything past 72 bytes
	MaxTagsPerPhoto   = 5
	MaxTagLength      = 32
	MaxCommentLength  = 1000
	MinRating         = 1
	MaxRating         = 5
)
