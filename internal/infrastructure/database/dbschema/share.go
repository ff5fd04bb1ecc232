package dbschema

import (
	"time"

	"loom-server/services/chat-api/internal/domain/share"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Share{})
}

// Share represents the database schema for public thread shares. The message
// snapshot is frozen at share time and never re-reads the source thread.
type Share struct {
	BaseModel
	Token            string       `gorm:"type:varchar(64);uniqueIndex;not null"`
	ThreadID         string       `gorm:"type:varchar(128);index:idx_shares_thread;not null"`
	OwnerID          string       `gorm:"type:varchar(128);index:idx_shares_owner;not null"`
	Title            string       `gorm:"type:varchar(256)"`
	MessagesSnapshot JSONMessages `gorm:"type:jsonb;not null"`
	RevokedAt        *time.Time   `gorm:"type:timestamp;index:idx_shares_revoked"`
	ViewCount        int          `gorm:"not null;default:0"`
	LastViewedAt     *time.Time   `gorm:"type:timestamp"`
}

// NewSchemaShare creates a database schema from a domain share
func NewSchemaShare(s *share.Share) *Share {
	return &Share{
		BaseModel: BaseModel{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
		Token:            s.Token,
		ThreadID:         s.ThreadID,
		OwnerID:          s.OwnerID,
		Title:            s.Title,
		MessagesSnapshot: JSONMessages(s.MessagesSnapshot),
		RevokedAt:        s.RevokedAt,
		ViewCount:        s.ViewCount,
		LastViewedAt:     s.LastViewedAt,
	}
}

// EtoD converts database schema to domain share (Entity to Domain)
func (s *Share) EtoD() *share.Share {
	snapshot := []thread.Message(s.MessagesSnapshot)
	if snapshot == nil {
		snapshot = []thread.Message{}
	}

	return &share.Share{
		ID:               s.ID,
		Token:            s.Token,
		ThreadID:         s.ThreadID,
		OwnerID:          s.OwnerID,
		Title:            s.Title,
		MessagesSnapshot: snapshot,
		RevokedAt:        s.RevokedAt,
		ViewCount:        s.ViewCount,
		LastViewedAt:     s.LastViewedAt,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
