package dbschema

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Thread{})
}

// Thread represents the database schema for threads. The message list is a
// single jsonb column: each mutating save rewrites the whole document, which
// gives last-writer-wins without cross-row bookkeeping.
type Thread struct {
	BaseModel
	ThreadID      string         `gorm:"type:varchar(128);uniqueIndex;not null"`
	OwnerID       string         `gorm:"type:varchar(128);index:idx_threads_owner;not null"`
	Title         string         `gorm:"type:varchar(256)"`
	Messages      JSONMessages   `gorm:"type:jsonb"`
	ProjectIDs    datatypes.JSON `gorm:"type:jsonb"`
	IsArchived    bool           `gorm:"not null;default:false"`
	IsPinned      bool           `gorm:"not null;default:false"`
	Tags          datatypes.JSON `gorm:"type:jsonb"`
	TokenCount    int            `gorm:"not null;default:0"`
	Version       int            `gorm:"not null;default:0"`
	LastMessageAt time.Time      `gorm:"index:idx_threads_owner_last_message"`
}

// JSONMessages is a custom type for []thread.Message stored as JSON
type JSONMessages []thread.Message

func (j JSONMessages) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONMessages) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// NewSchemaThread creates a database schema from a domain thread
func NewSchemaThread(t *thread.Thread) *Thread {
	projectIDs, _ := json.Marshal(t.ProjectIDs)
	tags, _ := json.Marshal(t.Tags)

	return &Thread{
		BaseModel: BaseModel{
			ID:        t.ID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		},
		ThreadID:      t.ThreadID,
		OwnerID:       t.OwnerID,
		Title:         t.Title,
		Messages:      JSONMessages(t.Messages),
		ProjectIDs:    datatypes.JSON(projectIDs),
		Tags:          datatypes.JSON(tags),
		IsArchived:    t.IsArchived,
		IsPinned:      t.IsPinned,
		TokenCount:    t.TokenCount,
		Version:       t.Version,
		LastMessageAt: t.LastMessageAt,
	}
}

// EtoD converts database schema to domain thread (Entity to Domain)
func (t *Thread) EtoD() *thread.Thread {
	var projectIDs []string
	if len(t.ProjectIDs) > 0 {
		_ = json.Unmarshal(t.ProjectIDs, &projectIDs)
	}
	if projectIDs == nil {
		projectIDs = []string{}
	}

	var tags []string
	if len(t.Tags) > 0 {
		_ = json.Unmarshal(t.Tags, &tags)
	}
	if tags == nil {
		tags = []string{}
	}

	messages := []thread.Message(t.Messages)
	if messages == nil {
		messages = []thread.Message{}
	}

	return &thread.Thread{
		ID:            t.ID,
		ThreadID:      t.ThreadID,
		OwnerID:       t.OwnerID,
		Title:         t.Title,
		Messages:      messages,
		ProjectIDs:    projectIDs,
		Tags:          tags,
		IsArchived:    t.IsArchived,
		IsPinned:      t.IsPinned,
		TokenCount:    t.TokenCount,
		Version:       t.Version,
		LastMessageAt: t.LastMessageAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
