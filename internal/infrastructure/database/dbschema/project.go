package dbschema

import (
	"database/sql/driver"
	"encoding/json"

	"loom-server/services/chat-api/internal/domain/project"
	"loom-server/services/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Project{})
}

// Project represents the database schema for projects
type Project struct {
	BaseModel
	ProjectID   string       `gorm:"type:varchar(128);uniqueIndex;not null"`
	OwnerID     string       `gorm:"type:varchar(128);index:idx_projects_owner;not null"`
	Name        string       `gorm:"type:varchar(256);not null"`
	Description string       `gorm:"type:text"`
	Chats       JSONChatRefs `gorm:"type:jsonb"`
	IsActive    bool         `gorm:"not null;default:true;index:idx_projects_owner"`
}

// JSONChatRefs is a custom type for []project.ChatRef stored as JSON
type JSONChatRefs []project.ChatRef

func (j JSONChatRefs) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONChatRefs) Scan(value any) error {
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

// NewSchemaProject creates a database schema from a domain project
func NewSchemaProject(p *project.Project) *Project {
	return &Project{
		BaseModel: BaseModel{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		ProjectID:   p.ProjectID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Chats:       JSONChatRefs(p.Chats),
		IsActive:    p.IsActive,
	}
}

// EtoD converts database schema to domain project (Entity to Domain)
func (p *Project) EtoD() *project.Project {
	chats := []project.ChatRef(p.Chats)
	if chats == nil {
		chats = []project.ChatRef{}
	}

	return &project.Project{
		ID:          p.ID,
		ProjectID:   p.ProjectID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Chats:       chats,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
