package dbschema

import "time"

// BaseModel carries the surrogate key and bookkeeping timestamps shared by
// every schema entity.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
