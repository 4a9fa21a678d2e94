package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is embedded by every table. IDs are generated in Go so the schema
// works the same on postgres and sqlite.
type Model struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// All lists the models managed by AutoMigrate, parents first.
func All() []any {
	return []any{
		&User{},
		&CustomerProfile{},
		&KasirProfile{},
		&AdminProfile{},
		&Category{},
		&Menu{},
		&Table{},
		&Reward{},
	}
}
