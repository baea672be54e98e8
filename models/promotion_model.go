package models

import (
	"time"

	"github.com/google/uuid"
)

// Promotion is one graduating class inside a department. Option is the
// optional specialization track and may be empty.
type Promotion struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name         string    `gorm:"column:libelle_promotion;size:255;not null" json:"libelle_promotion"`
	Option       *string   `gorm:"column:option;size:255" json:"option,omitempty"`
	DepartmentID uuid.UUID `gorm:"column:departement_id;type:uuid;not null" json:"departement_id"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"departement,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Promotion) TableName() string { return "promotion" }
