package models

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"column:libelle_dept;size:255;not null" json:"libelle_dept"`
	FacultyID uuid.UUID `gorm:"column:faculte_id;type:uuid;not null" json:"faculte_id"`

	Faculty *Faculty `gorm:"foreignKey:FacultyID" json:"faculte,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Department) TableName() string { return "departement" }
