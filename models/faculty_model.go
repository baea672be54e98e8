package models

import (
	"time"

	"github.com/google/uuid"
)

type Faculty struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"column:libelle_fac;size:255;not null" json:"libelle_fac"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Faculty) TableName() string { return "faculte" }
