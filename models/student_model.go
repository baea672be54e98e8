package models

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LastName    string    `gorm:"column:nom;size:255;not null" json:"nom"`
	MiddleName  string    `gorm:"column:postnom;size:255" json:"postnom"`
	FirstName   string    `gorm:"column:prenom;size:255;not null" json:"prenom"`
	BirthDate   time.Time `gorm:"column:date_naissance" json:"date_naissance"`
	PromotionID uuid.UUID `gorm:"column:promotion_id;type:uuid;not null" json:"promotion_id"`

	Promotion *Promotion `gorm:"foreignKey:PromotionID" json:"promotion,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Student) TableName() string { return "etudiant" }
