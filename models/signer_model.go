package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SignerRoleDean              = "Doyen de la faculté"
	SignerRoleAcademicSecretary = "Secrétaire générale académique"
)

// Signer is the official credited with authorizing a diploma. A dean is
// always scoped to a faculty; the academic secretary may be faculty-less.
type Signer struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LastName   string     `gorm:"column:nom;size:255;not null" json:"nom"`
	MiddleName string     `gorm:"column:postnom;size:255" json:"postnom"`
	FirstName  string     `gorm:"column:prenom;size:255;not null" json:"prenom"`
	Role       string     `gorm:"column:role;size:100;not null" json:"role"`
	FacultyID  *uuid.UUID `gorm:"column:faculte_id;type:uuid" json:"faculte_id,omitempty"`

	Faculty *Faculty `gorm:"foreignKey:FacultyID" json:"faculte,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Signer) TableName() string { return "deliver" }

// FullName is the attribution printed on generated documents.
func (s Signer) FullName() string {
	name := s.LastName
	if s.MiddleName != "" {
		name += " " + s.MiddleName
	}
	return name + " " + s.FirstName
}
