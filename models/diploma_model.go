package models

import (
	"time"

	"github.com/google/uuid"
)

// Diploma is one issued academic title. QRCode is the opaque verification
// token minted at issuance; it is embedded in the generated document and is
// the sole lookup key for verification. It never changes after issuance,
// and Authentic never transitions back to false once set.
type Diploma struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title        string    `gorm:"column:libelle_titre;size:255;not null" json:"libelle_titre"`
	Reference    string    `gorm:"column:reference;size:64;uniqueIndex" json:"reference"`
	QRCode       string    `gorm:"column:qr_code;size:64;not null;uniqueIndex" json:"qr_code"`
	FileURL      string    `gorm:"column:fichier_url;type:text" json:"fichier_url"`
	FilePublicID string    `gorm:"column:fichier_public_id;type:text" json:"-"`
	IssueDate    time.Time `gorm:"column:date_delivrance;not null" json:"date_delivrance"`
	Place        string    `gorm:"column:lieu;size:255;not null" json:"lieu"`
	AcademicYear string    `gorm:"column:annee_academique;size:20" json:"annee_academique"`
	Authentic    bool      `gorm:"column:est_authentique;not null;default:false" json:"est_authentique"`

	StudentID uuid.UUID `gorm:"column:etudiant_id;type:uuid;not null" json:"etudiant_id"`
	SignerID  uuid.UUID `gorm:"column:signe_par;type:uuid;not null" json:"signe_par"`

	Student *Student `gorm:"foreignKey:StudentID" json:"etudiant,omitempty"`
	Signer  *Signer  `gorm:"foreignKey:SignerID" json:"deliver,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Diploma) TableName() string { return "titre_academique" }
