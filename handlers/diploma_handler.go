package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/danisikibeye/diploma_registry/database"
	"github.com/danisikibeye/diploma_registry/models"
	"github.com/danisikibeye/diploma_registry/notifications"
	"github.com/danisikibeye/diploma_registry/pipeline"
	"github.com/danisikibeye/diploma_registry/utils"
)

const maxUploadSize = 10 << 20 // 10 MB

var (
	diplomaPipeline *pipeline.Pipeline
	diplomaGateway  pipeline.Gateway
)

// InitDiplomaHandlers wires the document pipeline into the HTTP layer.
// Must be called before the routes are registered.
func InitDiplomaHandlers(p *pipeline.Pipeline, gw pipeline.Gateway) {
	diplomaPipeline = p
	diplomaGateway = gw
}

type IssueDiplomaRequest struct {
	Title        string `form:"libelle_titre" validate:"required,min=3"`
	Place        string `form:"lieu" validate:"required,min=2"`
	IssueDate    string `form:"date_delivrance"`
	AcademicYear string `form:"annee_academique" validate:"required"`
	StudentID    string `form:"etudiant_id" validate:"required,uuid4"`
	SignerID     string `form:"signe_par" validate:"required,uuid4"`
}

// IssueDiploma creates a diploma from multipart form data. The optional
// "fichier" part is an existing PDF the generated cover page is stacked
// onto; without it a standalone one-page document is produced.
func IssueDiploma(c *fiber.Ctx) error {
	var req IssueDiplomaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse form data"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}
	signerID, err := uuid.Parse(req.SignerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signer id"})
	}

	issueDate := time.Now()
	if req.IssueDate != "" {
		issueDate, err = time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid issue date, expected YYYY-MM-DD"})
		}
	}

	var sourcePDF []byte
	if fileHeader, err := c.FormFile("fichier"); err == nil {
		if fileHeader.Size > maxUploadSize {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "File exceeds 10MB limit"})
		}
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot open uploaded file"})
		}
		sourcePDF, err = io.ReadAll(file)
		file.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read uploaded file"})
		}
	}

	reference, err := utils.GenerateUniqueReference(database.DB, issueDate.Year())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate reference"})
	}

	diploma, err := diplomaPipeline.Issue(c.Context(), pipeline.IssueInput{
		Title:        req.Title,
		Place:        req.Place,
		AcademicYear: req.AcademicYear,
		Reference:    reference,
		IssueDate:    issueDate,
		StudentID:    studentID,
		SignerID:     signerID,
	}, sourcePDF)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrMissingInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue diploma"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(diploma)
}

func ListDiplomas(c *fiber.Ctx) error {
	query := database.DB.
		Preload("Student.Promotion.Department.Faculty").
		Preload("Signer").
		Order("created_at desc")
	if year := c.Query("annee_academique"); year != "" {
		query = query.Where("annee_academique = ?", year)
	}
	if studentID := c.Query("etudiant_id"); studentID != "" {
		query = query.Where("etudiant_id = ?", studentID)
	}

	var diplomas []models.Diploma
	if err := query.Find(&diplomas).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch diplomas"})
	}
	return c.JSON(diplomas)
}

func GetDiploma(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid diploma id"})
	}

	diploma, err := diplomaGateway.DiplomaByID(c.Context(), id)
	if errors.Is(err, pipeline.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Diploma not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch diploma"})
	}
	return c.JSON(diploma)
}

type UpdateDiplomaRequest struct {
	Title        *string `json:"libelle_titre,omitempty"`
	Place        *string `json:"lieu,omitempty"`
	IssueDate    *string `json:"date_delivrance,omitempty"`
	AcademicYear *string `json:"annee_academique,omitempty"`
}

// UpdateDiploma edits descriptive metadata only. The token, the stored
// document and the authenticity flag are never touched here; changing
// the document means re-issuing.
func UpdateDiploma(c *fiber.Ctx) error {
	var diploma models.Diploma
	if err := database.DB.First(&diploma, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Diploma not found"})
	}

	var req UpdateDiplomaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Title != nil {
		diploma.Title = *req.Title
	}
	if req.Place != nil {
		diploma.Place = *req.Place
	}
	if req.AcademicYear != nil {
		diploma.AcademicYear = *req.AcademicYear
	}
	if req.IssueDate != nil {
		issueDate, err := time.Parse("2006-01-02", *req.IssueDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid issue date, expected YYYY-MM-DD"})
		}
		diploma.IssueDate = issueDate
	}

	if err := database.DB.Save(&diploma).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update diploma"})
	}
	return c.JSON(diploma)
}

// DeleteDiploma removes the record. The stored blob becomes orphaned and
// is swept by the cleanup job.
func DeleteDiploma(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Diploma{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete diploma"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Diploma not found"})
	}
	return c.JSON(fiber.Map{"message": "Diploma deleted"})
}

// SendDiplomaEmail mails the document link to the given address.
func SendDiplomaEmail(c *fiber.Ctx) error {
	type Request struct {
		Email string `json:"email" validate:"required,email"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid diploma id"})
	}
	diploma, err := diplomaGateway.DiplomaByID(c.Context(), id)
	if errors.Is(err, pipeline.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Diploma not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch diploma"})
	}
	if diploma.FileURL == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Diploma has no stored document"})
	}

	link, err := diplomaPipeline.SignedDocumentURL(c.Context(), id, 72*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate document link"})
	}

	go notifications.SendDiplomaIssuedEmail(diploma, req.Email, link)

	return c.JSON(fiber.Map{"message": "Email queued"})
}

// GetDiplomaLink returns a signed delivery URL for the stored document.
func GetDiplomaLink(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid diploma id"})
	}

	url, err := diplomaPipeline.SignedDocumentURL(c.Context(), id, time.Hour)
	switch {
	case errors.Is(err, pipeline.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Diploma not found"})
	case errors.Is(err, pipeline.ErrNoDocument):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Diploma has no stored document"})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate link"})
	}
	return c.JSON(fiber.Map{"url": url})
}
