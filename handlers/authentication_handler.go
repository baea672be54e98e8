package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/danisikibeye/diploma_registry/database"
	"github.com/danisikibeye/diploma_registry/middleware"
	"github.com/danisikibeye/diploma_registry/models"
	"github.com/danisikibeye/diploma_registry/pipeline"
)

// ListPendingDiplomas returns issued diplomas awaiting ministry
// authentication.
func ListPendingDiplomas(c *fiber.Ctx) error {
	var diplomas []models.Diploma
	err := database.DB.
		Preload("Student.Promotion.Department.Faculty").
		Preload("Signer").
		Where("est_authentique = ? AND fichier_url <> ''", false).
		Order("created_at asc").
		Find(&diplomas).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch diplomas"})
	}
	return c.JSON(diplomas)
}

type AuthenticateRequest struct {
	OfficerName  string `json:"officer_name" validate:"required,min=3"`
	OfficerTitle string `json:"officer_title"`
}

// AuthenticateDiploma stamps the ministry page onto an issued diploma and
// marks it authentic. One-way: an authenticated diploma is rejected with
// a conflict rather than stamped twice.
func AuthenticateDiploma(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid diploma id"})
	}

	var req AuthenticateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	diploma, err := diplomaPipeline.Authenticate(c.Context(), id, middleware.RoleFromContext(c), pipeline.Officer{
		Name:  req.OfficerName,
		Title: req.OfficerTitle,
	})
	switch {
	case errors.Is(err, pipeline.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Ministry access required"})
	case errors.Is(err, pipeline.ErrAlreadyAuthenticated):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Diploma is already authenticated"})
	case errors.Is(err, pipeline.ErrNoDocument):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Diploma has no stored document"})
	case errors.Is(err, pipeline.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Diploma not found"})
	case errors.Is(err, pipeline.ErrMissingInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to authenticate diploma"})
	}
	return c.JSON(diploma)
}
