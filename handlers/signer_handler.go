package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/danisikibeye/diploma_registry/database"
	"github.com/danisikibeye/diploma_registry/models"
)

type SignerRequest struct {
	LastName   string  `json:"nom" validate:"required,min=2"`
	MiddleName string  `json:"postnom"`
	FirstName  string  `json:"prenom" validate:"required,min=2"`
	Role       string  `json:"role" validate:"required"`
	FacultyID  *string `json:"faculte_id,omitempty"`
}

func CreateSigner(c *fiber.Ctx) error {
	var req SignerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	signer := models.Signer{
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		FirstName:  req.FirstName,
		Role:       req.Role,
	}
	if req.FacultyID != nil && *req.FacultyID != "" {
		facultyID, err := uuid.Parse(*req.FacultyID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid faculty id"})
		}
		var faculty models.Faculty
		if err := database.DB.First(&faculty, "id = ?", facultyID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Faculty not found"})
		}
		signer.FacultyID = &facultyID
	}

	if err := database.DB.Create(&signer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create signer"})
	}
	return c.Status(fiber.StatusCreated).JSON(signer)
}

func ListSigners(c *fiber.Ctx) error {
	query := database.DB.Preload("Faculty").Order("nom asc")
	if facultyID := c.Query("faculte_id"); facultyID != "" {
		query = query.Where("faculte_id = ?", facultyID)
	}

	var signers []models.Signer
	if err := query.Find(&signers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch signers"})
	}
	return c.JSON(signers)
}

func UpdateSigner(c *fiber.Ctx) error {
	var signer models.Signer
	if err := database.DB.First(&signer, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Signer not found"})
	}

	var req SignerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	signer.LastName = req.LastName
	signer.MiddleName = req.MiddleName
	signer.FirstName = req.FirstName
	signer.Role = req.Role
	if req.FacultyID != nil && *req.FacultyID != "" {
		facultyID, err := uuid.Parse(*req.FacultyID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid faculty id"})
		}
		signer.FacultyID = &facultyID
	} else {
		signer.FacultyID = nil
	}

	if err := database.DB.Save(&signer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update signer"})
	}
	return c.JSON(signer)
}

func DeleteSigner(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Signer{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete signer"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Signer not found"})
	}
	return c.JSON(fiber.Map{"message": "Signer deleted"})
}
