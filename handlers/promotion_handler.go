package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/danisikibeye/diploma_registry/database"
	"github.com/danisikibeye/diploma_registry/models"
)

type PromotionRequest struct {
	Name         string  `json:"libelle_promotion" validate:"required,min=2"`
	Option       *string `json:"option,omitempty"`
	DepartmentID string  `json:"departement_id" validate:"required,uuid4"`
}

func CreatePromotion(c *fiber.Ctx) error {
	var req PromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid department id"})
	}
	var department models.Department
	if err := database.DB.First(&department, "id = ?", departmentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Department not found"})
	}

	promotion := models.Promotion{Name: req.Name, Option: req.Option, DepartmentID: departmentID}
	if err := database.DB.Create(&promotion).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create promotion"})
	}
	return c.Status(fiber.StatusCreated).JSON(promotion)
}

func ListPromotions(c *fiber.Ctx) error {
	query := database.DB.Preload("Department.Faculty").Order("libelle_promotion asc")
	if departmentID := c.Query("departement_id"); departmentID != "" {
		query = query.Where("departement_id = ?", departmentID)
	}

	var promotions []models.Promotion
	if err := query.Find(&promotions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch promotions"})
	}
	return c.JSON(promotions)
}

func UpdatePromotion(c *fiber.Ctx) error {
	var promotion models.Promotion
	if err := database.DB.First(&promotion, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Promotion not found"})
	}

	var req PromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid department id"})
	}

	promotion.Name = req.Name
	promotion.Option = req.Option
	promotion.DepartmentID = departmentID
	if err := database.DB.Save(&promotion).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update promotion"})
	}
	return c.JSON(promotion)
}

func DeletePromotion(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Promotion{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete promotion"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Promotion not found"})
	}
	return c.JSON(fiber.Map{"message": "Promotion deleted"})
}
