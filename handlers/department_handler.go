package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/danisikibeye/diploma_registry/database"
	"github.com/danisikibeye/diploma_registry/models"
)

type DepartmentRequest struct {
	Name      string `json:"libelle_dept" validate:"required,min=2"`
	FacultyID string `json:"faculte_id" validate:"required,uuid4"`
}

func CreateDepartment(c *fiber.Ctx) error {
	var req DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	facultyID, err := uuid.Parse(req.FacultyID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid faculty id"})
	}
	var faculty models.Faculty
	if err := database.DB.First(&faculty, "id = ?", facultyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Faculty not found"})
	}

	department := models.Department{Name: req.Name, FacultyID: facultyID}
	if err := database.DB.Create(&department).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create department"})
	}
	return c.Status(fiber.StatusCreated).JSON(department)
}

func ListDepartments(c *fiber.Ctx) error {
	query := database.DB.Preload("Faculty").Order("libelle_dept asc")
	if facultyID := c.Query("faculte_id"); facultyID != "" {
		query = query.Where("faculte_id = ?", facultyID)
	}

	var departments []models.Department
	if err := query.Find(&departments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch departments"})
	}
	return c.JSON(departments)
}

func UpdateDepartment(c *fiber.Ctx) error {
	var department models.Department
	if err := database.DB.First(&department, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Department not found"})
	}

	var req DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	facultyID, err := uuid.Parse(req.FacultyID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid faculty id"})
	}

	department.Name = req.Name
	department.FacultyID = facultyID
	if err := database.DB.Save(&department).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update department"})
	}
	return c.JSON(department)
}

func DeleteDepartment(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Department{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete department"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Department not found"})
	}
	return c.JSON(fiber.Map{"message": "Department deleted"})
}
