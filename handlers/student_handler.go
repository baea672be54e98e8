package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/danisikibeye/diploma_registry/database"
	"github.com/danisikibeye/diploma_registry/models"
)

type StudentRequest struct {
	LastName    string `json:"nom" validate:"required,min=2"`
	MiddleName  string `json:"postnom"`
	FirstName   string `json:"prenom" validate:"required,min=2"`
	BirthDate   string `json:"date_naissance" validate:"required"`
	PromotionID string `json:"promotion_id" validate:"required,uuid4"`
}

func (r StudentRequest) parse() (models.Student, error) {
	birthDate, err := time.Parse("2006-01-02", r.BirthDate)
	if err != nil {
		return models.Student{}, err
	}
	promotionID, err := uuid.Parse(r.PromotionID)
	if err != nil {
		return models.Student{}, err
	}
	return models.Student{
		LastName:    r.LastName,
		MiddleName:  r.MiddleName,
		FirstName:   r.FirstName,
		BirthDate:   birthDate,
		PromotionID: promotionID,
	}, nil
}

func CreateStudent(c *fiber.Ctx) error {
	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	student, err := req.parse()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date or promotion id"})
	}
	var promotion models.Promotion
	if err := database.DB.First(&promotion, "id = ?", student.PromotionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Promotion not found"})
	}

	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create student"})
	}
	return c.Status(fiber.StatusCreated).JSON(student)
}

func ListStudents(c *fiber.Ctx) error {
	query := database.DB.Preload("Promotion.Department.Faculty").Order("nom asc")
	if promotionID := c.Query("promotion_id"); promotionID != "" {
		query = query.Where("promotion_id = ?", promotionID)
	}
	if search := c.Query("q"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("nom ILIKE ? OR postnom ILIKE ? OR prenom ILIKE ?", pattern, pattern, pattern)
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(students)
}

func GetStudent(c *fiber.Ctx) error {
	var student models.Student
	err := database.DB.Preload("Promotion.Department.Faculty").
		First(&student, "id = ?", c.Params("id")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}
	return c.JSON(student)
}

func UpdateStudent(c *fiber.Ctx) error {
	var student models.Student
	if err := database.DB.First(&student, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := req.parse()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date or promotion id"})
	}

	student.LastName = updated.LastName
	student.MiddleName = updated.MiddleName
	student.FirstName = updated.FirstName
	student.BirthDate = updated.BirthDate
	student.PromotionID = updated.PromotionID
	if err := database.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update student"})
	}
	return c.JSON(student)
}

func DeleteStudent(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Student{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete student"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}
	return c.JSON(fiber.Map{"message": "Student deleted"})
}
