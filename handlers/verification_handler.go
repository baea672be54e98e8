package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/danisikibeye/diploma_registry/pipeline"
)

// VerifyDiploma is the public verification endpoint. Callers provide
// either a qr_code form/JSON field or an uploaded "fichier" PDF whose
// first page carries the code. No authentication required.
func VerifyDiploma(c *fiber.Ctx) error {
	type Request struct {
		QRCode string `json:"qr_code" form:"qr_code"`
	}
	var req Request
	// Best effort parse; the token may also arrive as a bare form field
	// alongside the file.
	_ = c.BodyParser(&req)

	var file []byte
	if fileHeader, err := c.FormFile("fichier"); err == nil {
		if fileHeader.Size > maxUploadSize {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "File exceeds 10MB limit"})
		}
		f, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot open uploaded file"})
		}
		file, err = io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read uploaded file"})
		}
	}

	result, err := diplomaPipeline.Verify(c.Context(), req.QRCode, file)
	if err != nil {
		if errors.Is(err, pipeline.ErrMissingInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Fournissez un code QR ou un document PDF",
			})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"status": "unreadable",
			"error":  "Impossible de lire le code QR du document fourni",
		})
	}

	if result.Status == pipeline.VerifyNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  string(pipeline.VerifyNotFound),
			"message": "Aucun diplôme enregistré ne correspond à ce code",
		})
	}

	return c.JSON(fiber.Map{
		"status":  string(result.Status),
		"diplome": result.Record,
	})
}
