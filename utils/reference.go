package utils

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/danisikibeye/diploma_registry/models"
)

const referenceSuffixLength = 8

// Ambiguous glyphs (I, O, 0, 1) are excluded so references survive
// hand transcription.
const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateUniqueReference produces a diploma reference of the form
// UNIKIN-<year>-XXXXXXXX, retrying until the suffix is unused.
func GenerateUniqueReference(tx *gorm.DB, year int) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, referenceSuffixLength)
		for i := range b {
			b[i] = referenceAlphabet[seededRand.Intn(len(referenceAlphabet))]
		}
		reference := fmt.Sprintf("UNIKIN-%d-%s", year, string(b))

		var diploma models.Diploma
		err := tx.Where("reference = ?", reference).First(&diploma).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return reference, nil
			}
			return "", err
		}
	}
}
