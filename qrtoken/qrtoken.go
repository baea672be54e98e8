// Package qrtoken mints diploma verification tokens and moves them in and
// out of QR images. Tokens are capability strings: whoever holds one can
// look the diploma up, so they must not be guessable.
package qrtoken

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/gen2brain/go-fitz"
	"github.com/google/uuid"
	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	qrcodegen "github.com/skip2/go-qrcode"
)

const encodedSize = 512

var (
	// ErrNoQRCode means the image was readable but carried no valid QR code.
	ErrNoQRCode = errors.New("no QR code found")
	// ErrUnreadablePDF means the document could not be parsed at all.
	ErrUnreadablePDF = errors.New("unreadable PDF document")
	// ErrPageNotFound means the requested page does not exist.
	ErrPageNotFound = errors.New("PDF page not found")
)

// Mint returns a new opaque verification token.
func Mint() string {
	return uuid.NewString()
}

// Encode renders token as a QR PNG at error-correction level H. The image
// is reprinted on paper and scanned back from photos, so the strongest
// level is not optional.
func Encode(token string) ([]byte, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	data, err := qrcodegen.Encode(token, qrcodegen.Highest, encodedSize)
	if err != nil {
		return nil, fmt.Errorf("encode QR for token: %w", err)
	}
	return data, nil
}

// Decode scans img for a QR code and returns the embedded text. Malformed
// or code-less images yield ErrNoQRCode, never a panic.
func Decode(img image.Image) (string, error) {
	if img == nil {
		return "", ErrNoQRCode
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoQRCode, err)
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoQRCode, err)
	}
	return result.GetText(), nil
}

// DecodePNG decodes a QR code out of PNG bytes.
func DecodePNG(data []byte) (string, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoQRCode, err)
	}
	return Decode(img)
}

// DecodeFromPDF renders the given page of a PDF to a raster image and scans
// it for a QR code. All failure modes degrade to an error value with a
// distinguishable reason; none crash.
func DecodeFromPDF(pdfBytes []byte, pageIndex int) (string, error) {
	if len(pdfBytes) == 0 {
		return "", ErrUnreadablePDF
	}
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	defer doc.Close()

	if pageIndex < 0 || pageIndex >= doc.NumPage() {
		return "", fmt.Errorf("%w: page %d of %d", ErrPageNotFound, pageIndex, doc.NumPage())
	}
	img, err := doc.Image(pageIndex)
	if err != nil {
		return "", fmt.Errorf("%w: render page %d: %v", ErrUnreadablePDF, pageIndex, err)
	}
	return Decode(img)
}
