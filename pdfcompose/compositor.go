// Package pdfcompose produces the generated diploma documents: the QR cover
// page added at issuance and the ministry page prepended at authentication.
// Layout is coordinate-based and computed from the page's own dimensions;
// text is centered from measured string widths, never hardcoded offsets.
package pdfcompose

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	fontSans = "sans"
	fontBold = "sans-bold"
)

// CoverData carries everything drawn on the issuance cover page.
type CoverData struct {
	Institution string
	Subtitle    string
	Token       string
	Reference   string
	SignerName  string
	SignerRole  string
	Copyright   string
	Logo        []byte
}

// AuthData carries everything drawn on the ministry authentication page.
type AuthData struct {
	Country      string
	Ministry     string
	OfficerName  string
	OfficerTitle string
	Flag         []byte
	Seal         []byte
}

// ComposeCoverPage returns a new PDF whose first page carries the
// institutional branding, the QR image and the signer attribution. When
// base is non-nil its pages follow the cover; the cover is sized to the
// base's own first page so letter and A4 inputs both lay out cleanly.
// Nothing partial is ever returned: any draw or asset failure aborts.
func ComposeCoverPage(base []byte, qrPNG []byte, data CoverData) ([]byte, error) {
	if len(qrPNG) == 0 {
		return nil, errors.New("missing QR image")
	}
	if len(data.Logo) == 0 {
		return nil, errors.New("missing logo asset")
	}
	if data.Institution == "" || data.Token == "" {
		return nil, errors.New("missing cover text")
	}

	pageW, pageH := gopdf.PageSizeA4.W, gopdf.PageSizeA4.H
	if len(base) > 0 {
		dims, err := sourceDims(base)
		if err != nil {
			return nil, err
		}
		pageW, pageH = dims[0].Width, dims[0].Height
	}

	pdf, err := newDocument(pageW, pageH)
	if err != nil {
		return nil, err
	}
	pdf.AddPage()

	lay := coverGeometry(pageW, pageH)

	if err := drawImage(pdf, data.Logo, lay.Logo); err != nil {
		return nil, fmt.Errorf("draw logo: %w", err)
	}
	if err := drawCentered(pdf, fontBold, 20, pageW, lay.TitleY, data.Institution); err != nil {
		return nil, err
	}
	if data.Subtitle != "" {
		if err := drawCentered(pdf, fontSans, 13, pageW, lay.SubtitleY, data.Subtitle); err != nil {
			return nil, err
		}
	}

	if err := drawImage(pdf, qrPNG, lay.QR); err != nil {
		return nil, fmt.Errorf("draw QR image: %w", err)
	}
	if err := drawCentered(pdf, fontSans, 9, pageW, lay.TokenY, data.Token); err != nil {
		return nil, err
	}
	if data.Reference != "" {
		if err := drawCentered(pdf, fontSans, 9, pageW, lay.ReferenceY, data.Reference); err != nil {
			return nil, err
		}
	}

	if err := drawAt(pdf, fontSans, 9, lay.Margin, lay.FooterY, data.Copyright); err != nil {
		return nil, err
	}
	attribution := fmt.Sprintf("Délivré par %s (%s)", data.SignerName, data.SignerRole)
	if err := drawRightAligned(pdf, fontSans, 9, pageW-lay.Margin, lay.FooterY, attribution); err != nil {
		return nil, err
	}

	cover, err := pdf.GetBytesPdfReturnErr()
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return cover, nil
	}
	return prependTo(cover, base)
}

// ComposeAuthenticationPage prepends a ministry page to base so that it
// becomes the new cover. The page is sized to the base's own first page.
// It does not guard against being applied twice; the pipeline's state
// machine is responsible for that.
func ComposeAuthenticationPage(base []byte, qrPNG []byte, data AuthData) ([]byte, error) {
	if len(base) == 0 {
		return nil, errors.New("missing source document")
	}
	if len(qrPNG) == 0 {
		return nil, errors.New("missing QR image")
	}
	if len(data.Flag) == 0 || len(data.Seal) == 0 {
		return nil, errors.New("missing ministry assets")
	}
	if data.OfficerName == "" {
		return nil, errors.New("missing officer attribution")
	}

	dims, err := sourceDims(base)
	if err != nil {
		return nil, err
	}

	pageW, pageH := dims[0].Width, dims[0].Height
	pdf, err := newDocument(pageW, pageH)
	if err != nil {
		return nil, err
	}
	pdf.AddPage()

	lay := authGeometry(pageW, pageH)

	if err := drawImage(pdf, data.Flag, lay.Flag); err != nil {
		return nil, fmt.Errorf("draw flag: %w", err)
	}
	if err := drawAt(pdf, fontBold, 14, lay.HeaderX, lay.CountryY, data.Country); err != nil {
		return nil, err
	}
	if err := drawAt(pdf, fontSans, 12, lay.HeaderX, lay.MinistryY, data.Ministry); err != nil {
		return nil, err
	}

	if err := drawImage(pdf, qrPNG, lay.QR); err != nil {
		return nil, fmt.Errorf("draw QR image: %w", err)
	}
	if err := drawImage(pdf, data.Seal, lay.Seal); err != nil {
		return nil, fmt.Errorf("draw seal: %w", err)
	}

	if err := drawCentered(pdf, fontSans, 16, pageW, lay.Line1Y, "Document authentifié par:"); err != nil {
		return nil, err
	}
	if err := drawCentered(pdf, fontSans, 14, pageW, lay.Line2Y, data.Ministry); err != nil {
		return nil, err
	}
	if err := drawCentered(pdf, fontBold, 14, pageW, lay.OfficerY, data.OfficerName); err != nil {
		return nil, err
	}
	if data.OfficerTitle != "" {
		if err := drawCentered(pdf, fontSans, 11, pageW, lay.TitleY, data.OfficerTitle); err != nil {
			return nil, err
		}
	}

	page, err := pdf.GetBytesPdfReturnErr()
	if err != nil {
		return nil, err
	}
	return prependTo(page, base)
}

func newDocument(pageW, pageH float64) (*gopdf.GoPdf, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: pageW, H: pageH}})
	if err := pdf.AddTTFFontData(fontSans, goregular.TTF); err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	if err := pdf.AddTTFFontData(fontBold, gobold.TTF); err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return pdf, nil
}

func sourceDims(src []byte) ([]types.Dim, error) {
	dims, err := api.PageDims(bytes.NewReader(src), nil)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}
	if len(dims) == 0 {
		return nil, errors.New("source document has no pages")
	}
	return dims, nil
}

// prependTo stacks the freshly drawn page ahead of every page of base.
func prependTo(page, base []byte) ([]byte, error) {
	readers := []io.ReadSeeker{bytes.NewReader(page), bytes.NewReader(base)}
	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, nil); err != nil {
		return nil, fmt.Errorf("merge with source document: %w", err)
	}
	return buf.Bytes(), nil
}

func drawImage(pdf *gopdf.GoPdf, img []byte, b box) error {
	holder, err := gopdf.ImageHolderByBytes(img)
	if err != nil {
		return err
	}
	return pdf.ImageByHolder(holder, b.X, b.Y, &gopdf.Rect{W: b.W, H: b.H})
}

func drawAt(pdf *gopdf.GoPdf, font string, size float64, x, y float64, text string) error {
	if err := pdf.SetFont(font, "", size); err != nil {
		return err
	}
	pdf.SetXY(x, y)
	return pdf.Cell(nil, text)
}

func drawCentered(pdf *gopdf.GoPdf, font string, size float64, pageW, y float64, text string) error {
	if err := pdf.SetFont(font, "", size); err != nil {
		return err
	}
	w, err := pdf.MeasureTextWidth(text)
	if err != nil {
		return err
	}
	pdf.SetXY((pageW-w)/2, y)
	return pdf.Cell(nil, text)
}

func drawRightAligned(pdf *gopdf.GoPdf, font string, size float64, right, y float64, text string) error {
	if err := pdf.SetFont(font, "", size); err != nil {
		return err
	}
	w, err := pdf.MeasureTextWidth(text)
	if err != nil {
		return err
	}
	pdf.SetXY(right-w, y)
	return pdf.Cell(nil, text)
}
