package pdfcompose

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/signintech/gopdf"

	"github.com/danisikibeye/diploma_registry/qrtoken"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 60, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func testCoverData(t *testing.T, token string) CoverData {
	t.Helper()
	return CoverData{
		Institution: "Université de Kinshasa",
		Subtitle:    "Système de vérification sécurisé des diplômes",
		Token:       token,
		Reference:   "UNIKIN-2025-ABCD2345",
		SignerName:  "Kalala Mukendi Jean",
		SignerRole:  "Doyen de la faculté",
		Copyright:   "@Copyright Danisi Kibeye",
		Logo:        testPNG(t, 64, 64),
	}
}

func testAuthData(t *testing.T) AuthData {
	t.Helper()
	return AuthData{
		Country:      "République Démocratique du Congo",
		Ministry:     "Ministère de l'Enseignement Supérieur et Universitaire",
		OfficerName:  "Mohindo Nzangi",
		OfficerTitle: "Ministre de l'ESU",
		Flag:         testPNG(t, 90, 60),
		Seal:         testPNG(t, 64, 64),
	}
}

func basePDF(t *testing.T, pages int, size gopdf.Rect) []byte {
	t.Helper()
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: size})
	for i := 0; i < pages; i++ {
		pdf.AddPage()
	}
	out, err := pdf.GetBytesPdfReturnErr()
	if err != nil {
		t.Fatalf("build base pdf: %v", err)
	}
	return out
}

func pageCount(t *testing.T, doc []byte) int {
	t.Helper()
	n, err := api.PageCount(bytes.NewReader(doc), nil)
	if err != nil {
		t.Fatalf("count pages: %v", err)
	}
	return n
}

func TestCoverGeometryWithinBounds(t *testing.T) {
	sizes := map[string][2]float64{
		"A4":     {gopdf.PageSizeA4.W, gopdf.PageSizeA4.H},
		"Letter": {gopdf.PageSizeLetter.W, gopdf.PageSizeLetter.H},
	}
	for name, s := range sizes {
		lay := coverGeometry(s[0], s[1])
		for label, b := range map[string]box{"logo": lay.Logo, "qr": lay.QR} {
			if !b.within(s[0], s[1]) {
				t.Errorf("%s: %s box %+v exceeds page %vx%v", name, label, b, s[0], s[1])
			}
		}
		for label, y := range map[string]float64{
			"title": lay.TitleY, "subtitle": lay.SubtitleY, "token": lay.TokenY,
			"reference": lay.ReferenceY, "footer": lay.FooterY,
		} {
			if y < 0 || y > s[1] {
				t.Errorf("%s: %s baseline %v outside page height %v", name, label, y, s[1])
			}
		}
	}
}

func TestAuthGeometryWithinBounds(t *testing.T) {
	sizes := map[string][2]float64{
		"A4":     {gopdf.PageSizeA4.W, gopdf.PageSizeA4.H},
		"Letter": {gopdf.PageSizeLetter.W, gopdf.PageSizeLetter.H},
	}
	for name, s := range sizes {
		lay := authGeometry(s[0], s[1])
		for label, b := range map[string]box{"flag": lay.Flag, "qr": lay.QR, "seal": lay.Seal} {
			if !b.within(s[0], s[1]) {
				t.Errorf("%s: %s box %+v exceeds page %vx%v", name, label, b, s[0], s[1])
			}
		}
		if lay.TitleY > s[1] {
			t.Errorf("%s: officer title baseline %v outside page height %v", name, lay.TitleY, s[1])
		}
	}
}

func TestComposeCoverPageWithoutBase(t *testing.T) {
	token := qrtoken.Mint()
	qr, err := qrtoken.Encode(token)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := ComposeCoverPage(nil, qr, testCoverData(t, token))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
	if n := pageCount(t, out); n != 1 {
		t.Fatalf("expected 1 page, got %d", n)
	}
}

func TestComposeCoverPageOnExistingDocument(t *testing.T) {
	token := qrtoken.Mint()
	qr, err := qrtoken.Encode(token)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	base := basePDF(t, 2, *gopdf.PageSizeLetter)
	out, err := ComposeCoverPage(base, qr, testCoverData(t, token))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if n := pageCount(t, out); n != 3 {
		t.Fatalf("expected cover + 2 source pages, got %d", n)
	}
}

func TestComposeCoverPageMissingLogo(t *testing.T) {
	token := qrtoken.Mint()
	qr, err := qrtoken.Encode(token)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	data := testCoverData(t, token)
	data.Logo = nil
	if _, err := ComposeCoverPage(nil, qr, data); err == nil {
		t.Fatal("expected error for missing logo asset")
	}
}

func TestCoverPageQRReadable(t *testing.T) {
	token := qrtoken.Mint()
	qr, err := qrtoken.Encode(token)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := ComposeCoverPage(nil, qr, testCoverData(t, token))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	got, err := qrtoken.DecodeFromPDF(out, 0)
	if err != nil {
		t.Fatalf("decode from cover page: %v", err)
	}
	if got != token {
		t.Fatalf("cover QR mismatch: got %q want %q", got, token)
	}
}

func TestComposeAuthenticationPagePrepends(t *testing.T) {
	token := qrtoken.Mint()
	qr, err := qrtoken.Encode(token)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cover, err := ComposeCoverPage(nil, qr, testCoverData(t, token))
	if err != nil {
		t.Fatalf("compose cover: %v", err)
	}
	out, err := ComposeAuthenticationPage(cover, qr, testAuthData(t))
	if err != nil {
		t.Fatalf("compose authentication page: %v", err)
	}
	if n := pageCount(t, out); n != 2 {
		t.Fatalf("expected 2 pages, got %d", n)
	}
	// The ministry page is the new first page and carries the same token.
	got, err := qrtoken.DecodeFromPDF(out, 0)
	if err != nil {
		t.Fatalf("decode from authentication page: %v", err)
	}
	if got != token {
		t.Fatalf("authentication QR mismatch: got %q want %q", got, token)
	}
}

func TestComposeCoverPageCorruptBase(t *testing.T) {
	token := qrtoken.Mint()
	qr, err := qrtoken.Encode(token)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := ComposeCoverPage([]byte("not a pdf at all"), qr, testCoverData(t, token)); err == nil {
		t.Fatal("expected error for corrupt source document")
	}
}

func TestComposeAuthenticationPageMatchesBaseSize(t *testing.T) {
	token := qrtoken.Mint()
	qr, err := qrtoken.Encode(token)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	base := basePDF(t, 1, *gopdf.PageSizeLetter)
	out, err := ComposeAuthenticationPage(base, qr, testAuthData(t))
	if err != nil {
		t.Fatalf("compose authentication page: %v", err)
	}
	dims, err := api.PageDims(bytes.NewReader(out), nil)
	if err != nil {
		t.Fatalf("read page dims: %v", err)
	}
	if len(dims) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(dims))
	}
	if dims[0].Width != gopdf.PageSizeLetter.W || dims[0].Height != gopdf.PageSizeLetter.H {
		t.Fatalf("ministry page is %vx%v, want base size %vx%v",
			dims[0].Width, dims[0].Height, gopdf.PageSizeLetter.W, gopdf.PageSizeLetter.H)
	}
}

func TestComposeAuthenticationPageRequiresBase(t *testing.T) {
	qr, err := qrtoken.Encode(qrtoken.Mint())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := ComposeAuthenticationPage(nil, qr, testAuthData(t)); err == nil {
		t.Fatal("expected error for missing source document")
	}
}
