package pdfcompose

// All coordinates are derived from the page's own width and height so the
// same layout holds on A4 and letter input. Units are PDF points, origin
// top-left (gopdf convention).

type box struct {
	X, Y, W, H float64
}

func (b box) within(pageW, pageH float64) bool {
	return b.X >= 0 && b.Y >= 0 && b.X+b.W <= pageW && b.Y+b.H <= pageH
}

// coverLayout positions the issuance cover page: wordmark and logo in the
// header band, QR plus token text centered in the body, attribution in the
// footer band.
type coverLayout struct {
	Margin     float64
	Logo       box
	TitleY     float64
	SubtitleY  float64
	QR         box
	TokenY     float64
	ReferenceY float64
	FooterY    float64
}

func coverGeometry(pageW, pageH float64) coverLayout {
	margin := pageW * 0.06
	logoSide := pageW * 0.13
	qrSide := pageW * 0.28
	qrTop := pageH * 0.32
	return coverLayout{
		Margin:     margin,
		Logo:       box{X: margin, Y: pageH * 0.035, W: logoSide, H: logoSide},
		TitleY:     pageH * 0.055,
		SubtitleY:  pageH * 0.095,
		QR:         box{X: (pageW - qrSide) / 2, Y: qrTop, W: qrSide, H: qrSide},
		TokenY:     qrTop + qrSide + pageH*0.025,
		ReferenceY: qrTop + qrSide + pageH*0.05,
		FooterY:    pageH * 0.935,
	}
}

// authLayout positions the ministry authentication page: flag and ministry
// block top-left, QR top-right, seal and officer attribution centered.
type authLayout struct {
	Margin    float64
	Flag      box
	CountryY  float64
	MinistryY float64
	HeaderX   float64
	QR        box
	Seal      box
	Line1Y    float64
	Line2Y    float64
	OfficerY  float64
	TitleY    float64
}

func authGeometry(pageW, pageH float64) authLayout {
	margin := pageW * 0.06
	flagW := pageW * 0.12
	qrSide := pageW * 0.18
	sealSide := pageW * 0.2
	sealTop := pageH * 0.36
	return authLayout{
		Margin:    margin,
		Flag:      box{X: margin, Y: pageH * 0.045, W: flagW, H: flagW * 0.66},
		CountryY:  pageH * 0.055,
		MinistryY: pageH * 0.085,
		HeaderX:   margin + flagW + pageW*0.02,
		QR:        box{X: pageW - margin - qrSide, Y: pageH * 0.04, W: qrSide, H: qrSide},
		Seal:      box{X: (pageW - sealSide) / 2, Y: sealTop, W: sealSide, H: sealSide},
		Line1Y:    sealTop + sealSide + pageH*0.035,
		Line2Y:    sealTop + sealSide + pageH*0.065,
		OfficerY:  sealTop + sealSide + pageH*0.105,
		TitleY:    sealTop + sealSide + pageH*0.13,
	}
}
