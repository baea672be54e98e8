// Package pipeline orchestrates the diploma document flows: issuance
// (token + cover page + upload + record), verification (token or uploaded
// file to record) and ministry authentication (prepended page + status
// flip). Each call is one logical transaction with no shared in-process
// state; the only shared mutable data lives behind the Gateway.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/danisikibeye/diploma_registry/models"
	"github.com/danisikibeye/diploma_registry/pdfcompose"
	"github.com/danisikibeye/diploma_registry/qrtoken"
)

const defaultCallTimeout = 15 * time.Second

var (
	ErrMissingInput         = errors.New("missing required input")
	ErrForbidden            = errors.New("operation not permitted for this role")
	ErrAlreadyAuthenticated = errors.New("diploma already authenticated")
	ErrNoDocument           = errors.New("diploma has no stored document")
	ErrIllegalTransition    = errors.New("illegal status transition")
)

// Branding carries the fixed strings and asset names drawn on generated
// documents. Asset names resolve through the pdfcompose.Loader and may be
// file names or URLs.
type Branding struct {
	Institution string
	Subtitle    string
	Copyright   string
	Country     string
	Ministry    string

	LogoAsset string
	FlagAsset string
	SealAsset string
}

func DefaultBranding() Branding {
	return Branding{
		Institution: "Université de Kinshasa",
		Subtitle:    "Système de vérification sécurisé des diplômes",
		Copyright:   "@Copyright Danisi Kibeye",
		Country:     "République Démocratique du Congo",
		Ministry:    "Ministère de l'Enseignement Supérieur et Universitaire",
		LogoAsset:   "logo_unikin.png",
		FlagAsset:   "flag_drc.png",
		SealAsset:   "logo_esu.png",
	}
}

// Officer is the ministry official credited on the authentication page.
type Officer struct {
	Name  string
	Title string
}

type VerifyStatus string

const (
	VerifyAuthentic  VerifyStatus = "authentic"
	VerifyRegistered VerifyStatus = "registered_not_authenticated"
	VerifyNotFound   VerifyStatus = "not_found"
)

type VerifyResult struct {
	Status VerifyStatus
	Record *models.Diploma
}

type IssueInput struct {
	Title        string
	Place        string
	AcademicYear string
	Reference    string
	IssueDate    time.Time
	StudentID    uuid.UUID
	SignerID     uuid.UUID
}

type Pipeline struct {
	gw       Gateway
	assets   pdfcompose.Loader
	branding Branding
	timeout  time.Duration
}

func New(gw Gateway, assets pdfcompose.Loader, branding Branding) *Pipeline {
	return &Pipeline{gw: gw, assets: assets, branding: branding, timeout: defaultCallTimeout}
}

// Issue mints a token, composes the cover page onto sourcePDF (which may be
// nil), uploads the result and then creates the record. The upload always
// completes before the record write so the record never references a
// missing blob. If the record write fails the uploaded blob stays behind
// as orphaned collateral (the reaper job sweeps it) and Issue reports
// failure; no partial record is ever created.
func (p *Pipeline) Issue(ctx context.Context, in IssueInput, sourcePDF []byte) (*models.Diploma, error) {
	if in.Title == "" || in.Place == "" || in.StudentID == uuid.Nil || in.SignerID == uuid.Nil {
		return nil, fmt.Errorf("%w: title, place, student and signer are required", ErrMissingInput)
	}
	if in.IssueDate.IsZero() {
		in.IssueDate = time.Now()
	}

	signer, err := p.lookupSigner(ctx, in.SignerID)
	if err != nil {
		return nil, err
	}

	token := qrtoken.Mint()
	qrPNG, err := qrtoken.Encode(token)
	if err != nil {
		return nil, err
	}

	logo, err := p.loadAssets(ctx, p.branding.LogoAsset)
	if err != nil {
		return nil, err
	}

	doc, err := pdfcompose.ComposeCoverPage(sourcePDF, qrPNG, pdfcompose.CoverData{
		Institution: p.branding.Institution,
		Subtitle:    p.branding.Subtitle,
		Token:       token,
		Reference:   in.Reference,
		SignerName:  signer.FullName(),
		SignerRole:  signer.Role,
		Copyright:   p.branding.Copyright,
		Logo:        logo[0],
	})
	if err != nil {
		return nil, fmt.Errorf("compose cover page: %w", err)
	}

	upCtx, cancel := p.callContext(ctx)
	ref, err := p.gw.UploadBlob(upCtx, blobPath(token), doc, false)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("upload diploma document: %w", err)
	}

	diploma := &models.Diploma{
		Title:        in.Title,
		Reference:    in.Reference,
		QRCode:       token,
		FileURL:      ref.URL,
		FilePublicID: ref.PublicID,
		IssueDate:    in.IssueDate,
		Place:        in.Place,
		AcademicYear: in.AcademicYear,
		Authentic:    false,
		StudentID:    in.StudentID,
		SignerID:     in.SignerID,
	}
	crCtx, cancel := p.callContext(ctx)
	err = p.gw.CreateDiploma(crCtx, diploma)
	cancel()
	if err != nil {
		log.Printf("🔥 Diploma record write failed, blob %s is orphaned: %v", ref.PublicID, err)
		return nil, fmt.Errorf("create diploma record: %w", err)
	}
	return diploma, nil
}

// Verify resolves a token, or a token decoded from the first page of an
// uploaded file, to a registered diploma. Exactly one lookup is attempted;
// a miss is a terminal not-found result, not an error. Decode failures are
// returned as errors before any lookup happens.
func (p *Pipeline) Verify(ctx context.Context, token string, file []byte) (VerifyResult, error) {
	if token == "" && len(file) == 0 {
		return VerifyResult{}, fmt.Errorf("%w: provide a token or a document", ErrMissingInput)
	}
	if token == "" {
		decoded, err := qrtoken.DecodeFromPDF(file, 0)
		if err != nil {
			return VerifyResult{}, fmt.Errorf("decode uploaded document: %w", err)
		}
		token = decoded
	}

	lkCtx, cancel := p.callContext(ctx)
	defer cancel()
	record, err := p.gw.DiplomaByToken(lkCtx, token)
	if errors.Is(err, ErrRecordNotFound) {
		return VerifyResult{Status: VerifyNotFound}, nil
	}
	if err != nil {
		return VerifyResult{}, fmt.Errorf("look up diploma: %w", err)
	}

	status := VerifyRegistered
	if record.Authentic {
		status = VerifyAuthentic
	}
	return VerifyResult{Status: status, Record: record}, nil
}

// Authenticate prepends the ministry page to the stored document,
// re-uploads it over the existing blob and only then flips the
// authenticity flag, so a polling client never sees authenticity=true
// against a stale file. Only the ministry role may call it, and an already
// authenticated diploma is rejected rather than re-stacked.
func (p *Pipeline) Authenticate(ctx context.Context, diplomaID uuid.UUID, actorRole string, officer Officer) (*models.Diploma, error) {
	if actorRole != models.RoleMinistry {
		return nil, fmt.Errorf("%w: role %q cannot authenticate diplomas", ErrForbidden, actorRole)
	}
	if officer.Name == "" {
		return nil, fmt.Errorf("%w: officer attribution is required", ErrMissingInput)
	}

	getCtx, cancel := p.callContext(ctx)
	record, err := p.gw.DiplomaByID(getCtx, diplomaID)
	cancel()
	if err != nil {
		return nil, err
	}

	switch status := StatusOf(record); {
	case status == StatusAuthenticated:
		return nil, ErrAlreadyAuthenticated
	case status == StatusDraft:
		return nil, ErrNoDocument
	case !status.CanTransition(StatusAuthenticated):
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, status, StatusAuthenticated)
	}

	ftCtx, cancel := p.callContext(ctx)
	doc, err := p.gw.FetchBlob(ftCtx, BlobRef{PublicID: record.FilePublicID, URL: record.FileURL})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("fetch stored document: %w", err)
	}

	// The token is immutable post-issuance; the ministry page re-renders
	// the same one.
	qrPNG, err := qrtoken.Encode(record.QRCode)
	if err != nil {
		return nil, err
	}

	assets, err := p.loadAssets(ctx, p.branding.FlagAsset, p.branding.SealAsset)
	if err != nil {
		return nil, err
	}

	stamped, err := pdfcompose.ComposeAuthenticationPage(doc, qrPNG, pdfcompose.AuthData{
		Country:      p.branding.Country,
		Ministry:     p.branding.Ministry,
		OfficerName:  officer.Name,
		OfficerTitle: officer.Title,
		Flag:         assets[0],
		Seal:         assets[1],
	})
	if err != nil {
		return nil, fmt.Errorf("compose authentication page: %w", err)
	}

	upCtx, cancel := p.callContext(ctx)
	ref, err := p.gw.UploadBlob(upCtx, blobPath(record.QRCode), stamped, true)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("upload authenticated document: %w", err)
	}

	stCtx, cancel := p.callContext(ctx)
	err = p.gw.SetAuthenticated(stCtx, record.ID, ref)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("update diploma record: %w", err)
	}

	record.Authentic = true
	record.FileURL = ref.URL
	record.FilePublicID = ref.PublicID
	return record, nil
}

// SignedDocumentURL returns a time-limited link to a diploma's stored file.
func (p *Pipeline) SignedDocumentURL(ctx context.Context, diplomaID uuid.UUID, ttl time.Duration) (string, error) {
	getCtx, cancel := p.callContext(ctx)
	record, err := p.gw.DiplomaByID(getCtx, diplomaID)
	cancel()
	if err != nil {
		return "", err
	}
	if StatusOf(record) == StatusDraft {
		return "", ErrNoDocument
	}
	urlCtx, cancel := p.callContext(ctx)
	defer cancel()
	return p.gw.SignedURL(urlCtx, BlobRef{PublicID: record.FilePublicID, URL: record.FileURL}, ttl)
}

func (p *Pipeline) lookupSigner(ctx context.Context, id uuid.UUID) (*models.Signer, error) {
	sgCtx, cancel := p.callContext(ctx)
	defer cancel()
	signer, err := p.gw.SignerByID(sgCtx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: unknown signer", ErrMissingInput)
	}
	if err != nil {
		return nil, fmt.Errorf("look up signer: %w", err)
	}
	return signer, nil
}

// loadAssets fetches the named assets concurrently and joins before
// composition continues. Any single failure fails the batch.
func (p *Pipeline) loadAssets(ctx context.Context, names ...string) ([][]byte, error) {
	out := make([][]byte, len(names))
	g, gCtx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			data, err := p.assets.Load(gCtx, name)
			if err != nil {
				return err
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load branding assets: %w", err)
	}
	return out, nil
}

func (p *Pipeline) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.timeout)
}

func blobPath(token string) string {
	return "diplomes/" + token
}
