package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/danisikibeye/diploma_registry/models"
)

// fakeGateway is an in-memory Gateway recording call order so ordering
// guarantees can be asserted.
type fakeGateway struct {
	diplomas map[uuid.UUID]*models.Diploma
	signers  map[uuid.UUID]*models.Signer
	blobs    map[string][]byte
	calls    []string
	lookups  int

	failCreate bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		diplomas: map[uuid.UUID]*models.Diploma{},
		signers:  map[uuid.UUID]*models.Signer{},
		blobs:    map[string][]byte{},
	}
}

func (g *fakeGateway) CreateDiploma(_ context.Context, d *models.Diploma) error {
	g.calls = append(g.calls, "create")
	if g.failCreate {
		return errors.New("record store unavailable")
	}
	d.ID = uuid.New()
	cp := *d
	g.diplomas[d.ID] = &cp
	return nil
}

func (g *fakeGateway) DiplomaByID(_ context.Context, id uuid.UUID) (*models.Diploma, error) {
	g.calls = append(g.calls, "get")
	d, ok := g.diplomas[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (g *fakeGateway) DiplomaByToken(_ context.Context, token string) (*models.Diploma, error) {
	g.calls = append(g.calls, "lookup")
	g.lookups++
	for _, d := range g.diplomas {
		if d.QRCode == token {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (g *fakeGateway) SetAuthenticated(_ context.Context, id uuid.UUID, ref BlobRef) error {
	g.calls = append(g.calls, "set_authentic")
	d, ok := g.diplomas[id]
	if !ok {
		return ErrRecordNotFound
	}
	d.Authentic = true
	d.FileURL = ref.URL
	d.FilePublicID = ref.PublicID
	return nil
}

func (g *fakeGateway) SignerByID(_ context.Context, id uuid.UUID) (*models.Signer, error) {
	s, ok := g.signers[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return s, nil
}

func (g *fakeGateway) UploadBlob(_ context.Context, path string, data []byte, overwrite bool) (BlobRef, error) {
	g.calls = append(g.calls, "upload")
	if _, exists := g.blobs[path]; exists && !overwrite {
		return BlobRef{}, fmt.Errorf("blob %s already exists", path)
	}
	g.blobs[path] = data
	return BlobRef{PublicID: path, URL: "https://blobs.test/" + path}, nil
}

func (g *fakeGateway) FetchBlob(_ context.Context, ref BlobRef) ([]byte, error) {
	g.calls = append(g.calls, "fetch")
	data, ok := g.blobs[ref.PublicID]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", ref.PublicID)
	}
	return data, nil
}

func (g *fakeGateway) SignedURL(_ context.Context, ref BlobRef, _ time.Duration) (string, error) {
	return ref.URL + "?signed=1", nil
}

// fakeLoader serves the same generated PNG for every asset name.
type fakeLoader struct {
	img []byte
}

func (l *fakeLoader) Load(_ context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("empty asset name")
	}
	return l.img, nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 180, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func newTestPipeline(t *testing.T) (*Pipeline, *fakeGateway) {
	t.Helper()
	gw := newFakeGateway()
	p := New(gw, &fakeLoader{img: testPNG(t)}, DefaultBranding())
	return p, gw
}

func seedSigner(gw *fakeGateway) uuid.UUID {
	id := uuid.New()
	gw.signers[id] = &models.Signer{
		ID:        id,
		LastName:  "Kalala",
		FirstName: "Jean",
		Role:      models.SignerRoleDean,
	}
	return id
}

func issueInput(signerID uuid.UUID) IssueInput {
	return IssueInput{
		Title:        "Licence en Informatique",
		Place:        "Kinshasa",
		AcademicYear: "2024-2025",
		Reference:    "UNIKIN-2025-TEST1234",
		IssueDate:    time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC),
		StudentID:    uuid.New(),
		SignerID:     signerID,
	}
}

func TestIssueThenVerifyByToken(t *testing.T) {
	p, gw := newTestPipeline(t)
	signerID := seedSigner(gw)

	diploma, err := p.Issue(context.Background(), issueInput(signerID), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if diploma.QRCode == "" {
		t.Fatal("issued diploma has no token")
	}
	if diploma.Authentic {
		t.Fatal("freshly issued diploma must not be authentic")
	}

	res, err := p.Verify(context.Background(), diploma.QRCode, nil)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res.Status != VerifyRegistered {
		t.Fatalf("status: got %s want %s", res.Status, VerifyRegistered)
	}
	if res.Record.Title != "Licence en Informatique" || res.Record.Place != "Kinshasa" {
		t.Fatalf("record fields do not match issuance: %+v", res.Record)
	}
	if !res.Record.IssueDate.Equal(time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("issue date mismatch: %v", res.Record.IssueDate)
	}
}

func TestIssueUploadPrecedesRecordWrite(t *testing.T) {
	p, gw := newTestPipeline(t)
	signerID := seedSigner(gw)

	if _, err := p.Issue(context.Background(), issueInput(signerID), nil); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(gw.calls) < 2 || gw.calls[len(gw.calls)-2] != "upload" || gw.calls[len(gw.calls)-1] != "create" {
		t.Fatalf("expected upload before create, got calls %v", gw.calls)
	}
}

func TestIssueRecordWriteFailure(t *testing.T) {
	p, gw := newTestPipeline(t)
	signerID := seedSigner(gw)
	gw.failCreate = true

	_, err := p.Issue(context.Background(), issueInput(signerID), nil)
	if err == nil {
		t.Fatal("expected issue to fail when record write fails")
	}
	if len(gw.diplomas) != 0 {
		t.Fatal("no partial record may be created")
	}
}

func TestIssueMissingInput(t *testing.T) {
	p, gw := newTestPipeline(t)
	signerID := seedSigner(gw)

	in := issueInput(signerID)
	in.Title = ""
	if _, err := p.Issue(context.Background(), in, nil); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("input errors must be rejected before any I/O, got calls %v", gw.calls)
	}
}

func TestVerifyUnknownToken(t *testing.T) {
	p, gw := newTestPipeline(t)

	res, err := p.Verify(context.Background(), "does-not-exist", nil)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res.Status != VerifyNotFound {
		t.Fatalf("status: got %s want %s", res.Status, VerifyNotFound)
	}
	if res.Record != nil {
		t.Fatal("no record may be returned for an unknown token")
	}
	if gw.lookups != 1 {
		t.Fatalf("expected exactly one lookup, got %d", gw.lookups)
	}
}

func TestVerifyCorruptFile(t *testing.T) {
	p, gw := newTestPipeline(t)

	_, err := p.Verify(context.Background(), "", []byte("this is not a pdf"))
	if err == nil {
		t.Fatal("expected a decode error for a corrupt file")
	}
	if gw.lookups != 0 {
		t.Fatalf("no lookup may be attempted after a decode failure, got %d", gw.lookups)
	}
}

func TestVerifyMissingInput(t *testing.T) {
	p, _ := newTestPipeline(t)
	if _, err := p.Verify(context.Background(), "", nil); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}

func TestAuthenticateThenVerify(t *testing.T) {
	p, gw := newTestPipeline(t)
	signerID := seedSigner(gw)

	diploma, err := p.Issue(context.Background(), issueInput(signerID), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	officer := Officer{Name: "Mohindo Nzangi", Title: "Ministre de l'ESU"}
	updated, err := p.Authenticate(context.Background(), diploma.ID, models.RoleMinistry, officer)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !updated.Authentic {
		t.Fatal("authenticate must set the authenticity flag")
	}

	res, err := p.Verify(context.Background(), diploma.QRCode, nil)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res.Status != VerifyAuthentic {
		t.Fatalf("status: got %s want %s", res.Status, VerifyAuthentic)
	}
}

func TestAuthenticateUploadPrecedesFlagFlip(t *testing.T) {
	p, gw := newTestPipeline(t)
	signerID := seedSigner(gw)

	diploma, err := p.Issue(context.Background(), issueInput(signerID), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	gw.calls = nil

	officer := Officer{Name: "Mohindo Nzangi"}
	if _, err := p.Authenticate(context.Background(), diploma.ID, models.RoleMinistry, officer); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	uploadAt, flipAt := -1, -1
	for i, call := range gw.calls {
		switch call {
		case "upload":
			uploadAt = i
		case "set_authentic":
			flipAt = i
		}
	}
	if uploadAt == -1 || flipAt == -1 || uploadAt > flipAt {
		t.Fatalf("re-upload must complete before the flag flips, got calls %v", gw.calls)
	}
}

func TestAuthenticateWrongRole(t *testing.T) {
	p, gw := newTestPipeline(t)
	signerID := seedSigner(gw)

	diploma, err := p.Issue(context.Background(), issueInput(signerID), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	before := len(gw.calls)

	for _, role := range []string{models.RoleUniversityStaff, models.RoleVerifier, models.RoleAdmin, ""} {
		_, err := p.Authenticate(context.Background(), diploma.ID, role, Officer{Name: "X"})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("role %q: expected ErrForbidden, got %v", role, err)
		}
	}
	if len(gw.calls) != before {
		t.Fatalf("forbidden calls must not touch the gateway, got calls %v", gw.calls[before:])
	}
	if gw.diplomas[diploma.ID].Authentic {
		t.Fatal("record must not be mutated by a forbidden call")
	}
}

func TestAuthenticateTwiceRejected(t *testing.T) {
	p, gw := newTestPipeline(t)
	signerID := seedSigner(gw)

	diploma, err := p.Issue(context.Background(), issueInput(signerID), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	officer := Officer{Name: "Mohindo Nzangi"}
	if _, err := p.Authenticate(context.Background(), diploma.ID, models.RoleMinistry, officer); err != nil {
		t.Fatalf("first authenticate: %v", err)
	}

	_, err = p.Authenticate(context.Background(), diploma.ID, models.RoleMinistry, officer)
	if !errors.Is(err, ErrAlreadyAuthenticated) {
		t.Fatalf("expected ErrAlreadyAuthenticated, got %v", err)
	}

	// The stored document must carry exactly one authentication page:
	// cover + ministry page, never a second stack.
	stored := gw.blobs["diplomes/"+diploma.QRCode]
	n, err := api.PageCount(bytes.NewReader(stored), nil)
	if err != nil {
		t.Fatalf("count pages of stored document: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 pages in authenticated document, got %d", n)
	}
}

func TestAuthenticateDraftRejected(t *testing.T) {
	p, gw := newTestPipeline(t)
	id := uuid.New()
	gw.diplomas[id] = &models.Diploma{ID: id, Title: "Licence", QRCode: "tok"}

	_, err := p.Authenticate(context.Background(), id, models.RoleMinistry, Officer{Name: "X"})
	if !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestAuthenticityNeverRevoked(t *testing.T) {
	p, gw := newTestPipeline(t)
	signerID := seedSigner(gw)

	diploma, err := p.Issue(context.Background(), issueInput(signerID), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := p.Authenticate(context.Background(), diploma.ID, models.RoleMinistry, Officer{Name: "X"}); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	// Exercise every pipeline entry point again and check the flag holds.
	p.Verify(context.Background(), diploma.QRCode, nil)
	p.Authenticate(context.Background(), diploma.ID, models.RoleMinistry, Officer{Name: "X"})
	p.SignedDocumentURL(context.Background(), diploma.ID, time.Hour)

	if !gw.diplomas[diploma.ID].Authentic {
		t.Fatal("authenticity flag was revoked")
	}
}

func TestSignedDocumentURL(t *testing.T) {
	p, gw := newTestPipeline(t)
	signerID := seedSigner(gw)

	diploma, err := p.Issue(context.Background(), issueInput(signerID), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	url, err := p.SignedDocumentURL(context.Background(), diploma.ID, time.Hour)
	if err != nil {
		t.Fatalf("signed url: %v", err)
	}
	if url == "" {
		t.Fatal("expected a signed url")
	}
}
