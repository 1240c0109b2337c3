package intake

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"eprofos_admin_backend/internal/events"
	"eprofos_admin_backend/internal/prospects/domain"
	"eprofos_admin_backend/internal/prospects/notes"
	"eprofos_admin_backend/internal/prospects/repository"
	"eprofos_admin_backend/internal/prospects/transport"
	"eprofos_admin_backend/platform/logger"
)

// fakeRepo is an in-memory Repository covering the intake flows.
type fakeRepo struct {
	prospects      map[uuid.UUID]repository.Prospect
	prospectOrder  []uuid.UUID
	formations     map[uuid.UUID]repository.Formation
	services       map[uuid.UUID]repository.Service
	contactReqs    map[uuid.UUID]repository.ContactRequest
	sessionRegs    map[uuid.UUID]repository.SessionRegistration
	needsAnalyses  map[uuid.UUID]repository.NeedsAnalysisRequest
	formationLinks map[uuid.UUID]map[uuid.UUID]bool
	serviceLinks   map[uuid.UUID]map[uuid.UUID]bool
	notes          []repository.ProspectNote
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		prospects:      make(map[uuid.UUID]repository.Prospect),
		formations:     make(map[uuid.UUID]repository.Formation),
		services:       make(map[uuid.UUID]repository.Service),
		contactReqs:    make(map[uuid.UUID]repository.ContactRequest),
		sessionRegs:    make(map[uuid.UUID]repository.SessionRegistration),
		needsAnalyses:  make(map[uuid.UUID]repository.NeedsAnalysisRequest),
		formationLinks: make(map[uuid.UUID]map[uuid.UUID]bool),
		serviceLinks:   make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Prospect, error) {
	p, ok := f.prospects[id]
	if !ok {
		return repository.Prospect{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (repository.Prospect, error) {
	for _, id := range f.prospectOrder {
		if f.prospects[id].Email == email {
			return f.prospects[id], nil
		}
	}
	return repository.Prospect{}, repository.ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context, params repository.ListParams) ([]repository.Prospect, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateProspectParams) (repository.Prospect, error) {
	p := repository.Prospect{
		ID:        uuid.New(),
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Company:   params.Company,
		Position:  params.Position,
		Phone:     params.Phone,
		Status:    params.Status,
		Priority:  params.Priority,
		Source:    params.Source,
		CreatedAt: time.Now(),
	}
	f.prospects[p.ID] = p
	f.prospectOrder = append(f.prospectOrder, p.ID)
	return p, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, params repository.UpdateProspectParams) (repository.Prospect, error) {
	p, ok := f.prospects[id]
	if !ok {
		return repository.Prospect{}, repository.ErrNotFound
	}
	if params.FirstName != nil {
		p.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		p.LastName = *params.LastName
	}
	if params.Company != nil {
		p.Company = *params.Company
	}
	if params.Position != nil {
		p.Position = *params.Position
	}
	if params.Phone != nil {
		p.Phone = *params.Phone
	}
	if params.Status != nil {
		p.Status = *params.Status
	}
	if params.Priority != nil {
		p.Priority = *params.Priority
	}
	if params.Source != nil {
		p.Source = *params.Source
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	if params.LastContactDateSet {
		p.LastContactDate = params.LastContactDate
	}
	if params.NextFollowUpDateSet {
		p.NextFollowUpDate = params.NextFollowUpDate
	}
	f.prospects[id] = p
	return p, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.prospects, id)
	return nil
}

func (f *fakeRepo) CreateContactRequest(ctx context.Context, params repository.CreateContactRequestParams) (repository.ContactRequest, error) {
	cr := repository.ContactRequest{
		ID:          uuid.New(),
		Type:        params.Type,
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Phone:       params.Phone,
		Company:     params.Company,
		Message:     params.Message,
		ServiceID:   params.ServiceID,
		FormationID: params.FormationID,
		CreatedAt:   time.Now(),
	}
	f.contactReqs[cr.ID] = cr
	return cr, nil
}

func (f *fakeRepo) GetContactRequest(ctx context.Context, id uuid.UUID) (repository.ContactRequest, error) {
	cr, ok := f.contactReqs[id]
	if !ok {
		return repository.ContactRequest{}, repository.ErrTouchpointNotFound
	}
	return cr, nil
}

func (f *fakeRepo) CreateSessionRegistration(ctx context.Context, params repository.CreateSessionRegistrationParams) (repository.SessionRegistration, error) {
	sr := repository.SessionRegistration{
		ID:          uuid.New(),
		FormationID: params.FormationID,
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Phone:       params.Phone,
		Company:     params.Company,
		CreatedAt:   time.Now(),
	}
	f.sessionRegs[sr.ID] = sr
	return sr, nil
}

func (f *fakeRepo) GetSessionRegistration(ctx context.Context, id uuid.UUID) (repository.SessionRegistration, error) {
	sr, ok := f.sessionRegs[id]
	if !ok {
		return repository.SessionRegistration{}, repository.ErrTouchpointNotFound
	}
	return sr, nil
}

func (f *fakeRepo) CreateNeedsAnalysisRequest(ctx context.Context, params repository.CreateNeedsAnalysisParams) (repository.NeedsAnalysisRequest, error) {
	na := repository.NeedsAnalysisRequest{
		ID:          uuid.New(),
		FormationID: params.FormationID,
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Phone:       params.Phone,
		Company:     params.Company,
		Position:    params.Position,
		Notes:       params.Notes,
		CreatedAt:   time.Now(),
	}
	f.needsAnalyses[na.ID] = na
	return na, nil
}

func (f *fakeRepo) GetNeedsAnalysisRequest(ctx context.Context, id uuid.UUID) (repository.NeedsAnalysisRequest, error) {
	na, ok := f.needsAnalyses[id]
	if !ok {
		return repository.NeedsAnalysisRequest{}, repository.ErrTouchpointNotFound
	}
	return na, nil
}

func (f *fakeRepo) LinkContactRequest(ctx context.Context, id, prospectID uuid.UUID) error {
	cr := f.contactReqs[id]
	cr.ProspectID = &prospectID
	f.contactReqs[id] = cr
	return nil
}

func (f *fakeRepo) LinkSessionRegistration(ctx context.Context, id, prospectID uuid.UUID) error {
	sr := f.sessionRegs[id]
	sr.ProspectID = &prospectID
	f.sessionRegs[id] = sr
	return nil
}

func (f *fakeRepo) LinkNeedsAnalysisRequest(ctx context.Context, id, prospectID uuid.UUID) error {
	na := f.needsAnalyses[id]
	na.ProspectID = &prospectID
	f.needsAnalyses[id] = na
	return nil
}

func (f *fakeRepo) ListTouchpointCounts(ctx context.Context, prospectID uuid.UUID) (map[string]int, error) {
	return map[string]int{}, nil
}

func (f *fakeRepo) CreateNote(ctx context.Context, params repository.CreateNoteParams) (repository.ProspectNote, error) {
	note := repository.ProspectNote{
		ID:         uuid.New(),
		ProspectID: params.ProspectID,
		AuthorID:   params.AuthorID,
		Type:       params.Type,
		Body:       params.Body,
		CreatedAt:  time.Now(),
	}
	f.notes = append(f.notes, note)
	return note, nil
}

func (f *fakeRepo) notesFor(prospectID uuid.UUID) []repository.ProspectNote {
	out := []repository.ProspectNote{}
	for _, note := range f.notes {
		if note.ProspectID == prospectID {
			out = append(out, note)
		}
	}
	return out
}

func (f *fakeRepo) GetFormation(ctx context.Context, id uuid.UUID) (repository.Formation, error) {
	formation, ok := f.formations[id]
	if !ok {
		return repository.Formation{}, repository.ErrCatalogNotFound
	}
	return formation, nil
}

func (f *fakeRepo) GetService(ctx context.Context, id uuid.UUID) (repository.Service, error) {
	service, ok := f.services[id]
	if !ok {
		return repository.Service{}, repository.ErrCatalogNotFound
	}
	return service, nil
}

func (f *fakeRepo) AddFormationInterest(ctx context.Context, prospectID, formationID uuid.UUID) error {
	if f.formationLinks[prospectID] == nil {
		f.formationLinks[prospectID] = make(map[uuid.UUID]bool)
	}
	f.formationLinks[prospectID][formationID] = true
	return nil
}

func (f *fakeRepo) AddServiceInterest(ctx context.Context, prospectID, serviceID uuid.UUID) error {
	if f.serviceLinks[prospectID] == nil {
		f.serviceLinks[prospectID] = make(map[uuid.UUID]bool)
	}
	f.serviceLinks[prospectID][serviceID] = true
	return nil
}

func (f *fakeRepo) ListFormationInterests(ctx context.Context, prospectID uuid.UUID) ([]repository.Formation, error) {
	out := []repository.Formation{}
	for id := range f.formationLinks[prospectID] {
		out = append(out, f.formations[id])
	}
	return out, nil
}

func (f *fakeRepo) ListServiceInterests(ctx context.Context, prospectID uuid.UUID) ([]repository.Service, error) {
	out := []repository.Service{}
	for id := range f.serviceLinks[prospectID] {
		out = append(out, f.services[id])
	}
	return out, nil
}

func newTestService(repo *fakeRepo) *Service {
	log := logger.New("test")
	svc := New(repo, events.NewInMemoryBus(log), log)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC) }
	return svc
}

func (f *fakeRepo) addFormation(title string) repository.Formation {
	formation := repository.Formation{ID: uuid.New(), Title: title, Slug: title}
	f.formations[formation.ID] = formation
	return formation
}

func (f *fakeRepo) addProspect(email string, status domain.Status) repository.Prospect {
	p, _ := f.Create(context.Background(), repository.CreateProspectParams{
		Email:    email,
		Status:   status,
		Priority: domain.DefaultPriority,
		Source:   domain.DefaultSource,
	})
	return p
}

func TestContactRequestCreatesProspectWithDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	resp, err := svc.SubmitContactRequest(context.Background(), transport.CreateContactRequestRequest{
		Type:      "information",
		FirstName: "Marie",
		LastName:  "Durand",
		Email:     "marie.durand@example.fr",
		Phone:     "06 12 34 56 78",
		Message:   "Je souhaite des informations sur vos formations.",
	})
	if err != nil {
		t.Fatalf("SubmitContactRequest: %v", err)
	}

	p, err := repo.GetByID(context.Background(), resp.ProspectID)
	if err != nil {
		t.Fatalf("prospect not stored: %v", err)
	}
	if p.Status != domain.StatusLead {
		t.Fatalf("status = %q, want lead", p.Status)
	}
	if p.Priority != domain.PriorityMedium {
		t.Fatalf("priority = %q, want medium", p.Priority)
	}
	if p.Source != "contact_form" {
		t.Fatalf("source = %q, want contact_form", p.Source)
	}
	if p.Phone != "+33612345678" {
		t.Fatalf("phone = %q, want normalized E.164", p.Phone)
	}
	if p.LastContactDate == nil {
		t.Fatal("expected last contact date to be stamped")
	}
	if !strings.Contains(p.Description, "Demande de contact") {
		t.Fatalf("description missing touchpoint note: %q", p.Description)
	}

	cr, _ := repo.GetContactRequest(context.Background(), resp.TouchpointID)
	if cr.ProspectID == nil || *cr.ProspectID != p.ID {
		t.Fatal("contact request not linked to prospect")
	}
}

func TestQuoteContactEscalatesLeadOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	lead := repo.addProspect("lead@example.fr", domain.StatusLead)
	customer := repo.addProspect("client@example.fr", domain.StatusCustomer)

	submit := func(email string) {
		t.Helper()
		_, err := svc.SubmitContactRequest(context.Background(), transport.CreateContactRequestRequest{
			Type: "quote", FirstName: "A", LastName: "B", Email: email, Message: "Devis",
		})
		if err != nil {
			t.Fatalf("SubmitContactRequest(%s): %v", email, err)
		}
	}

	submit(lead.Email)
	submit(customer.Email)

	if got, _ := repo.GetByID(context.Background(), lead.ID); got.Status != domain.StatusProspect {
		t.Fatalf("lead status = %q, want prospect", got.Status)
	}
	if got, _ := repo.GetByID(context.Background(), customer.ID); got.Status != domain.StatusCustomer {
		t.Fatalf("customer status = %q, want customer (never downgraded)", got.Status)
	}
}

func TestSessionRegistrationEscalatesToQualified(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	formation := repo.addFormation("Gestion de projet")

	lead := repo.addProspect("lead@example.fr", domain.StatusLead)
	negotiation := repo.addProspect("nego@example.fr", domain.StatusNegotiation)

	register := func(email string) {
		t.Helper()
		_, err := svc.SubmitSessionRegistration(context.Background(), transport.CreateSessionRegistrationRequest{
			FormationID: formation.ID, FirstName: "A", LastName: "B", Email: email,
		})
		if err != nil {
			t.Fatalf("SubmitSessionRegistration(%s): %v", email, err)
		}
	}

	register(lead.Email)
	register(negotiation.Email)

	if got, _ := repo.GetByID(context.Background(), lead.ID); got.Status != domain.StatusQualified {
		t.Fatalf("lead status = %q, want qualified", got.Status)
	}
	if got, _ := repo.GetByID(context.Background(), negotiation.ID); got.Status != domain.StatusNegotiation {
		t.Fatalf("negotiation status = %q, want negotiation (never downgraded)", got.Status)
	}

	if !repo.formationLinks[lead.ID][formation.ID] {
		t.Fatal("expected formation interest to be recorded")
	}
	if !strings.Contains(repo.prospects[lead.ID].Description, formation.Title) {
		t.Fatal("expected session note to mention the formation title")
	}
}

func TestIngestAlreadyLinkedRegistrationIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	formation := repo.addFormation("Bureautique")

	p := repo.addProspect("deja@example.fr", domain.StatusQualified)
	sr, _ := repo.CreateSessionRegistration(context.Background(), repository.CreateSessionRegistrationParams{
		FormationID: formation.ID, Email: p.Email,
	})
	_ = repo.LinkSessionRegistration(context.Background(), sr.ID, p.ID)
	linked, _ := repo.GetSessionRegistration(context.Background(), sr.ID)

	before := repo.prospects[p.ID]
	got, err := svc.IngestSessionRegistration(context.Background(), linked)
	if err != nil {
		t.Fatalf("IngestSessionRegistration: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("resolved prospect %s, want %s", got.ID, p.ID)
	}
	if after := repo.prospects[p.ID]; after.Description != before.Description {
		t.Fatal("re-ingesting a linked registration must not duplicate the note")
	}
}

func TestEnrichmentNeverOverwritesPopulatedFields(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	p, _ := repo.Create(context.Background(), repository.CreateProspectParams{
		Email:    "exist@example.fr",
		Phone:    "+33611111111",
		Status:   domain.StatusLead,
		Priority: domain.DefaultPriority,
		Source:   domain.DefaultSource,
	})

	_, err := svc.SubmitNeedsAnalysis(context.Background(), transport.CreateNeedsAnalysisRequest{
		FirstName: "Paul",
		LastName:  "Martin",
		Email:     p.Email,
		Phone:     "06 99 99 99 99",
		Company:   "ACME Formation",
		Position:  "DRH",
	})
	if err != nil {
		t.Fatalf("SubmitNeedsAnalysis: %v", err)
	}

	got := repo.prospects[p.ID]
	if got.Phone != "+33611111111" {
		t.Fatalf("phone = %q, existing value must be kept", got.Phone)
	}
	if got.FirstName != "Paul" || got.Company != "ACME Formation" || got.Position != "DRH" {
		t.Fatalf("empty fields not enriched: %+v", got)
	}
	if got.Status != domain.StatusQualified {
		t.Fatalf("status = %q, want qualified", got.Status)
	}
}

func TestSecondTouchpointKeepsFirstSource(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	first, err := svc.SubmitContactRequest(context.Background(), transport.CreateContactRequestRequest{
		Type: "information", FirstName: "A", LastName: "B",
		Email: "source@example.fr", Message: "Bonjour",
	})
	if err != nil {
		t.Fatalf("first touchpoint: %v", err)
	}

	_, err = svc.SubmitNeedsAnalysis(context.Background(), transport.CreateNeedsAnalysisRequest{
		FirstName: "A", LastName: "B", Email: "source@example.fr",
	})
	if err != nil {
		t.Fatalf("second touchpoint: %v", err)
	}

	if got := repo.prospects[first.ProspectID]; got.Source != "contact_form" {
		t.Fatalf("source = %q, want contact_form from the first touchpoint", got.Source)
	}
}

func TestIngestionWritesTypedNotes(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	formation := repo.addFormation("Comptabilité")

	resp, err := svc.SubmitContactRequest(context.Background(), transport.CreateContactRequestRequest{
		Type: "information", FirstName: "A", LastName: "B",
		Email: "notes@example.fr", Message: "Bonjour",
	})
	if err != nil {
		t.Fatalf("contact request: %v", err)
	}
	if _, err := svc.SubmitSessionRegistration(context.Background(), transport.CreateSessionRegistrationRequest{
		FormationID: formation.ID, FirstName: "A", LastName: "B", Email: "notes@example.fr",
	}); err != nil {
		t.Fatalf("session registration: %v", err)
	}
	if _, err := svc.SubmitNeedsAnalysis(context.Background(), transport.CreateNeedsAnalysisRequest{
		FirstName: "A", LastName: "B", Email: "notes@example.fr",
	}); err != nil {
		t.Fatalf("needs analysis: %v", err)
	}

	recorded := repo.notesFor(resp.ProspectID)
	if len(recorded) != 3 {
		t.Fatalf("notes recorded = %d, want one per touchpoint", len(recorded))
	}
	wantTypes := []string{notes.TypeContact, notes.TypeRegistration, notes.TypeAnalysis}
	for i, want := range wantTypes {
		if recorded[i].Type != want {
			t.Fatalf("note %d type = %q, want %q", i, recorded[i].Type, want)
		}
		if recorded[i].AuthorID != nil {
			t.Fatalf("note %d carries an author, ingestion notes must not", i)
		}
		if recorded[i].Body == "" {
			t.Fatalf("note %d has an empty body", i)
		}
	}
}
