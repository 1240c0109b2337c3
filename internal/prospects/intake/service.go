// Package intake handles touchpoint ingestion: resolving or creating the
// prospect behind an incoming contact request, session registration or
// needs-analysis submission, and enriching it without destroying data.
// This is a vertically sliced feature package.
package intake

import (
	"context"
	"fmt"
	"time"

	"eprofos_admin_backend/internal/events"
	"eprofos_admin_backend/internal/prospects/domain"
	"eprofos_admin_backend/internal/prospects/notes"
	"eprofos_admin_backend/internal/prospects/repository"
	"eprofos_admin_backend/internal/prospects/transport"
	"eprofos_admin_backend/platform/logger"
	"eprofos_admin_backend/platform/phone"

	"github.com/google/uuid"
)

// Touchpoint kinds as recorded in events and metrics.
const (
	KindContactRequest       = "contact_request"
	KindSessionRegistration  = "session_registration"
	KindNeedsAnalysisRequest = "needs_analysis_request"
)

// Sources stamped on a prospect when its first touchpoint arrives through a
// given channel. Only applied while the prospect still carries the default.
const (
	sourceContactForm   = "contact_form"
	sourceSessionSignup = "session_registration"
	sourceNeedsAnalysis = "needs_analysis"
)

const noteTimeLayout = "02/01/2006 15:04"

// Repository defines the data access interface needed by the intake service.
// This is a consumer-driven interface - only what intake needs.
type Repository interface {
	repository.ProspectReader
	repository.ProspectWriter
	repository.TouchpointStore
	repository.InterestStore
	CreateNote(ctx context.Context, params repository.CreateNoteParams) (repository.ProspectNote, error)
}

// Service ingests touchpoints into the prospect pipeline.
type Service struct {
	repo Repository
	bus  events.Bus
	log  *logger.Logger
	now  func() time.Time
}

// New creates a new intake service.
func New(repo Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log, now: time.Now}
}

// touchpointContact carries the contact fields shared by all touchpoint kinds.
type touchpointContact struct {
	FirstName string
	LastName  string
	Phone     string
	Company   string
	Position  string
}

// findOrCreateProspectFromEmail returns the prospect with the exact email, or
// creates one with the pipeline defaults. Matching is case-sensitive and
// performs no trimming.
func (s *Service) findOrCreateProspectFromEmail(ctx context.Context, email string, contact touchpointContact) (repository.Prospect, bool, error) {
	prospect, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return prospect, false, nil
	}
	if err != repository.ErrNotFound {
		return repository.Prospect{}, false, err
	}

	created, err := s.repo.Create(ctx, repository.CreateProspectParams{
		Email:     email,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Phone:     contact.Phone,
		Company:   contact.Company,
		Position:  contact.Position,
		Status:    domain.DefaultStatus,
		Priority:  domain.DefaultPriority,
		Source:    domain.DefaultSource,
	})
	if err != nil {
		return repository.Prospect{}, false, err
	}

	s.bus.Publish(ctx, events.ProspectCreated{
		BaseEvent:  events.NewBaseEvent(),
		ProspectID: created.ID,
		Email:      created.Email,
		Source:     created.Source,
	})
	s.log.Info("prospect created from touchpoint", "prospectId", created.ID, "email", created.Email)

	return created, true, nil
}

// SubmitContactRequest records a contact form submission and ingests it.
func (s *Service) SubmitContactRequest(ctx context.Context, req transport.CreateContactRequestRequest) (transport.TouchpointResponse, error) {
	cr, err := s.repo.CreateContactRequest(ctx, repository.CreateContactRequestParams{
		Type:        req.Type,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       phone.NormalizeE164(req.Phone),
		Company:     req.Company,
		Message:     req.Message,
		ServiceID:   req.ServiceID,
		FormationID: req.FormationID,
	})
	if err != nil {
		return transport.TouchpointResponse{}, err
	}

	prospect, err := s.IngestContactRequest(ctx, cr)
	if err != nil {
		return transport.TouchpointResponse{}, err
	}

	return transport.TouchpointResponse{TouchpointID: cr.ID, ProspectID: prospect.ID, Kind: KindContactRequest}, nil
}

// IngestContactRequest attaches a contact request to its prospect. A request
// that already carries a prospect link is left untouched.
func (s *Service) IngestContactRequest(ctx context.Context, cr repository.ContactRequest) (repository.Prospect, error) {
	if cr.ProspectID != nil {
		return s.repo.GetByID(ctx, *cr.ProspectID)
	}

	prospect, _, err := s.findOrCreateProspectFromEmail(ctx, cr.Email, touchpointContact{
		FirstName: cr.FirstName,
		LastName:  cr.LastName,
		Phone:     cr.Phone,
		Company:   cr.Company,
	})
	if err != nil {
		return repository.Prospect{}, err
	}

	note := fmt.Sprintf("[%s] Demande de contact (%s) : %s", s.now().Format(noteTimeLayout), cr.Type, cr.Message)

	status := prospect.Status
	if cr.Type == "quote" && prospect.Status == domain.StatusLead {
		status = domain.StatusProspect
	}

	update := s.enrichmentUpdate(prospect, touchpointContact{
		FirstName: cr.FirstName,
		LastName:  cr.LastName,
		Phone:     cr.Phone,
		Company:   cr.Company,
	}, note, status, sourceContactForm)

	if _, err := s.repo.Update(ctx, prospect.ID, update); err != nil {
		return repository.Prospect{}, err
	}
	if err := s.recordNote(ctx, prospect.ID, notes.TypeContact, note); err != nil {
		return repository.Prospect{}, err
	}

	if cr.FormationID != nil {
		if err := s.attachFormationInterest(ctx, prospect.ID, *cr.FormationID); err != nil {
			return repository.Prospect{}, err
		}
	}
	if cr.ServiceID != nil {
		if err := s.attachServiceInterest(ctx, prospect.ID, *cr.ServiceID); err != nil {
			return repository.Prospect{}, err
		}
	}

	if err := s.repo.LinkContactRequest(ctx, cr.ID, prospect.ID); err != nil {
		return repository.Prospect{}, err
	}

	s.finishIngestion(ctx, prospect.ID, cr.ID, KindContactRequest)
	return s.repo.GetByID(ctx, prospect.ID)
}

// SubmitSessionRegistration records a session signup and ingests it.
func (s *Service) SubmitSessionRegistration(ctx context.Context, req transport.CreateSessionRegistrationRequest) (transport.TouchpointResponse, error) {
	sr, err := s.repo.CreateSessionRegistration(ctx, repository.CreateSessionRegistrationParams{
		FormationID: req.FormationID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       phone.NormalizeE164(req.Phone),
		Company:     req.Company,
	})
	if err != nil {
		return transport.TouchpointResponse{}, err
	}

	prospect, err := s.IngestSessionRegistration(ctx, sr)
	if err != nil {
		return transport.TouchpointResponse{}, err
	}

	return transport.TouchpointResponse{TouchpointID: sr.ID, ProspectID: prospect.ID, Kind: KindSessionRegistration}, nil
}

// IngestSessionRegistration attaches a session registration to its prospect.
// Ingesting the same registration twice is a no-op: the prospect link acts as
// the processed marker, so notes are not duplicated and status is not
// escalated again.
func (s *Service) IngestSessionRegistration(ctx context.Context, sr repository.SessionRegistration) (repository.Prospect, error) {
	if sr.ProspectID != nil {
		return s.repo.GetByID(ctx, *sr.ProspectID)
	}

	prospect, _, err := s.findOrCreateProspectFromEmail(ctx, sr.Email, touchpointContact{
		FirstName: sr.FirstName,
		LastName:  sr.LastName,
		Phone:     sr.Phone,
		Company:   sr.Company,
	})
	if err != nil {
		return repository.Prospect{}, err
	}

	// Reload the formation so a stale reference fails cleanly before any write.
	formation, err := s.repo.GetFormation(ctx, sr.FormationID)
	if err != nil {
		return repository.Prospect{}, err
	}

	note := fmt.Sprintf("[%s] Inscription à la session : %s", s.now().Format(noteTimeLayout), formation.Title)

	status := prospect.Status
	if prospect.Status.Rank() <= domain.StatusProspect.Rank() {
		status = domain.StatusQualified
	}

	update := s.enrichmentUpdate(prospect, touchpointContact{
		FirstName: sr.FirstName,
		LastName:  sr.LastName,
		Phone:     sr.Phone,
		Company:   sr.Company,
	}, note, status, sourceSessionSignup)

	if _, err := s.repo.Update(ctx, prospect.ID, update); err != nil {
		return repository.Prospect{}, err
	}
	if err := s.recordNote(ctx, prospect.ID, notes.TypeRegistration, note); err != nil {
		return repository.Prospect{}, err
	}

	if err := s.repo.AddFormationInterest(ctx, prospect.ID, formation.ID); err != nil {
		return repository.Prospect{}, err
	}

	if err := s.repo.LinkSessionRegistration(ctx, sr.ID, prospect.ID); err != nil {
		return repository.Prospect{}, err
	}

	s.finishIngestion(ctx, prospect.ID, sr.ID, KindSessionRegistration)
	return s.repo.GetByID(ctx, prospect.ID)
}

// SubmitNeedsAnalysis records a needs-analysis submission and ingests it.
func (s *Service) SubmitNeedsAnalysis(ctx context.Context, req transport.CreateNeedsAnalysisRequest) (transport.TouchpointResponse, error) {
	na, err := s.repo.CreateNeedsAnalysisRequest(ctx, repository.CreateNeedsAnalysisParams{
		FormationID: req.FormationID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       phone.NormalizeE164(req.Phone),
		Company:     req.Company,
		Position:    req.Position,
		Notes:       req.Notes,
	})
	if err != nil {
		return transport.TouchpointResponse{}, err
	}

	prospect, err := s.IngestNeedsAnalysis(ctx, na)
	if err != nil {
		return transport.TouchpointResponse{}, err
	}

	return transport.TouchpointResponse{TouchpointID: na.ID, ProspectID: prospect.ID, Kind: KindNeedsAnalysisRequest}, nil
}

// IngestNeedsAnalysis attaches a needs-analysis request to its prospect.
func (s *Service) IngestNeedsAnalysis(ctx context.Context, na repository.NeedsAnalysisRequest) (repository.Prospect, error) {
	if na.ProspectID != nil {
		return s.repo.GetByID(ctx, *na.ProspectID)
	}

	prospect, _, err := s.findOrCreateProspectFromEmail(ctx, na.Email, touchpointContact{
		FirstName: na.FirstName,
		LastName:  na.LastName,
		Phone:     na.Phone,
		Company:   na.Company,
		Position:  na.Position,
	})
	if err != nil {
		return repository.Prospect{}, err
	}

	note := fmt.Sprintf("[%s] Analyse des besoins reçue", s.now().Format(noteTimeLayout))
	if na.Notes != "" {
		note += " : " + na.Notes
	}

	status := prospect.Status
	if prospect.Status.Rank() <= domain.StatusProspect.Rank() {
		status = domain.StatusQualified
	}

	update := s.enrichmentUpdate(prospect, touchpointContact{
		FirstName: na.FirstName,
		LastName:  na.LastName,
		Phone:     na.Phone,
		Company:   na.Company,
		Position:  na.Position,
	}, note, status, sourceNeedsAnalysis)

	if _, err := s.repo.Update(ctx, prospect.ID, update); err != nil {
		return repository.Prospect{}, err
	}
	if err := s.recordNote(ctx, prospect.ID, notes.TypeAnalysis, note); err != nil {
		return repository.Prospect{}, err
	}

	if na.FormationID != nil {
		if err := s.attachFormationInterest(ctx, prospect.ID, *na.FormationID); err != nil {
			return repository.Prospect{}, err
		}
	}

	if err := s.repo.LinkNeedsAnalysisRequest(ctx, na.ID, prospect.ID); err != nil {
		return repository.Prospect{}, err
	}

	s.finishIngestion(ctx, prospect.ID, na.ID, KindNeedsAnalysisRequest)
	return s.repo.GetByID(ctx, prospect.ID)
}

// enrichmentUpdate builds the non-destructive prospect update for a
// touchpoint: empty scalar fields are filled, non-empty ones never
// overwritten; the note is appended to the description; the source is only
// stamped while the prospect still carries the creation default.
func (s *Service) enrichmentUpdate(prospect repository.Prospect, contact touchpointContact, note string, status domain.Status, source string) repository.UpdateProspectParams {
	update := repository.UpdateProspectParams{}

	if prospect.FirstName == "" && contact.FirstName != "" {
		update.FirstName = &contact.FirstName
	}
	if prospect.LastName == "" && contact.LastName != "" {
		update.LastName = &contact.LastName
	}
	if prospect.Phone == "" && contact.Phone != "" {
		update.Phone = &contact.Phone
	}
	if prospect.Company == "" && contact.Company != "" {
		update.Company = &contact.Company
	}
	if prospect.Position == "" && contact.Position != "" {
		update.Position = &contact.Position
	}

	description := note
	if prospect.Description != "" {
		description = prospect.Description + "\n\n" + note
	}
	update.Description = &description

	if status != prospect.Status {
		update.Status = &status
	}

	if prospect.Source == domain.DefaultSource && source != domain.DefaultSource {
		update.Source = &source
	}

	contactedAt := s.now()
	update.LastContactDate = &contactedAt
	update.LastContactDateSet = true

	return update
}

// recordNote keeps a typed trace of the touchpoint alongside the description
// append. Ingestion notes carry no author.
func (s *Service) recordNote(ctx context.Context, prospectID uuid.UUID, noteType, body string) error {
	_, err := s.repo.CreateNote(ctx, repository.CreateNoteParams{
		ProspectID: prospectID,
		Type:       noteType,
		Body:       body,
	})
	return err
}

// attachFormationInterest reloads the formation then records the interest,
// skipping silently when it is already present.
func (s *Service) attachFormationInterest(ctx context.Context, prospectID, formationID uuid.UUID) error {
	formation, err := s.repo.GetFormation(ctx, formationID)
	if err != nil {
		return err
	}
	return s.repo.AddFormationInterest(ctx, prospectID, formation.ID)
}

func (s *Service) attachServiceInterest(ctx context.Context, prospectID, serviceID uuid.UUID) error {
	service, err := s.repo.GetService(ctx, serviceID)
	if err != nil {
		return err
	}
	return s.repo.AddServiceInterest(ctx, prospectID, service.ID)
}

func (s *Service) finishIngestion(ctx context.Context, prospectID, touchpointID uuid.UUID, kind string) {
	s.bus.Publish(ctx, events.TouchpointRecorded{
		BaseEvent:    events.NewBaseEvent(),
		ProspectID:   prospectID,
		TouchpointID: touchpointID,
		Kind:         kind,
	})
	s.log.Info("touchpoint recorded", "prospectId", prospectID, "touchpointId", touchpointID, "kind", kind)
}
