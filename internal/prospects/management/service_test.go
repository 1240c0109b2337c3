package management

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"eprofos_admin_backend/internal/events"
	"eprofos_admin_backend/internal/prospects/domain"
	"eprofos_admin_backend/internal/prospects/repository"
	"eprofos_admin_backend/internal/prospects/transport"
	"eprofos_admin_backend/platform/apperr"
	"eprofos_admin_backend/platform/logger"
)

type fakeRepo struct {
	prospects  map[uuid.UUID]repository.Prospect
	lastList   repository.ListParams
	lastUpdate repository.UpdateProspectParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{prospects: make(map[uuid.UUID]repository.Prospect)}
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Prospect, error) {
	p, ok := f.prospects[id]
	if !ok {
		return repository.Prospect{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (repository.Prospect, error) {
	return repository.Prospect{}, repository.ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context, params repository.ListParams) ([]repository.Prospect, int, error) {
	f.lastList = params
	return nil, 0, nil
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateProspectParams) (repository.Prospect, error) {
	return repository.Prospect{}, errors.New("not used")
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, params repository.UpdateProspectParams) (repository.Prospect, error) {
	p, ok := f.prospects[id]
	if !ok {
		return repository.Prospect{}, repository.ErrNotFound
	}
	f.lastUpdate = params
	if params.Phone != nil {
		p.Phone = *params.Phone
	}
	if params.Status != nil {
		p.Status = *params.Status
	}
	if params.NextFollowUpDateSet {
		p.NextFollowUpDate = params.NextFollowUpDate
	}
	f.prospects[id] = p
	return p, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.prospects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.prospects, id)
	return nil
}

func (f *fakeRepo) GetFormation(ctx context.Context, id uuid.UUID) (repository.Formation, error) {
	return repository.Formation{}, repository.ErrCatalogNotFound
}

func (f *fakeRepo) GetService(ctx context.Context, id uuid.UUID) (repository.Service, error) {
	return repository.Service{}, repository.ErrCatalogNotFound
}

func (f *fakeRepo) AddFormationInterest(ctx context.Context, prospectID, formationID uuid.UUID) error {
	return nil
}

func (f *fakeRepo) AddServiceInterest(ctx context.Context, prospectID, serviceID uuid.UUID) error {
	return nil
}

func (f *fakeRepo) ListFormationInterests(ctx context.Context, prospectID uuid.UUID) ([]repository.Formation, error) {
	return nil, nil
}

func (f *fakeRepo) ListServiceInterests(ctx context.Context, prospectID uuid.UUID) ([]repository.Service, error) {
	return nil, nil
}

func (f *fakeRepo) GetMetrics(ctx context.Context) (repository.ProspectMetrics, error) {
	return repository.ProspectMetrics{}, nil
}

func (f *fakeRepo) ListTouchpointCounts(ctx context.Context, prospectID uuid.UUID) (map[string]int, error) {
	return map[string]int{}, nil
}

type fakeScheduler struct {
	calls []time.Time
	err   error
}

func (f *fakeScheduler) ScheduleFollowUpReminder(ctx context.Context, prospectID uuid.UUID, dueAt time.Time) error {
	f.calls = append(f.calls, dueAt)
	return f.err
}

func newTestService(repo *fakeRepo, sched ReminderScheduler) *Service {
	log := logger.New("test")
	return New(repo, sched, events.NewInMemoryBus(log), log)
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	_, err := svc.List(context.Background(), ListFilter{Status: "garbage"})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListClampsPagination(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	if _, err := svc.List(context.Background(), ListFilter{Page: 0, PerPage: 500}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastList.Limit != 20 || repo.lastList.Offset != 0 {
		t.Fatalf("limit/offset = %d/%d, want 20/0", repo.lastList.Limit, repo.lastList.Offset)
	}

	if _, err := svc.List(context.Background(), ListFilter{Page: 3, PerPage: 50}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastList.Limit != 50 || repo.lastList.Offset != 100 {
		t.Fatalf("limit/offset = %d/%d, want 50/100", repo.lastList.Limit, repo.lastList.Offset)
	}
}

func TestUpdateNormalizesPhone(t *testing.T) {
	repo := newFakeRepo()
	p := repository.Prospect{ID: uuid.New(), Status: domain.StatusLead}
	repo.prospects[p.ID] = p
	svc := newTestService(repo, nil)

	raw := "06 12 34 56 78"
	got, err := svc.Update(context.Background(), p.ID, transport.UpdateProspectRequest{Phone: &raw})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Phone != "+33612345678" {
		t.Fatalf("phone = %q, want E.164", got.Phone)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := newFakeRepo()
	p := repository.Prospect{ID: uuid.New(), Status: domain.StatusLead}
	repo.prospects[p.ID] = p
	svc := newTestService(repo, nil)

	bad := "vip"
	_, err := svc.Update(context.Background(), p.ID, transport.UpdateProspectRequest{Status: &bad})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateSchedulesFollowUpReminder(t *testing.T) {
	repo := newFakeRepo()
	p := repository.Prospect{ID: uuid.New(), Status: domain.StatusLead}
	repo.prospects[p.ID] = p
	sched := &fakeScheduler{}
	svc := newTestService(repo, sched)

	dueAt := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	_, err := svc.Update(context.Background(), p.ID, transport.UpdateProspectRequest{NextFollowUpDate: &dueAt})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(sched.calls) != 1 || !sched.calls[0].Equal(dueAt) {
		t.Fatalf("scheduler calls = %v, want one at %v", sched.calls, dueAt)
	}
}

func TestUpdateSurvivesSchedulingFailure(t *testing.T) {
	repo := newFakeRepo()
	p := repository.Prospect{ID: uuid.New(), Status: domain.StatusLead}
	repo.prospects[p.ID] = p
	sched := &fakeScheduler{err: errors.New("redis down")}
	svc := newTestService(repo, sched)

	dueAt := time.Now().Add(24 * time.Hour)
	got, err := svc.Update(context.Background(), p.ID, transport.UpdateProspectRequest{NextFollowUpDate: &dueAt})
	if err != nil {
		t.Fatalf("Update must not fail on scheduling error: %v", err)
	}
	if got.NextFollowUpDate == nil {
		t.Fatal("follow-up date must still be stored")
	}
}
