package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"eprofos_admin_backend/internal/documenttypes/repository"
	"eprofos_admin_backend/internal/documenttypes/transport"
	"eprofos_admin_backend/platform/logger"
)

type fakeRepo struct {
	types map[uuid.UUID]repository.DocumentType
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{types: make(map[uuid.UUID]repository.DocumentType)}
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateDocumentTypeParams) (repository.DocumentType, error) {
	for _, dt := range f.types {
		if dt.Code == params.Code || dt.Slug == params.Slug {
			return repository.DocumentType{}, repository.ErrDuplicate
		}
	}
	dt := repository.DocumentType{
		ID:          uuid.New(),
		Name:        params.Name,
		Code:        params.Code,
		Slug:        params.Slug,
		Description: params.Description,
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.types[dt.ID] = dt
	return dt, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.DocumentType, error) {
	dt, ok := f.types[id]
	if !ok {
		return repository.DocumentType{}, repository.ErrNotFound
	}
	return dt, nil
}

func (f *fakeRepo) List(ctx context.Context, activeOnly bool) ([]repository.DocumentType, error) {
	var out []repository.DocumentType
	for _, dt := range f.types {
		if activeOnly && !dt.Active {
			continue
		}
		out = append(out, dt)
	}
	return out, nil
}

func (f *fakeRepo) CountCodesWithPrefix(ctx context.Context, prefix string) (int, error) {
	count := 0
	for _, dt := range f.types {
		if strings.HasPrefix(dt.Code, prefix+"-") {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, params repository.UpdateDocumentTypeParams) (repository.DocumentType, error) {
	dt, ok := f.types[id]
	if !ok {
		return repository.DocumentType{}, repository.ErrNotFound
	}
	if params.Name != nil {
		dt.Name = *params.Name
	}
	if params.Slug != nil {
		dt.Slug = *params.Slug
	}
	if params.Description != nil {
		dt.Description = *params.Description
	}
	f.types[id] = dt
	return dt, nil
}

func (f *fakeRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (repository.DocumentType, error) {
	dt, ok := f.types[id]
	if !ok {
		return repository.DocumentType{}, repository.ErrNotFound
	}
	dt.Active = active
	f.types[id] = dt
	return dt, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.types[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.types, id)
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	return New(repo, logger.New("test"))
}

func TestCreateGeneratesSlugAndCode(t *testing.T) {
	svc := newTestService(newFakeRepo())

	resp, err := svc.Create(context.Background(), transport.CreateDocumentTypeRequest{
		Name: "Attestation de présence",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Slug != "attestation-de-presence" {
		t.Fatalf("slug = %q, want %q", resp.Slug, "attestation-de-presence")
	}
	if resp.Code != "ADP-001" {
		t.Fatalf("code = %q, want %q", resp.Code, "ADP-001")
	}
}

func TestCreateIncrementsSequencePerPrefix(t *testing.T) {
	svc := newTestService(newFakeRepo())

	first, err := svc.Create(context.Background(), transport.CreateDocumentTypeRequest{Name: "Attestation de présence"})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(context.Background(), transport.CreateDocumentTypeRequest{Name: "Attestation de paiement"})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	if first.Code != "ADP-001" || second.Code != "ADP-002" {
		t.Fatalf("codes = %q, %q, want ADP-001, ADP-002", first.Code, second.Code)
	}
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := newTestService(newFakeRepo())
	if _, err := svc.Create(context.Background(), transport.CreateDocumentTypeRequest{Name: "   "}); err == nil {
		t.Fatal("expected validation error for blank name")
	}
}

func TestUpdateRenameRegeneratesSlug(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), transport.CreateDocumentTypeRequest{Name: "Convention de stage"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newName := "Convention de formation"
	updated, err := svc.Update(context.Background(), created.ID, transport.UpdateDocumentTypeRequest{Name: &newName})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug != "convention-de-formation" {
		t.Fatalf("slug = %q, want regenerated slug", updated.Slug)
	}
	if updated.Code != created.Code {
		t.Fatal("code must be immutable on rename")
	}
}
