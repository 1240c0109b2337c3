package dedup

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"eprofos_admin_backend/internal/events"
	"eprofos_admin_backend/internal/prospects/domain"
	"eprofos_admin_backend/internal/prospects/repository"
	"eprofos_admin_backend/platform/logger"
)

type fakeRepo struct {
	duplicateEmails []string
	byEmail         map[string][]repository.Prospect
	merges          []mergeCall
}

type mergeCall struct {
	survivorID uuid.UUID
	absorbedID uuid.UUID
	params     repository.UpdateProspectParams
}

func (f *fakeRepo) ListDuplicateEmails(ctx context.Context) ([]string, error) {
	return f.duplicateEmails, nil
}

func (f *fakeRepo) ListByEmail(ctx context.Context, email string) ([]repository.Prospect, error) {
	return f.byEmail[email], nil
}

func (f *fakeRepo) ExecuteMerge(ctx context.Context, survivorID, absorbedID uuid.UUID, params repository.UpdateProspectParams) error {
	f.merges = append(f.merges, mergeCall{survivorID: survivorID, absorbedID: absorbedID, params: params})
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	log := logger.New("test")
	return New(repo, events.NewInMemoryBus(log), log)
}

func TestMergeUpdateFillsEmptyScalarsOnly(t *testing.T) {
	survivor := repository.Prospect{Phone: "", Company: "EPROFOS", FirstName: "Jean"}
	absorbed := repository.Prospect{Phone: "+33612345678", Company: "Autre SARL", FirstName: "J."}

	update := MergeUpdate(survivor, absorbed)

	if update.Phone == nil || *update.Phone != "+33612345678" {
		t.Fatalf("expected phone to be filled from absorbed, got %v", update.Phone)
	}
	if update.Company != nil {
		t.Fatalf("expected populated company to be kept, got override %q", *update.Company)
	}
	if update.FirstName != nil {
		t.Fatalf("expected populated first name to be kept, got override %q", *update.FirstName)
	}
}

func TestMergeUpdateConcatenatesDescriptions(t *testing.T) {
	survivor := repository.Prospect{Description: "Premier contact"}
	absorbed := repository.Prospect{Description: "Second contact"}

	update := MergeUpdate(survivor, absorbed)

	if update.Description == nil {
		t.Fatal("expected merged description")
	}
	want := "Premier contact\n" + domain.MergeSeparator + "\nSecond contact"
	if *update.Description != want {
		t.Fatalf("description = %q, want %q", *update.Description, want)
	}
}

func TestMergeUpdateDescriptionWithoutSurvivorText(t *testing.T) {
	update := MergeUpdate(repository.Prospect{}, repository.Prospect{Description: "Note"})
	if update.Description == nil || *update.Description != "Note" {
		t.Fatalf("expected absorbed description copied verbatim, got %v", update.Description)
	}
	if update.Description != nil && strings.Contains(*update.Description, domain.MergeSeparator) {
		t.Fatal("separator must not appear when survivor description is empty")
	}
}

func TestMergeUpdateDates(t *testing.T) {
	early := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	survivor := repository.Prospect{LastContactDate: &early, NextFollowUpDate: &late}
	absorbed := repository.Prospect{LastContactDate: &late, NextFollowUpDate: &early}

	update := MergeUpdate(survivor, absorbed)

	if !update.LastContactDateSet || update.LastContactDate == nil || !update.LastContactDate.Equal(late) {
		t.Fatalf("lastContactDate should keep the most recent, got %v", update.LastContactDate)
	}
	if !update.NextFollowUpDateSet || update.NextFollowUpDate == nil || !update.NextFollowUpDate.Equal(early) {
		t.Fatalf("nextFollowUpDate should keep the soonest, got %v", update.NextFollowUpDate)
	}
}

func TestMergeUpdateNilDatesTakeAbsorbed(t *testing.T) {
	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	update := MergeUpdate(repository.Prospect{}, repository.Prospect{NextFollowUpDate: &due})
	if !update.NextFollowUpDateSet || update.NextFollowUpDate == nil || !update.NextFollowUpDate.Equal(due) {
		t.Fatalf("expected absorbed follow-up date, got %v", update.NextFollowUpDate)
	}
}

func TestMergeUpdateStatusNeverDowngrades(t *testing.T) {
	update := MergeUpdate(
		repository.Prospect{Status: domain.StatusQualified},
		repository.Prospect{Status: domain.StatusLead},
	)
	if update.Status != nil {
		t.Fatalf("qualified survivor must not downgrade, got %v", *update.Status)
	}

	update = MergeUpdate(
		repository.Prospect{Status: domain.StatusProspect},
		repository.Prospect{Status: domain.StatusCustomer},
	)
	if update.Status == nil || *update.Status != domain.StatusCustomer {
		t.Fatalf("expected status upgrade to customer, got %v", update.Status)
	}
}

func TestMergeDuplicatesMergesOldestFirst(t *testing.T) {
	oldest := repository.Prospect{ID: uuid.New(), Email: "dup@example.fr", Status: domain.StatusLead}
	mid := repository.Prospect{ID: uuid.New(), Email: "dup@example.fr", Status: domain.StatusProspect, Phone: "+33611111111"}
	newest := repository.Prospect{ID: uuid.New(), Email: "dup@example.fr", Status: domain.StatusQualified, Company: "ACME"}

	repo := &fakeRepo{
		duplicateEmails: []string{"dup@example.fr"},
		byEmail: map[string][]repository.Prospect{
			"dup@example.fr": {oldest, mid, newest},
		},
	}

	count, err := newTestService(repo).MergeDuplicates(context.Background())
	if err != nil {
		t.Fatalf("MergeDuplicates: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 merges, got %d", count)
	}

	for i, call := range repo.merges {
		if call.survivorID != oldest.ID {
			t.Fatalf("merge %d: survivor = %s, want oldest %s", i, call.survivorID, oldest.ID)
		}
	}
	if repo.merges[0].absorbedID != mid.ID || repo.merges[1].absorbedID != newest.ID {
		t.Fatal("expected merges in creation order")
	}

	// Second merge must see the phone already filled by the first.
	if repo.merges[1].params.Phone != nil {
		t.Fatal("phone filled in first merge must not be refilled in the second")
	}
	if repo.merges[1].params.Status == nil || *repo.merges[1].params.Status != domain.StatusQualified {
		t.Fatal("expected second merge to raise status to qualified")
	}
}

func TestMergeDuplicatesSkipsSingletonGroups(t *testing.T) {
	only := repository.Prospect{ID: uuid.New(), Email: "solo@example.fr"}
	repo := &fakeRepo{
		duplicateEmails: []string{"solo@example.fr"},
		byEmail:         map[string][]repository.Prospect{"solo@example.fr": {only}},
	}

	count, err := newTestService(repo).MergeDuplicates(context.Background())
	if err != nil {
		t.Fatalf("MergeDuplicates: %v", err)
	}
	if count != 0 || len(repo.merges) != 0 {
		t.Fatalf("expected no merges, got count=%d merges=%d", count, len(repo.merges))
	}
}
