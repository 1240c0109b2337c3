// Package dedup consolidates prospects that share an email address. The
// oldest record survives; every other record is merged into it field by
// field, then deleted. This is a vertically sliced feature package.
package dedup

import (
	"context"
	"time"

	"eprofos_admin_backend/internal/events"
	"eprofos_admin_backend/internal/prospects/domain"
	"eprofos_admin_backend/internal/prospects/repository"
	"eprofos_admin_backend/platform/logger"
)

// Repository defines the data access interface needed by the dedup service.
// This is a consumer-driven interface - only what dedup needs.
type Repository interface {
	repository.DuplicateScanner
}

// Service runs the duplicate merge batch.
type Service struct {
	repo Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new dedup service.
func New(repo Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// MergeDuplicates scans for prospects sharing an email and merges each group
// into its oldest record. Every merge commits independently; a mid-batch
// failure leaves earlier merges in place and aborts the scan. Returns the
// number of merges performed.
func (s *Service) MergeDuplicates(ctx context.Context) (int, error) {
	emails, err := s.repo.ListDuplicateEmails(ctx)
	if err != nil {
		return 0, err
	}

	merges := 0
	for _, email := range emails {
		group, err := s.repo.ListByEmail(ctx, email)
		if err != nil {
			return merges, err
		}
		if len(group) < 2 {
			continue
		}

		survivor := group[0]
		for _, absorbed := range group[1:] {
			update := MergeUpdate(survivor, absorbed)
			if err := s.repo.ExecuteMerge(ctx, survivor.ID, absorbed.ID, update); err != nil {
				return merges, err
			}

			// Re-read the survivor through the update we just applied so the
			// next merge in the group compares against current values.
			survivor = applyUpdate(survivor, update)

			merges++
			s.bus.Publish(ctx, events.ProspectsMerged{
				BaseEvent:  events.NewBaseEvent(),
				SurvivorID: survivor.ID,
				AbsorbedID: absorbed.ID,
				Email:      email,
			})
			s.log.Info("prospects merged", "survivorId", survivor.ID, "absorbedId", absorbed.ID, "email", email)
		}
	}

	return merges, nil
}

// MergeUpdate computes the field-level merge of absorbed into survivor:
//   - scalar contact fields are copied only where the survivor's are empty
//   - descriptions are concatenated, never overwritten
//   - lastContactDate keeps the most recent, nextFollowUpDate the soonest
//   - status keeps the higher pipeline rank
//
// Touchpoint and interest repointing happens in the repository merge
// transaction, not here.
func MergeUpdate(survivor, absorbed repository.Prospect) repository.UpdateProspectParams {
	update := repository.UpdateProspectParams{}

	if survivor.Phone == "" && absorbed.Phone != "" {
		update.Phone = &absorbed.Phone
	}
	if survivor.Company == "" && absorbed.Company != "" {
		update.Company = &absorbed.Company
	}
	if survivor.Position == "" && absorbed.Position != "" {
		update.Position = &absorbed.Position
	}
	if survivor.FirstName == "" && absorbed.FirstName != "" {
		update.FirstName = &absorbed.FirstName
	}
	if survivor.LastName == "" && absorbed.LastName != "" {
		update.LastName = &absorbed.LastName
	}

	if absorbed.Description != "" {
		merged := absorbed.Description
		if survivor.Description != "" {
			merged = survivor.Description + "\n" + domain.MergeSeparator + "\n" + absorbed.Description
		}
		update.Description = &merged
	}

	if merged := laterDate(survivor.LastContactDate, absorbed.LastContactDate); merged != survivor.LastContactDate {
		update.LastContactDate = merged
		update.LastContactDateSet = true
	}
	if merged := earlierDate(survivor.NextFollowUpDate, absorbed.NextFollowUpDate); merged != survivor.NextFollowUpDate {
		update.NextFollowUpDate = merged
		update.NextFollowUpDateSet = true
	}

	if absorbed.Status.Rank() > survivor.Status.Rank() {
		status := absorbed.Status
		update.Status = &status
	}

	return update
}

func applyUpdate(p repository.Prospect, update repository.UpdateProspectParams) repository.Prospect {
	if update.FirstName != nil {
		p.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		p.LastName = *update.LastName
	}
	if update.Phone != nil {
		p.Phone = *update.Phone
	}
	if update.Company != nil {
		p.Company = *update.Company
	}
	if update.Position != nil {
		p.Position = *update.Position
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Status != nil {
		p.Status = *update.Status
	}
	if update.LastContactDateSet {
		p.LastContactDate = update.LastContactDate
	}
	if update.NextFollowUpDateSet {
		p.NextFollowUpDate = update.NextFollowUpDate
	}
	return p
}

func laterDate(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.After(*a):
		return b
	default:
		return a
	}
}

func earlierDate(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Before(*a):
		return b
	default:
		return a
	}
}
