package service

import (
	"context"

	"nebibs/internal/modules/volunteer/domain"
	volunteerout "nebibs/internal/modules/volunteer/port/out"
	"nebibs/internal/platform/clock"
	"nebibs/internal/platform/id"
	"nebibs/internal/platform/optimistic"
)

var Messages = optimistic.Messages{
	Fetch:  "Failed to fetch entries",
	Create: "Failed to create entry",
	Update: "Failed to update entry",
	Delete: "Failed to delete entry",
}

type EntryService struct {
	clock     clock.Clock
	idGen     id.Generator
	remote    volunteerout.EntryRemote
	container *optimistic.Container[domain.Entry]
}

func NewEntryService(clock clock.Clock, idGen id.Generator, remote volunteerout.EntryRemote) *EntryService {
	return &EntryService{
		clock:  clock,
		idGen:  idGen,
		remote: remote,
		container: optimistic.New(optimistic.Options[domain.Entry]{
			IDOf:     func(e domain.Entry) string { return e.ID },
			IsTemp:   id.IsTemp,
			Messages: Messages,
		}),
	}
}

func (s *EntryService) Container() *optimistic.Container[domain.Entry] {
	return s.container
}

func (s *EntryService) Fetch(ctx context.Context) error {
	s.container.BeginFetch()
	entries, err := s.remote.List(ctx)
	if err != nil {
		s.container.FailFetch(err)
		return err
	}
	s.container.ConfirmFetch(entries)
	return nil
}

func (s *EntryService) Create(ctx context.Context, entry volunteerout.NewEntry) (optimistic.Outcome, error) {
	now := s.clock.Now()
	tok := s.container.BeginCreate(&domain.Entry{
		ID:          s.idGen.New(),
		Date:        entry.Date,
		Description: entry.Description,
		Hours:       entry.Hours,
		Reflection:  entry.Reflection,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	created, err := s.remote.Create(ctx, entry)
	if err != nil {
		s.container.Revert(tok, err)
		return 0, err
	}
	return s.container.Confirm(tok, created), nil
}

func (s *EntryService) Update(ctx context.Context, entryID string, patch domain.Patch) (optimistic.Outcome, error) {
	tok := s.container.BeginUpdate(entryID, nil)
	updated, err := s.remote.Update(ctx, entryID, patch)
	if err != nil {
		s.container.Revert(tok, err)
		return 0, err
	}
	return s.container.Confirm(tok, updated), nil
}

// Restore drops entries that fail validation and loads the rest. It returns
// the number of dropped entries.
func (s *EntryService) Restore(snap optimistic.Snapshot[domain.Entry]) int {
	items := make([]domain.Entry, 0, len(snap.Items))
	for _, e := range snap.Items {
		if e.Validate() != nil {
			continue
		}
		items = append(items, e)
	}
	dropped := len(snap.Items) - len(items)
	snap.Items = items
	s.container.Restore(snap)
	return dropped
}

func (s *EntryService) Delete(ctx context.Context, entryID string) error {
	tok := s.container.BeginDelete(entryID)
	if err := s.remote.Delete(ctx, entryID); err != nil {
		s.container.Revert(tok, err)
		return err
	}
	s.container.Confirm(tok, domain.Entry{})
	return nil
}
