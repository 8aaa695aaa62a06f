package firestore

import (
	"context"
	"fmt"
	"slices"

	"cloud.google.com/go/firestore"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func (s *Store) ListEntries(ctx context.Context) ([]*domain.ScheduleEntry, error) {
	entries, err := collect(s.schedulesCol().OrderBy("created_at", firestore.Asc).Documents(ctx), toEntry)
	if err != nil {
		return nil, fmt.Errorf("firestore ListEntries: %w", err)
	}
	return entries, nil
}

func (s *Store) GetEntry(ctx context.Context, id domain.EntryID) (*domain.ScheduleEntry, error) {
	snap, err := s.schedulesCol().Doc(string(id)).Get(ctx)
	if err != nil {
		return nil, notFound("GetEntry", "entry "+string(id), err)
	}

	var doc entryDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetEntry decode: %w", err)
	}
	return toEntry(snap.Ref.ID, &doc), nil
}

// ListEntriesByGroupDay sorts in memory so the query needs no composite index.
func (s *Store) ListEntriesByGroupDay(
	ctx context.Context,
	groupID domain.GroupID,
	day domain.WeekDay,
) ([]*domain.ScheduleEntry, error) {
	q := s.schedulesCol().
		Where("group_id", "==", string(groupID)).
		Where("day", "==", string(day))

	entries, err := collect(q.Documents(ctx), toEntry)
	if err != nil {
		return nil, fmt.Errorf("firestore ListEntriesByGroupDay: %w", err)
	}

	slices.SortStableFunc(entries, func(a, b *domain.ScheduleEntry) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return entries, nil
}

func (s *Store) CreateEntry(ctx context.Context, f domain.EntryFields) (*domain.ScheduleEntry, error) {
	ref := s.schedulesCol().NewDoc()
	doc := newEntryDoc(f)
	doc.CreatedAt = s.now()
	doc.UpdatedAt = doc.CreatedAt

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(s.groupsCol().Doc(string(f.GroupID))); err != nil {
			return notFound("CreateEntry", "group "+string(f.GroupID), err)
		}
		return tx.Create(ref, doc)
	})
	if err != nil {
		return nil, fmt.Errorf("firestore CreateEntry: %w", err)
	}
	return toEntry(ref.ID, &doc), nil
}

func (s *Store) UpdateEntry(ctx context.Context, id domain.EntryID, f domain.EntryFields) (*domain.ScheduleEntry, error) {
	ref := s.schedulesCol().Doc(string(id))
	doc := newEntryDoc(f)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return notFound("UpdateEntry", "entry "+string(id), err)
		}
		if _, err := tx.Get(s.groupsCol().Doc(string(f.GroupID))); err != nil {
			return notFound("UpdateEntry", "group "+string(f.GroupID), err)
		}

		var old entryDoc
		if err := snap.DataTo(&old); err != nil {
			return err
		}
		doc.CreatedAt = old.CreatedAt
		doc.UpdatedAt = s.now()
		return tx.Set(ref, doc)
	})
	if err != nil {
		return nil, fmt.Errorf("firestore UpdateEntry: %w", err)
	}
	return toEntry(ref.ID, &doc), nil
}

func (s *Store) DeleteEntry(ctx context.Context, id domain.EntryID) error {
	ref := s.schedulesCol().Doc(string(id))
	if _, err := ref.Get(ctx); err != nil {
		return notFound("DeleteEntry", "entry "+string(id), err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteEntry: %w", err)
	}
	return nil
}
