package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func (s *Store) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	groups, err := collect(s.groupsCol().OrderBy("created_at", firestore.Asc).Documents(ctx), toGroup)
	if err != nil {
		return nil, fmt.Errorf("firestore ListGroups: %w", err)
	}
	return groups, nil
}

func (s *Store) GetGroup(ctx context.Context, id domain.GroupID) (*domain.Group, error) {
	snap, err := s.groupsCol().Doc(string(id)).Get(ctx)
	if err != nil {
		return nil, notFound("GetGroup", "group "+string(id), err)
	}

	var doc groupDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetGroup decode: %w", err)
	}
	return toGroup(snap.Ref.ID, &doc), nil
}

func (s *Store) GetGroupByName(ctx context.Context, name string) (*domain.Group, error) {
	groups, err := collect(s.groupsCol().Where("name", "==", name).Limit(1).Documents(ctx), toGroup)
	if err != nil {
		return nil, fmt.Errorf("firestore GetGroupByName: %w", err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("group %q: %w", name, domain.ErrNotFound)
	}
	return groups[0], nil
}

// CreateGroup checks name uniqueness and writes in one transaction.
func (s *Store) CreateGroup(ctx context.Context, f domain.GroupFields) (*domain.Group, error) {
	ref := s.groupsCol().NewDoc()
	now := s.now()
	doc := groupDoc{
		Name:        f.Name,
		Faculty:     f.Faculty,
		Description: f.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		taken, err := exists(tx, s.groupsCol().Where("name", "==", f.Name))
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("group %q: %w", f.Name, domain.ErrGroupNameTaken)
		}
		return tx.Create(ref, doc)
	})
	if err != nil {
		return nil, fmt.Errorf("firestore CreateGroup: %w", err)
	}
	return toGroup(ref.ID, &doc), nil
}

func (s *Store) UpdateGroup(ctx context.Context, id domain.GroupID, f domain.GroupFields) (*domain.Group, error) {
	ref := s.groupsCol().Doc(string(id))

	var doc groupDoc
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return notFound("UpdateGroup", "group "+string(id), err)
		}
		if err := snap.DataTo(&doc); err != nil {
			return err
		}

		if f.Name != doc.Name {
			taken, err := exists(tx, s.groupsCol().Where("name", "==", f.Name))
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("group %q: %w", f.Name, domain.ErrGroupNameTaken)
			}
		}

		doc.Name = f.Name
		doc.Faculty = f.Faculty
		doc.Description = f.Description
		doc.UpdatedAt = s.now()
		return tx.Set(ref, doc)
	})
	if err != nil {
		return nil, fmt.Errorf("firestore UpdateGroup: %w", err)
	}
	return toGroup(ref.ID, &doc), nil
}

// DeleteGroup refuses while any entry or user still points at the group.
func (s *Store) DeleteGroup(ctx context.Context, id domain.GroupID) error {
	ref := s.groupsCol().Doc(string(id))

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return notFound("DeleteGroup", "group "+string(id), err)
		}

		for _, q := range []firestore.Query{
			s.schedulesCol().Where("group_id", "==", string(id)),
			s.usersCol().Where("group_id", "==", string(id)),
		} {
			used, err := exists(tx, q)
			if err != nil {
				return err
			}
			if used {
				return fmt.Errorf("group %s: %w", id, domain.ErrGroupInUse)
			}
		}

		return tx.Delete(ref)
	})
	if err != nil {
		return fmt.Errorf("firestore DeleteGroup: %w", err)
	}
	return nil
}
