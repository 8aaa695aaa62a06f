package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := collect(s.usersCol().OrderBy("created_at", firestore.Asc).Documents(ctx), toUser)
	if err != nil {
		return nil, fmt.Errorf("firestore ListUsers: %w", err)
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	snap, err := s.usersCol().Doc(string(id)).Get(ctx)
	if err != nil {
		return nil, notFound("GetUser", "user "+string(id), err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetUser decode: %w", err)
	}
	return toUser(snap.Ref.ID, &doc), nil
}

func (s *Store) GetUserByChatID(ctx context.Context, chatID domain.ChatID) (*domain.User, error) {
	users, err := collect(s.usersCol().Where("chat_id", "==", string(chatID)).Limit(1).Documents(ctx), toUser)
	if err != nil {
		return nil, fmt.Errorf("firestore GetUserByChatID: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user with chat %s: %w", chatID, domain.ErrNotFound)
	}
	return users[0], nil
}

func (s *Store) CreateUser(ctx context.Context, f domain.UserFields) (*domain.User, error) {
	ref := s.usersCol().NewDoc()
	doc := newUserDoc(f)
	doc.CreatedAt = s.now()
	doc.UpdatedAt = doc.CreatedAt

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		taken, err := exists(tx, s.usersCol().Where("chat_id", "==", string(f.ChatID)))
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("user with chat %s: %w", f.ChatID, domain.ErrAlreadyExists)
		}
		if err := s.checkGroupRef(tx, f.GroupID); err != nil {
			return err
		}
		return tx.Create(ref, doc)
	})
	if err != nil {
		return nil, fmt.Errorf("firestore CreateUser: %w", err)
	}
	return toUser(ref.ID, &doc), nil
}

func (s *Store) UpdateUser(ctx context.Context, id domain.UserID, f domain.UserFields) (*domain.User, error) {
	ref := s.usersCol().Doc(string(id))
	doc := newUserDoc(f)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return notFound("UpdateUser", "user "+string(id), err)
		}

		var old userDoc
		if err := snap.DataTo(&old); err != nil {
			return err
		}
		if old.ChatID != doc.ChatID {
			taken, err := exists(tx, s.usersCol().Where("chat_id", "==", doc.ChatID))
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("user with chat %s: %w", f.ChatID, domain.ErrAlreadyExists)
			}
		}
		if err := s.checkGroupRef(tx, f.GroupID); err != nil {
			return err
		}

		doc.CreatedAt = old.CreatedAt
		doc.UpdatedAt = s.now()
		return tx.Set(ref, doc)
	})
	if err != nil {
		return nil, fmt.Errorf("firestore UpdateUser: %w", err)
	}
	return toUser(ref.ID, &doc), nil
}

func (s *Store) DeleteUser(ctx context.Context, id domain.UserID) error {
	ref := s.usersCol().Doc(string(id))
	if _, err := ref.Get(ctx); err != nil {
		return notFound("DeleteUser", "user "+string(id), err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteUser: %w", err)
	}
	return nil
}

func (s *Store) checkGroupRef(tx *firestore.Transaction, id *domain.GroupID) error {
	if id == nil {
		return nil
	}
	if _, err := tx.Get(s.groupsCol().Doc(string(*id))); err != nil {
		return notFound("checkGroupRef", "group "+string(*id), err)
	}
	return nil
}
