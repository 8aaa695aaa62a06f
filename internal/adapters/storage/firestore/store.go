package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

// Store implements domain.Stores on three top-level collections.
type Store struct {
	client *firestore.Client
	now    func() time.Time
}

var _ domain.Stores = (*Store)(nil)

// NewStore creates a Firestore store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

const (
	colGroups    = "groups"
	colSchedules = "schedules"
	colUsers     = "users"
)

func (s *Store) groupsCol() *firestore.CollectionRef {
	return s.client.Collection(colGroups)
}

func (s *Store) schedulesCol() *firestore.CollectionRef {
	return s.client.Collection(colSchedules)
}

func (s *Store) usersCol() *firestore.CollectionRef {
	return s.client.Collection(colUsers)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// notFound turns a gRPC NotFound into domain.ErrNotFound and wraps anything else.
func notFound(op, what string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("firestore %s: %w", op, err)
}

// collect drains iter, decoding each document with conv.
func collect[D any, T any](iter *firestore.DocumentIterator, conv func(id string, d *D) T) ([]T, error) {
	defer iter.Stop()

	var out []T
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, err
		}

		var doc D
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.ID, err)
		}
		out = append(out, conv(snap.Ref.ID, &doc))
	}
	return out, nil
}

// exists reports whether q matches at least one document inside tx.
func exists(tx *firestore.Transaction, q firestore.Query) (bool, error) {
	iter := tx.Documents(q.Limit(1))
	defer iter.Stop()

	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type groupDoc struct {
	Name        string    `firestore:"name"`
	Faculty     string    `firestore:"faculty"`
	Description string    `firestore:"description"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

type entryDoc struct {
	GroupID   string    `firestore:"group_id"`
	Day       string    `firestore:"day"`
	WeekType  string    `firestore:"week_type"`
	Subject   string    `firestore:"subject"`
	Teacher   string    `firestore:"teacher"`
	Classroom string    `firestore:"classroom"`
	Start     int       `firestore:"start_minute"`
	End       int       `firestore:"end_minute"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type userDoc struct {
	ChatID    string    `firestore:"chat_id"`
	Username  string    `firestore:"username"`
	FirstName string    `firestore:"first_name"`
	LastName  string    `firestore:"last_name"`
	IsAdmin   bool      `firestore:"is_admin"`
	GroupID   *string   `firestore:"group_id"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toGroup(id string, d *groupDoc) *domain.Group {
	return &domain.Group{
		ID:          domain.GroupID(id),
		Name:        d.Name,
		Faculty:     d.Faculty,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toEntry(id string, d *entryDoc) *domain.ScheduleEntry {
	return &domain.ScheduleEntry{
		ID:        domain.EntryID(id),
		GroupID:   domain.GroupID(d.GroupID),
		Day:       domain.WeekDay(d.Day),
		WeekType:  domain.WeekType(d.WeekType),
		Subject:   d.Subject,
		Teacher:   d.Teacher,
		Classroom: d.Classroom,
		Start:     domain.Clock(d.Start),
		End:       domain.Clock(d.End),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toUser(id string, d *userDoc) *domain.User {
	u := &domain.User{
		ID:        domain.UserID(id),
		ChatID:    domain.ChatID(d.ChatID),
		Username:  d.Username,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		IsAdmin:   d.IsAdmin,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.GroupID != nil {
		gid := domain.GroupID(*d.GroupID)
		u.GroupID = &gid
	}
	return u
}

func newEntryDoc(f domain.EntryFields) entryDoc {
	return entryDoc{
		GroupID:   string(f.GroupID),
		Day:       string(f.Day),
		WeekType:  string(f.WeekType),
		Subject:   f.Subject,
		Teacher:   f.Teacher,
		Classroom: f.Classroom,
		Start:     int(f.Start),
		End:       int(f.End),
	}
}

func newUserDoc(f domain.UserFields) userDoc {
	d := userDoc{
		ChatID:    string(f.ChatID),
		Username:  f.Username,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		IsAdmin:   f.IsAdmin,
	}
	if f.GroupID != nil {
		gid := string(*f.GroupID)
		d.GroupID = &gid
	}
	return d
}
