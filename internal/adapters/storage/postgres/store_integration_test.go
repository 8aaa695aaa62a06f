//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/timetable-bot/internal/adapters/storage/postgres"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

var testStore *postgres.Store

func TestMain(m *testing.M) {
	dsn := os.Getenv("TIMETABLE_TEST_POSTGRES_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=timetable password=timetable dbname=timetable_test sslmode=disable"
	}

	var err error
	testStore, err = postgres.Open(context.Background(), dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open test database: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = testStore.Close()
	os.Exit(code)
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestGroupNameIsUnique(t *testing.T) {
	ctx := context.Background()
	name := uniqueName("CS")

	g, err := testStore.CreateGroup(ctx, domain.GroupFields{Name: name})
	require.NoError(t, err)
	t.Cleanup(func() { _ = testStore.DeleteGroup(ctx, g.ID) })

	_, err = testStore.CreateGroup(ctx, domain.GroupFields{Name: name})
	assert.ErrorIs(t, err, domain.ErrGroupNameTaken)

	other, err := testStore.CreateGroup(ctx, domain.GroupFields{Name: uniqueName("EE")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = testStore.DeleteGroup(ctx, other.ID) })

	_, err = testStore.UpdateGroup(ctx, other.ID, domain.GroupFields{Name: name})
	assert.ErrorIs(t, err, domain.ErrGroupNameTaken)
}

func TestDeleteGroupInUse(t *testing.T) {
	ctx := context.Background()

	g, err := testStore.CreateGroup(ctx, domain.GroupFields{Name: uniqueName("CS")})
	require.NoError(t, err)

	e, err := testStore.CreateEntry(ctx, domain.EntryFields{
		GroupID: g.ID, Day: domain.Monday, WeekType: domain.WeekBoth, Subject: "Algorithms", Start: 540, End: 630,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, testStore.DeleteGroup(ctx, g.ID), domain.ErrGroupInUse)

	require.NoError(t, testStore.DeleteEntry(ctx, e.ID))
	require.NoError(t, testStore.DeleteGroup(ctx, g.ID))
	assert.ErrorIs(t, testStore.DeleteGroup(ctx, g.ID), domain.ErrNotFound)
}

func TestEntryRequiresGroup(t *testing.T) {
	_, err := testStore.CreateEntry(context.Background(), domain.EntryFields{
		GroupID: "00000000-0000-4000-8000-000000000000", Day: domain.Monday, WeekType: domain.WeekBoth, Subject: "X",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntriesInCreationOrder(t *testing.T) {
	ctx := context.Background()

	g, err := testStore.CreateGroup(ctx, domain.GroupFields{Name: uniqueName("CS")})
	require.NoError(t, err)

	var ids []domain.EntryID
	for _, subject := range []string{"Late", "Early"} {
		e, err := testStore.CreateEntry(ctx, domain.EntryFields{
			GroupID: g.ID, Day: domain.Tuesday, WeekType: domain.WeekBoth, Subject: subject,
		})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	t.Cleanup(func() {
		for _, id := range ids {
			_ = testStore.DeleteEntry(ctx, id)
		}
		_ = testStore.DeleteGroup(ctx, g.ID)
	})

	entries, err := testStore.ListEntriesByGroupDay(ctx, g.ID, domain.Tuesday)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Late", entries[0].Subject)
	assert.Equal(t, "Early", entries[1].Subject)
}

func TestUserChatIDIsUnique(t *testing.T) {
	ctx := context.Background()
	chat := domain.ChatID(uniqueName("chat"))

	u, err := testStore.CreateUser(ctx, domain.UserFields{ChatID: chat})
	require.NoError(t, err)
	t.Cleanup(func() { _ = testStore.DeleteUser(ctx, u.ID) })

	_, err = testStore.CreateUser(ctx, domain.UserFields{ChatID: chat})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	got, err := testStore.GetUserByChatID(ctx, chat)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}
