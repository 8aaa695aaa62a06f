package export_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/PabloGalante/timetable-bot/internal/adapters/storage/memory"
	"github.com/PabloGalante/timetable-bot/internal/app/export"
	"github.com/PabloGalante/timetable-bot/internal/app/timetable"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func TestTimetableWorkbook(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	g, err := store.CreateGroup(ctx, domain.GroupFields{Name: "CS-101"})
	require.NoError(t, err)

	start, _ := domain.ParseClock("09:00")
	end, _ := domain.ParseClock("10:30")
	_, err = store.CreateEntry(ctx, domain.EntryFields{
		GroupID: g.ID, Day: domain.Tuesday, WeekType: domain.WeekSecond,
		Subject: "Networks", Classroom: "204", Start: start, End: end,
	})
	require.NoError(t, err)
	_, err = store.CreateEntry(ctx, domain.EntryFields{
		GroupID: g.ID, Day: domain.Monday, WeekType: domain.WeekFirst,
		Subject: "Algorithms", Teacher: "Knuth", Start: start, End: end,
	})
	require.NoError(t, err)

	svc := export.NewService(store, timetable.NewService(store))
	buf, name, err := svc.Timetable(ctx, "CS-101")
	require.NoError(t, err)
	assert.Equal(t, "timetable_CS-101.xlsx", name)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Timetable")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Timetable for CS-101", rows[0][0])
	assert.Equal(t, []string{"Day", "Time", "Subject", "Teacher", "Classroom", "Week"}, rows[1])
	assert.Equal(t, []string{"Monday", "09:00-10:30", "Algorithms", "Knuth", "", "First week"}, rows[2])
	assert.Equal(t, []string{"Tuesday", "09:00-10:30", "Networks", "", "204", "Second week"}, rows[3])
}

func TestTimetableUnknownGroup(t *testing.T) {
	store := memory.NewStore()
	svc := export.NewService(store, timetable.NewService(store))

	_, _, err := svc.Timetable(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
