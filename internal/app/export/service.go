// Package export renders a group's full timetable as an xlsx workbook.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/app/timetable"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

const sheetName = "Timetable"

var headers = []string{"Day", "Time", "Subject", "Teacher", "Classroom", "Week"}

type Service struct {
	groups    domain.GroupStore
	timetable *timetable.Service
}

func NewService(groups domain.GroupStore, tt *timetable.Service) *Service {
	return &Service{groups: groups, timetable: tt}
}

// Timetable builds the workbook for the named group with every entry of
// both weeks. It returns the file contents and a suggested file name.
func (s *Service) Timetable(ctx context.Context, groupName string) (*bytes.Buffer, string, error) {
	group, err := s.groups.GetGroupByName(ctx, groupName)
	if err != nil {
		return nil, "", fmt.Errorf("loading group: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 28)
	f.SetColWidth(sheetName, "D", "E", 20)
	f.SetColWidth(sheetName, "F", "F", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Timetable for %s", group.Name))
	f.MergeCell(sheetName, "A1", cell(colName(len(headers)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	row := 2
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(len(headers)-1), row), headerStyle)

	row = 3
	for _, day := range domain.WeekDays {
		entries, err := s.timetable.EntriesFor(ctx, group.ID, day, nil)
		if err != nil {
			return nil, "", err
		}
		for _, e := range entries {
			f.SetCellValue(sheetName, cell("A", row), render.DayName(day))
			f.SetCellValue(sheetName, cell("B", row), fmt.Sprintf("%s-%s", e.Start, e.End))
			f.SetCellValue(sheetName, cell("C", row), e.Subject)
			f.SetCellValue(sheetName, cell("D", row), e.Teacher)
			f.SetCellValue(sheetName, cell("E", row), e.Classroom)
			f.SetCellValue(sheetName, cell("F", row), render.WeekTypeName(e.WeekType))
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("writing workbook: %w", err)
	}

	return buf, fmt.Sprintf("timetable_%s.xlsx", group.Name), nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
