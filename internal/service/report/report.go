// Package report renders the analytics of a year as an xlsx workbook.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"mold-tracker/internal/service/analytics"
	"mold-tracker/internal/storage"
)

const (
	SheetYearly    = "Yearly"
	SheetMolds     = "Molds"
	SheetPersonnel = "Personnel"
)

type Storage interface {
	GetAllMolds(ctx context.Context) ([]storage.Mold, error)
	GetAllPersonnel(ctx context.Context) ([]storage.Person, error)
}

type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

func (s *Service) GenerateExcel(ctx context.Context, year int) ([]byte, error) {
	const op = "service.report.GenerateExcel"

	var (
		molds     []storage.Mold
		personnel []storage.Person
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		molds, err = s.storage.GetAllMolds(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		personnel, err = s.storage.GetAllPersonnel(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}

	if err := f.SetSheetName("Sheet1", SheetYearly); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	writeYearly(f, headerStyle, analytics.Yearly(molds, year))

	if _, err := f.NewSheet(SheetMolds); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	writeMolds(f, headerStyle, analytics.ByPriority(molds))

	if _, err := f.NewSheet(SheetPersonnel); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	writePersonnel(f, headerStyle, molds, personnel)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write workbook: %w", op, err)
	}

	return buf.Bytes(), nil
}

func writeYearly(f *excelize.File, headerStyle int, stats analytics.YearlyStats) {
	sheet := SheetYearly

	f.SetCellValue(sheet, "A1", "Year")
	f.SetCellValue(sheet, "B1", stats.Year)
	f.SetCellValue(sheet, "A2", "Completed operations")
	f.SetCellValue(sheet, "B2", stats.TotalOps)
	f.SetCellValue(sheet, "A3", "Hours")
	f.SetCellValue(sheet, "B3", stats.TotalHours)
	f.SetCellValue(sheet, "A4", "Completed molds")
	f.SetCellValue(sheet, "B4", stats.CompletedMoldsInYear)

	writeHeader(f, sheet, 6, headerStyle, []string{"Month", "Operations", "Hours"})
	for i, bucket := range stats.Monthly {
		row := 7 + i
		f.SetCellValue(sheet, cellName(1, row), time.Month(i+1).String())
		f.SetCellValue(sheet, cellName(2, row), bucket.Ops)
		f.SetCellValue(sheet, cellName(3, row), bucket.Hours)
	}

	f.SetColWidth(sheet, "A", "A", 24)
}

func writeMolds(f *excelize.File, headerStyle int, molds []storage.Mold) {
	sheet := SheetMolds

	headers := []string{"Mold", "Customer", "Status", "Deadline", "First start", "Last finish",
		"Duration (days)", "Man-hours", "Avg. quality", "Deadline status", "Days"}
	writeHeader(f, sheet, 1, headerStyle, headers)

	for i, m := range molds {
		row := i + 2
		r := analytics.ForMold(m)

		f.SetCellValue(sheet, cellName(1, row), m.MoldName)
		f.SetCellValue(sheet, cellName(2, row), m.Customer)
		f.SetCellValue(sheet, cellName(3, row), string(m.Status))
		f.SetCellValue(sheet, cellName(4, row), formatDate(m.MoldDeadline.Ptr()))
		f.SetCellValue(sheet, cellName(5, row), formatDate(r.FirstStartDate))
		f.SetCellValue(sheet, cellName(6, row), formatDate(r.LastFinishDate))
		f.SetCellValue(sheet, cellName(7, row), r.TotalDurationDays)
		f.SetCellValue(sheet, cellName(8, row), r.TotalManHours)
		if r.AverageQuality != nil {
			f.SetCellValue(sheet, cellName(9, row), *r.AverageQuality)
		} else {
			f.SetCellValue(sheet, cellName(9, row), "-")
		}
		f.SetCellValue(sheet, cellName(10, row), string(r.Deadline.Kind))
		f.SetCellValue(sheet, cellName(11, row), r.Deadline.Days)
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(sheet, "A", "K", 15)
}

func writePersonnel(f *excelize.File, headerStyle int, molds []storage.Mold, personnel []storage.Person) {
	sheet := SheetPersonnel

	sorted := make([]storage.Person, len(personnel))
	copy(sorted, personnel)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	writeHeader(f, sheet, 1, headerStyle, []string{"Name", "Role", "Completed operations", "Rated", "Avg. rating"})

	for i, p := range sorted {
		row := i + 2
		perf := analytics.ForPerson(molds, p)

		f.SetCellValue(sheet, cellName(1, row), p.Name)
		f.SetCellValue(sheet, cellName(2, row), string(p.Role))
		f.SetCellValue(sheet, cellName(3, row), len(perf.Operations))
		f.SetCellValue(sheet, cellName(4, row), perf.RatedCount)
		if perf.AverageRating != nil {
			f.SetCellValue(sheet, cellName(5, row), *perf.AverageRating)
		} else {
			f.SetCellValue(sheet, cellName(5, row), "-")
		}
	}

	f.SetColWidth(sheet, "A", "B", 24)
}

func writeHeader(f *excelize.File, sheet string, row, style int, headers []string) {
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, row), name)
	}
	last := cellName(len(headers), row)
	f.SetCellStyle(sheet, cellName(1, row), last, style)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
