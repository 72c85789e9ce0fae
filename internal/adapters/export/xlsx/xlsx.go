// Package xlsx writes reports as Excel workbooks, one sheet per section.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/feblcsack/partyRock/internal/domain/report"
)

// ContentType is the MIME type of a written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	defaultSheet = "Sheet1"
	// built-in "0.00" number format
	numFmtTwoDecimals = 2
	minColumnWidth    = 12
	maxColumnWidth    = 60
)

// Whitespace and path separators in school names become underscores.
var unsafeRuns = regexp.MustCompile(`[\s/\\]+`)

const fallbackSchoolName = "School"

// Filename returns the download name for r, dated by its generation day (UTC).
func Filename(r report.Report) string {
	date := r.GeneratedAt.UTC().Format("2006-01-02")
	if r.Kind == report.KindSchool {
		return fmt.Sprintf("%s_Report_%s.xlsx", schoolFileName(r.School), date)
	}
	return fmt.Sprintf("Project_Assessment_Report_%s.xlsx", date)
}

// schoolFileName keeps the name inside its directory: separators collapse to
// underscores and leading dots or underscores are dropped.
func schoolFileName(school string) string {
	name := strings.TrimLeft(unsafeRuns.ReplaceAllString(school, "_"), "._")
	if name == "" {
		return fallbackSchoolName
	}
	return name
}

// Write renders r as a workbook and writes it to w.
func Write(ctx context.Context, w io.Writer, r report.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	for i, sec := range r.Sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sec.Name); err != nil {
				return fmt.Errorf("%w: %v", ErrWrite, err)
			}
		} else if _, err := f.NewSheet(sec.Name); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
		if err := writeSection(f, sec, styles); err != nil {
			return fmt.Errorf("%w: sheet %q: %v", ErrWrite, sec.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

type styleSet struct {
	header int
	score  int
}

func newStyles(f *excelize.File) (styleSet, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return styleSet{}, err
	}
	score, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return styleSet{}, err
	}
	return styleSet{header: header, score: score}, nil
}

func writeSection(f *excelize.File, sec report.Section, styles styleSet) error {
	widths := make([]int, 0)
	for r, row := range sec.Rows {
		values := make([]interface{}, len(row))
		for c, cell := range row {
			values[c] = cellValue(cell)
			if c >= len(widths) {
				widths = append(widths, minColumnWidth)
			}
			if n := len(cell.String()) + 2; n > widths[c] {
				widths[c] = n
			}
		}
		if len(values) == 0 {
			continue
		}
		start, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sec.Name, start, &values); err != nil {
			return err
		}
		if err := styleRow(f, sec, r, row, styles); err != nil {
			return err
		}
	}
	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sec.Name, col, col, float64(min(w, maxColumnWidth))); err != nil {
			return err
		}
	}
	return nil
}

// styleRow bolds the title row and the column header row and applies the
// two-decimal format to score cells.
func styleRow(f *excelize.File, sec report.Section, r int, row []report.Cell, styles styleSet) error {
	bold := r == 0 || (sec.HeaderRows > 1 && r == sec.HeaderRows-1)
	for c, cell := range row {
		style := 0
		switch {
		case bold && cell.Kind != report.KindEmpty:
			style = styles.header
		case cell.Kind == report.KindScore:
			style = styles.score
		default:
			continue
		}
		name, err := excelize.CoordinatesToCellName(c+1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sec.Name, name, name, style); err != nil {
			return err
		}
	}
	return nil
}

func cellValue(c report.Cell) interface{} {
	switch c.Kind {
	case report.KindText:
		return c.Text
	case report.KindInt:
		return c.Int
	case report.KindScore:
		return math.Round(c.Score*100) / 100
	default:
		return nil
	}
}
