package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

var csvHeader = []string{"Дата", "Сотрудник", "Проект", "Часы", "Комментарий"}

// WriteCSV writes reports sorted by date as a spreadsheet-friendly CSV with a UTF-8 BOM.
func WriteCSV(w io.Writer, reports []Report) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}

	sorted := make([]Report, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range sorted {
		row := []string{
			r.Date,
			r.Username,
			r.Project,
			strconv.FormatFloat(r.Hours, 'f', -1, 64),
			r.Comments,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
