// Package export renders the final record list as an XLSX workbook for the
// reporting collaborator.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mfuentesc/boletas-engine/internal/entity"
)

// Service produces XLSX bytes for a finished batch.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Sheet is the single worksheet name.
const Sheet = "Boletas"

// WriteXLSX returns an XLSX workbook (as bytes) for the record list, in
// input order.
func (s *Service) WriteXLSX(recs []*entity.Record) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(Sheet); index == -1 {
		if _, err := f.NewSheet(Sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(Sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Source",
		"RUT",
		"Name",
		"Folio",
		"Issue Date",
		"Amount (CLP)",
		"Agreement",
		"Decree",
		"Hours",
		"Payment",
		"Service Period",
		"Glosa",
		"Needs Review",
		"Reason",
		"Quality",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(Sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(Sheet, cell, v)
		}
		write(1, r.SourceRef)
		write(2, r.RUT.Value)
		write(3, r.Name.Value)
		write(4, r.Folio.Value)
		write(5, r.IssueDate.Value)
		write(6, r.Amount.Value)
		write(7, r.Agreement.Value)
		write(8, r.Decree.Value)
		write(9, r.Hours.Value)
		write(10, r.PaymentType.Value)
		write(11, r.Period.Value)
		write(12, truncate(r.Glosa.Value, 140))
		if r.NeedsReview {
			write(13, "YES")
		} else {
			write(13, "")
		}
		reason := r.ReviewReason
		if r.Error != "" {
			reason = r.Error
		}
		write(14, reason)
		write(15, fmt.Sprintf("%.2f", r.QualityScore))
		row++
	}

	_ = f.SetColWidth(Sheet, "A", "A", 36) // source path
	_ = f.SetColWidth(Sheet, "B", "B", 14)
	_ = f.SetColWidth(Sheet, "C", "C", 28)
	_ = f.SetColWidth(Sheet, "E", "E", 12)
	_ = f.SetColWidth(Sheet, "F", "F", 14)
	_ = f.SetColWidth(Sheet, "K", "K", 16)
	_ = f.SetColWidth(Sheet, "L", "L", 48)
	_ = f.SetColWidth(Sheet, "N", "N", 36)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
