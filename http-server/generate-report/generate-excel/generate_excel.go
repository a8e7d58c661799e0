package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mold-tracker/http-server/respond"
)

type ExcelGenerator interface {
	GenerateExcel(ctx context.Context, year int) ([]byte, error)
}

// GenerateReportExcel streams the yearly workbook for ?year=, the current
// year by default.
func GenerateReportExcel(log *slog.Logger, gen ExcelGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"

		year := time.Now().Year()
		if raw := r.URL.Query().Get("year"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1970 || parsed > 9999 {
				http.Error(w, "invalid year", http.StatusBadRequest)
				return
			}
			year = parsed
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, year)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		fileName := fmt.Sprintf("Mold_Report_%d_%s.xlsx", year, time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
