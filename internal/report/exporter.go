// Package report writes the audit results of a pipeline run to an Excel
// workbook: one detail sheet with a row per audited call and one summary
// sheet with category, protocol, forbidden-phrase and daily aggregates.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/valentinaclaros/evaluation-system/internal/models"
)

const (
	detailSheet  = "Auditoria"
	summarySheet = "Resumen"
)

// Exporter writes audit workbooks into a directory.
type Exporter struct {
	outputDir string
	logger    *logrus.Logger
}

// NewExporter creates an Exporter writing into outputDir.
func NewExporter(outputDir string, logger *logrus.Logger) *Exporter {
	return &Exporter{outputDir: outputDir, logger: logger}
}

// Export writes one workbook for the given results and returns its path.
// The file name carries the run timestamp so successive runs never clash.
func (e *Exporter) Export(results []models.AuditResult, runID string) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", detailSheet)
	if err := e.writeDetail(f, results); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := e.writeSummary(f, results); err != nil {
		return "", err
	}

	name := fmt.Sprintf("auditoria_llamadas_%s.xlsx", time.Now().Format("20060102_150405"))
	path := filepath.Join(e.outputDir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"path":   path,
		"rows":   len(results),
	}).Info("Audit report written")

	return path, nil
}

var detailHeader = []string{
	"Llamada", "Teléfono", "Fecha", "Duración (min)", "Puntaje", "Categoría",
	"Saludo", "Identificación", "Ofrecimiento de ayuda", "Despedida",
	"Palabras prohibidas", "Sentimiento", "Revisión manual",
}

func (e *Exporter) writeDetail(f *excelize.File, results []models.AuditResult) error {
	for i, h := range detailHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(detailSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write detail header: %w", err)
		}
	}

	for row, res := range results {
		values := []interface{}{
			res.CallSID,
			anonymizePhone(res.FromNumber),
			res.StartTime.Format("2006-01-02 15:04"),
			round2(float64(res.DurationSeconds) / 60),
			res.QualityScore,
			res.QualityCategory,
			yesNo(res.HasGreeting),
			yesNo(res.HasIdentification),
			yesNo(res.HasHelpOffer),
			yesNo(res.HasFarewell),
			strings.Join(res.ForbiddenWords, ", "),
			round2(res.SentimentScore),
			yesNo(res.NeedsManualReview),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(detailSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write detail row %d: %w", row+2, err)
			}
		}
	}
	return nil
}

// writeSummary computes the aggregate blocks: calls per category, protocol
// adherence percentages, forbidden-phrase frequency and the daily average
// score trend.
func (e *Exporter) writeSummary(f *excelize.File, results []models.AuditResult) error {
	w := &sheetWriter{f: f, sheet: summarySheet}

	w.row("Total de llamadas auditadas", len(results))
	w.blank()

	w.row("Llamadas por categoría", "")
	byCategory := map[string]int{}
	for _, res := range results {
		byCategory[res.QualityCategory]++
	}
	for _, cat := range sortedKeys(byCategory) {
		w.row(cat, byCategory[cat])
	}
	w.blank()

	w.row("Cumplimiento de protocolo (%)", "")
	total := len(results)
	var greeting, identification, help, farewell int
	for _, res := range results {
		if res.HasGreeting {
			greeting++
		}
		if res.HasIdentification {
			identification++
		}
		if res.HasHelpOffer {
			help++
		}
		if res.HasFarewell {
			farewell++
		}
	}
	w.row("Saludo", percentage(greeting, total))
	w.row("Identificación", percentage(identification, total))
	w.row("Ofrecimiento de ayuda", percentage(help, total))
	w.row("Despedida", percentage(farewell, total))
	w.blank()

	w.row("Palabras prohibidas detectadas", "")
	forbidden := map[string]int{}
	for _, res := range results {
		for _, phrase := range res.ForbiddenWords {
			forbidden[phrase]++
		}
	}
	for _, phrase := range sortedKeys(forbidden) {
		w.row(phrase, forbidden[phrase])
	}
	w.blank()

	w.row("Puntaje promedio por día", "")
	daySum := map[string]int{}
	dayCount := map[string]int{}
	for _, res := range results {
		day := res.StartTime.Format("2006-01-02")
		daySum[day] += res.QualityScore
		dayCount[day]++
	}
	for _, day := range sortedKeys(dayCount) {
		w.row(day, round2(float64(daySum[day])/float64(dayCount[day])))
	}

	return w.err
}

// sheetWriter writes label/value rows top to bottom, keeping the first
// error it hits.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error
}

func (w *sheetWriter) row(label string, value interface{}) {
	w.next++
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(w.sheet, fmt.Sprintf("A%d", w.next), label); err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, fmt.Sprintf("B%d", w.next), value)
}

func (w *sheetWriter) blank() {
	w.next++
}

// anonymizePhone masks the middle of the number, keeping the first three
// and last two digits.
func anonymizePhone(number string) string {
	runes := []rune(number)
	if len(runes) <= 5 {
		return number
	}
	return string(runes[:3]) + "***" + string(runes[len(runes)-2:])
}

func yesNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
