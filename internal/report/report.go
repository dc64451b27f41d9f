// Package report exports analyzed sessions to an xlsx workbook: one row per
// session plus an overview sheet with aggregate numbers.
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kl2321/FYP2025Kath-sub000/internal/logger"
	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

const (
	sessionsSheet = "Sessions"
	overviewSheet = "Overview"
)

var sessionHeader = []string{
	"Session ID", "Created", "Status", "Duration", "Speakers", "Words",
	"Confidence", "Summary", "Decisions", "Actions", "Suggestions", "Error",
}

// Build assembles the workbook in memory. Records without a result still
// get a row so failed sessions stay visible in the export. The caller owns
// closing the returned file.
func Build(recs []types.SessionRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", sessionsSheet)
	for col, h := range sessionHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sessionsSheet, cell, h); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, rec := range recs {
		if err := writeSessionRow(f, i+2, rec); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := writeOverview(f, recs); err != nil {
		f.Close()
		return nil, fmt.Errorf("write overview: %w", err)
	}
	return f, nil
}

// WriteSessions builds the workbook and saves it to path.
func WriteSessions(path string, recs []types.SessionRecord) error {
	log := logger.New().WithField("component", "report").WithField("path", path)

	f, err := Build(recs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		log.WithError(err).Error("save failed")
		return fmt.Errorf("save: %w", err)
	}
	log.WithField("sessions", len(recs)).Info("report written")
	return nil
}

func writeSessionRow(f *excelize.File, row int, rec types.SessionRecord) error {
	values := []interface{}{
		rec.ID,
		rec.CreatedAt.Format("2006-01-02 15:04:05"),
		rec.Status,
		"", "", "", "", "", "", "", "",
		rec.Error,
	}
	if res := rec.Result; res != nil {
		values[3] = types.FormatDuration(res.Metadata.DurationSec)
		values[4] = res.Metadata.SpeakerCount
		values[5] = res.Metadata.WordCount
		values[6] = res.Metadata.Confidence
		values[7] = res.Summary
		values[8] = strings.Join(res.Decisions, "; ")
		values[9] = strings.Join(res.Actions, "; ")
		values[10] = strings.Join(res.Suggestions, "; ")
	}
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := f.SetCellValue(sessionsSheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// writeOverview aggregates across sessions: totals, decision/action counts
// and mean confidence over completed runs.
func writeOverview(f *excelize.File, recs []types.SessionRecord) error {
	if _, err := f.NewSheet(overviewSheet); err != nil {
		return err
	}

	completed, failed, decisions, actions := 0, 0, 0, 0
	var confSum float64
	for _, rec := range recs {
		if rec.Result == nil {
			failed++
			continue
		}
		completed++
		decisions += len(rec.Result.Decisions)
		actions += len(rec.Result.Actions)
		confSum += rec.Result.Metadata.Confidence
	}
	meanConf := 0.0
	if completed > 0 {
		meanConf = confSum / float64(completed)
	}

	rows := [][]interface{}{
		{"Total sessions", len(recs)},
		{"Completed", completed},
		{"Failed", failed},
		{"Decisions captured", decisions},
		{"Action items captured", actions},
		{"Mean confidence", meanConf},
	}
	for i, r := range rows {
		for col, v := range r {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			if err := f.SetCellValue(overviewSheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
