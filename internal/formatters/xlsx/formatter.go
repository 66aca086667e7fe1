// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"caselens/internal/cases"
	"caselens/internal/formatters"
	"caselens/internal/formatters/shared"
)

// Sheet names in workbook order
const (
	SheetSummary    = "Summary"
	SheetViolations = "Violations"
	SheetTimeline   = "Timeline"
	SheetActors     = "Actors"
)

// Formatter writes the case as an XLSX workbook. The returned string holds
// the raw workbook bytes.
type Formatter struct{}

// NewFormatter creates a new spreadsheet formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "xlsx"
}

func (f *Formatter) Description() string {
	return "Excel workbook with summary, violation, timeline and actor sheets"
}

func (f *Formatter) FileExtension() string {
	return ".xlsx"
}

func (f *Formatter) Format(c *cases.Case, options formatters.FormatterOptions) (string, error) {
	export := shared.BuildExport(c, options)

	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	// NewFile starts with "Sheet1"; rename it so Summary is first and active.
	if err := wb.SetSheetName(wb.GetSheetName(0), SheetSummary); err != nil {
		return "", fmt.Errorf("xlsx rename sheet: %w", err)
	}
	for _, name := range []string{SheetViolations, SheetTimeline, SheetActors} {
		if _, err := wb.NewSheet(name); err != nil {
			return "", fmt.Errorf("xlsx new sheet %s: %w", name, err)
		}
	}
	wb.SetActiveSheet(0)

	summary := [][]any{
		{"Case ID", export.CaseInfo.CaseID},
		{"Case Name", export.CaseInfo.CaseName},
		{"Created", export.CaseInfo.CreatedDate.Format(shared.DayLayout)},
		{"Last Updated", export.CaseInfo.LastUpdated.Format(shared.DayLayout)},
		{"Exported", export.CaseInfo.ExportDate.Format(shared.DayLayout)},
		{"Documents", export.Statistics.TotalDocuments},
		{"Violations", export.Statistics.TotalViolations},
		{"High", export.Statistics.SeverityBreakdown["high"]},
		{"Medium", export.Statistics.SeverityBreakdown["medium"]},
		{"Low", export.Statistics.SeverityBreakdown["low"]},
		{"Risk Level", shared.RiskLabel(export.Statistics.RiskLevel)},
	}
	if err := writeRows(wb, SheetSummary, summary); err != nil {
		return "", err
	}

	violations := [][]any{{"Type", "Description", "Severity", "Score", "Document", "Context"}}
	for _, v := range export.Violations {
		violations = append(violations, []any{
			v.Type, v.Description, string(v.Severity), v.SeverityScore,
			shared.Or(v.DocumentName, shared.Unknown),
			shared.Clip(shared.Or(v.Context, shared.NoContext), 250),
		})
	}
	for _, v := range export.TimelineViolations {
		violations = append(violations, []any{v.Type, v.Description, string(v.Severity), v.SeverityScore, "", v.Context})
	}
	if err := writeRows(wb, SheetViolations, violations); err != nil {
		return "", err
	}

	events := [][]any{{"Date", "Reference", "Document Type", "Document"}}
	for _, e := range export.Timeline {
		date := ""
		if e.Date != nil {
			date = e.Date.Format(shared.DayLayout)
		}
		events = append(events, []any{date, e.DateStr, shared.Title(e.DocumentType), e.Document})
	}
	if err := writeRows(wb, SheetTimeline, events); err != nil {
		return "", err
	}

	actors := [][]any{{"Name", "Role", "Violations", "Severity Score", "Documents"}}
	for _, a := range shared.RankActors(c) {
		actors = append(actors, []any{a.Name, shared.Title(string(a.Role)), len(a.Violations), a.SeverityScore, strings.Join(a.Documents.Values(), ", ")})
	}
	if err := writeRows(wb, SheetActors, actors); err != nil {
		return "", err
	}

	_ = wb.SetColWidth(SheetSummary, "A", "A", 16)
	_ = wb.SetColWidth(SheetSummary, "B", "B", 40)
	_ = wb.SetColWidth(SheetViolations, "A", "B", 32)
	_ = wb.SetColWidth(SheetViolations, "E", "E", 28)
	_ = wb.SetColWidth(SheetViolations, "F", "F", 80)
	_ = wb.SetColWidth(SheetTimeline, "A", "D", 22)
	_ = wb.SetColWidth(SheetActors, "A", "A", 24)
	_ = wb.SetColWidth(SheetActors, "E", "E", 48)

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("xlsx write: %w", err)
	}
	return buf.String(), nil
}

func writeRows(wb *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+1)
			if err != nil {
				return err
			}
			if err := wb.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("xlsx %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
