// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package formattertest builds fixed cases for formatter tests.
package formattertest

import (
	"time"

	"caselens/internal/cases"
	"caselens/internal/classifier"
	"caselens/internal/detector"
	"caselens/internal/entities"
	"caselens/internal/formatters"
	"caselens/internal/patterns"
)

// Now is the fixed report time used by Options
var Now = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

// Options returns formatter options with a fixed clock and no colors
func Options() formatters.FormatterOptions {
	return formatters.FormatterOptions{NoColor: true, Now: func() time.Time { return Now }}
}

// Violation builds a detector violation
func Violation(kind string, severity patterns.Severity, context string) detector.Violation {
	return detector.NewViolation(kind, kind+" found", severity, context)
}

// Case returns a two-document case: an order with two high and one medium
// violation before a motion with one low violation, 217 days apart.
func Case() *cases.Case {
	c := cases.New("Doe v. State")
	c.SetClock(func() time.Time { return Now })

	order := &cases.DocumentRecord{
		Hash:           "hash-order",
		Filename:       "order.pdf",
		UploadDate:     time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC),
		Classification: classifier.Classification{Type: "order", Confidence: 1},
		Entities: entities.Entities{
			entities.CaseNumbers: {"JU-2023-001"},
			entities.JudgeNames:  {"Maria Lopez"},
			entities.Dates:       {"01/15/2023"},
		},
		Violations: []detector.Violation{
			Violation("due_process_denial", patterns.SeverityHigh, "the ex parte proceeding went ahead"),
			Violation("constitutional_violation", patterns.SeverityHigh, "a due process violation occurred"),
			Violation("missed_hearing", patterns.SeverityMedium, "the hearing not held as scheduled"),
		},
	}
	motion := &cases.DocumentRecord{
		Hash:           "hash-motion",
		Filename:       "motion.pdf",
		UploadDate:     time.Date(2024, time.February, 2, 9, 0, 0, 0, time.UTC),
		Classification: classifier.Classification{Type: "motion", Confidence: 1},
		Entities: entities.Entities{
			entities.CaseNumbers: {"JU-2023-001"},
			entities.Dates:       {"08/20/2023"},
		},
		Violations: []detector.Violation{
			Violation("late_filing", patterns.SeverityLow, "filed after the deadline"),
		},
	}

	cases.MergeDocument(c, order)
	cases.MergeDocument(c, motion)
	cases.Refresh(c)
	return c
}
