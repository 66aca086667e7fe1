// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"caselens/internal/detector"
	"caselens/internal/patterns"
)

// MaxGapDays is the longest allowed gap between consecutive events
const MaxGapDays = 180

// ViolationExcessiveDelay is the violation type emitted for long gaps
const ViolationExcessiveDelay = "excessive_delay"

// dateLayouts are tried in order; the first that parses wins. Month-first
// numeric forms come before the day-first fallbacks.
var dateLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"1/2/06",
	"1-2-06",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2006-01-02",
	"2/1/2006",
	"2-1-2006",
}

// Event is one dated reference in a document. A nil Date sorts before every
// parsed date.
type Event struct {
	Date         *time.Time `json:"date" yaml:"date"`
	DateStr      string     `json:"date_str" yaml:"date_str"`
	Document     string     `json:"document" yaml:"document"`
	DocumentHash string     `json:"document_hash" yaml:"document_hash"`
	DocumentType string     `json:"document_type" yaml:"document_type"`
	Context      string     `json:"context" yaml:"context"`
}

// Source is the per-document input to Build
type Source struct {
	Hash         string
	Name         string
	DocumentType string
	Dates        []string
}

// ParseDate tries every known layout in order
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Build turns the date entities of every document into events sorted by
// date. Strings that match no layout are dropped.
func Build(sources []Source) []Event {
	events := []Event{}
	for _, src := range sources {
		for _, ds := range src.Dates {
			parsed, ok := ParseDate(ds)
			if !ok {
				continue
			}
			docType := src.DocumentType
			if docType == "" {
				docType = "unknown"
			}
			events = append(events, Event{
				Date:         &parsed,
				DateStr:      ds,
				Document:     src.Name,
				DocumentHash: src.Hash,
				DocumentType: docType,
				Context:      fmt.Sprintf("Referenced in %s", src.Name),
			})
		}
	}
	Sort(events)
	return events
}

// Sort orders events by date ascending, nil dates first, keeping the
// relative order of equal dates.
func Sort(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].Date, events[j].Date
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})
}

// DetectGaps flags consecutive events more than MaxGapDays apart. Only
// adjacent pairs with both dates present are compared.
func DetectGaps(events []Event) []detector.Violation {
	violations := []detector.Violation{}
	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		if prev.Date == nil || cur.Date == nil {
			continue
		}
		days := int(cur.Date.Sub(*prev.Date).Hours() / 24)
		if days <= MaxGapDays {
			continue
		}
		v := detector.NewViolation(
			ViolationExcessiveDelay,
			fmt.Sprintf("Excessive delay (%d days) between events", days),
			patterns.SeverityMedium,
			fmt.Sprintf("From %s to %s", prev.Document, cur.Document),
		)
		v.DaysBetween = days
		violations = append(violations, v)
	}
	return violations
}

// InRange returns events whose date falls within [from, to]
func InRange(events []Event, from, to time.Time) []Event {
	var out []Event
	for _, e := range events {
		if e.Date == nil {
			continue
		}
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out
}
