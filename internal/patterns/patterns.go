// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"regexp"
	"strings"
)

// Severity is the weight tag attached to a violation rule
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Score converts a severity tag to its numeric weight (high 3, medium 2, low 1).
// Unknown tags weigh as low.
func (s Severity) Score() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

// ParseSeverity maps free text to a Severity, defaulting to low
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Rule is one violation key with its compiled patterns
type Rule struct {
	Key         string
	Description string
	Severity    Severity
	Patterns    []*regexp.Regexp
}

// Table is a named, ordered group of rules
type Table struct {
	Name  string
	Rules []Rule
}

const (
	TableGeneral     = "general"
	TableCPS         = "cps"
	TableFamilyCourt = "family_court"
)

// Library holds the three violation tables. It is read-only after construction.
type Library struct {
	general     Table
	cps         Table
	familyCourt Table
}

// NewLibrary creates a library with every pattern compiled
func NewLibrary() *Library {
	return &Library{
		general:     compileTable(TableGeneral, generalDefinitions),
		cps:         compileTable(TableCPS, cpsDefinitions),
		familyCourt: compileTable(TableFamilyCourt, familyCourtDefinitions),
	}
}

// Tables returns all tables in declaration order
func (l *Library) Tables() []Table {
	return []Table{l.general, l.cps, l.familyCourt}
}

// Select returns the rules that apply to a document. The general table always
// applies. The CPS table applies when the hint mentions "cps" or the text
// mentions cps, child protective or dhr. The family court table applies when
// the hint mentions "custody" or the text mentions "family court".
func (l *Library) Select(text, typeHint string) []Rule {
	lowerText := strings.ToLower(text)
	lowerHint := strings.ToLower(typeHint)

	rules := make([]Rule, 0, len(l.general.Rules)+len(l.cps.Rules)+len(l.familyCourt.Rules))
	rules = append(rules, l.general.Rules...)

	if strings.Contains(lowerHint, "cps") || containsAny(lowerText, "cps", "child protective", "dhr") {
		rules = append(rules, l.cps.Rules...)
	}
	if strings.Contains(lowerHint, "custody") || strings.Contains(lowerText, "family court") {
		rules = append(rules, l.familyCourt.Rules...)
	}
	return rules
}

// Lookup finds a rule by key across all tables
func (l *Library) Lookup(key string) (Rule, bool) {
	for _, table := range l.Tables() {
		for _, rule := range table.Rules {
			if rule.Key == key {
				return rule, true
			}
		}
	}
	return Rule{}, false
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

type ruleDefinition struct {
	key         string
	description string
	severity    Severity
	patterns    []string
}

// compileTable panics on a bad pattern; tables are fixed at build time.
func compileTable(name string, defs []ruleDefinition) Table {
	table := Table{Name: name, Rules: make([]Rule, 0, len(defs))}
	for _, def := range defs {
		rule := Rule{
			Key:         def.key,
			Description: def.description,
			Severity:    def.severity,
			Patterns:    make([]*regexp.Regexp, 0, len(def.patterns)),
		}
		for _, p := range def.patterns {
			rule.Patterns = append(rule.Patterns, regexp.MustCompile(`(?i)`+p))
		}
		table.Rules = append(table.Rules, rule)
	}
	return table
}
