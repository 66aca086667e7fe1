// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package legal

import (
	"regexp"
	"strings"
)

// Case types with a specialised issue scan
const (
	CaseTypeCustody = "custody"
	CaseTypeCPS     = "cps"
)

// Specialized lists the issues found by a case-type specific scan
type Specialized struct {
	CaseType string   `json:"case_type" yaml:"case_type"`
	Issues   []string `json:"key_issues" yaml:"key_issues"`
}

type issuePattern struct {
	issue string
	regex *regexp.Regexp
}

func compileIssues(defs [][2]string) []issuePattern {
	out := make([]issuePattern, 0, len(defs))
	for _, d := range defs {
		out = append(out, issuePattern{issue: d[0], regex: regexp.MustCompile(`(?i)` + d[1])})
	}
	return out
}

var custodyIssues = compileIssues([][2]string{
	{"physical_custody", `physical\s+custody`},
	{"legal_custody", `legal\s+custody`},
	{"joint_custody", `joint\s+custody`},
	{"sole_custody", `sole\s+custody`},
	{"visitation", `visitation|parenting\s+time`},
	{"child_support", `child\s+support|\$\d+.*(?:month|week)`},
	{"best_interest", `best\s+interest\s+of\s+(?:the\s+)?child`},
})

var cpsIssues = compileIssues([][2]string{
	{"neglect", `neglect|failure\s+to\s+provide`},
	{"abuse", `abuse|physical\s+harm|sexual\s+abuse`},
	{"abandonment", `abandon|left\s+unattended`},
	{"substance_abuse", `drug|alcohol|substance\s+abuse`},
	{"domestic_violence", `domestic\s+violence|family\s+violence`},
	{"removal", `removal|taken\s+into\s+custody`},
	{"placement", `placement|foster\s+care|kinship`},
	{"reunification", `reunification|return\s+home`},
})

// Specialize runs the custody scan when the text mentions custody or the
// document classified as custody, otherwise the CPS scan when the text
// mentions CPS terms. It returns nil when neither applies.
func Specialize(text, documentType string) *Specialized {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "custody") || documentType == CaseTypeCustody:
		return scan(CaseTypeCustody, text, custodyIssues)
	case strings.Contains(lower, "cps") || strings.Contains(lower, "child protective") || strings.Contains(lower, "dhr"):
		return scan(CaseTypeCPS, text, cpsIssues)
	default:
		return nil
	}
}

func scan(caseType, text string, issues []issuePattern) *Specialized {
	s := &Specialized{CaseType: caseType, Issues: []string{}}
	for _, ip := range issues {
		if ip.regex.MatchString(text) {
			s.Issues = append(s.Issues, ip.issue)
		}
	}
	return s
}
