// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// prompt is one provider-neutral request
type prompt struct {
	system      string
	user        string
	temperature float32
	maxTokens   int
	wantJSON    bool
}

const violationSystem = "You are a legal expert specializing in identifying procedural violations and constitutional issues in family court and child welfare cases. Provide detailed analysis with specific legal reasoning."

const procedureSystem = "You are a legal analyst specializing in identifying procedural flaws and due process violations in family court and child welfare cases. Provide detailed, actionable analysis."

const caseSystem = "You are an experienced family law attorney providing case analysis. Focus on constitutional issues and procedural violations."

func violationPrompt(text string) prompt {
	var b strings.Builder
	b.WriteString("As a legal expert specializing in family court and child welfare cases, analyze this document for ")
	b.WriteString("sophisticated legal violations that may not be obvious from simple pattern matching. Focus on:\n\n")
	for i, topic := range []string{
		"Procedural due process violations",
		"Constitutional issues (4th, 5th, 14th Amendment violations)",
		"Statutory timeline violations",
		"Evidence of judicial bias or misconduct",
		"CPS/DHR procedural failures",
		"Custody order violations",
		"ICPC compliance issues",
		"Reunification effort adequacy",
		"Discovery violations",
		"Ex parte communication issues",
	} {
		fmt.Fprintf(&b, "%d. %s\n", i+1, topic)
	}
	fmt.Fprintf(&b, "\nDocument text (first %d characters):\n%s\n\n", ViolationInputLimit, text)
	b.WriteString("Provide analysis as a JSON object with a \"violations\" array (type, severity, description, citation) and a \"recommendations\" array.")
	return prompt{system: violationSystem, user: b.String(), temperature: 0.2, maxTokens: 1500, wantJSON: true}
}

func procedurePrompt(text, docType string) prompt {
	var b strings.Builder
	b.WriteString("As a legal analyst specializing in family court and child welfare cases, analyze this document for ")
	b.WriteString("potential procedural flaws, due process violations, and judicial malpractice indicators. Focus on:\n\n")
	for i, topic := range []string{
		"Timeline violations and missed deadlines",
		"Inadequate notice or service issues",
		"Due process violations",
		"Jurisdictional problems",
		"Evidentiary issues",
		"Constitutional violations",
		"Procedural irregularities",
	} {
		fmt.Fprintf(&b, "%d. %s\n", i+1, topic)
	}
	if docType != "" {
		fmt.Fprintf(&b, "\nDocument type: %s\n", docType)
	}
	fmt.Fprintf(&b, "\nDocument text:\n%s\n\n", text)
	b.WriteString("Provide analysis as a JSON object with a \"findings\" array and a \"recommendations\" array.")
	return prompt{system: procedureSystem, user: b.String(), temperature: 0.3, maxTokens: 1500, wantJSON: true}
}

func casePrompt(d CaseDigest) prompt {
	types := d.ViolationTypes
	if len(types) > 10 {
		types = types[:10]
	}

	keys := make([]string, 0, len(d.Entities))
	for k := range d.Entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 5 {
		keys = keys[:5]
	}
	entities := make(map[string][]string, len(keys))
	for _, k := range keys {
		entities[k] = d.Entities[k]
	}
	entityJSON, _ := json.Marshal(entities)

	var b strings.Builder
	b.WriteString("Provide a professional legal analysis of this family court/child welfare case based on the following information:\n\n")
	fmt.Fprintf(&b, "Case: %s\n", d.CaseName)
	fmt.Fprintf(&b, "Violation Types Found: %s\n", strings.Join(types, ", "))
	fmt.Fprintf(&b, "High Severity Violations: %d\n", d.HighSeverity)
	fmt.Fprintf(&b, "Total Violations: %d\n", d.TotalViolations)
	fmt.Fprintf(&b, "Key Entities: %s\n\n", entityJSON)
	b.WriteString("Focus on:\n1. Overall case assessment\n2. Most concerning legal issues\n3. Constitutional/due process implications\n")
	b.WriteString("4. Strategic considerations\n5. Recommended next steps\n\n")
	b.WriteString("Provide analysis in 2-3 paragraphs suitable for legal professionals.")
	return prompt{system: caseSystem, user: b.String(), temperature: 0.3, maxTokens: 800}
}
