// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

var generalDefinitions = []ruleDefinition{
	// High severity
	{
		key:         "constitutional_violation",
		description: "Constitutional rights violation",
		severity:    SeverityHigh,
		patterns: []string{
			`constitutional\s+violation`,
			`fourteenth\s+amendment\s+violation`,
			`due\s+process\s+violation`,
			`equal\s+protection\s+violation`,
		},
	},
	{
		key:         "removal_without_court_order",
		description: "Child removed without proper court authorization",
		severity:    SeverityHigh,
		patterns: []string{
			`removed?\s+without\s+(?:court\s+)?order`,
			`emergency\s+removal\s+without\s+hearing`,
			`taken\s+into\s+custody\s+without\s+warrant`,
		},
	},
	{
		key:         "due_process_denial",
		description: "Due process rights denied",
		severity:    SeverityHigh,
		patterns: []string{
			`denied\s+(?:due\s+)?process`,
			`no\s+notice\s+provided`,
			`insufficient\s+notice`,
			`ex\s+parte\s+proceeding`,
		},
	},

	// Medium severity
	{
		key:         "delayed_icpc",
		description: "Delayed ICPC processing affecting placement",
		severity:    SeverityMedium,
		patterns: []string{
			`icpc\s+delay`,
			`interstate\s+compact\s+violation`,
			`delayed\s+placement\s+approval`,
			`icpc\s+not\s+completed`,
		},
	},
	{
		key:         "missed_hearing",
		description: "Required hearings missed or delayed",
		severity:    SeverityMedium,
		patterns: []string{
			`hearing\s+not\s+held`,
			`missed\s+hearing`,
			`hearing\s+postponed\s+repeatedly`,
			`no\s+permanency\s+hearing`,
		},
	},
	{
		key:         "inadequate_reunification",
		description: "Inadequate or missing reunification efforts",
		severity:    SeverityMedium,
		patterns: []string{
			`no\s+reunification\s+efforts?`,
			`insufficient\s+reunification`,
			`failed\s+to\s+provide\s+services`,
			`reunification\s+not\s+attempted`,
		},
	},
	{
		key:         "procedural_error",
		description: "Procedural or statutory requirements not followed",
		severity:    SeverityMedium,
		patterns: []string{
			`procedural\s+error`,
			`improper\s+procedure`,
			`failed\s+to\s+follow\s+protocol`,
			`statutory\s+violation`,
		},
	},

	// Low severity
	{
		key:         "documentation_error",
		description: "Documentation or administrative errors",
		severity:    SeverityLow,
		patterns: []string{
			`missing\s+documentation`,
			`incomplete\s+records`,
			`filing\s+error`,
			`administrative\s+error`,
		},
	},
	{
		key:         "timeline_violation",
		description: "Timeline or deadline violations",
		severity:    SeverityLow,
		patterns: []string{
			`deadline\s+missed`,
			`untimely\s+filing`,
			`late\s+submission`,
			`time\s+limit\s+exceeded`,
		},
	},
}

var cpsDefinitions = []ruleDefinition{
	{
		key:         "safety_plan_violation",
		description: "Safety plan violations",
		severity:    SeverityHigh,
		patterns: []string{
			`safety\s+plan\s+not\s+followed`,
			`violated\s+safety\s+plan`,
			`safety\s+plan\s+breach`,
		},
	},
	{
		key:         "visitation_denial",
		description: "Improper denial of parent-child contact",
		severity:    SeverityMedium,
		patterns: []string{
			`visitation\s+denied`,
			`denied\s+access\s+to\s+child`,
			`supervised\s+visitation\s+cancelled`,
			`no\s+visitation\s+allowed`,
		},
	},
	{
		key:         "case_plan_violation",
		description: "Case plan or ISP requirements not met",
		severity:    SeverityMedium,
		patterns: []string{
			`case\s+plan\s+not\s+followed`,
			`isp\s+violation`,
			`service\s+plan\s+breach`,
			`treatment\s+plan\s+ignored`,
		},
	},
}

var familyCourtDefinitions = []ruleDefinition{
	{
		key:         "custody_order_violation",
		description: "Court custody orders not followed",
		severity:    SeverityMedium,
		patterns: []string{
			`custody\s+order\s+violated`,
			`parenting\s+time\s+denied`,
			`contempt\s+of\s+court`,
			`order\s+not\s+followed`,
		},
	},
	{
		key:         "judicial_bias",
		description: "Evidence of judicial bias or conflict",
		severity:    SeverityHigh,
		patterns: []string{
			`judicial\s+bias`,
			`prejudiced\s+judge`,
			`biased\s+ruling`,
			`conflict\s+of\s+interest`,
		},
	},
}
