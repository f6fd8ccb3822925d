// Package aggregate computes summary numbers from record sets already in
// memory. Everything here is a pure function of its input.
package aggregate

import (
	casedomain "github.com/retentionops/portal/internal/cases/domain"
	reportingdomain "github.com/retentionops/portal/internal/reporting/domain"
)

// AffiliateSummary folds a case set into the affiliate dashboard headline.
// Commission totals come from matched commission rows; a converted case with
// no rows contributes the fixed fallback estimate instead.
func AffiliateSummary(cases []casedomain.CaseWithCommissions) reportingdomain.AffiliateSummary {
	summary := reportingdomain.AffiliateSummary{TotalLeads: len(cases)}

	for _, c := range cases {
		converted := casedomain.Converted(c.Status)
		if converted {
			summary.ConvertedLeads++
		}

		if len(c.Commissions) == 0 {
			if converted {
				summary.TotalCommission += reportingdomain.FallbackCommission
			}
			continue
		}
		for _, commission := range c.Commissions {
			summary.TotalCommission += commission.Amount
		}
	}

	if summary.TotalLeads > 0 {
		summary.ConversionRate = float64(summary.ConvertedLeads) / float64(summary.TotalLeads)
	}
	return summary
}

// TeamSummary folds agent performance rows into the manager dashboard
// headline. Success rates average over agents, not over calls.
func TeamSummary(agents []reportingdomain.AgentPerformance) reportingdomain.TeamSummary {
	summary := reportingdomain.TeamSummary{
		Agents:      agents,
		TotalAgents: len(agents),
	}

	var rateSum float64
	for _, a := range agents {
		summary.TotalLeads += a.ActiveLeads
		summary.TotalCalls += a.TotalCalls
		rateSum += a.SuccessRate
	}
	if len(agents) > 0 {
		summary.AvgSuccessRate = rateSum / float64(len(agents))
	}
	return summary
}
