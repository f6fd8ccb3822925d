package aggregate

import (
	"testing"

	casedomain "github.com/retentionops/portal/internal/cases/domain"
	commissiondomain "github.com/retentionops/portal/internal/commission/domain"
	reportingdomain "github.com/retentionops/portal/internal/reporting/domain"
)

func caseWith(status string, amounts ...float64) casedomain.CaseWithCommissions {
	c := casedomain.CaseWithCommissions{}
	c.Status = status
	for _, amount := range amounts {
		c.Commissions = append(c.Commissions, commissiondomain.Commission{Amount: amount})
	}
	return c
}

func TestAffiliateSummaryFallbackEstimate(t *testing.T) {
	summary := AffiliateSummary([]casedomain.CaseWithCommissions{
		caseWith(casedomain.StatusIssuedPaid),
		caseWith(casedomain.StatusNew),
	})

	if summary.TotalLeads != 2 {
		t.Fatalf("expected 2 leads, got %d", summary.TotalLeads)
	}
	if summary.ConvertedLeads != 1 {
		t.Fatalf("expected 1 converted, got %d", summary.ConvertedLeads)
	}
	if summary.TotalCommission != reportingdomain.FallbackCommission {
		t.Fatalf("expected fallback commission %v, got %v", reportingdomain.FallbackCommission, summary.TotalCommission)
	}
}

func TestAffiliateSummaryMatchedCommissionsWin(t *testing.T) {
	summary := AffiliateSummary([]casedomain.CaseWithCommissions{
		caseWith(casedomain.StatusIssuedPaid, 75, 25),
		caseWith(casedomain.StatusIssuedPaid),
	})

	if summary.ConvertedLeads != 2 {
		t.Fatalf("expected 2 converted, got %d", summary.ConvertedLeads)
	}
	// 100 from rows plus one fallback
	if summary.TotalCommission != 150 {
		t.Fatalf("expected 150, got %v", summary.TotalCommission)
	}
}

func TestAffiliateSummaryLegacyStatusesCount(t *testing.T) {
	summary := AffiliateSummary([]casedomain.CaseWithCommissions{
		caseWith("sold"),
		caseWith("resolved"),
		caseWith("open"),
	})

	if summary.ConvertedLeads != 2 {
		t.Fatalf("expected sold and resolved to count as converted, got %d", summary.ConvertedLeads)
	}
	if summary.TotalCommission != 2*reportingdomain.FallbackCommission {
		t.Fatalf("expected two fallbacks, got %v", summary.TotalCommission)
	}
}

func TestAffiliateSummaryEmpty(t *testing.T) {
	summary := AffiliateSummary(nil)
	if summary.TotalLeads != 0 || summary.ConvertedLeads != 0 || summary.TotalCommission != 0 || summary.ConversionRate != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}

func TestTeamSummaryAverages(t *testing.T) {
	summary := TeamSummary([]reportingdomain.AgentPerformance{
		{ActiveLeads: 10, TotalCalls: 40, SuccessRate: 0.5},
		{ActiveLeads: 5, TotalCalls: 10, SuccessRate: 0.9},
	})

	if summary.TotalAgents != 2 {
		t.Fatalf("expected 2 agents, got %d", summary.TotalAgents)
	}
	if summary.TotalLeads != 15 || summary.TotalCalls != 50 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if summary.AvgSuccessRate != 0.7 {
		t.Fatalf("expected 0.7 avg success rate, got %v", summary.AvgSuccessRate)
	}
}

func TestTeamSummaryEmpty(t *testing.T) {
	summary := TeamSummary(nil)
	if summary.AvgSuccessRate != 0 || summary.TotalAgents != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}
