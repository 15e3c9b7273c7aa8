package analytics

import (
	"testing"

	"github.com/valentinaclaros/evaluation-system/internal/models"
)

func strPtr(s string) *string { return &s }

func audit(errorType *string, criticality string, tnps *string) *models.CallAudit {
	return &models.CallAudit{
		ErrorType:        errorType,
		CriticalityLevel: criticality,
		TNPSScore:        tnps,
	}
}

func TestAgentPerformance(t *testing.T) {
	agent := &models.Agent{ID: 7, Name: "Laura Pérez"}
	audits := []*models.CallAudit{
		audit(nil, models.CriticalityLow, strPtr(models.TNPSPromoter)),
		audit(strPtr("wrong_information"), models.CriticalityHigh, strPtr(models.TNPSDetractor)),
		audit(strPtr("wrong_information"), models.CriticalityCritical, strPtr(models.TNPSNull)),
		audit(strPtr("missing_verification"), models.CriticalityMedium, nil),
		audit(nil, models.CriticalityLow, strPtr(models.TNPSNeutral)),
	}

	p := AgentPerformance(agent, audits)

	if p.TotalCalls != 5 {
		t.Errorf("TotalCalls = %d, want 5", p.TotalCalls)
	}
	if p.TotalErrors != 3 {
		t.Errorf("TotalErrors = %d, want 3", p.TotalErrors)
	}
	if p.ErrorRate != 60 {
		t.Errorf("ErrorRate = %v, want 60", p.ErrorRate)
	}
	if p.CriticalErrors != 1 {
		t.Errorf("CriticalErrors = %d, want 1", p.CriticalErrors)
	}
	if p.PromoterCount != 1 || p.NeutralCount != 1 || p.DetractorCount != 1 {
		t.Errorf("TNPS counts = %d/%d/%d, want 1/1/1", p.PromoterCount, p.NeutralCount, p.DetractorCount)
	}
	if p.NullCount != 2 {
		t.Errorf("NullCount = %d, want 2", p.NullCount)
	}
	// 3 rated: (1 promoter - 1 detractor) / 3 * 100
	if p.TNPSScore == nil || *p.TNPSScore != 0 {
		t.Errorf("TNPSScore = %v, want 0", p.TNPSScore)
	}
	if p.ErrorDistribution["wrong_information"] != 2 || p.ErrorDistribution["missing_verification"] != 1 {
		t.Errorf("ErrorDistribution = %v", p.ErrorDistribution)
	}
}

func TestAgentPerformanceNoRatedTNPS(t *testing.T) {
	agent := &models.Agent{ID: 1, Name: "Carlos"}
	audits := []*models.CallAudit{
		audit(nil, models.CriticalityLow, strPtr(models.TNPSNull)),
		audit(nil, models.CriticalityLow, nil),
	}

	p := AgentPerformance(agent, audits)

	if p.TNPSScore != nil {
		t.Errorf("TNPSScore = %v, want nil when no audit is rated", *p.TNPSScore)
	}
	if p.NullCount != 2 {
		t.Errorf("NullCount = %d, want 2", p.NullCount)
	}
	if p.ErrorRate != 0 {
		t.Errorf("ErrorRate = %v, want 0", p.ErrorRate)
	}
}

func TestRankAgents(t *testing.T) {
	tnpsHigh := 80.0
	tnpsLow := -20.0
	metrics := []Performance{
		{AgentID: 1, ErrorRate: 40, TNPSScore: &tnpsLow, TotalCalls: 30},
		{AgentID: 2, ErrorRate: 10, TNPSScore: &tnpsHigh, TotalCalls: 10},
		{AgentID: 3, ErrorRate: 25, TNPSScore: nil, TotalCalls: 50},
	}

	tests := []struct {
		name    string
		orderBy string
		want    []int64
	}{
		{"ByErrorRate", OrderByErrorRate, []int64{2, 3, 1}},
		{"ByTNPS", OrderByTNPSScore, []int64{2, 3, 1}},
		{"ByTotalCalls", OrderByTotalCalls, []int64{3, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := RankAgents(metrics, tt.orderBy, 0)
			if err != nil {
				t.Fatalf("RankAgents() error = %v", err)
			}
			for i, wantID := range tt.want {
				if ranked[i].AgentID != wantID {
					t.Errorf("position %d: agent %d, want %d", i, ranked[i].AgentID, wantID)
				}
			}
		})
	}
}

func TestRankAgentsLimit(t *testing.T) {
	metrics := []Performance{
		{AgentID: 1, ErrorRate: 40},
		{AgentID: 2, ErrorRate: 10},
		{AgentID: 3, ErrorRate: 25},
	}

	ranked, err := RankAgents(metrics, OrderByErrorRate, 2)
	if err != nil {
		t.Fatalf("RankAgents() error = %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("len = %d, want 2", len(ranked))
	}
	if ranked[0].AgentID != 2 || ranked[1].AgentID != 3 {
		t.Errorf("ranked = [%d, %d], want [2, 3]", ranked[0].AgentID, ranked[1].AgentID)
	}
}

func TestRankAgentsUnknownKey(t *testing.T) {
	if _, err := RankAgents(nil, "charisma", 0); err == nil {
		t.Error("RankAgents() with unknown key did not return an error")
	}
}

func TestRankAgentsDoesNotMutateInput(t *testing.T) {
	metrics := []Performance{
		{AgentID: 1, ErrorRate: 40},
		{AgentID: 2, ErrorRate: 10},
	}

	if _, err := RankAgents(metrics, OrderByErrorRate, 0); err != nil {
		t.Fatalf("RankAgents() error = %v", err)
	}
	if metrics[0].AgentID != 1 {
		t.Error("RankAgents() reordered the caller's slice")
	}
}
