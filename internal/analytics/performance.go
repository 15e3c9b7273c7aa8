package analytics

import (
	"fmt"
	"sort"

	"github.com/valentinaclaros/evaluation-system/internal/models"
)

// Ranking order keys accepted by the ranking endpoint.
const (
	OrderByErrorRate  = "error_rate"
	OrderByTNPSScore  = "tnps_score"
	OrderByTotalCalls = "total_calls"
)

// Performance summarizes all of one agent's audits.
type Performance struct {
	AgentID           int64          `json:"agent_id"`
	AgentName         string         `json:"agent_name"`
	Department        *string        `json:"department,omitempty"`
	TotalCalls        int            `json:"total_calls"`
	TotalErrors       int            `json:"total_errors"`
	ErrorRate         float64        `json:"error_rate"`
	CriticalErrors    int            `json:"critical_errors"`
	PromoterCount     int            `json:"promoter_count"`
	NeutralCount      int            `json:"neutral_count"`
	DetractorCount    int            `json:"detractor_count"`
	NullCount         int            `json:"null_count"`
	TNPSScore         *float64       `json:"tnps_score"`
	ErrorDistribution map[string]int `json:"error_distribution"`
}

// AgentPerformance aggregates an agent's audits into performance metrics.
// The TNPS score is nil when no audit carries a rated TNPS value; "null"
// and missing scores are excluded from the denominator.
func AgentPerformance(agent *models.Agent, audits []*models.CallAudit) Performance {
	p := Performance{
		AgentID:           agent.ID,
		AgentName:         agent.Name,
		Department:        agent.Department,
		TotalCalls:        len(audits),
		ErrorDistribution: map[string]int{},
	}

	for _, a := range audits {
		if a.HasError() {
			p.TotalErrors++
			p.ErrorDistribution[*a.ErrorType]++
		}
		if a.CriticalityLevel == models.CriticalityCritical {
			p.CriticalErrors++
		}
		switch tnpsValue(a) {
		case models.TNPSPromoter:
			p.PromoterCount++
		case models.TNPSNeutral:
			p.NeutralCount++
		case models.TNPSDetractor:
			p.DetractorCount++
		default:
			p.NullCount++
		}
	}

	if p.TotalCalls > 0 {
		p.ErrorRate = Round2(float64(p.TotalErrors) / float64(p.TotalCalls) * 100)
	}
	if rated := p.PromoterCount + p.NeutralCount + p.DetractorCount; rated > 0 {
		score := Round2(float64(p.PromoterCount-p.DetractorCount) / float64(rated) * 100)
		p.TNPSScore = &score
	}
	return p
}

// RankAgents sorts agent performances by the given order key: error_rate
// ascending (fewer errors first), tnps_score and total_calls descending.
// Agents with zero audits must be filtered out by the caller before ranking;
// they are not zero-filled. Unknown order keys are rejected.
func RankAgents(metrics []Performance, orderBy string, limit int) ([]Performance, error) {
	ranked := make([]Performance, len(metrics))
	copy(ranked, metrics)

	switch orderBy {
	case OrderByErrorRate:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].ErrorRate < ranked[j].ErrorRate })
	case OrderByTNPSScore:
		sort.SliceStable(ranked, func(i, j int) bool { return tnpsOrZero(ranked[i]) > tnpsOrZero(ranked[j]) })
	case OrderByTotalCalls:
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].TotalCalls > ranked[j].TotalCalls })
	default:
		return nil, fmt.Errorf("invalid order_by %q: valid values are %s, %s, %s",
			orderBy, OrderByErrorRate, OrderByTNPSScore, OrderByTotalCalls)
	}

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func tnpsValue(a *models.CallAudit) string {
	if a.TNPSScore == nil {
		return models.TNPSNull
	}
	return *a.TNPSScore
}

func tnpsOrZero(p Performance) float64 {
	if p.TNPSScore == nil {
		return 0
	}
	return *p.TNPSScore
}
