package models

import "time"

// TNPS score values for a call audit. "null" means the customer was not
// surveyed; it is excluded from the TNPS denominator.
const (
	TNPSPromoter  = "promoter"
	TNPSNeutral   = "neutral"
	TNPSDetractor = "detractor"
	TNPSNull      = "null"
)

// Criticality levels for a detected error, lowest to highest.
const (
	CriticalityLow      = "low"
	CriticalityMedium   = "medium"
	CriticalityHigh     = "high"
	CriticalityCritical = "critical"
)

// Call types handled by the evaluation program.
const (
	CallTypeCreditCard     = "credit_card"
	CallTypeSavingsAccount = "savings_account"
)

// ValidTNPSScore reports whether s is an accepted TNPS value.
func ValidTNPSScore(s string) bool {
	switch s {
	case TNPSPromoter, TNPSNeutral, TNPSDetractor, TNPSNull:
		return true
	}
	return false
}

// ValidCriticality reports whether s is an accepted criticality level.
func ValidCriticality(s string) bool {
	switch s {
	case CriticalityLow, CriticalityMedium, CriticalityHigh, CriticalityCritical:
		return true
	}
	return false
}

// ValidCallType reports whether s is an accepted call type.
func ValidCallType(s string) bool {
	return s == CallTypeCreditCard || s == CallTypeSavingsAccount
}

// Agent represents a call-center agent stored in the 'agents' table.
type Agent struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Department *string   `db:"department" json:"department,omitempty"`
	Position   *string   `db:"position" json:"position,omitempty"`
	HireDate   time.Time `db:"hire_date" json:"hire_date"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Auditor represents a quality auditor stored in the 'auditors' table.
type Auditor struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CallAudit is a manually entered evaluation of one call. Immutable after
// creation; there is no update endpoint.
type CallAudit struct {
	ID               int64     `db:"id" json:"id"`
	CallDate         time.Time `db:"call_date" json:"call_date"`
	AuditDate        time.Time `db:"audit_date" json:"audit_date"`
	CustomerID       string    `db:"customer_id" json:"customer_id"`
	CallType         string    `db:"call_type" json:"call_type"`
	AgentID          int64     `db:"agent_id" json:"agent_id"`
	AuditorID        int64     `db:"auditor_id" json:"auditor_id"`
	ErrorType        *string   `db:"error_type" json:"error_type,omitempty"`
	ErrorDescription *string   `db:"error_description" json:"error_description,omitempty"`
	CriticalityLevel string    `db:"criticality_level" json:"criticality_level"`
	TNPSScore        *string   `db:"tnps_score" json:"tnps_score,omitempty"`
	Notes            *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// HasError reports whether the audit recorded an error.
func (a *CallAudit) HasError() bool {
	return a.ErrorType != nil && *a.ErrorType != ""
}

// Feedback is a coaching session registered for an agent. The analysis
// fields are overwritten every time the impact analysis runs.
type Feedback struct {
	ID                    int64      `db:"id" json:"id"`
	AgentID               int64      `db:"agent_id" json:"agent_id"`
	FeedbackDate          time.Time  `db:"feedback_date" json:"feedback_date"`
	Title                 string     `db:"title" json:"title"`
	Description           string     `db:"description" json:"description"`
	ActionPlan            *string    `db:"action_plan" json:"action_plan,omitempty"`
	AnalysisStartDate     *time.Time `db:"analysis_start_date" json:"analysis_start_date,omitempty"`
	AnalysisEndDate       *time.Time `db:"analysis_end_date" json:"analysis_end_date,omitempty"`
	ErrorsBefore          *int       `db:"errors_before" json:"errors_before,omitempty"`
	ErrorsAfter           *int       `db:"errors_after" json:"errors_after,omitempty"`
	ImprovementPercentage *float64   `db:"improvement_percentage" json:"improvement_percentage,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}
