package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidValue is matched by every ValidationError.
var ErrInvalidValue = errors.New("invalid value")

// ValidationError rejects a single field of user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidValue }

func parseEnum[T ~string](kind, s string, valid []T) (T, error) {
	for _, v := range valid {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, &ValidationError{Field: kind, Message: fmt.Sprintf("unknown value %q", s)}
}

func unmarshalEnum[T ~string](dst *T, kind string, text []byte, valid []T) error {
	v, err := parseEnum(kind, string(text), valid)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

type Stage string

const (
	StageScreening           Stage = "screening"
	StageDueDiligence        Stage = "due_diligence"
	StageInvestmentCommittee Stage = "investment_committee"
	StageMonitoring          Stage = "monitoring"
	StageExited              Stage = "exited"
	StageRejected            Stage = "rejected"
)

// PipelineStages is the fixed forward order a live deal moves through.
var PipelineStages = []Stage{StageScreening, StageDueDiligence, StageInvestmentCommittee, StageMonitoring}

var allStages = []Stage{StageScreening, StageDueDiligence, StageInvestmentCommittee, StageMonitoring, StageExited, StageRejected}

// AllStages returns every stage, pipeline stages first.
func AllStages() []Stage { return append([]Stage(nil), allStages...) }

func ParseStage(s string) (Stage, error) { return parseEnum("stage", s, allStages) }

func (s Stage) Valid() bool {
	_, err := ParseStage(string(s))
	return err == nil
}

func (s Stage) IsTerminal() bool { return s == StageExited || s == StageRejected }

// Next returns the stage that follows s in the pipeline order.
func (s Stage) Next() (Stage, bool) {
	for i, st := range PipelineStages {
		if st == s && i+1 < len(PipelineStages) {
			return PipelineStages[i+1], true
		}
	}
	return "", false
}

func (s Stage) Label() string {
	switch s {
	case StageScreening:
		return "Screening"
	case StageDueDiligence:
		return "Due Diligence"
	case StageInvestmentCommittee:
		return "Investment Committee"
	case StageMonitoring:
		return "Monitoring"
	case StageExited:
		return "Exited"
	case StageRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *Stage) UnmarshalText(b []byte) error { return unmarshalEnum(s, "stage", b, allStages) }

type StageStatus string

const (
	StatusDraft         StageStatus = "draft"
	StatusInProgress    StageStatus = "in_progress"
	StatusPendingReview StageStatus = "pending_review"
	StatusApproved      StageStatus = "approved"
	StatusRejected      StageStatus = "rejected"
	StatusOnHold        StageStatus = "on_hold"
)

var allStageStatuses = []StageStatus{StatusDraft, StatusInProgress, StatusPendingReview, StatusApproved, StatusRejected, StatusOnHold}

func ParseStageStatus(s string) (StageStatus, error) {
	return parseEnum("stage status", s, allStageStatuses)
}

func (s StageStatus) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *StageStatus) UnmarshalText(b []byte) error {
	return unmarshalEnum(s, "stage status", b, allStageStatuses)
}

type Decision string

const (
	DecisionGo                     Decision = "GO"
	DecisionNoGo                   Decision = "NO-GO"
	DecisionGoWithConditions       Decision = "GO_WITH_CONDITIONS"
	DecisionApproved               Decision = "APPROVED"
	DecisionApprovedWithConditions Decision = "APPROVED_WITH_CONDITIONS"
	DecisionRejected               Decision = "REJECTED"
)

var allDecisions = []Decision{DecisionGo, DecisionNoGo, DecisionGoWithConditions, DecisionApproved, DecisionApprovedWithConditions, DecisionRejected}

func ParseDecision(s string) (Decision, error) { return parseEnum("decision", s, allDecisions) }

func (d Decision) MarshalText() ([]byte, error) { return []byte(d), nil }

func (d *Decision) UnmarshalText(b []byte) error {
	return unmarshalEnum(d, "decision", b, allDecisions)
}

type ActionStatus string

const (
	ActionNotStarted ActionStatus = "not_started"
	ActionInProgress ActionStatus = "in_progress"
	ActionCompleted  ActionStatus = "completed"
)

var allActionStatuses = []ActionStatus{ActionNotStarted, ActionInProgress, ActionCompleted}

func ParseActionStatus(s string) (ActionStatus, error) {
	return parseEnum("action status", s, allActionStatuses)
}

func (s ActionStatus) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *ActionStatus) UnmarshalText(b []byte) error {
	return unmarshalEnum(s, "action status", b, allActionStatuses)
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var allPriorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// AllPriorities returns priorities in rank order.
func AllPriorities() []Priority { return append([]Priority(nil), allPriorities...) }

func ParsePriority(s string) (Priority, error) { return parseEnum("priority", s, allPriorities) }

// Rank orders priorities with high first. Unknown values rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

func (p Priority) MarshalText() ([]byte, error) { return []byte(p), nil }

func (p *Priority) UnmarshalText(b []byte) error {
	return unmarshalEnum(p, "priority", b, allPriorities)
}

type ActionCategory string

const (
	CategoryES         ActionCategory = "E&S"
	CategoryGovernance ActionCategory = "Governance"
	CategoryGender     ActionCategory = "Gender"
	CategoryHSE        ActionCategory = "HSE"
	CategoryClimate    ActionCategory = "Climate"
	CategorySocial     ActionCategory = "Social"
)

var allActionCategories = []ActionCategory{CategoryES, CategoryGovernance, CategoryGender, CategoryHSE, CategoryClimate, CategorySocial}

func AllActionCategories() []ActionCategory {
	return append([]ActionCategory(nil), allActionCategories...)
}

func ParseActionCategory(s string) (ActionCategory, error) {
	return parseEnum("action category", s, allActionCategories)
}

func (c ActionCategory) MarshalText() ([]byte, error) { return []byte(c), nil }

func (c *ActionCategory) UnmarshalText(b []byte) error {
	return unmarshalEnum(c, "action category", b, allActionCategories)
}

type RiskCategory string

const (
	RiskA      RiskCategory = "A"
	RiskBPlus  RiskCategory = "B+"
	RiskBMinus RiskCategory = "B-"
	RiskC      RiskCategory = "C"
)

var allRiskCategories = []RiskCategory{RiskA, RiskBPlus, RiskBMinus, RiskC}

func AllRiskCategories() []RiskCategory {
	return append([]RiskCategory(nil), allRiskCategories...)
}

func ParseRiskCategory(s string) (RiskCategory, error) {
	return parseEnum("risk category", s, allRiskCategories)
}

func (r RiskCategory) MarshalText() ([]byte, error) { return []byte(r), nil }

func (r *RiskCategory) UnmarshalText(b []byte) error {
	return unmarshalEnum(r, "risk category", b, allRiskCategories)
}

// ChecklistMark is the review state of a single due-diligence checklist item.
type ChecklistMark string

const (
	MarkPending       ChecklistMark = "pending"
	MarkCompliant     ChecklistMark = "compliant"
	MarkPartial       ChecklistMark = "partial"
	MarkNonCompliant  ChecklistMark = "non_compliant"
	MarkNotApplicable ChecklistMark = "not_applicable"
)

var allChecklistMarks = []ChecklistMark{MarkPending, MarkCompliant, MarkPartial, MarkNonCompliant, MarkNotApplicable}

func ParseChecklistMark(s string) (ChecklistMark, error) {
	return parseEnum("checklist mark", s, allChecklistMarks)
}

func (m ChecklistMark) MarshalText() ([]byte, error) { return []byte(m), nil }

func (m *ChecklistMark) UnmarshalText(b []byte) error {
	return unmarshalEnum(m, "checklist mark", b, allChecklistMarks)
}
