package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNoCurrentStage is returned by stage annotations on a terminal deal.
	ErrNoCurrentStage = errors.New("deal has no active stage")
	// ErrEmptyComment rejects blank comments and conditions.
	ErrEmptyComment = errors.New("text must not be empty")
)

type Comment struct {
	Text   string    `json:"text"`
	Author string    `json:"author"`
	At     time.Time `json:"at"`
}

// StageData is the record kept for each stage a deal has entered.
type StageData struct {
	Stage             Stage                    `json:"stage"`
	Status            StageStatus              `json:"status"`
	StartedAt         time.Time                `json:"started_at"`
	CompletedAt       *time.Time               `json:"completed_at,omitempty"`
	Analyst           string                   `json:"analyst"`
	AnalysisResult    string                   `json:"analysis_result"`
	ChecklistStatus   map[string]ChecklistMark `json:"checklist_status"`
	Documents         []string                 `json:"documents"`
	Comments          []Comment                `json:"comments"`
	Decision          *Decision                `json:"decision,omitempty"`
	DecisionRationale string                   `json:"decision_rationale"`
	Conditions        []string                 `json:"conditions"`
}

func newStageData(stage Stage, analyst string, now time.Time) *StageData {
	return &StageData{
		Stage:     stage,
		Status:    StatusInProgress,
		StartedAt: now,
		Analyst:   analyst,
	}
}

func (sd *StageData) IsCompleted() bool { return sd.CompletedAt != nil }

type TransitionReason string

const (
	ReasonStageNotAdvanceable TransitionReason = "stage_not_advanceable"
	ReasonInvalidTarget       TransitionReason = "invalid_target"
	ReasonStageDataMissing    TransitionReason = "stage_data_missing"
	ReasonNotApproved         TransitionReason = "not_approved"
	ReasonNoGoBlock           TransitionReason = "no_go_block"
	ReasonAlreadyTerminal     TransitionReason = "already_terminal"
)

// TransitionError explains why a stage transition was refused.
type TransitionError struct {
	Reason  TransitionReason
	From    Stage
	To      Stage
	Message string
}

func (e *TransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("cannot move deal from %s: %s", e.From.Label(), e.Message)
	}
	return fmt.Sprintf("cannot move deal from %s to %s: %s", e.From.Label(), e.To.Label(), e.Message)
}

// IsTransitionReason reports whether err is a TransitionError with the given reason.
func IsTransitionReason(err error, reason TransitionReason) bool {
	var te *TransitionError
	return errors.As(err, &te) && te.Reason == reason
}

// CanAdvanceTo checks every precondition for moving to target without
// changing the deal.
func (d *Deal) CanAdvanceTo(target Stage) error {
	fail := func(reason TransitionReason, format string, args ...any) error {
		return &TransitionError{Reason: reason, From: d.CurrentStage, To: target, Message: fmt.Sprintf(format, args...)}
	}

	next, ok := d.CurrentStage.Next()
	if !ok {
		return fail(ReasonStageNotAdvanceable, "%s is not a stage that can advance", d.CurrentStage.Label())
	}
	if target != next {
		return fail(ReasonInvalidTarget, "the only valid next stage is %s", next.Label())
	}
	sd, ok := d.CurrentStageData()
	if !ok {
		return fail(ReasonStageDataMissing, "no record exists for the %s stage", d.CurrentStage.Label())
	}
	if sd.Status != StatusApproved {
		return fail(ReasonNotApproved, "%s status is %q, it must be approved first", d.CurrentStage.Label(), sd.Status)
	}
	if target == StageDueDiligence && sd.Decision != nil && *sd.Decision == DecisionNoGo {
		return fail(ReasonNoGoBlock, "screening decision is NO-GO")
	}
	return nil
}

// Advance moves the deal to target, closing the current stage record and
// opening a new in-progress one. On error the deal is left untouched.
func (d *Deal) Advance(target Stage, analyst string, now time.Time) error {
	if err := d.CanAdvanceTo(target); err != nil {
		return err
	}
	now = now.UTC()
	sd, _ := d.CurrentStageData()
	completed := now
	sd.CompletedAt = &completed

	if d.StageHistory == nil {
		d.StageHistory = make(map[Stage]*StageData)
	}
	d.StageHistory[target] = newStageData(target, analyst, now)
	d.CurrentStage = target
	d.touch(now)
	return nil
}

// Reject terminates the deal from whatever live stage it is in, recording a
// NO-GO decision on that stage's record.
func (d *Deal) Reject(rationale string, now time.Time) error {
	return d.terminate(StageRejected, rationale, now, func(sd *StageData) {
		noGo := DecisionNoGo
		sd.Decision = &noGo
		sd.Status = StatusRejected
	})
}

// Exit closes a live deal as exited from the portfolio.
func (d *Deal) Exit(rationale string, now time.Time) error {
	return d.terminate(StageExited, rationale, now, nil)
}

func (d *Deal) terminate(to Stage, rationale string, now time.Time, mark func(*StageData)) error {
	if d.CurrentStage.IsTerminal() {
		return &TransitionError{
			Reason:  ReasonAlreadyTerminal,
			From:    d.CurrentStage,
			To:      to,
			Message: "deal is already closed",
		}
	}
	now = now.UTC()
	if sd, ok := d.CurrentStageData(); ok {
		if mark != nil {
			mark(sd)
		}
		sd.DecisionRationale = rationale
		completed := now
		sd.CompletedAt = &completed
	}
	d.CurrentStage = to
	d.touch(now)
	return nil
}

func (d *Deal) annotate(now time.Time, fn func(sd *StageData) error) error {
	sd, ok := d.CurrentStageData()
	if !ok {
		return ErrNoCurrentStage
	}
	if err := fn(sd); err != nil {
		return err
	}
	d.touch(now)
	return nil
}

func (d *Deal) SetStageStatus(status StageStatus, now time.Time) error {
	if _, err := ParseStageStatus(string(status)); err != nil {
		return err
	}
	return d.annotate(now, func(sd *StageData) error {
		sd.Status = status
		return nil
	})
}

func (d *Deal) RecordDecision(decision Decision, rationale string, now time.Time) error {
	if _, err := ParseDecision(string(decision)); err != nil {
		return err
	}
	return d.annotate(now, func(sd *StageData) error {
		sd.Decision = &decision
		sd.DecisionRationale = rationale
		return nil
	})
}

func (d *Deal) AddComment(text, author string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyComment
	}
	return d.annotate(now, func(sd *StageData) error {
		sd.Comments = append(sd.Comments, Comment{Text: text, Author: author, At: now.UTC()})
		return nil
	})
}

func (d *Deal) SetChecklistMark(itemID string, mark ChecklistMark, now time.Time) error {
	if _, err := ParseChecklistMark(string(mark)); err != nil {
		return err
	}
	return d.annotate(now, func(sd *StageData) error {
		if sd.ChecklistStatus == nil {
			sd.ChecklistStatus = make(map[string]ChecklistMark)
		}
		sd.ChecklistStatus[itemID] = mark
		return nil
	})
}

func (d *Deal) AddCondition(condition string, now time.Time) error {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return ErrEmptyComment
	}
	return d.annotate(now, func(sd *StageData) error {
		sd.Conditions = append(sd.Conditions, condition)
		return nil
	})
}

// SetAnalysis stores generated analysis text on the current stage and returns
// the text it replaced.
func (d *Deal) SetAnalysis(text string, now time.Time) (string, error) {
	var previous string
	err := d.annotate(now, func(sd *StageData) error {
		previous = sd.AnalysisResult
		sd.AnalysisResult = text
		return nil
	})
	return previous, err
}
