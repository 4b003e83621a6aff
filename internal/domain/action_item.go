package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrActionItemNotFound is returned when an ESAP item id does not exist on the deal.
var ErrActionItemNotFound = errors.New("action item not found")

const actionItemPrefix = "ESAP_"

type ProgressNote struct {
	At     time.Time    `json:"at"`
	Note   string       `json:"note"`
	Status ActionStatus `json:"status"`
}

// ActionItem is one line of the environmental and social action plan (ESAP).
type ActionItem struct {
	ID            string         `json:"id"`
	Category      ActionCategory `json:"category"`
	Action        string         `json:"action"`
	Responsible   string         `json:"responsible"`
	Deadline      *time.Time     `json:"deadline,omitempty"`
	Status        ActionStatus   `json:"status"`
	Priority      Priority       `json:"priority"`
	KPI           string         `json:"kpi"`
	ProgressNotes []ProgressNote `json:"progress_notes"`
}

// IsOverdue reports whether the deadline has passed on an unfinished item.
func (a ActionItem) IsOverdue(now time.Time) bool {
	return a.Deadline != nil && a.Status != ActionCompleted && now.After(*a.Deadline)
}

func (d *Deal) nextActionItemID() string {
	highest := 0
	for _, item := range d.ActionItems {
		n, err := strconv.Atoi(strings.TrimPrefix(item.ID, actionItemPrefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", actionItemPrefix, highest+1)
}

// AddActionItem validates item, assigns the next sequential id and appends it.
// Status defaults to not_started and priority to medium.
func (d *Deal) AddActionItem(item ActionItem, now time.Time) (ActionItem, error) {
	item.Action = strings.TrimSpace(item.Action)
	if item.Action == "" {
		return ActionItem{}, &ValidationError{Field: "action", Message: "description is required"}
	}
	if _, err := ParseActionCategory(string(item.Category)); err != nil {
		return ActionItem{}, err
	}
	if item.Status == "" {
		item.Status = ActionNotStarted
	}
	if _, err := ParseActionStatus(string(item.Status)); err != nil {
		return ActionItem{}, err
	}
	if item.Priority == "" {
		item.Priority = PriorityMedium
	}
	if _, err := ParsePriority(string(item.Priority)); err != nil {
		return ActionItem{}, err
	}
	if item.Deadline != nil {
		dl := item.Deadline.UTC()
		item.Deadline = &dl
	}
	item.ID = d.nextActionItemID()
	d.ActionItems = append(d.ActionItems, item)
	d.touch(now)
	return item, nil
}

func (d *Deal) actionItemIndex(id string) (int, error) {
	for i := range d.ActionItems {
		if d.ActionItems[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrActionItemNotFound, id)
}

// UpdateActionStatus changes an item's status and, when note is non-empty,
// appends a progress note carrying the new status.
func (d *Deal) UpdateActionStatus(id string, status ActionStatus, note string, now time.Time) error {
	if _, err := ParseActionStatus(string(status)); err != nil {
		return err
	}
	i, err := d.actionItemIndex(id)
	if err != nil {
		return err
	}
	item := &d.ActionItems[i]
	item.Status = status
	if note = strings.TrimSpace(note); note != "" {
		item.ProgressNotes = append(item.ProgressNotes, ProgressNote{At: now.UTC(), Note: note, Status: status})
	}
	d.touch(now)
	return nil
}

func (d *Deal) RemoveActionItem(id string, now time.Time) error {
	i, err := d.actionItemIndex(id)
	if err != nil {
		return err
	}
	d.ActionItems = append(d.ActionItems[:i], d.ActionItems[i+1:]...)
	d.touch(now)
	return nil
}

// ESAPSummary aggregates action plan progress.
type ESAPSummary struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	NotStarted     int     `json:"not_started"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"`
}

func (d *Deal) ActionPlanSummary(now time.Time) ESAPSummary {
	var s ESAPSummary
	for _, item := range d.ActionItems {
		s.Total++
		switch item.Status {
		case ActionCompleted:
			s.Completed++
		case ActionInProgress:
			s.InProgress++
		default:
			s.NotStarted++
		}
		if item.IsOverdue(now) {
			s.Overdue++
		}
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total) * 100
	}
	return s
}
