package domain

import "time"

// Frequency is the unit of a recurrence rule.
type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
)

// RecurrenceRule describes how a completed recurring task spawns its
// next occurrence.
type RecurrenceRule struct {
	Freq     Frequency `json:"freq"`
	Interval int       `json:"interval"`
}

// normalizeRule validates a rule, defaulting a zero interval to 1.
// A nil rule stays nil (no recurrence).
func normalizeRule(r *RecurrenceRule) (*RecurrenceRule, error) {
	if r == nil {
		return nil, nil
	}
	switch r.Freq {
	case FreqDaily, FreqWeekly, FreqMonthly:
	default:
		return nil, validationErr("recurrenceRule", "unknown frequency %q", r.Freq)
	}
	interval := r.Interval
	if interval == 0 {
		interval = 1
	}
	if interval < 1 {
		return nil, validationErr("recurrenceRule", "interval must be >= 1, got %d", r.Interval)
	}
	return &RecurrenceRule{Freq: r.Freq, Interval: interval}, nil
}

// NextOccurrence advances an ISO date by the rule's interval of
// days, weeks, or calendar months.
//
// Clamping policy for monthly rules: the day-of-month is preserved and
// clamped to the last day of the target month, so 2024-01-31 plus one
// month is 2024-02-29, not 2024-03-02.
func NextOccurrence(dueDate string, rule RecurrenceRule) (string, error) {
	normalized, err := normalizeRule(&rule)
	if err != nil {
		return "", err
	}
	day, err := time.Parse(dateLayout, dueDate)
	if err != nil {
		return "", validationErr("dueDate", "must be YYYY-MM-DD, got %q", dueDate)
	}

	var next time.Time
	switch normalized.Freq {
	case FreqDaily:
		next = day.AddDate(0, 0, normalized.Interval)
	case FreqWeekly:
		next = day.AddDate(0, 0, 7*normalized.Interval)
	case FreqMonthly:
		next = addMonthsClamped(day, normalized.Interval)
	}
	return next.Format(dateLayout), nil
}

// addMonthsClamped adds calendar months keeping the day-of-month,
// clamped to the length of the target month. time.AddDate is not used
// because it normalizes overflow into the following month.
func addMonthsClamped(day time.Time, months int) time.Time {
	firstOfTarget := time.Date(day.Year(), day.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	dom := day.Day()
	if dom > lastDay {
		dom = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), dom, 0, 0, 0, 0, time.UTC)
}

// SpawnNext builds the follow-up occurrence of a completed recurring
// task: same title, description, notes, priority, tags, due time and
// rule; due date advanced; done cleared; every checklist item reset.
// The new task gets a fresh id and timestamps.
func SpawnNext(t Task) (Task, error) {
	if t.Recurrence == nil {
		return Task{}, validationErr("recurrenceRule", "task %s has no recurrence rule", t.ID)
	}
	if t.DueDate == "" {
		return Task{}, validationErr("dueDate", "recurring task %s has no due date", t.ID)
	}
	nextDue, err := NextOccurrence(t.DueDate, *t.Recurrence)
	if err != nil {
		return Task{}, err
	}

	checklist := make([]ChecklistItem, len(t.Checklist))
	for i, item := range t.Checklist {
		checklist[i] = ChecklistItem{ID: item.ID, Text: item.Text, Done: false}
	}

	return NewTask(TaskParams{
		Title:       t.Title,
		Description: t.Description,
		Notes:       t.Notes,
		DueDate:     nextDue,
		DueTime:     t.DueTime,
		Priority:    t.Priority,
		Tags:        append([]string(nil), t.Tags...),
		Checklist:   checklist,
		Recurrence:  t.Recurrence,
	})
}
