package domain

import "time"

// Task represents a unit of work inside a project.
// This is a pure domain model without database-specific concerns.
type Task struct {
	ID          int64
	ProjectID   int64
	Title       string
	Description string
	Status      Status
	Deadline    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask validates the fields and returns an unsaved task in the todo state.
func NewTask(rules TaskRules, projectID int64, title, description string, deadline *time.Time, now time.Time) (*Task, error) {
	if err := rules.ValidateTask(title, description, string(StatusTodo), deadline); err != nil {
		return nil, err
	}
	return &Task{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      StatusTodo,
		Deadline:    copyTime(deadline),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update re-validates every field and applies them. The deadline is only
// checked against the clock when it differs from the stored one, so a task
// whose deadline has already passed can still be edited. On failure the
// task is left unchanged.
func (t *Task) Update(rules TaskRules, title, description string, status Status, deadline *time.Time, now time.Time) error {
	checked := deadline
	if sameDeadline(t.Deadline, deadline) {
		checked = nil
	}
	if err := rules.ValidateTask(title, description, string(status), checked); err != nil {
		return err
	}
	t.Title = title
	t.Description = description
	t.Status = status
	t.Deadline = copyTime(deadline)
	t.UpdatedAt = now
	return nil
}

// ChangeStatus moves the task to status. Every transition between the
// three statuses is allowed, including reopening a done task.
func (t *Task) ChangeStatus(rules TaskRules, status Status, now time.Time) error {
	if err := rules.ValidateStatus(string(status)); err != nil {
		return err
	}
	t.Status = status
	t.UpdatedAt = now
	return nil
}

// IsOverdue reports whether the deadline is strictly before now and the
// task is not done.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now) && !t.Status.IsDone()
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

func sameDeadline(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
