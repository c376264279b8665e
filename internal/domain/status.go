package domain

// Status is the lifecycle state of a task.
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusDoing, StatusDone}
}

// String returns the status value for display purposes.
func (s Status) String() string {
	return string(s)
}

// IsDone reports whether the status is terminal for overdue purposes.
// Done tasks are never overdue; they can still be reopened.
func (s Status) IsDone() bool {
	return s == StatusDone
}
