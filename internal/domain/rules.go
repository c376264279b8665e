package domain

import "time"

// ProjectRules validates project fields. It is implemented by the
// validation package and injected so the entities stay free of config.
type ProjectRules interface {
	ValidateProject(name, description string) error
}

// TaskRules validates task fields. A nil deadline is never checked.
type TaskRules interface {
	ValidateTask(title, description, status string, deadline *time.Time) error
	ValidateStatus(status string) error
}
