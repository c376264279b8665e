package domain

import "time"

// Project represents a named container of tasks.
// Tasks reference their project by ID and are not embedded.
type Project struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProject validates the fields and returns an unsaved Project.
// The ID is assigned by the repository on Add.
func NewProject(rules ProjectRules, name, description string, now time.Time) (*Project, error) {
	if err := rules.ValidateProject(name, description); err != nil {
		return nil, err
	}
	return &Project{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update re-validates both fields and applies them. On failure the project
// is left unchanged.
func (p *Project) Update(rules ProjectRules, name, description string, now time.Time) error {
	if err := rules.ValidateProject(name, description); err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = now
	return nil
}

// String returns the project name for display purposes.
func (p Project) String() string {
	return p.Name
}
