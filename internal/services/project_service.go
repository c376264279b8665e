package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"todolist/internal/config"
	"todolist/internal/domain"
	"todolist/internal/errors"
	"todolist/internal/repository"
	"todolist/internal/validation"
)

// projectServiceImpl implements the ProjectService interface
type projectServiceImpl struct {
	projects  repository.ProjectRepository
	tasks     repository.TaskRepository
	validator *validation.ProjectValidator
	limits    config.LimitsConfig
	options
}

// NewProjectService creates a new ProjectService instance. A nil cfg uses
// the defaults from config.NewConfig.
func NewProjectService(store repository.Store, cfg *config.Config, opts ...Option) ProjectService {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	o := newOptions(opts)
	return &projectServiceImpl{
		projects:  store.Projects(),
		tasks:     store.Tasks(),
		validator: validation.NewProjectValidatorWithConfig(cfg, o.now),
		limits:    cfg.Limits,
		options:   o,
	}
}

// existingNames returns the names of all projects except excludeID
func (p *projectServiceImpl) existingNames(ctx context.Context, excludeID int64) ([]string, error) {
	projects, err := p.projects.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(projects))
	for _, project := range projects {
		if project.ID != excludeID {
			names = append(names, project.Name)
		}
	}
	return names, nil
}

// CreateProject checks capacity, then uniqueness, then field bounds
func (p *projectServiceImpl) CreateProject(ctx context.Context, name, description string) (*domain.Project, error) {
	count, err := p.projects.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count >= p.limits.MaxProjects {
		return nil, errors.NewCapacityExceededError("projects", p.limits.MaxProjects)
	}

	names, err := p.existingNames(ctx, 0)
	if err != nil {
		return nil, err
	}
	if err := p.validator.ValidateUniqueName(names, name); err != nil {
		return nil, errors.NewValidationError("invalid project", err)
	}

	project, err := domain.NewProject(p.validator, name, description, p.now())
	if err != nil {
		return nil, errors.NewValidationError("invalid project", err)
	}

	created, err := p.projects.Add(ctx, project)
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(log.Fields{"project_id": created.ID, "name": created.Name}).Debug("project created")
	return created, nil
}

// GetProject returns nil, nil when the project does not exist
func (p *projectServiceImpl) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	return p.projects.Get(ctx, id)
}

// ListProjects returns every project ordered by ID
func (p *projectServiceImpl) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return p.projects.GetAll(ctx)
}

// UpdateProject replaces name and description. The name must not collide
// with any other project.
func (p *projectServiceImpl) UpdateProject(ctx context.Context, id int64, name, description string) (*domain.Project, error) {
	project, err := p.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.NewNotFoundError("project", fmt.Sprintf("%d", id))
	}

	names, err := p.existingNames(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.validator.ValidateUniqueName(names, name); err != nil {
		return nil, errors.NewValidationError("invalid project", err)
	}

	if err := project.Update(p.validator, name, description, p.now()); err != nil {
		return nil, errors.NewValidationError("invalid project", err)
	}

	updated, err := p.projects.Update(ctx, project)
	if err != nil {
		return nil, err
	}

	p.logger.WithField("project_id", id).Debug("project updated")
	return updated, nil
}

// DeleteProject removes the project and all of its tasks
func (p *projectServiceImpl) DeleteProject(ctx context.Context, id int64) (bool, error) {
	deleted, err := p.projects.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		p.logger.WithField("project_id", id).Debug("project deleted with its tasks")
	}
	return deleted, nil
}

// ProjectExists reports whether a project with id is stored
func (p *projectServiceImpl) ProjectExists(ctx context.Context, id int64) (bool, error) {
	project, err := p.projects.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return project != nil, nil
}

// GetProjectStats counts the project's tasks by status
func (p *projectServiceImpl) GetProjectStats(ctx context.Context, id int64) (*ProjectStats, error) {
	project, err := p.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.NewNotFoundError("project", fmt.Sprintf("%d", id))
	}

	tasks, err := p.tasks.GetByParent(ctx, id)
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.Status]int, len(domain.Statuses()))
	for _, status := range domain.Statuses() {
		counts[status] = 0
	}
	for _, task := range tasks {
		counts[task.Status]++
	}

	return &ProjectStats{
		Project:     project,
		TotalTasks:  len(tasks),
		StatusCount: counts,
	}, nil
}
