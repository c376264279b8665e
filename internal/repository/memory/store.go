// Package memory is an in-process Store. Both repositories share one lock
// so a cascading project delete is atomic.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"todolist/internal/domain"
	"todolist/internal/errors"
	"todolist/internal/repository"
)

type state struct {
	mu            sync.RWMutex
	projects      map[int64]*domain.Project
	tasks         map[int64]*domain.Task
	nextProjectID int64
	nextTaskID    int64
}

// Store implements repository.Store with maps
type Store struct {
	state    *state
	projects *projectRepository
	tasks    *taskRepository
}

var _ repository.Store = (*Store)(nil)

// New creates an empty in-memory store
func New() *Store {
	s := &state{
		projects:      make(map[int64]*domain.Project),
		tasks:         make(map[int64]*domain.Task),
		nextProjectID: 1,
		nextTaskID:    1,
	}
	return &Store{
		state:    s,
		projects: &projectRepository{state: s},
		tasks:    &taskRepository{state: s},
	}
}

// Projects returns the project repository
func (s *Store) Projects() repository.ProjectRepository {
	return s.projects
}

// Tasks returns the task repository
func (s *Store) Tasks() repository.TaskRepository {
	return s.tasks
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

type projectRepository struct {
	state *state
}

func (r *projectRepository) Add(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	for _, existing := range r.state.projects {
		if existing.Name == project.Name {
			return nil, errors.NewDuplicateError("project", "name", project.Name)
		}
	}

	stored := *project
	stored.ID = r.state.nextProjectID
	r.state.nextProjectID++
	r.state.projects[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *projectRepository) Get(ctx context.Context, id int64) (*domain.Project, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	if p, ok := r.state.projects[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, nil
}

func (r *projectRepository) GetAll(ctx context.Context) ([]*domain.Project, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	out := make([]*domain.Project, 0, len(r.state.projects))
	for _, p := range r.state.projects {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *projectRepository) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	for _, p := range r.state.projects {
		if p.Name == name {
			out := *p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, ok := r.state.projects[project.ID]; !ok {
		return nil, errors.NewNotFoundError("project", fmt.Sprintf("%d", project.ID))
	}
	for id, existing := range r.state.projects {
		if id != project.ID && existing.Name == project.Name {
			return nil, errors.NewDuplicateError("project", "name", project.Name)
		}
	}

	stored := *project
	r.state.projects[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *projectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, ok := r.state.projects[id]; !ok {
		return false, nil
	}
	for taskID, task := range r.state.tasks {
		if task.ProjectID == id {
			delete(r.state.tasks, taskID)
		}
	}
	delete(r.state.projects, id)
	return true, nil
}

func (r *projectRepository) Count(ctx context.Context) (int, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	return len(r.state.projects), nil
}

type taskRepository struct {
	state *state
}

func (r *taskRepository) Add(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, ok := r.state.projects[task.ProjectID]; !ok {
		return nil, errors.NewNotFoundError("project", fmt.Sprintf("%d", task.ProjectID))
	}

	stored := cloneTask(task)
	stored.ID = r.state.nextTaskID
	r.state.nextTaskID++
	r.state.tasks[stored.ID] = stored

	return cloneTask(stored), nil
}

func (r *taskRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	if t, ok := r.state.tasks[id]; ok {
		return cloneTask(t), nil
	}
	return nil, nil
}

func (r *taskRepository) GetAll(ctx context.Context) ([]*domain.Task, error) {
	return r.filter(func(*domain.Task) bool { return true }), nil
}

func (r *taskRepository) GetByParent(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	return r.filter(func(t *domain.Task) bool { return t.ProjectID == projectID }), nil
}

func (r *taskRepository) GetByStatus(ctx context.Context, projectID int64, status domain.Status) ([]*domain.Task, error) {
	return r.filter(func(t *domain.Task) bool {
		return t.ProjectID == projectID && t.Status == status
	}), nil
}

func (r *taskRepository) GetOverdue(ctx context.Context, now time.Time, projectID *int64) ([]*domain.Task, error) {
	return r.filter(func(t *domain.Task) bool {
		if projectID != nil && t.ProjectID != *projectID {
			return false
		}
		return t.IsOverdue(now)
	}), nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, ok := r.state.tasks[task.ID]; !ok {
		return nil, errors.NewNotFoundError("task", fmt.Sprintf("%d", task.ID))
	}

	stored := cloneTask(task)
	r.state.tasks[stored.ID] = stored
	return cloneTask(stored), nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	if _, ok := r.state.tasks[id]; !ok {
		return false, nil
	}
	delete(r.state.tasks, id)
	return true, nil
}

func (r *taskRepository) Count(ctx context.Context) (int, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	return len(r.state.tasks), nil
}

func (r *taskRepository) CountByParent(ctx context.Context, projectID int64) (int, error) {
	return len(r.filter(func(t *domain.Task) bool { return t.ProjectID == projectID })), nil
}

// filter returns copies of the matching tasks ordered by ID
func (r *taskRepository) filter(match func(*domain.Task) bool) []*domain.Task {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	out := make([]*domain.Task, 0)
	for _, t := range r.state.tasks {
		if match(t) {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	return &c
}
