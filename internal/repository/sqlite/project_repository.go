package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"todolist/internal/domain"
	"todolist/internal/errors"
)

const projectColumns = `id, name, description, created_at, updated_at`

// ProjectRepository implements repository.ProjectRepository
type ProjectRepository struct {
	store *Store
}

// Add inserts a project and returns it with its new ID
func (r *ProjectRepository) Add(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	query := `
	INSERT INTO projects (name, description, created_at, updated_at)
	VALUES (?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.store.db, query,
		project.Name, project.Description, FormatTimeForDB(project.CreatedAt), FormatTimeForDB(project.UpdatedAt))
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, errors.NewDuplicateError("project", "name", project.Name)
		}
		return nil, err
	}

	out := *project
	out.ID = id
	return &out, nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*domain.Project, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return QueryOptional(ctx, r.store.db, query, ScanProject, "project", id)
}

// GetAll retrieves every project ordered by ID
func (r *ProjectRepository) GetAll(ctx context.Context) ([]*domain.Project, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY id ASC`
	return QueryMultiple(ctx, r.store.db, query, ScanProjects, "projects")
}

// GetByName retrieves a project by its exact name
func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	query := `SELECT ` + projectColumns + ` FROM projects WHERE name = ?`
	return QueryOptional(ctx, r.store.db, query, ScanProject, "project", name)
}

// Update overwrites the mutable fields of a stored project
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	query := `
	UPDATE projects
	SET name = ?, description = ?, updated_at = ?
	WHERE id = ?`

	err := ExecuteWithRowsAffected(ctx, r.store.db, query, "project", fmt.Sprintf("%d", project.ID),
		project.Name, project.Description, FormatTimeForDB(project.UpdatedAt), project.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, errors.NewDuplicateError("project", "name", project.Name)
		}
		return nil, err
	}

	out := *project
	return &out, nil
}

// Delete removes the project and its tasks in one transaction
func (r *ProjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	var deleted bool
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
			return HandleDatabaseError("delete project tasks", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
		if err != nil {
			return HandleDatabaseError("delete project", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return HandleDatabaseError("get rows affected", err)
		}
		deleted = rows > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Count returns the number of stored projects
func (r *ProjectRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	return QueryCount(ctx, r.store.db, `SELECT COUNT(*) FROM projects`)
}
