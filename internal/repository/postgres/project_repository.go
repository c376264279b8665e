package postgres

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"

	"todolist/internal/domain"
	"todolist/internal/errors"
)

type projectRepository struct {
	store *Store
}

func (r *projectRepository) Add(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	const q = `
insert into projects (name, description, created_at, updated_at)
values ($1, $2, $3, $4)
returning ` + projectColumns

	p, err := scanProject(r.store.pool.QueryRow(ctx, q, project.Name, project.Description, project.CreatedAt.UTC(), project.UpdatedAt.UTC()))
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return nil, errors.NewDuplicateError("project", "name", project.Name)
		}
		return nil, handleError("insert project", err)
	}
	return p, nil
}

func (r *projectRepository) Get(ctx context.Context, id int64) (*domain.Project, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	return r.queryOptional(ctx, `select `+projectColumns+` from projects where id = $1`, id)
}

func (r *projectRepository) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	return r.queryOptional(ctx, `select `+projectColumns+` from projects where name = $1`, name)
}

func (r *projectRepository) queryOptional(ctx context.Context, q string, arg any) (*domain.Project, error) {
	p, err := scanProject(r.store.pool.QueryRow(ctx, q, arg))
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, handleError("select project", err)
	}
	return p, nil
}

func (r *projectRepository) GetAll(ctx context.Context) ([]*domain.Project, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	rows, err := r.store.pool.Query(ctx, `select `+projectColumns+` from projects order by id`)
	if err != nil {
		return nil, handleError("list projects", err)
	}
	defer rows.Close()

	out := make([]*domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, handleError("scan project", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, handleError("list projects", err)
	}
	return out, nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	const q = `
update projects
set name = $2, description = $3, updated_at = $4
where id = $1
returning ` + projectColumns

	p, err := scanProject(r.store.pool.QueryRow(ctx, q, project.ID, project.Name, project.Description, project.UpdatedAt.UTC()))
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NewNotFoundError("project", idString(project.ID))
	}
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return nil, errors.NewDuplicateError("project", "name", project.Name)
		}
		return nil, handleError("update project", err)
	}
	return p, nil
}

// Delete removes the project's tasks and then the project in one transaction
func (r *projectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := r.store.writeContext(ctx)
	defer cancel()

	var deleted bool
	err := pgx.BeginFunc(ctx, r.store.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `delete from tasks where project_id = $1`, id); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `delete from projects where id = $1`, id)
		if err != nil {
			return err
		}
		deleted = ct.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, handleError("delete project", err)
	}
	return deleted, nil
}

func (r *projectRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := r.store.readContext(ctx)
	defer cancel()

	var n int
	if err := r.store.pool.QueryRow(ctx, `select count(*) from projects`).Scan(&n); err != nil {
		return 0, handleError("count projects", err)
	}
	return n, nil
}
