package cli

import (
	"context"

	"todolist/internal/api"
)

// ProjectCommand handles the project subcommands
type ProjectCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewProjectCommand creates a new project command handler
func NewProjectCommand(app *App) *ProjectCommand {
	return &ProjectCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Create adds a project and prints it
func (c *ProjectCommand) Create(ctx context.Context, name, description string) error {
	project, err := c.app.api.CreateProject(ctx, name, description)
	if err != nil {
		return c.errorHandler.Handle("create project", err)
	}
	c.app.printf("Created project %d: %s\n", project.ID, project.Name)
	return nil
}

// List prints every project
func (c *ProjectCommand) List(ctx context.Context) error {
	projects, err := c.app.api.ListProjects(ctx)
	if err != nil {
		return c.errorHandler.Handle("list projects", err)
	}
	printProjects(c.app.out, projects)
	return nil
}

// Show prints one project
func (c *ProjectCommand) Show(ctx context.Context, id int64) error {
	project, err := c.app.api.GetProject(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("show project", err)
	}
	printProject(c.app.out, project)
	return nil
}

// Update changes the fields set in patch
func (c *ProjectCommand) Update(ctx context.Context, id int64, patch api.ProjectPatch) error {
	project, err := c.app.api.UpdateProject(ctx, id, patch)
	if err != nil {
		return c.errorHandler.Handle("update project", err)
	}
	c.app.printf("Updated project %d: %s\n", project.ID, project.Name)
	return nil
}

// Delete removes the project together with its tasks
func (c *ProjectCommand) Delete(ctx context.Context, id int64) error {
	if err := c.app.api.DeleteProject(ctx, id); err != nil {
		return c.errorHandler.Handle("delete project", err)
	}
	c.app.printf("Deleted project %d and its tasks\n", id)
	return nil
}

// Stats prints task counts per status
func (c *ProjectCommand) Stats(ctx context.Context, id int64) error {
	stats, err := c.app.api.GetProjectStats(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("get project stats", err)
	}
	printStats(c.app.out, stats)
	return nil
}
