package httpapi

import (
	"encoding/json"
	"time"

	"todolist/internal/domain"
	"todolist/internal/services"
	"todolist/internal/sweep"
)

type projectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProjectResponses(projects []*domain.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out
}

type taskResponse struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		Deadline:    t.Deadline,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

type statsResponse struct {
	Project     projectResponse `json:"project"`
	TotalTasks  int             `json:"total_tasks"`
	StatusCount map[string]int  `json:"status_count"`
}

func toStatsResponse(stats *services.ProjectStats) statsResponse {
	counts := make(map[string]int, len(stats.StatusCount))
	for status, n := range stats.StatusCount {
		counts[status.String()] = n
	}
	return statsResponse{
		Project:     toProjectResponse(stats.Project),
		TotalTasks:  stats.TotalTasks,
		StatusCount: counts,
	}
}

type sweepResponse struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	DryRun     bool            `json:"dry_run"`
	Found      int             `json:"found"`
	Closed     int             `json:"closed"`
	Failed     int             `json:"failed"`
	Failures   []sweep.Failure `json:"failures"`
	Candidates []taskResponse  `json:"candidates"`
}

func toSweepResponse(r *sweep.Report) sweepResponse {
	failures := r.Failures
	if failures == nil {
		failures = []sweep.Failure{}
	}
	return sweepResponse{
		RunID:      r.RunID,
		StartedAt:  r.StartedAt,
		DryRun:     r.DryRun,
		Found:      r.Found,
		Closed:     r.Closed,
		Failed:     r.Failed,
		Failures:   failures,
		Candidates: toTaskResponses(r.Candidates),
	}
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type createTaskRequest struct {
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// updateTaskRequest distinguishes an omitted deadline from an explicit
// null, which clears it.
type updateTaskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *string         `json:"status"`
	Deadline    json.RawMessage `json:"deadline"`
}

type statusRequest struct {
	Status string `json:"status"`
}
