package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"todolist/internal/api"
	"todolist/internal/domain"
	"todolist/internal/sweep"
	"todolist/internal/validation"
)

// ========== Projects ==========

func (s *Server) createProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "body", nil, "invalid JSON body")
		return
	}

	project, err := s.api.CreateProject(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProjectResponse(project))
}

func (s *Server) listProjects(c *gin.Context) {
	projects, err := s.api.ListProjects(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponses(projects))
}

func (s *Server) getProject(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	project, err := s.api.GetProject(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(project))
}

func (s *Server) updateProject(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "body", nil, "invalid JSON body")
		return
	}

	project, err := s.api.UpdateProject(c.Request.Context(), id, api.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(project))
}

func (s *Server) deleteProject(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	if err := s.api.DeleteProject(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) projectStats(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	stats, err := s.api.GetProjectStats(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatsResponse(stats))
}

// ========== Tasks ==========

func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "body", nil, "invalid JSON body")
		return
	}
	if err := validation.ValidateID("project_id", req.ProjectID); err != nil {
		s.invalidID(c, err)
		return
	}

	task, err := s.api.CreateTask(c.Request.Context(), req.ProjectID, req.Title, req.Description, req.Deadline)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (s *Server) listTasks(c *gin.Context) {
	var filter api.TaskFilter

	projectID, ok := s.queryID(c, "project_id")
	if !ok {
		return
	}
	filter.ProjectID = projectID

	if raw := c.Query("status"); raw != "" {
		status := domain.Status(raw)
		filter.Status = &status
	}

	tasks, err := s.api.ListTasks(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

func (s *Server) overdueTasks(c *gin.Context) {
	projectID, ok := s.queryID(c, "project_id")
	if !ok {
		return
	}

	tasks, err := s.api.GetOverdueTasks(c.Request.Context(), projectID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

func (s *Server) getTask(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	task, err := s.api.GetTask(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "body", nil, "invalid JSON body")
		return
	}

	patch := api.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
	}
	switch {
	case len(req.Deadline) == 0:
	case bytes.Equal(req.Deadline, []byte("null")):
		patch.ClearDeadline = true
	default:
		var deadline time.Time
		if err := json.Unmarshal(req.Deadline, &deadline); err != nil {
			s.badRequest(c, "deadline", string(req.Deadline), "must be an RFC 3339 timestamp or null")
			return
		}
		patch.Deadline = &deadline
	}

	task, err := s.api.UpdateTask(c.Request.Context(), id, patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *Server) changeTaskStatus(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "body", nil, "invalid JSON body")
		return
	}

	task, err := s.api.ChangeTaskStatus(c.Request.Context(), id, domain.Status(req.Status))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	if err := s.api.DeleteTask(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ========== Sweep ==========

func (s *Server) runSweep(c *gin.Context) {
	opts := sweep.Options{}

	projectID, ok := s.queryID(c, "project_id")
	if !ok {
		return
	}
	opts.ProjectID = projectID

	if raw := c.Query("dry_run"); raw != "" {
		dryRun, err := strconv.ParseBool(raw)
		if err != nil {
			s.badRequest(c, "dry_run", raw, "must be a boolean")
			return
		}
		opts.DryRun = dryRun
	}

	report, err := s.sweeper.Run(c.Request.Context(), opts)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSweepResponse(report))
}

// ========== Parameters ==========

func (s *Server) pathID(c *gin.Context) (int64, bool) {
	id, err := validation.ParseID("id", c.Param("id"))
	if err != nil {
		s.invalidID(c, err)
		return 0, false
	}
	return id, true
}

// queryID returns nil when the parameter is absent
func (s *Server) queryID(c *gin.Context, name string) (*int64, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return nil, true
	}
	id, err := validation.ParseID(name, raw)
	if err != nil {
		s.invalidID(c, err)
		return nil, false
	}
	return &id, true
}
