package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"todolist/internal/domain"
	"todolist/internal/services"
	"todolist/internal/sweep"
)

func formatDeadline(task *domain.Task) string {
	if task.Deadline == nil {
		return "-"
	}
	return task.Deadline.Local().Format(displayTimeFormat)
}

func printProject(w io.Writer, p *domain.Project) {
	fmt.Fprintf(w, "Project %d: %s\n", p.ID, p.Name)
	fmt.Fprintf(w, "  Description: %s\n", p.Description)
	fmt.Fprintf(w, "  Created:     %s\n", p.CreatedAt.Local().Format(displayTimeFormat))
	fmt.Fprintf(w, "  Updated:     %s\n", p.UpdatedAt.Local().Format(displayTimeFormat))
}

func printProjects(w io.Writer, projects []*domain.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, p := range projects {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, p.Description)
	}
	tw.Flush()
}

func printTask(w io.Writer, t *domain.Task) {
	fmt.Fprintf(w, "Task %d: %s [%s]\n", t.ID, t.Title, t.Status)
	fmt.Fprintf(w, "  Project:     %d\n", t.ProjectID)
	fmt.Fprintf(w, "  Description: %s\n", t.Description)
	fmt.Fprintf(w, "  Deadline:    %s\n", formatDeadline(t))
	fmt.Fprintf(w, "  Updated:     %s\n", t.UpdatedAt.Local().Format(displayTimeFormat))
}

func printTasks(w io.Writer, tasks []*domain.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROJECT\tSTATUS\tDEADLINE\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", t.ID, t.ProjectID, t.Status, formatDeadline(t), t.Title)
	}
	tw.Flush()
}

func printStats(w io.Writer, stats *services.ProjectStats) {
	fmt.Fprintf(w, "Project %d: %s\n", stats.Project.ID, stats.Project.Name)
	fmt.Fprintf(w, "  Total tasks: %d\n", stats.TotalTasks)
	for _, status := range domain.Statuses() {
		fmt.Fprintf(w, "  %-6s %d\n", status.String()+":", stats.StatusCount[status])
	}
}

func printReport(w io.Writer, report *sweep.Report) {
	if report.DryRun {
		fmt.Fprintf(w, "Sweep %s (dry run): %d overdue task(s) would be closed\n", report.RunID, report.Found)
		for _, t := range report.Candidates {
			fmt.Fprintf(w, "  %d  %s  (deadline %s)\n", t.ID, t.Title, formatDeadline(t))
		}
		return
	}

	fmt.Fprintf(w, "Sweep %s: found %d, closed %d, failed %d\n", report.RunID, report.Found, report.Closed, report.Failed)
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  task %d: %s\n", f.TaskID, f.Error)
	}
}
