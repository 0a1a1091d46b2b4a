// Package export renders the task collection for use outside the app.
// Two formats are supported: a JSON snapshot that round-trips every field,
// and a CSV summary with one row per task for spreadsheets.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"worklog/internal/tracker"
)

// Snapshot is the JSON export envelope.
type Snapshot struct {
	ExportDate time.Time      `json:"export_date"`
	Tasks      []tracker.Task `json:"tasks"`
	Metadata   Metadata       `json:"metadata"`
}

// Metadata summarizes the exported collection.
type Metadata struct {
	TotalTasks     int `json:"total_tasks"`
	PendingTasks   int `json:"pending_tasks"`
	ActiveTasks    int `json:"active_tasks"`
	CompletedTasks int `json:"completed_tasks"`
}

// BuildSnapshot assembles the JSON export for a collection at a point in time.
func BuildSnapshot(tasks []tracker.Task, now time.Time) *Snapshot {
	if tasks == nil {
		tasks = []tracker.Task{}
	}

	meta := Metadata{TotalTasks: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case tracker.StatusPending:
			meta.PendingTasks++
		case tracker.StatusInProgress:
			meta.ActiveTasks++
		case tracker.StatusCompleted:
			meta.CompletedTasks++
		}
	}

	return &Snapshot{
		ExportDate: now,
		Tasks:      tasks,
		Metadata:   meta,
	}
}

// FormatJSON formats a snapshot as indented JSON.
func FormatJSON(snap *Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// csvHeader defines the CSV column layout.
var csvHeader = []string{
	"Task Name",
	"Description",
	"Status",
	"Assigned Date",
	"Total Time (minutes)",
	"Number of Sessions",
	"Activities",
	"Sessions Details",
}

// FormatCSV renders one row per task. Times are minutes with two decimals;
// multi-valued columns join their entries with "; ".
func FormatCSV(tasks []tracker.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, t := range tasks {
		row := []string{
			t.Name,
			t.Description,
			string(t.Status),
			t.AssignedDate,
			formatMinutes(t.ActiveTime),
			fmt.Sprintf("%d", len(t.Sessions)),
			joinActivities(t.Activities),
			joinSessions(t.Sessions),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row for %q: %w", t.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatMinutes(seconds int64) string {
	return fmt.Sprintf("%.2f", float64(seconds)/60)
}

func joinActivities(activities []tracker.Activity) string {
	if len(activities) == 0 {
		return ""
	}
	parts := make([]string, 0, len(activities))
	for _, a := range activities {
		parts = append(parts, a.Text)
	}
	return strings.Join(parts, "; ")
}

func joinSessions(sessions []tracker.Session) string {
	if len(sessions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(sessions))
	for i, s := range sessions {
		mins := s.End.Sub(s.Start).Minutes()
		parts = append(parts, fmt.Sprintf("Session %d: %s to %s (%.2f min)",
			i+1,
			s.Start.Format(time.RFC3339),
			s.End.Format(time.RFC3339),
			mins))
	}
	return strings.Join(parts, "; ")
}
