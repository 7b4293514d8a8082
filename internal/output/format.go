// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskstore/internal/service"
)

// ListSeparator is the separator line around a list header.
const ListSeparator = "------------"

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TITLE}\n", with "[ ]" for tasks that are not completed.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(task), normalizeTitle(task.Title))
}

// FormatTaskVerbose adds the ID, status and priority after the title.
func FormatTaskVerbose(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s  (%s, %s, %s)\n",
		num, checkbox(task), normalizeTitle(task.Title), task.ID, task.Status, task.Priority)
}

// FormatListHeader formats a list section header with the task count.
func FormatListHeader(w io.Writer, listID string, count int) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%s (%d)\n", listID, count)
	fmt.Fprintln(w, ListSeparator)
}

// FormatList writes a header followed by every task, numbered from 1.
func FormatList(w io.Writer, listID string, tasks []service.Task, verbose bool) {
	FormatListHeader(w, listID, len(tasks))
	for i, task := range tasks {
		if verbose {
			FormatTaskVerbose(w, i+1, task)
		} else {
			FormatTask(w, i+1, task)
		}
	}
}

func checkbox(task service.Task) string {
	if task.Completed() {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
