// Package tasks is the task-list tool: it parses list/add/done/remove/clear/
// next commands straight out of the prompt and keeps the list in a JSON file.
package tasks

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"daybrief/internal/agent"
	"daybrief/internal/observability"
)

const usageHint = "Try: 'add buy milk', 'list', 'done 2', 'remove 3', 'clear', or 'next'."

var (
	listCmdRe   = regexp.MustCompile(`\b(list|show|tasks)\b`)
	addCmdRe    = regexp.MustCompile(`\b(add|todo|task|remember|note|create|append)\b`)
	doneCmdRe   = regexp.MustCompile(`\b(done|complete|finish|close|mark\s+\d+\s+done)\b`)
	removeCmdRe = regexp.MustCompile(`\b(remove|delete)\b`)
	clearCmdRe  = regexp.MustCompile(`\A\s*clear\s*\z`)
	nextCmdRe   = regexp.MustCompile(`\bnext\b`)

	doneIdxRe     = regexp.MustCompile(`(?i)\b(?:done|complete|finish|close)\s+(\d+)\b`)
	markDoneIdxRe = regexp.MustCompile(`(?i)\bmark\s+(\d+)\s+done\b`)
	removeIdxRe   = regexp.MustCompile(`(?i)\b(?:remove|delete)\s+(\d+)\b`)
)

type Tool struct {
	store *Store
	log   *observability.Logger
}

func New(dataDir string) (*Tool, error) {
	store, err := NewStore(dataDir)
	if err != nil {
		return nil, err
	}
	return &Tool{store: store, log: observability.Component("tools.tasks")}, nil
}

func (t *Tool) Name() string { return "tasks" }

func (t *Tool) Run(ctx context.Context, req agent.Request) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return usageHint, nil
	}

	lowered := strings.ToLower(prompt)
	switch {
	case listCmdRe.MatchString(lowered):
		return t.list()
	case addCmdRe.MatchString(lowered):
		return t.add(ctx, prompt)
	case doneCmdRe.MatchString(lowered):
		return t.done(prompt)
	case removeCmdRe.MatchString(lowered):
		return t.remove(prompt)
	case clearCmdRe.MatchString(lowered):
		return t.clear(ctx)
	case nextCmdRe.MatchString(lowered):
		return t.next()
	default:
		// anything else reads as something to remember
		return t.add(ctx, prompt)
	}
}

func (t *Tool) list() (string, error) {
	all := t.store.Load()
	var open, completed []Task
	for _, task := range all {
		if task.Done {
			completed = append(completed, task)
		} else {
			open = append(open, task)
		}
	}

	text := formatList(open)
	if len(completed) > 0 {
		names := make([]string, 0, 5)
		for _, task := range completed {
			if len(names) == 5 {
				break
			}
			names = append(names, task.Title)
		}
		text += fmt.Sprintf("\n\nCompleted (%d): %s", len(completed), strings.Join(names, ", "))
	}
	return text, nil
}

func (t *Tool) add(ctx context.Context, prompt string) (string, error) {
	titles := extractTitles(prompt)
	if len(titles) == 0 {
		return "Tell me what to add, e.g. 'add buy milk; call mom'.", nil
	}

	prio := parsePriority(prompt)
	due := parseDue(prompt)
	now := time.Now().UTC()

	err := t.store.Update(func(tasks []Task) []Task {
		for _, title := range titles {
			tasks = append(tasks, Task{
				ID:       uuid.NewString(),
				Title:    title,
				Priority: prio,
				Due:      due,
				Created:  now,
				Updated:  now,
			})
		}
		return tasks
	})
	if err != nil {
		return "", err
	}

	t.log.Info(ctx, "tasks added", "count", len(titles))
	preview := strings.Join(titles[:min(3, len(titles))], "; ")
	if len(titles) > 3 {
		preview += "..."
	}
	return fmt.Sprintf("Added %d task(s): %s", len(titles), preview), nil
}

func (t *Tool) done(prompt string) (string, error) {
	m := doneIdxRe.FindStringSubmatch(prompt)
	if m == nil {
		m = markDoneIdxRe.FindStringSubmatch(prompt)
	}
	if m == nil {
		return "Specify which task: e.g. 'done 2'.", nil
	}
	idx, _ := strconv.Atoi(m[1])

	var title string
	found := false
	err := t.store.Update(func(tasks []Task) []Task {
		i := normalizeIndex(idx, len(tasks))
		if i < 0 {
			return tasks
		}
		found = true
		tasks[i].Done = true
		tasks[i].Updated = time.Now().UTC()
		title = tasks[i].Title
		return tasks
	})
	if err != nil {
		return "", err
	}
	if !found {
		return fmt.Sprintf("Task #%d not found.", idx), nil
	}
	return fmt.Sprintf("Marked #%d as done: %s", idx, title), nil
}

func (t *Tool) remove(prompt string) (string, error) {
	m := removeIdxRe.FindStringSubmatch(prompt)
	if m == nil {
		return "Specify which task to remove: e.g. 'remove 3'.", nil
	}
	idx, _ := strconv.Atoi(m[1])

	var title string
	found := false
	err := t.store.Update(func(tasks []Task) []Task {
		i := normalizeIndex(idx, len(tasks))
		if i < 0 {
			return tasks
		}
		found = true
		title = tasks[i].Title
		return append(tasks[:i], tasks[i+1:]...)
	})
	if err != nil {
		return "", err
	}
	if !found {
		return fmt.Sprintf("Task #%d not found.", idx), nil
	}
	return fmt.Sprintf("Removed #%d: %s", idx, title), nil
}

func (t *Tool) clear(ctx context.Context) (string, error) {
	if err := t.store.Save(nil); err != nil {
		return "", err
	}
	t.log.Info(ctx, "tasks cleared")
	return "Cleared all tasks.", nil
}

func (t *Tool) next() (string, error) {
	var open []Task
	for _, task := range t.store.Load() {
		if !task.Done {
			open = append(open, task)
		}
	}
	if len(open) == 0 {
		return "No open tasks.", nil
	}

	sort.SliceStable(open, func(i, j int) bool {
		pi, pj := open[i].Priority, open[j].Priority
		if pi == 0 {
			pi = 9
		}
		if pj == 0 {
			pj = 9
		}
		if pi != pj {
			return pi < pj
		}
		return open[i].Created.Before(open[j].Created)
	})

	task := open[0]
	prio := "p?"
	if task.Priority != 0 {
		prio = fmt.Sprintf("p%d", task.Priority)
	}
	due := ""
	if task.Due != "" {
		due = fmt.Sprintf(", due %s", task.Due)
	}
	return fmt.Sprintf("Next: %s (%s%s)", task.Title, prio, due), nil
}

func formatList(tasks []Task) string {
	if len(tasks) == 0 {
		return "Your list is empty."
	}
	lines := make([]string, 0, len(tasks))
	for i, task := range tasks {
		status := "•"
		if task.Done {
			status = "✓"
		}
		title := task.Title
		if title == "" {
			title = "(untitled)"
		}
		prio := ""
		if task.Priority != 0 {
			prio = fmt.Sprintf(" [p%d]", task.Priority)
		}
		due := ""
		if task.Due != "" {
			due = fmt.Sprintf(" (due %s)", task.Due)
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s%s%s", i+1, status, title, prio, due))
	}
	return "Tasks:\n" + strings.Join(lines, "\n")
}
