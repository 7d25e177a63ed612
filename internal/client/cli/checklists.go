package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/tapetrack/tapectl/internal/client/models"
)

func parseChecklistID(args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		fmt.Println("Usage:", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Checklist ID must be a number.")
		return 0, false
	}
	return id, true
}

func (a *App) listChecklists(ctx context.Context, args []string) {
	templatesOnly := len(args) > 0 && args[0] == "templates"
	items, err := a.checklists.List(ctx, templatesOnly)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(items) == 0 {
		fmt.Println("No checklists.")
		return
	}
	for _, c := range items {
		kind := "checklist"
		if c.IsTemplate {
			kind = "template"
		}
		fmt.Printf("%-8d %-30s %-10s %d items\n", c.ID, c.Name, kind, len(c.Items))
	}
}

func (a *App) showChecklist(ctx context.Context, args []string) {
	id, ok := parseChecklistID(args, "checklist <id>")
	if !ok {
		return
	}
	c, err := a.checklists.Get(ctx, id)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("#%d %s (%s)\n", c.ID, c.Name, c.Status)
	for i, item := range c.Items {
		marker := " "
		if item.Required {
			marker = "*"
		}
		fmt.Printf("  %2d. [%s] %s\n", i+1, marker, item.Text)
	}
	if len(c.AssignedTo) > 0 {
		fmt.Println("Assigned to:", c.AssignedTo)
	}
}

func (a *App) createChecklist(ctx context.Context) {
	name, err := getSimpleText(a.reader, "Checklist name", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}

	var items []models.ChecklistItem
	fmt.Println("Enter items, one per line (empty line to finish). Prefix with '!' for required.")
	for {
		line, err := getSimpleText(a.reader, "", os.Stdout)
		if err != nil || line == "" {
			break
		}
		required := false
		if line[0] == '!' {
			required = true
			line = line[1:]
		}
		items = append(items, models.ChecklistItem{Text: line, Required: required})
	}

	c, err := a.checklists.Create(ctx, models.ChecklistParams{Name: name, Items: items})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Created checklist #%d\n", c.ID)
}

func (a *App) deleteChecklist(ctx context.Context, args []string) {
	id, ok := parseChecklistID(args, "checklist-delete <id>")
	if !ok {
		return
	}
	if err := a.checklists.Delete(ctx, id); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Deleted.")
}

func (a *App) assignChecklist(ctx context.Context, args []string) {
	id, ok := parseChecklistID(args, "assign <id> <user...>")
	if !ok {
		return
	}
	if len(args) < 2 {
		fmt.Println("Usage: assign <id> <user...>")
		return
	}
	if err := a.checklists.Assign(ctx, id, args[1:]); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Assigned.")
}

func (a *App) approveChecklist(ctx context.Context, args []string) {
	id, ok := parseChecklistID(args, "checklist-approve <id>")
	if !ok {
		return
	}
	if err := a.checklists.Approve(ctx, id); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Approved.")
}

func (a *App) exportChecklist(ctx context.Context, args []string) {
	id, ok := parseChecklistID(args, "export <id>")
	if !ok {
		return
	}
	filename, data, err := a.checklists.Export(ctx, id)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		fmt.Println("Error writing file:", err)
		return
	}
	fmt.Printf("Saved %s (%d bytes)\n", filename, len(data))
}
