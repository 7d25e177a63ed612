package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/tapetrack/tapectl/internal/client/models"
)

func (a *App) listProjects(ctx context.Context) {
	items, err := a.projects.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(items) == 0 {
		fmt.Println("No projects.")
		return
	}
	for _, p := range items {
		fmt.Printf("%-20s %-30s %-6s %-10s %s\n", p.ID, p.Name, p.Platform, p.Status, p.EDATool)
	}
}

func (a *App) showProject(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: project <id>")
		return
	}
	p, err := a.projects.Get(ctx, args[0])
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("ID:        %s\n", p.ID)
	fmt.Printf("Name:      %s\n", p.Name)
	fmt.Printf("Platform:  %s\n", p.Platform)
	fmt.Printf("EDA tool:  %s\n", p.EDATool)
	fmt.Printf("Type:      %s\n", p.Type)
	fmt.Printf("Status:    %s\n", p.Status)
	fmt.Printf("Company:   %d\n", p.CompanyID)
	if p.Description != "" {
		fmt.Printf("About:     %s\n", p.Description)
	}
}

func (a *App) createProject(ctx context.Context) {
	name, err := getSimpleText(a.reader, "Project name", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	platform, err := getSimpleText(a.reader, "Platform (ASIC/FPGA/SoC)", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	edaTool, err := getSimpleText(a.reader, "EDA tool", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	companyRaw, err := getSimpleText(a.reader, "Company ID", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	companyID, err := strconv.ParseInt(companyRaw, 10, 64)
	if err != nil {
		fmt.Println("Company ID must be a number.")
		return
	}

	p, err := a.projects.Create(ctx, models.CreateProjectParams{
		Name:      name,
		Platform:  platform,
		EDATool:   edaTool,
		Type:      "TapeOut",
		Status:    models.ProjectPlanning,
		CompanyID: companyID,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Created project %s\n", p.ID)
}

func (a *App) deleteProject(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: project-delete <id>")
		return
	}
	if err := a.projects.Delete(ctx, args[0]); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Deleted.")
}

func (a *App) linkSpec(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: link <project-id> <spec-id>")
		return
	}
	if err := a.projects.LinkSpec(ctx, args[0], args[1]); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Linked.")
}

func (a *App) unlinkSpec(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: unlink <project-id> <spec-id>")
		return
	}
	if err := a.projects.UnlinkSpec(ctx, args[0], args[1]); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Unlinked.")
}

func (a *App) showLinkedContent(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: linked <project-id>")
		return
	}
	lc, err := a.projects.LinkedContent(ctx, args[0])
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Specifications (%d):\n", len(lc.Specs))
	for _, item := range lc.Specs {
		fmt.Printf("  %-20s %s\n", item.ID, item.Name)
	}
	fmt.Printf("Checklists (%d):\n", len(lc.Checklists))
	for _, item := range lc.Checklists {
		fmt.Printf("  %-20s %s\n", item.ID, item.Name)
	}
	fmt.Printf("Lint results (%d):\n", len(lc.SpecLints))
	for _, item := range lc.SpecLints {
		fmt.Printf("  %-20s %s\n", item.ID, item.FileName)
	}
}
