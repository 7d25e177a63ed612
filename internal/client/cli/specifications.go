package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tapetrack/tapectl/internal/client/models"
	"github.com/tapetrack/tapectl/internal/client/services"
)

func (a *App) listSpecs(ctx context.Context, args []string) {
	var filters models.SpecificationFilters
	if len(args) > 0 {
		filters.Status = args[0]
	}
	items, err := a.specs.List(ctx, filters)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(items) == 0 {
		fmt.Println("No specifications.")
		return
	}
	for _, s := range items {
		fmt.Printf("%-20s %-30s v%-8s %-24s %s\n", s.ID, s.Name, s.Version, s.Status, s.UploadedBy)
	}
}

func (a *App) showSpec(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: spec <id>")
		return
	}
	s, err := a.specs.Get(ctx, args[0])
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("ID:       %s\n", s.ID)
	fmt.Printf("Name:     %s\n", s.Name)
	fmt.Printf("Version:  %s\n", s.Version)
	fmt.Printf("Status:   %s\n", s.Status)
	fmt.Printf("File:     %s (%d bytes)\n", s.FileName, s.FileSize)
	fmt.Printf("Uploaded: %s by %s\n", s.UploadedOn, s.UploadedBy)
	if s.AssignedTo != "" {
		fmt.Printf("Assigned: %s\n", s.AssignedTo)
	}
}

func (a *App) uploadSpec(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: upload <file>")
		return
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println("Error reading file:", err)
		return
	}
	name, err := getSimpleText(a.reader, "Specification name", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	version, err := getSimpleText(a.reader, "Version", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}

	spec, err := a.specs.Upload(ctx, services.UploadParams{
		Name:     name,
		Version:  version,
		FileName: filepath.Base(args[0]),
		File:     data,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Uploaded specification %s (status %s)\n", spec.ID, spec.Status)
}

func (a *App) approveSpec(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: spec-approve <id>")
		return
	}
	if err := a.specs.Approve(ctx, args[0]); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Approved.")
}

func (a *App) rejectSpec(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: spec-reject <id>")
		return
	}
	reason, err := getSimpleText(a.reader, "Rejection reason", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	if err := a.specs.Reject(ctx, args[0], reason); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Rejected.")
}

func (a *App) deleteSpec(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: spec-delete <id>")
		return
	}
	if err := a.specs.Delete(ctx, args[0]); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Deleted.")
}

func (a *App) downloadSpec(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: download <id>")
		return
	}
	filename, data, err := a.specs.Download(ctx, args[0])
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
