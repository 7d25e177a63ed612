package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/tapetrack/tapectl/internal/client/models"
)

func (a *App) listCompanies(ctx context.Context) {
	items, err := a.companies.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, c := range items {
		fmt.Printf("%-8d %-30s %s\n", c.ID, c.Name, c.Status)
	}
}

func (a *App) createCompany(ctx context.Context) {
	name, err := getSimpleText(a.reader, "Company name", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	c, err := a.companies.Create(ctx, models.CreateCompanyParams{Name: name})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Created company #%d\n", c.ID)
}

func (a *App) deleteCompany(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: company-delete <id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Company ID must be a number.")
		return
	}
	if err := a.companies.Delete(ctx, id); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Deleted.")
}

func (a *App) listVendors(ctx context.Context) {
	items, err := a.vendors.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, v := range items {
		fmt.Printf("%-20s %-30s %-10s %s\n", v.ID, v.Name, v.Type, v.Status)
	}
}

func (a *App) createVendor(ctx context.Context) {
	name, err := getSimpleText(a.reader, "Vendor name", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	kind, err := getSimpleText(a.reader, "Vendor type (foundry/IP/EDA)", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	v, err := a.vendors.Create(ctx, models.VendorParams{Name: name, Type: kind, Status: models.VendorPending})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Created vendor %s\n", v.ID)
}

func (a *App) deleteVendor(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: vendor-delete <id>")
		return
	}
	if err := a.vendors.Delete(ctx, args[0]); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Deleted.")
}

func (a *App) showBranding(ctx context.Context) {
	b, err := a.branding.Load(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Company:   %s\n", b.CompanyName)
	fmt.Printf("Logo:      %s\n", b.LogoURL)
	fmt.Printf("Primary:   %s\n", b.PrimaryColor)
	fmt.Printf("Secondary: %s\n", b.SecondaryColor)
	fmt.Printf("Footer:    %s\n", b.FooterText)
}

func (a *App) updateBranding(ctx context.Context) {
	name, err := getSimpleText(a.reader, "Company name", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	primary, err := getSimpleText(a.reader, "Primary color (hex)", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	if err := a.branding.Update(ctx, models.BrandingSettings{CompanyName: name, PrimaryColor: primary}); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Branding updated.")
}

func (a *App) showMetadata(ctx context.Context) {
	enums, err := a.metadata.Load(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Platforms:       ", enums.Platforms)
	fmt.Println("EDA tools:       ", enums.EDATools)
	fmt.Println("Project types:   ", enums.ProjectTypes)
	fmt.Println("Project statuses:", enums.ProjectStatuses)
}

func (a *App) showCacheStats() {
	stats := a.cache.Stats()
	fmt.Printf("Cached entries: %d\n", stats.Size)
	for _, key := range stats.Keys {
		fmt.Println("  ", key)
	}
}
