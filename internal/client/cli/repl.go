package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

func (a *App) repl(ctx context.Context, scanner *bufio.Scanner) {
	for {
		fmt.Printf("tapectl %s> ", a.getStatus())
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()

		case "go":
			if len(args) == 0 {
				printlnFn("Usage: go <path>")
				continue
			}
			a.navigate(args[0])

		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "whoami":
			a.whoami(ctx)
		case "passwd":
			a.passwd(ctx)

		case "projects":
			a.listProjects(ctx)
		case "project":
			a.showProject(ctx, args)
		case "project-create":
			a.createProject(ctx)
		case "project-delete":
			a.deleteProject(ctx, args)
		case "link":
			a.linkSpec(ctx, args)
		case "unlink":
			a.unlinkSpec(ctx, args)
		case "linked":
			a.showLinkedContent(ctx, args)

		case "specs":
			a.listSpecs(ctx, args)
		case "spec":
			a.showSpec(ctx, args)
		case "upload":
			a.uploadSpec(ctx, args)
		case "spec-approve":
			a.approveSpec(ctx, args)
		case "spec-reject":
			a.rejectSpec(ctx, args)
		case "spec-delete":
			a.deleteSpec(ctx, args)
		case "download":
			a.downloadSpec(ctx, args)

		case "checklists":
			a.listChecklists(ctx, args)
		case "checklist":
			a.showChecklist(ctx, args)
		case "checklist-create":
			a.createChecklist(ctx)
		case "checklist-delete":
			a.deleteChecklist(ctx, args)
		case "assign":
			a.assignChecklist(ctx, args)
		case "checklist-approve":
			a.approveChecklist(ctx, args)
		case "export":
			a.exportChecklist(ctx, args)

		case "companies":
			a.listCompanies(ctx)
		case "company-create":
			a.createCompany(ctx)
		case "company-delete":
			a.deleteCompany(ctx, args)

		case "vendors":
			a.listVendors(ctx)
		case "vendor-create":
			a.createVendor(ctx)
		case "vendor-delete":
			a.deleteVendor(ctx, args)

		case "branding":
			a.showBranding(ctx)
		case "branding-set":
			a.updateBranding(ctx)

		case "metadata":
			a.showMetadata(ctx)
		case "cache-stats":
			a.showCacheStats()

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) help() {
	if a.session.HasToken() {
		printlnFn("Navigation: go <path>")
		printlnFn("Session:    whoami, passwd, logout")
		printlnFn("Projects:   projects, project <id>, project-create, project-delete <id>, link <project> <spec>, unlink <project> <spec>, linked <project>")
		printlnFn("Specs:      specs [status], spec <id>, upload <file>, spec-approve <id>, spec-reject <id>, spec-delete <id>, download <id>")
		printlnFn("Checklists: checklists [templates], checklist <id>, checklist-create, checklist-delete <id>, assign <id> <user...>, checklist-approve <id>, export <id>")
		printlnFn("Admin:      companies, company-create, company-delete <id>, vendors, vendor-create, vendor-delete <id>, branding, branding-set")
		printlnFn("Misc:       metadata, cache-stats, exit")
	} else {
		printlnFn("Available commands: login, go <path>, help, exit")
	}
}
