package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/tapetrack/tapectl/internal/client/api"
	"github.com/tapetrack/tapectl/internal/common"
	"github.com/tapetrack/tapectl/internal/passwordx"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// login prompts for credentials and authenticates. On success the session
// is fully established (token persisted, profile loaded) and navigation
// moves to the dashboard.
func (a *App) login(ctx context.Context) {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	fmt.Printf("Welcome, %s!\n", a.session.User().Name)
	a.navigate("/dashboard")
}

func (a *App) logout(ctx context.Context) {
	a.session.Logout(ctx)
	a.navigate("/")
	fmt.Println("Logged out.")
}

func (a *App) whoami(ctx context.Context) {
	if !a.session.HasToken() {
		fmt.Println("Not logged in.")
		return
	}
	if a.session.User() == nil {
		if ok, err := a.session.CheckAuth(ctx); err != nil || !ok {
			fmt.Println("Session could not be verified.")
			return
		}
	}
	u := a.session.User()
	fmt.Printf("%s <%s> role=%s\n", u.Name, u.Email, u.Role)
}

// passwd validates a new password locally before sending it, so the user
// gets per-rule feedback instead of a backend rejection.
func (a *App) passwd(ctx context.Context) {
	if !a.session.HasToken() {
		fmt.Println("Please log in first.")
		return
	}
	newPassword, err := getPassword(os.Stdout, "New password")
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	defer common.WipeByteArray(newPassword)

	result := passwordx.Validate(string(newPassword))
	fmt.Println("Password strength:", result.Strength)
	if !result.Valid {
		for _, detail := range result.Errors {
			fmt.Println("  -", detail)
		}
		fmt.Println("Password requirements:")
		for _, req := range passwordx.Requirements() {
			fmt.Println("  *", req.Text)
		}
		return
	}

	confirm, err := getPassword(os.Stdout, "Repeat password")
	if err != nil {
		fmt.Println("Input error:", err)
		return
	}
	defer common.WipeByteArray(confirm)
	if string(newPassword) != string(confirm) {
		fmt.Println("Passwords do not match.")
		return
	}

	body, err := json.Marshal(map[string]string{"password": string(newPassword)})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	resp, err := a.api.Do(ctx, http.MethodPut, "/user/profile", &api.Options{Body: body})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if !resp.OK() {
		fmt.Println("Password change failed:", api.ParseError(resp, "request failed"))
		return
	}
	fmt.Println("Password updated.")
}
