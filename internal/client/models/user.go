// Package models defines the client-side domain records for TapeTrack.
//
// Each record has one canonical camelCase shape in memory; snake_case
// exists only in the JSON tags, so the wire format is converted exactly
// once at the serialization boundary.
package models

// Role is a user's role in the tape-out workflow.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLead     Role = "lead"
	RoleEngineer Role = "engineer"
	RoleManager  Role = "manager"
)

// UserProfile is the authenticated user's profile as served by /auth/me.
// It is never mutated locally except by wholesale replacement.
type UserProfile struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}
