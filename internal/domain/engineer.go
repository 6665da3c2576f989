package domain

import (
	"fmt"
	"strings"
)

// GroupType is a field-engineer department.
type GroupType string

const (
	GroupUPS  GroupType = "ups"
	GroupLAN  GroupType = "lan"
	GroupCCTV GroupType = "cctv"
)

// AllGroups returns the fixed set of departments. Stats responses always
// include every group, even when a department has no engineers.
func AllGroups() []GroupType {
	return []GroupType{GroupUPS, GroupLAN, GroupCCTV}
}

// ParseGroup normalizes a raw group string and reports whether it names a
// known department.
func ParseGroup(raw string) (GroupType, bool) {
	g := GroupType(strings.ToLower(strings.TrimSpace(raw)))
	switch g {
	case GroupUPS, GroupLAN, GroupCCTV:
		return g, true
	}
	return "", false
}

// Status is an engineer's presence status.
type Status string

const (
	StatusOnline  Status = "Online"
	StatusOffline Status = "Offline"
)

// Engineer represents a field engineer.
type Engineer struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	EngineerID string    `json:"engineer_id"`
	GroupType  GroupType `json:"group_type"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Phone      string    `json:"phone"`
	Status     Status    `json:"status"`
}

// SeriesPrefix returns the series-identifier prefix for a department,
// e.g. "ENG-UPS".
func SeriesPrefix(g GroupType) string {
	return "ENG-" + strings.ToUpper(string(g))
}

// FormatSeriesID builds a series identifier like "ENG-UPS-001". Sequences
// are zero-padded to at least three digits.
func FormatSeriesID(g GroupType, seq int) string {
	return fmt.Sprintf("%s-%03d", SeriesPrefix(g), seq)
}

// GroupStats holds the derived per-department counters.
type GroupStats struct {
	Total  int `json:"total"`
	Online int `json:"online"`
}

// Stats maps every department to its counters.
type Stats map[GroupType]GroupStats

// AddEngineerRequest is the registration payload.
type AddEngineerRequest struct {
	Name      string `json:"name" binding:"required"`
	GroupType string `json:"group_type" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Phone     string `json:"phone"`
}

// LoginRequest is the engineer login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LogoutRequest is the engineer logout payload.
type LogoutRequest struct {
	EngineerID uint `json:"engineer_id" binding:"required"`
}

// LoginResponse is the flattened login result.
type LoginResponse struct {
	Success    bool   `json:"success"`
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	EngineerID string `json:"engineer_id"`
	Email      string `json:"email"`
}
