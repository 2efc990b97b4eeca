package domain

import (
	"fmt"
	"strings"
	"time"
)

// IssueStatus enumerates lifecycle states for reported issues.
type IssueStatus string

const (
	IssueStatusSubmitted  IssueStatus = "SUBMITTED"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusResolved   IssueStatus = "RESOLVED"
)

// ParseIssueStatus validates an external status string. Unknown values are
// rejected rather than stored verbatim.
func ParseIssueStatus(raw string) (IssueStatus, error) {
	switch IssueStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case IssueStatusSubmitted:
		return IssueStatusSubmitted, nil
	case IssueStatusInProgress:
		return IssueStatusInProgress, nil
	case IssueStatusResolved:
		return IssueStatusResolved, nil
	}
	return "", fmt.Errorf("unknown issue status %q", raw)
}

// IssueCategory classifies what kind of municipal problem is reported.
type IssueCategory string

const (
	CategoryRoads    IssueCategory = "ROADS"
	CategoryLighting IssueCategory = "LIGHTING"
	CategoryWaste    IssueCategory = "WASTE"
	CategoryOther    IssueCategory = "OTHER"
)

// ParseIssueCategory validates an external category string.
func ParseIssueCategory(raw string) (IssueCategory, error) {
	switch IssueCategory(strings.ToUpper(strings.TrimSpace(raw))) {
	case CategoryRoads:
		return CategoryRoads, nil
	case CategoryLighting:
		return CategoryLighting, nil
	case CategoryWaste:
		return CategoryWaste, nil
	case CategoryOther:
		return CategoryOther, nil
	}
	return "", fmt.Errorf("unknown issue category %q", raw)
}

// Issue is the aggregate for citizen reports. AdminResponse, RespondedByID
// and ResolvedAt are only ever written by status transitions.
type Issue struct {
	ID            string
	Title         string
	Description   string
	Category      IssueCategory
	Status        IssueStatus
	AdminResponse *string
	CitizenID     string
	RespondedByID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ResolvedAt    *time.Time
}

// StatusCounts summarizes issues per lifecycle state for dashboards.
type StatusCounts struct {
	Submitted  int64
	InProgress int64
	Resolved   int64
}

// Total returns the number of issues across all states.
func (c StatusCounts) Total() int64 {
	return c.Submitted + c.InProgress + c.Resolved
}
