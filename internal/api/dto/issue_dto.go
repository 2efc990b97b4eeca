package dto

import (
	"time"

	"github.com/civnet/issue-service/internal/domain"
)

// CreateIssueRequest payload.
type CreateIssueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateStatusRequest payload for admin transitions.
type UpdateStatusRequest struct {
	Status        string  `json:"status"`
	AdminResponse *string `json:"admin_response"`
}

// IssueResponse is the full issue view.
type IssueResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Category      domain.IssueCategory `json:"category"`
	Status        domain.IssueStatus   `json:"status"`
	AdminResponse *string              `json:"admin_response,omitempty"`
	CitizenID     string               `json:"citizen_id"`
	RespondedByID *string              `json:"responded_by_id,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	ResolvedAt    *time.Time           `json:"resolved_at,omitempty"`
}

// IssueStatsResponse totals per lifecycle state.
type IssueStatsResponse struct {
	Submitted  int64 `json:"submitted"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Total      int64 `json:"total"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse represents one thread entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issue_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
