package events

import (
	"time"

	"github.com/civnet/issue-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventCommentAdded       EventType = "comment_added"
	EventAdminRoleChanged   EventType = "admin_role_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id,omitempty"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Title    string               `json:"title"`
	Category domain.IssueCategory `json:"category"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus     domain.IssueStatus `json:"old_status"`
	NewStatus     domain.IssueStatus `json:"new_status"`
	AdminResponse string             `json:"admin_response,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID      string `json:"comment_id"`
	AuthorID       string `json:"author_id"`
	ContentPreview string `json:"content_preview"`
}

// AdminRoleChangedPayload payload.
type AdminRoleChangedPayload struct {
	UserID  string      `json:"user_id"`
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}
