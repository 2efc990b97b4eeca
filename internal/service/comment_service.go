package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/civnet/issue-service/internal/auth"
	"github.com/civnet/issue-service/internal/domain"
	"github.com/civnet/issue-service/internal/events"
	"github.com/civnet/issue-service/internal/repository"
	apperrors "github.com/civnet/issue-service/pkg/util/errorutil"
)

const maxCommentLength = 2000

// CommentService manages the append-only remark thread on an issue.
type CommentService struct {
	comments   repository.CommentRepository
	issues     repository.IssueRepository
	dispatcher events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, issues repository.IssueRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, issues: issues, dispatcher: dispatcher}
}

// Add appends a comment to an existing issue. Any authenticated principal
// may comment; the issue's status does not matter.
func (s *CommentService) Add(ctx context.Context, principal *auth.Principal, issueID, content string) (*domain.Comment, error) {
	if !auth.Allows(principal.Role, auth.ActionPostComment) {
		return nil, apperrors.NewForbidden("not allowed to comment")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}
	if len(content) > maxCommentLength {
		return nil, apperrors.NewValidationError("content too long", map[string]any{"max": maxCommentLength})
	}

	if _, err := s.issues.GetByID(ctx, issueID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return nil, apperrors.NewStoreFailure(err)
	}

	comment := &domain.Comment{
		IssueID:  issueID,
		AuthorID: principal.ID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCommentAdded,
			IssueID:   issueID,
			ActorID:   principal.ID,
			Timestamp: time.Now(),
			Payload: events.CommentAddedPayload{
				CommentID:      comment.ID,
				AuthorID:       comment.AuthorID,
				ContentPreview: contentPreview(comment.Content, 120),
			},
		})
	}
	return comment, nil
}

// List returns the issue's comments, newest first.
func (s *CommentService) List(ctx context.Context, principal *auth.Principal, issueID string) ([]domain.Comment, error) {
	if _, err := s.issues.GetByID(ctx, issueID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return nil, apperrors.NewStoreFailure(err)
	}

	comments, err := s.comments.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

func contentPreview(content string, max int) string {
	content = strings.TrimSpace(content)
	if len(content) <= max {
		return content
	}
	if max <= 3 {
		return content[:max]
	}
	return content[:max-3] + "..."
}
