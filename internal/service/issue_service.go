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

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

// IssueService coordinates issue creation, listing and the status lifecycle.
type IssueService struct {
	issues     repository.IssueRepository
	dispatcher events.Dispatcher
}

// IssueCreateInput describes issue creation payload.
type IssueCreateInput struct {
	Title       string
	Description string
	Category    domain.IssueCategory
}

// IssueListInput describes listing parameters before policy scoping.
type IssueListInput struct {
	OwnerID  *string
	Status   *domain.IssueStatus
	Category *domain.IssueCategory
	SortBy   repository.IssueSort
	SortAsc  bool
	Limit    int
	Offset   int
}

// TransitionInput describes a status transition request.
type TransitionInput struct {
	NewStatus     domain.IssueStatus
	AdminResponse *string
}

// NewIssueService constructs the service.
func NewIssueService(issues repository.IssueRepository, dispatcher events.Dispatcher) *IssueService {
	return &IssueService{issues: issues, dispatcher: dispatcher}
}

// Create files a new issue owned by the principal. Status always starts at
// SUBMITTED regardless of input.
func (s *IssueService) Create(ctx context.Context, principal *auth.Principal, input IssueCreateInput) (*domain.Issue, error) {
	if !auth.Allows(principal.Role, auth.ActionCreateIssue) {
		return nil, apperrors.NewForbidden("not allowed to create issues")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	switch {
	case title == "":
		return nil, apperrors.NewValidationError("title required", nil)
	case len(title) > maxTitleLength:
		return nil, apperrors.NewValidationError("title too long", map[string]any{"max": maxTitleLength})
	case description == "":
		return nil, apperrors.NewValidationError("description required", nil)
	case len(description) > maxDescriptionLength:
		return nil, apperrors.NewValidationError("description too long", map[string]any{"max": maxDescriptionLength})
	}
	if _, err := domain.ParseIssueCategory(string(input.Category)); err != nil {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}

	issue := &domain.Issue{
		Title:       title,
		Description: description,
		Category:    input.Category,
		Status:      domain.IssueStatusSubmitted,
		CitizenID:   principal.ID,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		ActorID: principal.ID,
		Payload: events.IssueCreatedPayload{
			Title:    issue.Title,
			Category: issue.Category,
		},
	})
	return issue, nil
}

// Get fetches one issue. Citizens may only see their own; staff see any.
func (s *IssueService) Get(ctx context.Context, principal *auth.Principal, issueID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return nil, apperrors.NewStoreFailure(err)
	}
	if !auth.AllowsOwned(principal.Role, auth.ActionReadAllIssues, auth.ActionReadOwnIssues, principal.ID, issue.CitizenID) {
		return nil, apperrors.NewForbidden("not allowed to view this issue")
	}
	return issue, nil
}

// List returns a materialized, ordered collection of issues. Principals
// without the read-all grant are always scoped to their own issues no
// matter what filter they pass.
func (s *IssueService) List(ctx context.Context, principal *auth.Principal, input IssueListInput) ([]domain.Issue, error) {
	filter := repository.IssueFilter{
		OwnerID:  input.OwnerID,
		Status:   input.Status,
		Category: input.Category,
		SortBy:   input.SortBy,
		SortAsc:  input.SortAsc,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	if !auth.Allows(principal.Role, auth.ActionReadAllIssues) {
		if !auth.Allows(principal.Role, auth.ActionReadOwnIssues) {
			return nil, apperrors.NewForbidden("not allowed to list issues")
		}
		ownerID := principal.ID
		filter.OwnerID = &ownerID
	}

	issues, err := s.issues.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	if issues == nil {
		issues = []domain.Issue{}
	}
	return issues, nil
}

// Transition moves an issue to a new lifecycle state. Any of the three
// states is reachable from any other by an authorized principal; the
// operation is an authorized "set status to X", not a guarded workflow.
// RESOLVED stamps ResolvedAt, leaving RESOLVED clears it, and the acting
// principal is always recorded as the responder.
func (s *IssueService) Transition(ctx context.Context, principal *auth.Principal, issueID string, input TransitionInput) (*domain.Issue, error) {
	// Policy is checked before the lookup so an unprivileged caller cannot
	// probe which issue IDs exist.
	if !auth.Allows(principal.Role, auth.ActionTransitionIssue) {
		return nil, apperrors.NewForbidden("not allowed to transition issues")
	}

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return nil, apperrors.NewStoreFailure(err)
	}

	newStatus, err := domain.ParseIssueStatus(string(input.NewStatus))
	if err != nil {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": input.NewStatus})
	}

	oldStatus := issue.Status
	issue.Status = newStatus
	if newStatus == domain.IssueStatusResolved {
		now := time.Now()
		issue.ResolvedAt = &now
	} else {
		issue.ResolvedAt = nil
	}
	responderID := principal.ID
	issue.RespondedByID = &responderID
	if input.AdminResponse != nil {
		response := strings.TrimSpace(*input.AdminResponse)
		issue.AdminResponse = &response
	}

	if err := s.issues.Update(ctx, issue); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": issueID})
		}
		return nil, apperrors.NewStoreFailure(err)
	}

	payload := events.IssueStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
	if issue.AdminResponse != nil {
		payload.AdminResponse = *issue.AdminResponse
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueStatusChanged,
		IssueID: issue.ID,
		ActorID: principal.ID,
		Payload: payload,
	})
	return issue, nil
}

// Stats returns issue totals per lifecycle state for staff dashboards.
func (s *IssueService) Stats(ctx context.Context, principal *auth.Principal) (domain.StatusCounts, error) {
	if !auth.Allows(principal.Role, auth.ActionReadAllIssues) {
		return domain.StatusCounts{}, apperrors.NewForbidden("not allowed to view issue stats")
	}
	counts, err := s.issues.CountByStatus(ctx)
	if err != nil {
		return domain.StatusCounts{}, apperrors.NewStoreFailure(err)
	}
	return counts, nil
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
