package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civnet/issue-service/internal/api/dto"
	"github.com/civnet/issue-service/internal/auth"
	"github.com/civnet/issue-service/internal/domain"
	"github.com/civnet/issue-service/internal/repository"
	"github.com/civnet/issue-service/internal/service"
	apperrors "github.com/civnet/issue-service/pkg/util/errorutil"
)

// IssuesHandler manages issue and comment endpoints.
type IssuesHandler struct {
	issues   *service.IssueService
	comments *service.CommentService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService, commentService *service.CommentService) *IssuesHandler {
	return &IssuesHandler{issues: issueService, comments: commentService}
}

// Create POST /issues.
func (h *IssuesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Description == "" || req.Category == "" {
		return apperrors.NewValidationError("title, description, category required", nil)
	}
	category, err := domain.ParseIssueCategory(req.Category)
	if err != nil {
		return apperrors.NewValidationError("unknown category", map[string]any{"category": req.Category})
	}

	issue, err := h.issues.Create(c.Context(), principal, service.IssueCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": issueResponse(issue)})
}

// List GET /issues.
func (h *IssuesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input, err := parseIssueListQuery(c)
	if err != nil {
		return err
	}
	issues, err := h.issues.List(c.Context(), principal, input)
	if err != nil {
		return err
	}

	items := make([]dto.IssueResponse, 0, len(issues))
	for i := range issues {
		items = append(items, issueResponse(&issues[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /issues/:id.
func (h *IssuesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	issue, err := h.issues.Get(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueResponse(issue)})
}

// UpdateStatus PUT /issues/:id/status.
func (h *IssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	issue, err := h.issues.Transition(c.Context(), principal, c.Params("id"), service.TransitionInput{
		NewStatus:     domain.IssueStatus(req.Status),
		AdminResponse: req.AdminResponse,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueResponse(issue)})
}

// Stats GET /issues/stats.
func (h *IssuesHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	counts, err := h.issues.Stats(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.IssueStatsResponse{
		Submitted:  counts.Submitted,
		InProgress: counts.InProgress,
		Resolved:   counts.Resolved,
		Total:      counts.Total(),
	}})
}

// AddComment POST /issues/:id/comments.
func (h *IssuesHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.comments.Add(c.Context(), principal, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// ListComments GET /issues/:id/comments.
func (h *IssuesHandler) ListComments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	comments, err := h.comments.List(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseIssueListQuery(c *fiber.Ctx) (service.IssueListInput, error) {
	input := service.IssueListInput{}

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseIssueStatus(raw)
		if err != nil {
			return input, apperrors.NewValidationError("unknown status", map[string]any{"status": raw})
		}
		input.Status = &status
	}
	if raw := c.Query("category"); raw != "" {
		category, err := domain.ParseIssueCategory(raw)
		if err != nil {
			return input, apperrors.NewValidationError("unknown category", map[string]any{"category": raw})
		}
		input.Category = &category
	}
	if raw := c.Query("owner_id"); raw != "" {
		ownerID := raw
		input.OwnerID = &ownerID
	}
	switch strings.ToLower(c.Query("sort", "created")) {
	case "created":
		input.SortBy = repository.SortByCreated
	case "title":
		input.SortBy = repository.SortByTitle
	default:
		return input, apperrors.NewValidationError("sort must be created or title", nil)
	}
	input.SortAsc = strings.EqualFold(c.Query("direction", "desc"), "asc")

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			input.Limit = limit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil {
			input.Offset = offset
		}
	}
	return input, nil
}

func issueResponse(issue *domain.Issue) dto.IssueResponse {
	return dto.IssueResponse{
		ID:            issue.ID,
		Title:         issue.Title,
		Description:   issue.Description,
		Category:      issue.Category,
		Status:        issue.Status,
		AdminResponse: issue.AdminResponse,
		CitizenID:     issue.CitizenID,
		RespondedByID: issue.RespondedByID,
		CreatedAt:     issue.CreatedAt,
		UpdatedAt:     issue.UpdatedAt,
		ResolvedAt:    issue.ResolvedAt,
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		IssueID:   comment.IssueID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
