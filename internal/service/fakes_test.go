package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/civnet/issue-service/internal/domain"
	"github.com/civnet/issue-service/internal/repository"
)

// In-memory repository fakes backing the service tests. They follow the
// real repositories' contracts: pgx.ErrNoRows for missing rows, normalized
// emails, newest-first ordering.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	user.Email = repository.NormalizeEmail(user.Email)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	normalized := repository.NormalizeEmail(user.Email)
	for _, existing := range r.users {
		if existing.Email == normalized {
			user.ID = existing.ID
			user.CreatedAt = existing.CreatedAt
			r.mu.Unlock()
			return r.Update(ctx, user)
		}
	}
	r.mu.Unlock()
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	normalized := repository.NormalizeEmail(email)
	for _, user := range r.users {
		if user.Email == normalized {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByRoles(_ context.Context, roles ...domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	allowed := map[domain.Role]bool{}
	for _, role := range roles {
		allowed[role] = true
	}
	var result []domain.User
	for _, user := range r.users {
		if allowed[user.Role] {
			result = append(result, *user)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeUserRepo) CountRespondedIssues(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

type fakeIssueRepo struct {
	mu     sync.Mutex
	issues map[string]*domain.Issue
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{issues: map[string]*domain.Issue{}}
}

func (r *fakeIssueRepo) Create(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue.ID = uuid.NewString()
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt
	clone := *issue
	r.issues[issue.ID] = &clone
	return nil
}

func (r *fakeIssueRepo) Update(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.issues[issue.ID]; !ok {
		return pgx.ErrNoRows
	}
	issue.UpdatedAt = time.Now()
	clone := *issue
	r.issues[issue.ID] = &clone
	return nil
}

func (r *fakeIssueRepo) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *issue
	return &clone, nil
}

func (r *fakeIssueRepo) List(_ context.Context, filter repository.IssueFilter) ([]domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Issue
	for _, issue := range r.issues {
		if filter.OwnerID != nil && issue.CitizenID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && issue.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && issue.Category != *filter.Category {
			continue
		}
		result = append(result, *issue)
	}
	sort.Slice(result, func(i, j int) bool {
		var less bool
		if filter.SortBy == repository.SortByTitle {
			less = strings.Compare(result[i].Title, result[j].Title) < 0
		} else {
			less = result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		if filter.SortAsc {
			return less
		}
		return !less
	})
	return result, nil
}

func (r *fakeIssueRepo) CountByStatus(_ context.Context) (domain.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts domain.StatusCounts
	for _, issue := range r.issues {
		switch issue.Status {
		case domain.IssueStatusSubmitted:
			counts.Submitted++
		case domain.IssueStatusInProgress:
			counts.InProgress++
		case domain.IssueStatusResolved:
			counts.Resolved++
		}
	}
	return counts, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByIssue(_ context.Context, issueID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.IssueID == issueID {
			result = append(result, comment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

var (
	_ repository.UserRepository    = (*fakeUserRepo)(nil)
	_ repository.IssueRepository   = (*fakeIssueRepo)(nil)
	_ repository.CommentRepository = (*fakeCommentRepo)(nil)
)
