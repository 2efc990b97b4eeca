package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civnet/issue-service/internal/domain"
)

// IssueFilter captures listing parameters. Nil fields are ignored.
type IssueFilter struct {
	OwnerID  *string
	Status   *domain.IssueStatus
	Category *domain.IssueCategory
	SortBy   IssueSort
	SortAsc  bool
	Limit    int
	Offset   int
}

// IssueSort selects the list ordering column.
type IssueSort string

const (
	SortByCreated IssueSort = "created_at"
	SortByTitle   IssueSort = "title"
)

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	Update(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates the repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

const issueColumns = `id, title, description, category, status, admin_response,
               citizen_id, responded_by_id, created_at, updated_at, resolved_at`

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (title, description, category, status, citizen_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.Status,
		issue.CitizenID,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
}

// Update writes the admin-mutable fields. A concurrent transition wins or
// loses wholesale: single-row update, last write commits.
func (r *issueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	const query = `
        UPDATE issues SET status=$1, admin_response=$2, responded_by_id=$3,
            resolved_at=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		issue.Status,
		issue.AdminResponse,
		issue.RespondedByID,
		issue.ResolvedAt,
		issue.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE id=$1`, issueColumns)

	var issue domain.Issue
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.Status,
		&issue.AdminResponse,
		&issue.CitizenID,
		&issue.RespondedByID,
		&issue.CreatedAt,
		&issue.UpdatedAt,
		&issue.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("citizen_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}

	sortBy := filter.SortBy
	if sortBy != SortByCreated && sortBy != SortByTitle {
		sortBy = SortByCreated
	}
	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM issues WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		issueColumns, strings.Join(clauses, " AND "), sortBy, direction, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	const query = `SELECT status, COUNT(*) FROM issues GROUP BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return domain.StatusCounts{}, err
	}
	defer rows.Close()

	var counts domain.StatusCounts
	for rows.Next() {
		var status domain.IssueStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return domain.StatusCounts{}, err
		}
		switch status {
		case domain.IssueStatusSubmitted:
			counts.Submitted = count
		case domain.IssueStatusInProgress:
			counts.InProgress = count
		case domain.IssueStatusResolved:
			counts.Resolved = count
		}
	}
	return counts, rows.Err()
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		if err := rows.Scan(
			&issue.ID,
			&issue.Title,
			&issue.Description,
			&issue.Category,
			&issue.Status,
			&issue.AdminResponse,
			&issue.CitizenID,
			&issue.RespondedByID,
			&issue.CreatedAt,
			&issue.UpdatedAt,
			&issue.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}
