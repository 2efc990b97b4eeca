package domain

import "time"

// Comment is an immutable remark on an issue thread. Comments are never
// edited or deleted once written.
type Comment struct {
	ID        string
	IssueID   string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
