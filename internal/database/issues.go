package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const issueColumns = `id, customer_id, order_id, issue_type, description, status, priority, created_at, updated_at`

func scanIssue(row interface{ Scan(dest ...any) error }) (CustomerIssue, error) {
	var is CustomerIssue
	err := row.Scan(&is.ID, &is.CustomerID, &is.OrderID, &is.IssueType, &is.Description,
		&is.Status, &is.Priority, &is.CreatedAt, &is.UpdatedAt)
	return is, err
}

type CreateIssueParams struct {
	CustomerID  pgtype.UUID
	OrderID     uuid.UUID
	IssueType   string
	Description string
	Priority    string
}

const createIssue = `
INSERT INTO customer_issues (customer_id, order_id, issue_type, description, priority)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + issueColumns + `
`

func (q *Queries) CreateIssue(ctx context.Context, arg CreateIssueParams) (CustomerIssue, error) {
	return scanIssue(q.db.QueryRow(ctx, createIssue,
		arg.CustomerID, arg.OrderID, arg.IssueType, arg.Description, arg.Priority))
}

const listIssues = `
SELECT ` + issueColumns + `
FROM customer_issues
ORDER BY created_at DESC
`

func (q *Queries) ListIssues(ctx context.Context) ([]CustomerIssue, error) {
	rows, err := q.db.Query(ctx, listIssues)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []CustomerIssue
	for rows.Next() {
		is, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, is)
	}
	return issues, rows.Err()
}

type UpdateIssueStatusParams struct {
	ID     uuid.UUID
	Status string
}

const updateIssueStatus = `
UPDATE customer_issues
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + issueColumns + `
`

func (q *Queries) UpdateIssueStatus(ctx context.Context, arg UpdateIssueStatusParams) (CustomerIssue, error) {
	return scanIssue(q.db.QueryRow(ctx, updateIssueStatus, arg.ID, arg.Status))
}
