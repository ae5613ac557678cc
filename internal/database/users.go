package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getUserByID = `
SELECT id, phone, email, full_name, created_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByID, id).
		Scan(&u.ID, &u.Phone, &u.Email, &u.FullName, &u.CreatedAt)
	return u, err
}

const getUserByPhone = `
SELECT id, phone, email, full_name, created_at
FROM users
WHERE phone = $1
`

func (q *Queries) GetUserByPhone(ctx context.Context, phone string) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByPhone, phone).
		Scan(&u.ID, &u.Phone, &u.Email, &u.FullName, &u.CreatedAt)
	return u, err
}

type UpsertUserByPhoneParams struct {
	Phone    string
	Email    pgtype.Text
	FullName pgtype.Text
}

// upsertUserByPhone keeps previously captured email/name when the new
// verification omits them. Concurrent first verifications of the same
// phone resolve through the conflict clause instead of double-inserting.
const upsertUserByPhone = `
INSERT INTO users (phone, email, full_name)
VALUES ($1, $2, $3)
ON CONFLICT (phone) DO UPDATE
SET email = COALESCE(EXCLUDED.email, users.email),
    full_name = COALESCE(EXCLUDED.full_name, users.full_name)
RETURNING id, phone, email, full_name, created_at
`

func (q *Queries) UpsertUserByPhone(ctx context.Context, arg UpsertUserByPhoneParams) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, upsertUserByPhone, arg.Phone, arg.Email, arg.FullName).
		Scan(&u.ID, &u.Phone, &u.Email, &u.FullName, &u.CreatedAt)
	return u, err
}

const getStaffByEmail = `
SELECT id, email, hashed_password, full_name, role, created_at
FROM staff
WHERE email = $1
`

func (q *Queries) GetStaffByEmail(ctx context.Context, email string) (Staff, error) {
	var s Staff
	err := q.db.QueryRow(ctx, getStaffByEmail, email).
		Scan(&s.ID, &s.Email, &s.HashedPassword, &s.FullName, &s.Role, &s.CreatedAt)
	return s, err
}

type UpsertStaffParams struct {
	Email          string
	HashedPassword string
	FullName       string
	Role           string
}

const upsertStaff = `
INSERT INTO staff (email, hashed_password, full_name, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE
SET hashed_password = EXCLUDED.hashed_password,
    full_name = EXCLUDED.full_name,
    role = EXCLUDED.role
RETURNING id, email, hashed_password, full_name, role, created_at
`

func (q *Queries) UpsertStaff(ctx context.Context, arg UpsertStaffParams) (Staff, error) {
	var s Staff
	err := q.db.QueryRow(ctx, upsertStaff, arg.Email, arg.HashedPassword, arg.FullName, arg.Role).
		Scan(&s.ID, &s.Email, &s.HashedPassword, &s.FullName, &s.Role, &s.CreatedAt)
	return s, err
}
