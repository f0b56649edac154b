package user

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	createUsersTableQuery = `
		CREATE TABLE IF NOT EXISTS users (
			"userId" SERIAL PRIMARY KEY,
			email TEXT NOT NULL,
			"whatsappNumber" TEXT NOT NULL,
			dob DATE NOT NULL,
			password TEXT NOT NULL,
			"createdAt" TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	listUsersQuery = `
		SELECT "userId", email, "whatsappNumber", dob, password, "createdAt"
		FROM users
		ORDER BY "userId"
	`
	insertUserQuery = `
		INSERT INTO users (email, "whatsappNumber", dob, password)
		VALUES ($1, $2, $3, $4)
		RETURNING "userId", "createdAt"
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the users table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTableQuery); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, listUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	err := r.db.QueryRowContext(
		ctx,
		insertUserQuery,
		user.Email,
		user.WhatsAppNumber,
		user.DOB,
		user.Password,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// scanUser tolerates NULL contact columns left behind by older imports so one
// bad row cannot hide the rest of the directory.
func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	var email sql.NullString
	var whatsapp sql.NullString
	var dob sql.NullTime
	var password sql.NullString
	var createdAt sql.NullTime

	if err := scanner.Scan(
		&user.ID,
		&email,
		&whatsapp,
		&dob,
		&password,
		&createdAt,
	); err != nil {
		return User{}, err
	}

	user.Email = email.String
	user.WhatsAppNumber = whatsapp.String
	user.Password = password.String
	if dob.Valid {
		user.DOB = dob.Time
	}
	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}

	return user, nil
}
