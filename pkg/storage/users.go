package storage

import (
	"context"
	"database/sql"

	"github.com/rubiojr/qboard/pkg/core"
)

// CreateUser registers a new user. Usernames are unique.
func (s *Store) CreateUser(ctx context.Context, username, email string) (core.User, error) {
	var u core.User
	err := s.withTx(ctx, false, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "INSERT INTO users (username, email) VALUES (?, ?)", username, email)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		u = core.User{ID: id, Username: username, Email: email}
		return nil
	})
	return u, classify("creating user "+username, err)
}

// GetUser resolves a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx, "SELECT id, username, email FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.Username, &u.Email)
	return u, classify("getting user", err)
}

// GetUserByUsername resolves a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx, "SELECT id, username, email FROM users WHERE username = ?", username).
		Scan(&u.ID, &u.Username, &u.Email)
	return u, classify("getting user "+username, err)
}

func listVoters(ctx context.Context, tx *sql.Tx, table, column string, id int64) ([]core.User, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT u.id, u.username, u.email
		FROM `+table+` v
		JOIN users u ON u.id = v.user_id
		WHERE v.`+column+` = ?
		ORDER BY u.username`, id)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var voters []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, err
		}
		voters = append(voters, u)
	}
	return voters, rows.Err()
}
