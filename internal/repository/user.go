package repository

import "context"

// UserExists reports whether the user id resolves to a known account.
func (db *Database) UserExists(ctx context.Context, userId int64) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userId).Scan(&exists)
	return exists, err
}
