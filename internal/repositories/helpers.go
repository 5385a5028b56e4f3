package repositories

import "seller-backend/internal/models"

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// dateArg binds a calendar date; the zero date becomes NULL
func dateArg(d models.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time
}
