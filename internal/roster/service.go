package roster

import (
	"context"

	"github.com/Hardik-Kaushik/geotrackingFull/internal/db"
)

// PageSize is fixed: the admin view always shows seven principals per page.
const PageSize = 7

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// List returns the page of principals (1-based) and the total page count.
func (s *Service) List(ctx context.Context, page int) ([]Entry, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	rows, err := s.db.Query(ctx, `
		SELECT id, username, mobile, email, role
		FROM users
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`, PageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Username, &e.Mobile, &e.Email, &e.Role); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	pages := (total + PageSize - 1) / PageSize
	return entries, pages, nil
}
