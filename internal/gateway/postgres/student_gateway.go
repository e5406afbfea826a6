package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/examroom/examroom-backend/internal/gateway"
	"github.com/examroom/examroom-backend/internal/model"
)

// FindStudentByName looks a student up by display name. Name is not unique
// in the schema; the oldest match wins, mirroring the weak identity bridge
// the session core relies on.
func (g *Gateway) FindStudentByName(ctx context.Context, name string) (*model.Student, error) {
	s := &model.Student{}
	err := g.pool.QueryRow(ctx,
		`SELECT id, name, roll_num, status, created_at
		 FROM students
		 WHERE name = $1
		 ORDER BY id
		 LIMIT 1`, name,
	).Scan(&s.ID, &s.Name, &s.RollNum, &s.Status, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, gateway.ErrNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return s, nil
}

// CreateStudent inserts a new student record.
func (g *Gateway) CreateStudent(ctx context.Context, s *model.Student) error {
	err := g.pool.QueryRow(ctx,
		`INSERT INTO students (name, roll_num, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		s.Name, s.RollNum, s.Status,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
