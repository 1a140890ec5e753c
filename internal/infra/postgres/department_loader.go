package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wellness-survey-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DepartmentLoader loads questionnaire JSONB from Postgres.
type DepartmentLoader struct {
	pool *pgxpool.Pool
}

func NewDepartmentLoader(pool *pgxpool.Pool) *DepartmentLoader {
	return &DepartmentLoader{pool: pool}
}

func (l *DepartmentLoader) LoadDepartment(ctx context.Context, name string) (domain.Department, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM departments WHERE name=$1`, name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Department{}, domain.ErrDepartmentNotFound
	}
	if err != nil {
		return domain.Department{}, fmt.Errorf("load department: %w", err)
	}
	var department domain.Department
	if err := json.Unmarshal(raw, &department); err != nil {
		return domain.Department{}, fmt.Errorf("unmarshal department: %w", err)
	}
	return department, nil
}

func (l *DepartmentLoader) ListDepartments(ctx context.Context) ([]string, error) {
	rows, err := l.pool.Query(ctx, `SELECT name FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan department name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
