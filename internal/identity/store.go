package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"careline/pkg/platform/sentinel"
)

// EmployeeStore is interface-driven to keep the login flow testable without a
// database.
type EmployeeStore interface {
	FindByUsername(ctx context.Context, username string) (*Employee, error)
}

// PostgresEmployeeStore reads staff records from the Employees relation.
type PostgresEmployeeStore struct {
	db *sql.DB
}

func NewPostgresEmployeeStore(db *sql.DB) *PostgresEmployeeStore {
	return &PostgresEmployeeStore{db: db}
}

func (s *PostgresEmployeeStore) FindByUsername(ctx context.Context, username string) (*Employee, error) {
	query := `
		SELECT e.employee_id, e.username, e.full_name, e.password_hash, e.role_id, r.role_name
		FROM employees e
		JOIN roles r ON r.role_id = e.role_id
		WHERE e.username = $1
	`
	var emp Employee
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&emp.ID, &emp.Username, &emp.FullName, &emp.PasswordHash, &emp.RoleID, &emp.RoleName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return &emp, nil
}

// InMemoryEmployeeStore backs unit tests and local development.
type InMemoryEmployeeStore struct {
	mu        sync.RWMutex
	employees map[string]Employee
}

func NewInMemoryEmployeeStore() *InMemoryEmployeeStore {
	return &InMemoryEmployeeStore{employees: make(map[string]Employee)}
}

func (s *InMemoryEmployeeStore) Seed(emp Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[emp.Username] = emp
}

func (s *InMemoryEmployeeStore) FindByUsername(_ context.Context, username string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emp, ok := s.employees[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &emp, nil
}
