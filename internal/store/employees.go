package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/carebill/internal/billing"
	"golang.org/x/crypto/bcrypt"
)

const employeeColumns = `id, name, email, password_hash, role, house_id, created_at`

func (s *Store) CreateEmployee(in EmployeeInput) (*billing.Employee, error) {
	name, email := strings.TrimSpace(in.Name), strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("employee name and email are required")
	}
	role := in.Role
	if role == "" {
		role = billing.RoleCaregiver
	}
	if role != billing.RoleCaregiver && role != billing.RoleAdministrator {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	var hash string
	if in.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(b)
	}

	res, err := s.db.Exec(
		`INSERT INTO employees (name, email, password_hash, role, house_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		name, email, hash, string(role), in.HouseID, nowString(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetEmployee(id)
}

func scanEmployee(row rowScanner) (*billing.Employee, error) {
	e := &billing.Employee{}
	var role, createdAt string
	var houseID sql.NullInt64
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &role, &houseID, &createdAt); err != nil {
		return nil, err
	}
	e.Role = billing.Role(role)
	e.HouseID = nullableID(houseID)
	e.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return e, nil
}

func (s *Store) GetEmployee(id int64) (*billing.Employee, error) {
	e, err := scanEmployee(s.db.QueryRow(`SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "employee", id)
	}
	return e, nil
}

func (s *Store) ListEmployees() ([]billing.Employee, error) {
	rows, err := s.db.Query(`SELECT ` + employeeColumns + ` FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []billing.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

// UpdateEmployee changes name, role and default house. Email and password are left alone.
func (s *Store) UpdateEmployee(id int64, name string, role billing.Role, houseID *int64) error {
	res, err := s.db.Exec(
		`UPDATE employees SET name = ?, role = ?, house_id = ? WHERE id = ?`,
		strings.TrimSpace(name), string(role), houseID, id,
	)
	if err != nil {
		return fmt.Errorf("update employee %d: %w", id, err)
	}
	return requireAffected(res, "employee", id)
}

// CheckPassword reports whether password matches the employee's stored hash.
func (s *Store) CheckPassword(id int64, password string) (bool, error) {
	e, err := s.GetEmployee(id)
	if err != nil {
		return false, err
	}
	if e.PasswordHash == "" {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil, nil
}

// DeleteEmployee removes the employee and, through the foreign key, all of their timesheets.
func (s *Store) DeleteEmployee(id int64) error {
	res, err := s.db.Exec(`DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	return requireAffected(res, "employee", id)
}
