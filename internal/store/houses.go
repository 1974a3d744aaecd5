package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/carebill/internal/billing"
	"github.com/shopspring/decimal"
)

const houseColumns = `id, name, employee_pay_per_day, client_charge_per_day, payment_frequency, invoice_style, notes, created_at, updated_at`

func (in HouseInput) validate() (pay, charge decimal.Decimal, err error) {
	if strings.TrimSpace(in.Name) == "" {
		return pay, charge, fmt.Errorf("house name must not be empty")
	}
	pay, err = decimal.NewFromString(strings.TrimSpace(in.EmployeePayPerDay))
	if err != nil {
		return pay, charge, fmt.Errorf("parse employee pay %q: %w", in.EmployeePayPerDay, err)
	}
	charge, err = decimal.NewFromString(strings.TrimSpace(in.ClientChargePerDay))
	if err != nil {
		return pay, charge, fmt.Errorf("parse client charge %q: %w", in.ClientChargePerDay, err)
	}
	if pay.IsNegative() || charge.IsNegative() {
		return pay, charge, fmt.Errorf("house rates must be >= 0")
	}
	switch in.PaymentFrequency {
	case billing.FrequencyWeekly, billing.FrequencyBiweekly, billing.FrequencyMonthly:
	default:
		return pay, charge, fmt.Errorf("unknown payment frequency %q", in.PaymentFrequency)
	}
	switch in.InvoiceStyle {
	case billing.StyleGrouped, billing.StyleDaily:
	default:
		return pay, charge, fmt.Errorf("unknown invoice style %q", in.InvoiceStyle)
	}
	return pay, charge, nil
}

func (s *Store) CreateHouse(in HouseInput) (*billing.House, error) {
	pay, charge, err := in.validate()
	if err != nil {
		return nil, err
	}
	now := nowString()
	res, err := s.db.Exec(
		`INSERT INTO houses (name, employee_pay_per_day, client_charge_per_day, payment_frequency, invoice_style, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(in.Name), pay.String(), charge.String(), string(in.PaymentFrequency), string(in.InvoiceStyle), in.Notes, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert house: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetHouse(id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHouse(row rowScanner) (*billing.House, error) {
	h := &billing.House{}
	var freq, style, createdAt, updatedAt string
	if err := row.Scan(&h.ID, &h.Name, &h.EmployeePayPerDay, &h.ClientChargePerDay, &freq, &style, &h.Notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	h.PaymentFrequency = billing.PaymentFrequency(freq)
	h.InvoiceStyle = billing.InvoiceStyle(style)
	h.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	h.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return h, nil
}

func (s *Store) GetHouse(id int64) (*billing.House, error) {
	h, err := scanHouse(s.db.QueryRow(`SELECT `+houseColumns+` FROM houses WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "house", id)
	}
	return h, nil
}

func (s *Store) ListHouses() ([]billing.House, error) {
	rows, err := s.db.Query(`SELECT ` + houseColumns + ` FROM houses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	defer rows.Close()

	var houses []billing.House
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, err
		}
		houses = append(houses, *h)
	}
	return houses, rows.Err()
}

// UpdateHouse changes a house's settings. Existing timesheet snapshots keep
// the rates they were priced with.
func (s *Store) UpdateHouse(id int64, in HouseInput) error {
	pay, charge, err := in.validate()
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE houses SET name = ?, employee_pay_per_day = ?, client_charge_per_day = ?, payment_frequency = ?, invoice_style = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		strings.TrimSpace(in.Name), pay.String(), charge.String(), string(in.PaymentFrequency), string(in.InvoiceStyle), in.Notes, nowString(), id,
	)
	if err != nil {
		return fmt.Errorf("update house %d: %w", id, err)
	}
	return requireAffected(res, "house", id)
}

// DeleteHouse removes a house and unassigns employees that default to it.
// Timesheets keep their house reference.
func (s *Store) DeleteHouse(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE employees SET house_id = NULL WHERE house_id = ?`, id); err != nil {
		return fmt.Errorf("unassign employees: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM houses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete house %d: %w", id, err)
	}
	if err := requireAffected(res, "house", id); err != nil {
		return err
	}
	return tx.Commit()
}

func requireAffected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
