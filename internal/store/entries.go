package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/carebill/internal/billing"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

const entrySelect = `SELECT t.id, t.employee_id, e.name, t.house_id, t.date, t.entry_type, t.hours, t.notes, t.status,
	t.employee_pay, t.client_charge, t.created_at
	FROM timesheets t JOIN employees e ON e.id = t.employee_id`

// price resolves the house an entry is billed to and snapshots its amounts.
func (s *Store) price(employeeID int64, houseID *int64, q billing.Quantity) (*int64, decimal.Decimal, decimal.Decimal, error) {
	if houseID == nil {
		emp, err := s.GetEmployee(employeeID)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		houseID = emp.HouseID
	}
	if houseID == nil {
		return nil, decimal.Zero, decimal.Zero, fmt.Errorf("employee %d has no house: %w", employeeID, billing.ErrMissingRateConfiguration)
	}
	house, err := s.GetHouse(*houseID)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, fmt.Errorf("house %d: %w", *houseID, billing.ErrMissingRateConfiguration)
	}
	pay, charge, err := billing.Resolve(q, house.Rates())
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	return houseID, pay, charge, nil
}

// CreateEntry records a new pending entry priced at the house's current rates.
func (s *Store) CreateEntry(in EntryInput) (*billing.Entry, error) {
	if in.Date.IsZero() {
		return nil, fmt.Errorf("entry date is required")
	}
	houseID, pay, charge, err := s.price(in.EmployeeID, in.HouseID, in.Quantity)
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	entryType, hours := in.Quantity.Stored()
	now := nowString()
	res, err := s.db.Exec(
		`INSERT INTO timesheets (employee_id, date, entry_type, hours, notes, status, house_id, employee_pay, client_charge, profit, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.EmployeeID, in.Date.Format(dateLayout), entryType, hours.String(), in.Notes, string(billing.StatusPending), houseID,
		pay.String(), charge.String(), charge.Sub(pay).String(), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetEntry(id)
}

// UpdateEntry edits date, quantity, notes and house, re-pricing the entry at
// the rates in effect now.
func (s *Store) UpdateEntry(id int64, in EntryInput) (*billing.Entry, error) {
	existing, err := s.GetEntry(id)
	if err != nil {
		return nil, err
	}
	houseID := in.HouseID
	if houseID == nil {
		houseID = existing.HouseID
	}
	houseID, pay, charge, err := s.price(existing.EmployeeID, houseID, in.Quantity)
	if err != nil {
		return nil, fmt.Errorf("update entry %d: %w", id, err)
	}
	date := in.Date
	if date.IsZero() {
		date = existing.Date
	}
	entryType, hours := in.Quantity.Stored()
	_, err = s.db.Exec(
		`UPDATE timesheets SET date = ?, entry_type = ?, hours = ?, notes = ?, house_id = ?, employee_pay = ?, client_charge = ?, profit = ?, updated_at = ?
		 WHERE id = ?`,
		date.Format(dateLayout), entryType, hours.String(), in.Notes, houseID,
		pay.String(), charge.String(), charge.Sub(pay).String(), nowString(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update entry %d: %w", id, err)
	}
	return s.GetEntry(id)
}

func (s *Store) UpdateEntryStatus(id int64, status billing.Status) error {
	switch status {
	case billing.StatusPending, billing.StatusApproved, billing.StatusPaid:
	default:
		return fmt.Errorf("unknown status %q", status)
	}
	res, err := s.db.Exec(`UPDATE timesheets SET status = ?, updated_at = ? WHERE id = ?`, string(status), nowString(), id)
	if err != nil {
		return fmt.Errorf("update entry status: %w", err)
	}
	return requireAffected(res, "entry", id)
}

func (s *Store) DeleteEntry(id int64) error {
	res, err := s.db.Exec(`DELETE FROM timesheets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	return requireAffected(res, "entry", id)
}

func scanEntry(row rowScanner) (*billing.Entry, error) {
	e := &billing.Entry{}
	var houseID sql.NullInt64
	var date, entryType, status, createdAt string
	var hours decimal.Decimal
	if err := row.Scan(&e.ID, &e.EmployeeID, &e.EmployeeName, &houseID, &date, &entryType, &hours, &e.Notes, &status,
		&e.EmployeePay, &e.ClientCharge, &createdAt); err != nil {
		return nil, err
	}
	q, err := billing.StoredQuantity(entryType, hours)
	if err != nil {
		return nil, fmt.Errorf("entry %d: %w", e.ID, err)
	}
	e.Quantity = q
	e.HouseID = nullableID(houseID)
	e.Status = billing.Status(status)
	e.Date, _ = time.Parse(dateLayout, date)
	e.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return e, nil
}

func (s *Store) GetEntry(id int64) (*billing.Entry, error) {
	e, err := scanEntry(s.db.QueryRow(entrySelect+` WHERE t.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "entry", id)
	}
	return e, nil
}

func (f EntryFilter) where() (string, []any) {
	var clauses []string
	var args []any
	if f.EmployeeID != nil {
		clauses = append(clauses, `t.employee_id = ?`)
		args = append(args, *f.EmployeeID)
	}
	if f.HouseID != nil {
		clauses = append(clauses, `t.house_id = ?`)
		args = append(args, *f.HouseID)
	}
	if f.From != nil {
		clauses = append(clauses, `t.date >= ?`)
		args = append(args, f.From.Format(dateLayout))
	}
	if f.To != nil {
		clauses = append(clauses, `t.date <= ?`)
		args = append(args, f.To.Format(dateLayout))
	}
	if f.Status != "" {
		clauses = append(clauses, `t.status = ?`)
		args = append(args, string(f.Status))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListEntries returns entries in date order, oldest first.
func (s *Store) ListEntries(f EntryFilter) ([]billing.Entry, error) {
	where, args := f.where()
	query := entrySelect + where + ` ORDER BY t.date, t.id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []billing.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// ListRecentEntries returns the latest entries first.
func (s *Store) ListRecentEntries(limit int) ([]billing.Entry, error) {
	rows, err := s.db.Query(entrySelect+` ORDER BY t.date DESC, t.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}
	defer rows.Close()

	var entries []billing.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// GetSummary totals revenue, payroll and hour-equivalent hours in SQL.
func (s *Store) GetSummary(f EntryFilter) (billing.Summary, error) {
	where, args := f.where()
	var revenue, payroll, hours float64
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(CAST(t.client_charge AS REAL)), 0),
		       COALESCE(SUM(CAST(t.employee_pay AS REAL)), 0),
		       COALESCE(SUM(CAST(t.hours AS REAL)), 0)
		FROM timesheets t`+where, args...,
	).Scan(&revenue, &payroll, &hours)
	if err != nil {
		return billing.Summary{}, fmt.Errorf("summary: %w", err)
	}
	return billing.Summary{
		TotalRevenue: decimal.NewFromFloat(revenue).Round(2),
		TotalPayroll: decimal.NewFromFloat(payroll).Round(2),
		TotalHours:   decimal.NewFromFloat(hours).Round(2),
	}, nil
}
