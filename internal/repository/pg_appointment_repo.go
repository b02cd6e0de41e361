package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barberbook/barberbook/internal/domain"
)

// foreignKeyViolation is the PostgreSQL SQLSTATE for a missing referenced row.
const foreignKeyViolation = "23503"

const appointmentSelect = `
		SELECT a.id, a.client_id, COALESCE(c.name, ''), a.title,
		       to_char(a.date, 'YYYY-MM-DD'), a.time, a.duration, a.price,
		       a.notes, a.status, a.created_at
		FROM appointments a
		LEFT JOIN clients c ON c.id = a.client_id`

type pgAppointmentRepository struct {
	pool *pgxpool.Pool
}

// NewPgAppointmentRepository returns an AppointmentRepository backed by PostgreSQL.
func NewPgAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &pgAppointmentRepository{pool: pool}
}

func (r *pgAppointmentRepository) List(ctx context.Context, f domain.AppointmentFilter) ([]*domain.Appointment, error) {
	where, args := buildAppointmentWhere(f)
	rows, err := r.pool.Query(ctx, appointmentSelect+where+`
		ORDER BY a.date ASC, a.time ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (r *pgAppointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	row := r.pool.QueryRow(ctx, appointmentSelect+` WHERE a.id = $1`, id)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (r *pgAppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointments
			(id, client_id, title, date, time, duration, price, notes, status, created_at)
		VALUES ($1,$2,$3,$4::date,$5,$6,$7,$8,$9,$10)
		RETURNING (SELECT name FROM clients WHERE id = $2)`,
		a.ID, a.ClientID, a.Title, a.Date, a.Time, a.Duration, a.Price, a.Notes, a.Status, a.CreatedAt,
	).Scan(&a.ClientName)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ValidationError{Field: "clientId", Reason: "does not exist"}
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *pgAppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET client_id = $2, title = $3, date = $4::date, time = $5,
		    duration = $6, price = $7, notes = $8, status = $9
		WHERE id = $1
		RETURNING created_at, (SELECT name FROM clients WHERE id = $2)`,
		a.ID, a.ClientID, a.Title, a.Date, a.Time, a.Duration, a.Price, a.Notes, a.Status,
	).Scan(&a.CreatedAt, &a.ClientName)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrNotFound
	case isForeignKeyViolation(err):
		return &domain.ValidationError{Field: "clientId", Reason: "does not exist"}
	case err != nil:
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

func (r *pgAppointmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgAppointmentRepository) CountByDate(ctx context.Context, date string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM appointments WHERE date = $1::date`, date)
}

func (r *pgAppointmentRepository) CountByStatus(ctx context.Context, status domain.AppointmentStatus) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM appointments WHERE status = $1`, status)
}

func (r *pgAppointmentRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM appointments`)
}

func (r *pgAppointmentRepository) CompletedEarnings(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(price), 0) FROM appointments WHERE status = 'completed'`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum earnings: %w", err)
	}
	return total, nil
}

func (r *pgAppointmentRepository) Earnings(ctx context.Context, since string) ([]*domain.EarningsDay, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date, 'YYYY-MM-DD'), amount, appointments
		FROM earnings_summary
		WHERE date >= $1::date
		ORDER BY date DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("earnings summary: %w", err)
	}
	defer rows.Close()

	days := []*domain.EarningsDay{}
	for rows.Next() {
		var d domain.EarningsDay
		if err := rows.Scan(&d.Date, &d.Amount, &d.Appointments); err != nil {
			return nil, err
		}
		days = append(days, &d)
	}
	return days, rows.Err()
}

func (r *pgAppointmentRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}

// ---- helpers ----

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID, &a.ClientID, &a.ClientName, &a.Title,
		&a.Date, &a.Time, &a.Duration, &a.Price,
		&a.Notes, &a.Status, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAppointments(rows pgx.Rows) ([]*domain.Appointment, error) {
	result := []*domain.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// buildAppointmentWhere builds a parameterised WHERE clause from a filter.
func buildAppointmentWhere(f domain.AppointmentFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, val any) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if f.From != nil {
		add("a.date >= $%d::date", *f.From)
	}
	if f.To != nil {
		add("a.date <= $%d::date", *f.To)
	}
	if f.Status != nil {
		add("a.status = $%d", *f.Status)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
