package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barberbook/barberbook/internal/domain"
)

type pgDeliveryRepository struct {
	pool *pgxpool.Pool
}

// NewPgDeliveryRepository returns a DeliveryRepository backed by PostgreSQL.
func NewPgDeliveryRepository(pool *pgxpool.Pool) DeliveryRepository {
	return &pgDeliveryRepository{pool: pool}
}

// Record inserts every part of one notification in a single transaction.
func (r *pgDeliveryRepository) Record(ctx context.Context, deliveries []*domain.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, d := range deliveries {
		_, err = tx.Exec(ctx, `
			INSERT INTO deliveries
				(id, kind, recipient, part, parts, success, message_id, error, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			d.ID, d.Kind, d.Recipient, d.Part, d.Parts, d.Success, d.MessageID, d.Error, d.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert delivery: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit deliveries: %w", err)
	}
	return nil
}

func (r *pgDeliveryRepository) Recent(ctx context.Context, limit int) ([]*domain.Delivery, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, kind, recipient, part, parts, success, message_id, error, created_at
		FROM deliveries
		ORDER BY created_at DESC, part DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	result := []*domain.Delivery{}
	for rows.Next() {
		var d domain.Delivery
		err := rows.Scan(
			&d.ID, &d.Kind, &d.Recipient, &d.Part, &d.Parts,
			&d.Success, &d.MessageID, &d.Error, &d.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}

func (r *pgDeliveryRepository) RecordDigestRun(ctx context.Context, run *domain.DigestRun) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO digest_runs (run_date, source, appointment_count, success, created_at)
		VALUES ($1::date,$2,$3,$4,$5)`,
		run.RunDate, run.Trigger, run.AppointmentCount, run.Success, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert digest run: %w", err)
	}
	return nil
}

func (r *pgDeliveryRepository) DigestSent(ctx context.Context, date string) (bool, error) {
	var sent bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM digest_runs WHERE run_date = $1::date AND success
		)`, date).Scan(&sent)
	if err != nil {
		return false, fmt.Errorf("check digest run: %w", err)
	}
	return sent, nil
}
