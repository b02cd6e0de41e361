package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barberbook/barberbook/internal/domain"
)

type pgClientRepository struct {
	pool *pgxpool.Pool
}

// NewPgClientRepository returns a ClientRepository backed by PostgreSQL.
func NewPgClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &pgClientRepository{pool: pool}
}

func (r *pgClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, phone, email, notes, created_at
		FROM clients
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *pgClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, notes, created_at
		FROM clients WHERE id = $1`, id)

	c, err := scanClient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *pgClientRepository) Create(ctx context.Context, c *domain.Client) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clients (id, name, phone, email, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Name, c.Phone, c.Email, c.Notes, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *pgClientRepository) Update(ctx context.Context, c *domain.Client) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE clients
		SET name = $2, phone = $3, email = $4, notes = $5
		WHERE id = $1
		RETURNING created_at`,
		c.ID, c.Name, c.Phone, c.Email, c.Notes,
	).Scan(&c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// Delete removes the client; its appointments cascade.
func (r *pgClientRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Notes, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
