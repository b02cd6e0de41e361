package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/repository"
)

type ClientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

func (s *ClientService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.repo.List(ctx)
}

func (s *ClientService) Create(ctx context.Context, in domain.ClientInput) (*domain.Client, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c := &domain.Client{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Phone:     in.Phone,
		Email:     in.Email,
		Notes:     in.Notes,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("persist client: %w", err)
	}
	return c, nil
}

func (s *ClientService) Update(ctx context.Context, id string, in domain.ClientInput) (*domain.Client, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c := &domain.Client{
		ID:    id,
		Name:  strings.TrimSpace(in.Name),
		Phone: in.Phone,
		Email: in.Email,
		Notes: in.Notes,
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the client and, through the foreign key, their appointments.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
