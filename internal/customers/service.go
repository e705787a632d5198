package customers

import (
	"context"
	"log/slog"
)

// RepositoryPort is the persistence surface the service needs.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Create(ctx context.Context, c Customer) (*Customer, error)
	Update(ctx context.Context, c Customer) error
}

// Service exposes customer directory operations.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService constructs a customer service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Get loads one customer.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// List returns all customers.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

// Create stores a new customer and allocates its customer number.
func (s *Service) Create(ctx context.Context, req UpsertCustomerRequest) (*Customer, error) {
	created, err := s.repo.Create(ctx, req.customer())
	if err != nil {
		return nil, err
	}
	s.logger.Info("customer created", slog.Int64("id", created.ID), slog.String("number", created.Number))
	return created, nil
}

// Update rewrites a customer's mutable fields.
func (s *Service) Update(ctx context.Context, id int64, req UpsertCustomerRequest) (*Customer, error) {
	c := req.customer()
	c.ID = id
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
