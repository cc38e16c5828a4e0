package repository

import (
	"context"

	"konv/internal/domain/repository"
)

// StubRepositoryFactory hands out the configured repositories, so service
// tests can run transactional flows against plain mocks.
type StubRepositoryFactory struct {
	UserRepo     repository.UserRepository
	ContactRepo  repository.ContactRepository
	LocationRepo repository.LocationRepository
	OrderRepo    repository.OrderRepository
	PaymentRepo  repository.PaymentRepository
}

func (f *StubRepositoryFactory) Users() repository.UserRepository         { return f.UserRepo }
func (f *StubRepositoryFactory) Contacts() repository.ContactRepository   { return f.ContactRepo }
func (f *StubRepositoryFactory) Locations() repository.LocationRepository { return f.LocationRepo }
func (f *StubRepositoryFactory) Orders() repository.OrderRepository       { return f.OrderRepo }
func (f *StubRepositoryFactory) Payments() repository.PaymentRepository   { return f.PaymentRepo }

// StubTransactionManager runs the callback directly against its factory,
// with no transaction semantics.
type StubTransactionManager struct {
	Factory *StubRepositoryFactory
}

func (s *StubTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(s.Factory)
}
