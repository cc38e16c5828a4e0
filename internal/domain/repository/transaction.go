// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function will use the same database transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a specific
// transaction so multi-step invariants run atomically.
type RepositoryFactory interface {
	// Users returns a UserRepository bound to the current transaction.
	Users() UserRepository

	// Contacts returns a ContactRepository bound to the current transaction.
	Contacts() ContactRepository

	// Locations returns a LocationRepository bound to the current transaction.
	Locations() LocationRepository

	// Orders returns an OrderRepository bound to the current transaction.
	Orders() OrderRepository

	// Payments returns a PaymentRepository bound to the current transaction.
	Payments() PaymentRepository
}
