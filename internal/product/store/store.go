// Package store provides an interface for product storage operations.
package store

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll() ([]Product, error)

	// Create appends a new product and assigns its ID.
	// Returns error if the product cannot be created.
	Create(name string, price float64) (*Product, error)

	// Update looks up the first product with the given ID and applies mutate to a copy of it.
	// The copy is stored only if mutate returns nil.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(id int, mutate func(p *Product) error) (*Product, error)

	// DeleteByID removes the first product with the given ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(id int) error

	// Exists reports whether a product with the given ID is stored.
	Exists(id int) bool
}
