package store

import (
	"sync"

	"github.com/abgdnv/productos/internal/product/errors"
)

// Product represents a product entity in the store.
type Product struct {
	ID    int
	Name  string
	Price float64
}

// SeedProducts is the catalog every new service instance starts with.
var SeedProducts = []Product{
	{ID: 1, Name: "Mouse", Price: 50},
	{ID: 2, Name: "Teclado", Price: 100},
}

// inMemory implements ProductStore using an ordered in-memory slice.
type inMemory struct {
	mu       sync.RWMutex
	products []Product
}

// NewInMemoryStore creates a new instance of ProductStore holding a copy of seed.
func NewInMemoryStore(seed ...Product) ProductStore {
	products := make([]Product, len(seed))
	copy(products, seed)
	return &inMemory{
		products: products,
	}
}

// FindAll retrieves all products.
func (s *inMemory) FindAll() ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, len(s.products))
	copy(list, s.products)
	return list, nil
}

// Create creates a new product and returns it.
// The ID is the collection size plus one, so it can collide with an existing ID after a deletion.
func (s *inMemory) Create(name string, price float64) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:    len(s.products) + 1,
		Name:  name,
		Price: price,
	}
	s.products = append(s.products, product)

	return &product, nil
}

// Update applies mutate to the first product matching id.
func (s *inMemory) Update(id int, mutate func(p *Product) error) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	updated := s.products[i]
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	s.products[i] = updated
	return &updated, nil
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return errors.ErrProductNotFound
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return nil
}

// Exists reports whether a product with the given ID is stored.
func (s *inMemory) Exists(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.indexOf(id) >= 0
}

// indexOf returns the position of the first product with the given ID, or -1. Callers hold the lock.
func (s *inMemory) indexOf(id int) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
