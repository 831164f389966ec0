// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"

	perrors "github.com/abgdnv/productos/internal/product/errors"
	"github.com/abgdnv/productos/internal/product/store"
	"github.com/abgdnv/productos/pkg/messaging"
	"github.com/abgdnv/productos/pkg/messaging/events"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create validates fields and adds a new product.
	// Name is checked before price; the first failing check is returned as a ValidationError.
	Create(ctx context.Context, fields ProductFieldsDto) (*ProductDto, error)

	// Replace overwrites name and price of an existing product, validated as in Create.
	// Returns ErrProductNotFound before any validation if no product exists with the given ID.
	Replace(ctx context.Context, id int, fields ProductFieldsDto) (*ProductDto, error)

	// PartialUpdate applies only the fields present in fields.
	// Returns ErrProductNotFound if no product exists with the given ID.
	PartialUpdate(ctx context.Context, id int, fields ProductFieldsDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int) error

	// Exists reports whether a product with the given ID is stored.
	Exists(ctx context.Context, id int) bool
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	validate   *validator.Validate
	publisher  messaging.Publisher
	mutations  metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository.
// A nil publisher disables event publishing.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validation: %v", err))
	}

	meter := otel.Meter("productos")
	mutations, err := meter.Int64Counter("product_mutations", metric.WithDescription("Total number of successful product mutations"))
	if err != nil {
		panic(fmt.Sprintf("failed to create product_mutations counter: %v", err))
	}

	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{
		repository: repo,
		validate:   validate,
		publisher:  publisher,
		mutations:  mutations,
	}
}

// ProductFieldsDto is the request body of create, replace and partial update.
type ProductFieldsDto struct {
	Name  JSONField `json:"nombre"`
	Price JSONField `json:"precio"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID    int     `json:"id"`
	Name  string  `json:"nombre"`
	Price float64 `json:"precio"`
}

// FindAll retrieves a list of all products and returns them as ProductDTOs.
func (s *Service) FindAll(_ context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// Create creates a new product and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, fields ProductFieldsDto) (*ProductDto, error) {
	name, err := s.requiredName(fields.Name)
	if err != nil {
		return nil, err
	}
	price, err := s.requiredPrice(fields.Price)
	if err != nil {
		return nil, err
	}

	p, err := s.repository.Create(name, price)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.recordMutation(ctx, "create")
	s.publish(ctx, events.ProductCreated(p.ID, p.Name, p.Price))
	return toDto(p), nil
}

// Replace overwrites an existing product and returns it as a ProductDto.
// The stored ID is always reset to id.
func (s *Service) Replace(ctx context.Context, id int, fields ProductFieldsDto) (*ProductDto, error) {
	updated, err := s.repository.Update(id, func(p *store.Product) error {
		name, err := s.requiredName(fields.Name)
		if err != nil {
			return err
		}
		price, err := s.requiredPrice(fields.Price)
		if err != nil {
			return err
		}
		p.ID = id
		p.Name = name
		p.Price = price
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace product with ID %d: %w", id, err)
	}

	s.recordMutation(ctx, "replace")
	s.publish(ctx, events.ProductUpdated(updated.ID, updated.Name, updated.Price))
	return toDto(updated), nil
}

// PartialUpdate validates every present field before applying any of them.
func (s *Service) PartialUpdate(ctx context.Context, id int, fields ProductFieldsDto) (*ProductDto, error) {
	updated, err := s.repository.Update(id, func(p *store.Product) error {
		var name *string
		if fields.Name.Present() {
			n, ok := fields.Name.AsString()
			if !ok || s.validate.Var(n, "notblank") != nil {
				return perrors.Invalid("nombre", perrors.ErrNameBlank)
			}
			name = &n
		}

		var price *float64
		if fields.Price.Present() {
			v, ok := fields.Price.AsNumber()
			if !ok {
				return perrors.Invalid("precio", perrors.ErrPriceNotNumeric)
			}
			if s.validate.Var(v, "gte=0") != nil {
				return perrors.Invalid("precio", perrors.ErrPriceNegative)
			}
			price = &v
		}

		if name != nil {
			p.Name = *name
		}
		if price != nil {
			p.Price = *price
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}

	s.recordMutation(ctx, "patch")
	s.publish(ctx, events.ProductUpdated(updated.ID, updated.Name, updated.Price))
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
func (s *Service) DeleteByID(ctx context.Context, id int) error {
	if err := s.repository.DeleteByID(id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}

	s.recordMutation(ctx, "delete")
	s.publish(ctx, events.ProductDeleted(id))
	return nil
}

// Exists reports whether a product with the given ID is stored.
func (s *Service) Exists(_ context.Context, id int) bool {
	return s.repository.Exists(id)
}

// requiredName accepts only a non-blank JSON string.
func (s *Service) requiredName(f JSONField) (string, error) {
	name, ok := f.AsString()
	if !ok || s.validate.Var(name, "notblank") != nil {
		return "", perrors.Invalid("nombre", perrors.ErrNameRequired)
	}
	return name, nil
}

// requiredPrice accepts only a non-negative JSON number.
func (s *Service) requiredPrice(f JSONField) (float64, error) {
	price, ok := f.AsNumber()
	if !ok {
		return 0, perrors.Invalid("precio", perrors.ErrPriceRequired)
	}
	if s.validate.Var(price, "gte=0") != nil {
		return 0, perrors.Invalid("precio", perrors.ErrPriceNegative)
	}
	return price, nil
}

func (s *Service) recordMutation(ctx context.Context, operation string) {
	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// publish sends event with the caller's trace context. Failures are logged and never returned.
func (s *Service) publish(ctx context.Context, event events.ProductEvent) {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event.Carrier = carrier

	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "ID", event.ProductID, "error", err)
	}
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
	}
}
