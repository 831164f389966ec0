package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/productos/pkg/messaging"
	"go.opentelemetry.io/otel/propagation"
)

// ProductEvent describes a change to a single product.
// Carrier holds the trace context of the request that caused the change.
type ProductEvent struct {
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	Subj       string                 `json:"-"`
	ProductID  int                    `json:"product_id"`
	Name       string                 `json:"nombre,omitempty"`
	Price      float64                `json:"precio,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e ProductEvent) Subject() string {
	return e.Subj
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// ProductCreated returns the event published after a product is created.
func ProductCreated(id int, name string, price float64) ProductEvent {
	return newProductEvent(messaging.ProductsCreatedSubject, id, name, price)
}

// ProductUpdated returns the event published after a full or partial update.
func ProductUpdated(id int, name string, price float64) ProductEvent {
	return newProductEvent(messaging.ProductsUpdatedSubject, id, name, price)
}

// ProductDeleted returns the event published after a product is removed.
func ProductDeleted(id int) ProductEvent {
	return newProductEvent(messaging.ProductsDeletedSubject, id, "", 0)
}

func newProductEvent(subject string, id int, name string, price float64) ProductEvent {
	return ProductEvent{
		Subj:       subject,
		ProductID:  id,
		Name:       name,
		Price:      price,
		OccurredAt: time.Now().UTC(),
	}
}
