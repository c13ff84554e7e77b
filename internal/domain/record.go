package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Resource names understood by the remote data service.
const (
	ResourceOrders      = "orders"
	ResourceProducts    = "products"
	ResourceIngredients = "ingredients"
)

const provisionalPrefix = "prov-"

// Record is one entity of a cached collection. The same shape carries
// orders, products and ingredients; Status is only meaningful for orders.
type Record struct {
	ID          string            `json:"id"`
	Resource    string            `json:"resource"`
	Status      Status            `json:"status,omitempty"`
	Provisional bool              `json:"provisional,omitempty"`
	Attrs       map[string]string `json:"attrs,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewProvisionalID returns a locally generated identifier for a record
// created before server confirmation. The prefix keeps it disjoint from
// any server-issued identifier.
func NewProvisionalID() string {
	return provisionalPrefix + uuid.NewString()
}

func IsProvisionalID(id string) bool {
	return strings.HasPrefix(id, provisionalPrefix)
}

type PageInfo struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}
