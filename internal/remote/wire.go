package remote

import (
	"fmt"
	"time"

	"merchops/internal/domain"
)

// Op names a write operation understood by the data service.
type Op string

const (
	OpCreate       Op = "create"
	OpUpdateStatus Op = "update_status"
	OpDelete       Op = "delete"
	OpBatchDelete  Op = "batch_delete"
	OpBatchStatus  Op = "batch_status"
	OpExport       Op = "export"
)

// StatusPayload is the single-record status change body.
type StatusPayload struct {
	ID        string        `json:"id"`
	NewStatus domain.Status `json:"newStatus"`
}

// BatchStatusPayload applies one status to many records.
type BatchStatusPayload struct {
	IDs       []string      `json:"ids"`
	NewStatus domain.Status `json:"newStatus"`
}

// IDsPayload targets a set of records (delete, export).
type IDsPayload struct {
	IDs []string `json:"ids"`
}

// CreatePayload carries the attributes of a record to be created.
type CreatePayload struct {
	Attrs map[string]string `json:"attrs"`
}

type ListResult struct {
	Items    []domain.Record
	PageInfo domain.PageInfo
}

// MutationResult is either one authoritative record (single-record ops) or
// a bare count (batch ops), never both. A count-only result forces
// invalidation-based reconciliation upstream.
type MutationResult struct {
	Record *domain.Record
	Count  int
}

// MappingError reports a payload whose shape does not match the contract.
// Mapping fails closed: no field is ever silently defaulted.
type MappingError struct {
	Resource string
	Field    string
	Detail   string
}

func (e *MappingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("remote %s payload: field %q: %s", e.Resource, e.Field, e.Detail)
	}
	return fmt.Sprintf("remote %s payload: %s", e.Resource, e.Detail)
}

type recordDTO struct {
	ID        string            `json:"id"`
	Status    string            `json:"status,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type pageDTO struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

type listDTO struct {
	Items      []recordDTO `json:"items"`
	Pagination pageDTO     `json:"pagination"`
}

type mutateDTO struct {
	Record *recordDTO `json:"record,omitempty"`
	Count  *int       `json:"count,omitempty"`
}

func mapRecord(resource string, d recordDTO) (domain.Record, error) {
	if d.ID == "" {
		return domain.Record{}, &MappingError{Resource: resource, Field: "id", Detail: "missing"}
	}
	rec := domain.Record{
		ID:        d.ID,
		Resource:  resource,
		Attrs:     d.Attrs,
		UpdatedAt: d.UpdatedAt,
	}
	if resource == domain.ResourceOrders {
		if d.Status == "" {
			return domain.Record{}, &MappingError{Resource: resource, Field: "status", Detail: "missing"}
		}
		st, err := domain.ParseStatus(d.Status)
		if err != nil {
			return domain.Record{}, &MappingError{Resource: resource, Field: "status", Detail: err.Error()}
		}
		rec.Status = st
	}
	return rec, nil
}
