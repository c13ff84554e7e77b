// Package httpapi exposes the dashboard's collection reads and guarded
// mutations over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"merchops/internal/application/service"
	"merchops/internal/bulk"
	"merchops/internal/cache"
	"merchops/internal/domain"
	"merchops/internal/journal"
	"merchops/internal/mutation"
	"merchops/internal/observability"
	"merchops/internal/remote"
	"merchops/internal/selection"
)

//go:generate mockgen -source=httpapi.go -destination=httpapi_mock_test.go -package=httpapi

type Lister interface {
	ListWithStats(ctx context.Context, q service.Query) (cache.Entry, service.LookupStats, error)
}

type Executor interface {
	Execute(ctx context.Context, req mutation.Request) (mutation.Result, error)
}

type BulkRunner interface {
	Run(ctx context.Context, req bulk.Request, sel *selection.Set) (bulk.Result, error)
}

type StatusGuard interface {
	Allowed(from, to domain.Status, directCompletion bool) bool
}

type Mutator interface {
	Mutate(ctx context.Context, resource string, op remote.Op, payload any) (remote.MutationResult, error)
}

type JournalReader interface {
	RecentEntries(ctx context.Context, limit int) ([]journal.Entry, error)
}

type Server struct {
	lister  Lister
	exec    Executor
	bulk    BulkRunner
	guard   StatusGuard
	remote  Mutator
	journal JournalReader
	mux     *http.ServeMux
	logger  *zap.Logger
	metrics observability.Metrics
}

func New(lister Lister, exec Executor, bulkRunner BulkRunner, guard StatusGuard, rem Mutator, jr JournalReader, logger *zap.Logger, metrics observability.Metrics) *Server {
	s := &Server{
		lister:  lister,
		exec:    exec,
		bulk:    bulkRunner,
		guard:   guard,
		remote:  rem,
		journal: jr,
		mux:     http.NewServeMux(),
		logger:  logger,
		metrics: metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/{resource}", s.listCollection)
	s.mux.HandleFunc("POST /api/{resource}", s.createRecord)
	s.mux.HandleFunc("DELETE /api/{resource}/{id}", s.deleteRecord)
	s.mux.HandleFunc("PATCH /api/orders/{id}/status", s.changeStatus)
	s.mux.HandleFunc("POST /api/orders/bulk", s.bulkAction)
	s.mux.HandleFunc("GET /journal", s.recentJournal)
	s.mux.HandleFunc("GET /healthz", s.healthz)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

func knownResource(r string) bool {
	switch r {
	case domain.ResourceOrders, domain.ResourceProducts, domain.ResourceIngredients:
		return true
	}
	return false
}

// query builds the collection signature for a request. Filters arrive as
// f.<field>=<value> params so they cannot collide with page.
func query(r *http.Request, resource string) service.Query {
	q := service.Query{Resource: resource, Page: 1}
	filter := map[string]string{}
	for k, vs := range r.URL.Query() {
		if f, ok := strings.CutPrefix(k, "f."); ok && len(vs) > 0 {
			filter[f] = vs[0]
		}
	}
	if len(filter) > 0 {
		q.Filter = filter
	}
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	return q
}

func (s *Server) listCollection(w http.ResponseWriter, r *http.Request) {
	resource := r.PathValue("resource")
	if !knownResource(resource) {
		http.Error(w, "unknown resource", http.StatusNotFound)
		return
	}

	q := query(r, resource)
	entry, st, err := s.lister.ListWithStats(r.Context(), q)
	if err != nil {
		s.logger.Error("list failed", zap.String("resource", resource), zap.Error(err))
		http.Error(w, "collection unavailable", http.StatusBadGateway)
		return
	}

	observability.AppendServerTiming(w, "cache", st.CacheMs, "")
	observability.AppendServerTiming(w, "remote", st.RemoteMs, "")
	observability.AppendServerTiming(w, "source", 0, string(st.Source))
	w.Header().Set("X-Source", string(st.Source))
	observability.SetIfPos(w, "X-Cache-Time", st.CacheMs)
	observability.SetIfPos(w, "X-Remote-Time", st.RemoteMs)

	writeJSON(w, http.StatusOK, listResponse{
		Items:      entry.Data,
		Pagination: entry.PageInfo,
		Stale:      entry.Stale,
	})
}

type listResponse struct {
	Items      []domain.Record `json:"items"`
	Pagination domain.PageInfo `json:"pagination"`
	Stale      bool            `json:"stale,omitempty"`
}

type createRequest struct {
	Attrs map[string]string `json:"attrs"`
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	resource := r.PathValue("resource")
	if !knownResource(resource) {
		http.Error(w, "unknown resource", http.StatusNotFound)
		return
	}

	var body createRequest
	if !decodeJSON(w, r, s.logger, &body) {
		return
	}
	if len(body.Attrs) == 0 {
		http.Error(w, "attrs are required", http.StatusBadRequest)
		return
	}

	q := query(r, resource)
	provID := domain.NewProvisionalID()
	provisional := domain.Record{
		ID:          provID,
		Resource:    resource,
		Provisional: true,
		Attrs:       body.Attrs,
	}
	if resource == domain.ResourceOrders {
		provisional.Status = domain.StatusPending
	}

	res, err := s.exec.Execute(r.Context(), mutation.Request{
		Signature: q.Signature(),
		Patch: func(data []domain.Record) []domain.Record {
			return append(data, provisional)
		},
		Call: func(ctx context.Context) (remote.MutationResult, error) {
			return s.remote.Mutate(ctx, resource, remote.OpCreate, remote.CreatePayload{Attrs: body.Attrs})
		},
		Op:            string(remote.OpCreate),
		ProvisionalID: provID,
	})
	if err != nil {
		s.writeMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, res.Confirmed)
}

type statusRequest struct {
	NewStatus        string `json:"new_status"`
	DirectCompletion bool   `json:"direct_completion,omitempty"`
}

func (s *Server) changeStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body statusRequest
	if !decodeJSON(w, r, s.logger, &body) {
		return
	}
	target, err := domain.ParseStatus(body.NewStatus)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := query(r, domain.ResourceOrders)
	sig := q.Signature()

	entry, _, err := s.lister.ListWithStats(r.Context(), q)
	if err != nil {
		http.Error(w, "collection unavailable", http.StatusBadGateway)
		return
	}

	var current *domain.Record
	for i := range entry.Data {
		if entry.Data[i].ID == id {
			current = &entry.Data[i]
			break
		}
	}
	if current == nil {
		http.Error(w, "no such order in the collection", http.StatusNotFound)
		return
	}
	if !s.guard.Allowed(current.Status, target, body.DirectCompletion) {
		s.writeMutationError(w, mutation.Validation(
			fmt.Errorf("transition %s -> %s is not allowed", current.Status, target)))
		return
	}

	res, err := s.exec.Execute(r.Context(), mutation.Request{
		Signature: sig,
		Patch: func(data []domain.Record) []domain.Record {
			for i := range data {
				if data[i].ID == id {
					data[i].Status = target
				}
			}
			return data
		},
		Call: func(ctx context.Context) (remote.MutationResult, error) {
			return s.remote.Mutate(ctx, domain.ResourceOrders, remote.OpUpdateStatus,
				remote.StatusPayload{ID: id, NewStatus: target})
		},
		Op:  string(remote.OpUpdateStatus),
		IDs: []string{id},
	})
	if err != nil {
		s.writeMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res.Confirmed)
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	resource := r.PathValue("resource")
	if !knownResource(resource) {
		http.Error(w, "unknown resource", http.StatusNotFound)
		return
	}
	id := r.PathValue("id")
	if domain.IsProvisionalID(id) {
		http.Error(w, "record is not confirmed yet", http.StatusConflict)
		return
	}

	q := query(r, resource)
	_, err := s.exec.Execute(r.Context(), mutation.Request{
		Signature: q.Signature(),
		Patch: func(data []domain.Record) []domain.Record {
			out := data[:0]
			for _, rec := range data {
				if rec.ID != id {
					out = append(out, rec)
				}
			}
			return out
		},
		Call: func(ctx context.Context) (remote.MutationResult, error) {
			return s.remote.Mutate(ctx, resource, remote.OpDelete, remote.IDsPayload{IDs: []string{id}})
		},
		Op:  string(remote.OpDelete),
		IDs: []string{id},
	})
	if err != nil {
		s.writeMutationError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type bulkRequest struct {
	Action           string   `json:"action"`
	IDs              []string `json:"ids"`
	TargetStatus     string   `json:"target_status,omitempty"`
	DirectCompletion bool     `json:"direct_completion,omitempty"`
}

type bulkResponse struct {
	bulk.Result
	Remaining []string `json:"remaining_selection,omitempty"`
	Message   string   `json:"message,omitempty"`
}

func (s *Server) bulkAction(w http.ResponseWriter, r *http.Request) {
	var body bulkRequest
	if !decodeJSON(w, r, s.logger, &body) {
		return
	}

	var action bulk.Action
	switch bulk.Action(body.Action) {
	case bulk.ActionDelete, bulk.ActionStatusChange, bulk.ActionExport:
		action = bulk.Action(body.Action)
	default:
		http.Error(w, "unknown bulk action", http.StatusBadRequest)
		return
	}

	req := bulk.Request{
		Action:           action,
		Signature:        query(r, domain.ResourceOrders).Signature(),
		DirectCompletion: body.DirectCompletion,
	}
	if action == bulk.ActionStatusChange {
		target, err := domain.ParseStatus(body.TargetStatus)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.TargetStatus = target
	}

	sel := selection.New()
	sel.SelectAll(body.IDs)

	res, err := s.bulk.Run(r.Context(), req, sel)
	if err != nil {
		var merr *mutation.Error
		if errors.As(err, &merr) {
			// The batch rolled back as a unit; the untouched selection goes
			// back to the caller for a retry.
			writeJSON(w, kindStatus(merr.Kind), bulkResponse{
				Result:    res,
				Remaining: sel.IDs(),
				Message:   merr.UserMessage(),
			})
			return
		}
		http.Error(w, "bulk action failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, bulkResponse{Result: res, Remaining: sel.IDs()})
}

func (s *Server) recentJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "journal is not configured", http.StatusNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.journal.RecentEntries(r.Context(), limit)
	if err != nil {
		s.logger.Error("journal read failed", zap.Error(err))
		http.Error(w, "journal unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func kindStatus(k mutation.Kind) int {
	switch k {
	case mutation.KindValidation:
		return http.StatusUnprocessableEntity
	case mutation.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (s *Server) writeMutationError(w http.ResponseWriter, err error) {
	var merr *mutation.Error
	if !errors.As(err, &merr) {
		merr = mutation.Classify(err)
	}
	writeJSON(w, kindStatus(merr.Kind), errorResponse{
		Kind:    merr.Kind.String(),
		Message: merr.UserMessage(),
		Detail:  merr.Err.Error(),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		logger.Error("error while decoding JSON", zap.Error(err))
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	handler := ServerTimingApp(s.metrics)(s.mux)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

func (s *Server) Handler() http.Handler { return s.mux }
