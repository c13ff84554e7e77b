// Package remote is the HTTP client for the opaque data service behind the
// dashboard: listing collections and dispatching single or batch writes.
// Remote failures split into two channels the rest of the system keeps
// apart: ErrUnavailable (retryable transport trouble) and ErrConflict (the
// server's authoritative guard refused, state changed elsewhere).
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"merchops/internal/config"
	"merchops/internal/domain"
	"merchops/internal/pkg/breaker"
	"merchops/internal/pkg/retry"
)

var (
	ErrUnavailable = errors.New("data service unavailable")
	ErrConflict    = errors.New("data service rejected the operation")
)

// Retryable is the retry filter for remote calls: only transport trouble is
// worth replaying, a conflict stays a conflict.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

type Client struct {
	base   string
	http   *http.Client
	brk    *breaker.Breaker
	policy config.Retry
	logger *zap.Logger
}

func New(cfg config.Remote, brk *breaker.Breaker, policy config.Retry, logger *zap.Logger) *Client {
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		http:   &http.Client{Timeout: cfg.Timeout},
		brk:    brk,
		policy: policy,
		logger: logger,
	}
}

// List fetches one page of a collection.
func (c *Client) List(ctx context.Context, resource string, filter map[string]string, page int) (ListResult, error) {
	q := url.Values{}
	for k, v := range filter {
		q.Set(k, v)
	}
	q.Set("page", strconv.Itoa(page))

	var out ListResult
	err := c.call(ctx, http.MethodGet, c.base+"/"+resource+"?"+q.Encode(), nil, func(body io.Reader) error {
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		var dto listDTO
		if err := dec.Decode(&dto); err != nil {
			return &MappingError{Resource: resource, Detail: err.Error()}
		}
		items := make([]domain.Record, 0, len(dto.Items))
		for _, d := range dto.Items {
			rec, err := mapRecord(resource, d)
			if err != nil {
				return err
			}
			items = append(items, rec)
		}
		out = ListResult{
			Items:    items,
			PageInfo: domain.PageInfo(dto.Pagination),
		}
		return nil
	})
	return out, err
}

// Mutate dispatches a single-record or batch write.
func (c *Client) Mutate(ctx context.Context, resource string, op Op, payload any) (MutationResult, error) {
	reqBody := struct {
		Op      Op  `json:"op"`
		Payload any `json:"payload"`
	}{Op: op, Payload: payload}

	var out MutationResult
	err := c.call(ctx, http.MethodPost, c.base+"/"+resource+"/mutate", reqBody, func(body io.Reader) error {
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		var dto mutateDTO
		if err := dec.Decode(&dto); err != nil {
			return &MappingError{Resource: resource, Detail: err.Error()}
		}
		if dto.Record != nil {
			rec, err := mapRecord(resource, *dto.Record)
			if err != nil {
				return err
			}
			out = MutationResult{Record: &rec, Count: 1}
			return nil
		}
		if dto.Count != nil {
			out = MutationResult{Count: *dto.Count}
			return nil
		}
		return &MappingError{Resource: resource, Detail: "mutation response carries neither record nor count"}
	})
	return out, err
}

// Export asks the service to produce an export of the given records. The
// heavy lifting happens server-side; only the accepted count comes back.
func (c *Client) Export(ctx context.Context, resource string, ids []string) (int, error) {
	res, err := c.Mutate(ctx, resource, OpExport, IDsPayload{IDs: ids})
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

// call runs one HTTP exchange behind the circuit breaker and the retry
// policy. decode only runs on a 2xx response.
func (c *Client) call(ctx context.Context, method, rawURL string, reqBody any, decode func(io.Reader) error) error {
	return retry.Do(ctx, c.policy, Retryable, func() error {
		if err := c.brk.Allow(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		err := c.doOnce(ctx, method, rawURL, reqBody, decode)
		if errors.Is(err, ErrUnavailable) {
			c.brk.Failure()
		} else {
			c.brk.Success()
		}
		return err
	})
}

func (c *Client) doOnce(ctx context.Context, method, rawURL string, reqBody any, decode func(io.Reader) error) error {
	var body io.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return decode(resp.Body)
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		c.logger.Warn("data service transport failure",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: http %d", ErrUnavailable, resp.StatusCode)
	default:
		// Any other 4xx carries the server guard's verdict, 409 included.
		detail := readErrorDetail(resp.Body)
		c.logger.Info("data service rejected operation",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail),
		)
		if detail == "" {
			return fmt.Errorf("%w: http %d", ErrConflict, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", ErrConflict, detail)
	}
}

func readErrorDetail(r io.Reader) string {
	var dto struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&dto); err != nil {
		return ""
	}
	return dto.Error
}
