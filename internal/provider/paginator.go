package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// PageSize is the number of records requested per page. A shorter page
// ends a listing.
const PageSize = 100

// Response is a raw listing response
type Response struct {
	StatusCode int
	Body       []byte
}

// Fetcher performs one authenticated GET against a provider API. A non-nil
// error means the request could not be completed; HTTP error statuses are
// returned in Response.
type Fetcher interface {
	Get(ctx context.Context, path string, query url.Values) (*Response, error)
}

// Paginator walks every page of a listing endpoint
type Paginator struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewPaginator creates a paginator over fetcher.
func NewPaginator(fetcher Fetcher, logger *zap.Logger) *Paginator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Paginator{fetcher: fetcher, logger: logger}
}

// Records returns a lazy sequence of the raw JSON objects of every page of
// path. Iteration stops after a page shorter than PageSize, or after a body
// that is not an array of objects. A non-200 status yields an *APIError and
// ends the sequence; records yielded before it stay valid.
func (p *Paginator) Records(ctx context.Context, path string, query url.Values) iter.Seq2[json.RawMessage, error] {
	return func(yield func(json.RawMessage, error) bool) {
		for page := 1; ; page++ {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			resp, err := p.fetcher.Get(ctx, path, pageQuery(query, page))
			if err != nil {
				yield(nil, fmt.Errorf("GET %s page %d: %w", path, page, err))
				return
			}

			p.logger.Debug("listing page fetched",
				zap.String("path", path),
				zap.Int("page", page),
				zap.Int("status", resp.StatusCode),
			)

			if resp.StatusCode != http.StatusOK {
				yield(nil, &APIError{
					Context: fmt.Sprintf("GET %s page %d", path, page),
					Status:  resp.StatusCode,
					Body:    string(resp.Body),
				})

				return
			}

			records, ok := splitRecords(resp.Body)
			if !ok {
				p.logger.Debug("listing body is not an array of objects", zap.String("path", path), zap.Int("page", page))
				return
			}

			for _, record := range records {
				if !yield(record, nil) {
					return
				}
			}

			if len(records) < PageSize {
				return
			}
		}
	}
}

// Walk calls fn for every record of path. It stops at the first error from
// the listing or from fn.
func (p *Paginator) Walk(ctx context.Context, path string, query url.Values, fn func(json.RawMessage) error) error {
	for record, err := range p.Records(ctx, path, query) {
		if err != nil {
			return err
		}

		if err := fn(record); err != nil {
			return err
		}
	}

	return nil
}

// listing is the outcome of decoding one endpoint into typed values
type listing[V any] struct {
	Items []V
	Raw   int
}

// collect decodes every record of path into T and keeps the values extract
// accepts. Records that fail to decode or lack required fields are skipped.
func collect[T, V any](ctx context.Context, p *Paginator, path string, query url.Values, extract func(T) (V, bool)) (listing[V], error) {
	var out listing[V]

	err := p.Walk(ctx, path, query, func(raw json.RawMessage) error {
		out.Raw++

		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil
		}

		if v, ok := extract(record); ok {
			out.Items = append(out.Items, v)
		}

		return nil
	})
	if err != nil {
		return listing[V]{}, err
	}

	return out, nil
}

func pageQuery(base url.Values, page int) url.Values {
	q := make(url.Values, len(base)+2)
	for k, v := range base {
		q[k] = append([]string(nil), v...)
	}

	q.Set("per_page", strconv.Itoa(PageSize))

	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}

	return q
}

// splitRecords returns the elements of a JSON array of objects. ok is false
// when body is anything else.
func splitRecords(body []byte) ([]json.RawMessage, bool) {
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, false
	}

	for _, record := range records {
		trimmed := bytes.TrimSpace(record)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, false
		}
	}

	return records, true
}
