package rowstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// BaserowStore implements Store against the Baserow REST API.
type BaserowStore struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewBaserowStore(baseURL, token string, timeout time.Duration) *BaserowStore {
	return &BaserowStore{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// pageSize is the largest page Baserow serves; Find follows "next" until it is null.
const pageSize = 200

type listResponse struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []Row   `json:"results"`
}

func (s *BaserowStore) Find(ctx context.Context, table string, filters ...Filter) ([]Row, error) {
	q := url.Values{}
	q.Set("user_field_names", "true")
	q.Set("size", strconv.Itoa(pageSize))
	for _, f := range filters {
		q.Set(fmt.Sprintf("filter__%s__%s", f.Field, f.Op), f.Value)
	}

	rows := []Row{}
	next := s.tableURL(table) + "?" + q.Encode()
	for next != "" {
		var page listResponse
		if err := s.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}
		rows = append(rows, page.Results...)
		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}
	return rows, nil
}

func (s *BaserowStore) Get(ctx context.Context, table, id string) (Row, error) {
	u, err := s.rowURL(table, id)
	if err != nil {
		return nil, err
	}
	var row Row
	if err := s.do(ctx, http.MethodGet, u+"?user_field_names=true", nil, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *BaserowStore) Insert(ctx context.Context, table string, fields map[string]any) (Row, error) {
	var row Row
	if err := s.do(ctx, http.MethodPost, s.tableURL(table)+"?user_field_names=true", fields, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *BaserowStore) Update(ctx context.Context, table, id string, fields map[string]any) (Row, error) {
	u, err := s.rowURL(table, id)
	if err != nil {
		return nil, err
	}
	var row Row
	if err := s.do(ctx, http.MethodPatch, u+"?user_field_names=true", fields, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *BaserowStore) Delete(ctx context.Context, table, id string) error {
	u, err := s.rowURL(table, id)
	if err != nil {
		return err
	}
	return s.do(ctx, http.MethodDelete, u, nil, nil)
}

func (s *BaserowStore) tableURL(table string) string {
	return fmt.Sprintf("%s/api/database/rows/table/%s/", s.baseURL, url.PathEscape(table))
}

// rowURL rejects non-numeric ids up front; Baserow row ids are integers.
func (s *BaserowStore) rowURL(table, id string) (string, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return "", ErrNotFound
	}
	return fmt.Sprintf("%s%d/", s.tableURL(table), n), nil
}

func (s *BaserowStore) do(ctx context.Context, method, rawURL string, body any, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("row store %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("row store %s returned %d: %s", method, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode row store response: %w", err)
	}
	return nil
}
