// Package pocketbase is a record store backed by a hosted PocketBase instance,
// reached over its REST records API.
package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dadas-io/dadas/pkg/model"
	"github.com/dadas-io/dadas/pkg/store"
	"github.com/sirupsen/logrus"
)

const (
	perPage = 200

	// PocketBase serializes datetimes as "2006-01-02 15:04:05.000Z".
	timeLayout = "2006-01-02 15:04:05.000Z07:00"

	tokenLifetime = 50 * time.Minute

	DefaultTimeout = 10 * time.Second
)

type Config struct {
	BaseURL    string
	Collection string
	// AuthCollection, Identity and Password are optional. When Identity is
	// empty requests are sent without a token and the collection rules decide.
	AuthCollection string
	Identity       string
	Password       string
	Timeout        time.Duration
}

type Client struct {
	baseURL        string
	collection     string
	authCollection string
	identity       string
	password       string

	mu    sync.Mutex
	token string
	exp   time.Time
	http  *http.Client
}

func New(cfg Config) *Client {
	collection := cfg.Collection
	if collection == "" {
		collection = store.Collection
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	authCollection := cfg.AuthCollection
	if authCollection == "" {
		authCollection = "users"
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		collection:     collection,
		authCollection: authCollection,
		identity:       cfg.Identity,
		password:       cfg.Password,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

type record struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	CPU          string   `json:"cpu"`
	RAM          string   `json:"ram"`
	Storage      string   `json:"storage"`
	Applications []string `json:"applications"`
	Unit         string   `json:"unit"`
	Status       string   `json:"status"`
	Created      string   `json:"created,omitempty"`
}

func fromFields(f model.VPSFields) record {
	apps := f.Applications
	if apps == nil {
		apps = []string{}
	}
	return record{
		Name:         f.Name,
		CPU:          f.CPU,
		RAM:          f.RAM,
		Storage:      f.Storage,
		Applications: apps,
		Unit:         f.Unit,
		Status:       string(f.Status),
	}
}

func (r record) toModel() model.VPS {
	apps := r.Applications
	if apps == nil {
		apps = []string{}
	}
	return model.VPS{
		ID: r.ID,
		VPSFields: model.VPSFields{
			Name:         r.Name,
			CPU:          r.CPU,
			RAM:          r.RAM,
			Storage:      r.Storage,
			Applications: apps,
			Unit:         r.Unit,
			Status:       model.Status(r.Status),
		},
		CreatedAt: parseTime(r.Created),
	}
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{timeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	logrus.Debugf("unparseable pocketbase datetime %q", s)
	return time.Time{}
}

type listResponse struct {
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
	Items      []record `json:"items"`
}

func (c *Client) List(ctx context.Context) ([]model.VPS, error) {
	records := make([]model.VPS, 0)
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("sort", "-created")
		q.Set("page", fmt.Sprint(page))
		q.Set("perPage", fmt.Sprint(perPage))

		var out listResponse
		if err := c.do(ctx, http.MethodGet, c.recordsPath("")+"?"+q.Encode(), nil, &out); err != nil {
			return nil, store.Wrap("list", "", err)
		}
		for _, r := range out.Items {
			records = append(records, r.toModel())
		}
		if page >= out.TotalPages || len(out.Items) == 0 {
			break
		}
	}
	return records, nil
}

func (c *Client) Insert(ctx context.Context, fields model.VPSFields) error {
	if err := c.do(ctx, http.MethodPost, c.recordsPath(""), fromFields(fields), nil); err != nil {
		return store.Wrap("insert", "", err)
	}
	return nil
}

// Update sends every mutable field, so a PATCH is a full replace here.
func (c *Client) Update(ctx context.Context, id string, fields model.VPSFields) error {
	if err := c.do(ctx, http.MethodPatch, c.recordsPath(id), fromFields(fields), nil); err != nil {
		return store.Wrap("update", id, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, c.recordsPath(id), nil, nil); err != nil {
		return store.Wrap("delete", id, err)
	}
	return nil
}

func (c *Client) recordsPath(id string) string {
	p := fmt.Sprintf("/api/collections/%s/records", url.PathEscape(c.collection))
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.ensureAuth(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && method != http.MethodGet {
		return store.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("pocketbase %s %s failed: %s: %s", method, path, resp.Status, strings.TrimSpace(string(rb)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) ensureAuth(ctx context.Context) error {
	if c.identity == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// refresh if token missing or expiring soon
	if c.token != "" && time.Until(c.exp) > 60*time.Second {
		return nil
	}

	b, _ := json.Marshal(map[string]string{
		"identity": c.identity,
		"password": c.password,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/collections/%s/auth-with-password", c.baseURL, url.PathEscape(c.authCollection)),
		bytes.NewReader(b),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("pocketbase auth failed: %s: %s", resp.Status, strings.TrimSpace(string(rb)))
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if out.Token == "" {
		return fmt.Errorf("pocketbase auth token missing")
	}

	c.token = out.Token
	c.exp = time.Now().Add(tokenLifetime)
	return nil
}
