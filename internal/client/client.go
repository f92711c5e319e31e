package client

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

	"github.com/appetiteapp/backend/internal/model"
)

// Client is the HTTP client for the recipe catalog API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a catalog client. token may be empty for read-only use.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ListOptions narrow a server-side listing. The controller normally lists
// unfiltered and filters locally; these serve category deep-links.
type ListOptions struct {
	CategoryID    uint
	Search        string
	Difficulty    string
	FavoritesOnly bool
}

// RecipeDraft is a create/update submission.
type RecipeDraft struct {
	Title           string               `json:"title"`
	Description     string               `json:"description,omitempty"`
	Ingredients     model.IngredientList `json:"ingredients"`
	Steps           string               `json:"steps,omitempty"`
	PrepTimeMinutes int                  `json:"prep_time_minutes"`
	CategoryID      uint                 `json:"category_id"`
	Difficulty      string               `json:"difficulty"`
	Rating          int                  `json:"rating"`
	ImageURL        string               `json:"image_url,omitempty"`
}

// List fetches recipes, newest first.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]model.Recipe, error) {
	q := url.Values{}
	if opts.CategoryID != 0 {
		q.Set("categoria", strconv.FormatUint(uint64(opts.CategoryID), 10))
	}
	if opts.Search != "" {
		q.Set("q", opts.Search)
	}
	if opts.Difficulty != "" {
		q.Set("difficulty", opts.Difficulty)
	}
	if opts.FavoritesOnly {
		q.Set("favorites", "true")
	}

	path := "/api/v1/recipes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var recipes []model.Recipe
	if err := c.do(ctx, http.MethodGet, path, nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get fetches a single recipe.
func (c *Client) Get(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", id), nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Create submits a new recipe.
func (c *Client) Create(ctx context.Context, draft RecipeDraft) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := c.do(ctx, http.MethodPost, "/api/v1/recipes", draft, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// SetFavorite sets the favorite flag to an absolute value; safe to retry.
func (c *Client) SetFavorite(ctx context.Context, id uint, favorite bool) (*model.FavoriteStatus, error) {
	body := map[string]bool{"favorite": favorite}
	var status model.FavoriteStatus
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/recipes/%d/favorita", id), body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Delete removes a recipe owned by the authenticated user.
func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// apiError maps an error response back onto the domain errors, so callers
// can errors.Is against them the same way they would server-side.
func apiError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error == "" {
		payload.Error = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusForbidden:
		return model.ErrForbidden
	case http.StatusConflict:
		return model.ErrDuplicateTitle
	case http.StatusBadRequest:
		if payload.Error == model.ErrDuplicateTitle.Error() {
			return model.ErrDuplicateTitle
		}
		if payload.Error == model.ErrInvalidCategory.Error() {
			return model.ErrInvalidCategory
		}
		return &model.ValidationError{Field: "request", Message: payload.Error}
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, payload.Error)
	}
}
