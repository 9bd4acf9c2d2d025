package remote

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/episodeo/episodeo-server/internal/domain"
	"github.com/episodeo/episodeo-server/internal/errors"
)

// Client is the HTTP implementation of Store. Every call is bounded by
// the configured timeout so an offline device fails fast instead of
// hanging on a dead socket.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a remote store client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// do sends a request and decodes a 2xx response body into dest (when dest
// is non-nil). Transport failures become offline errors; HTTP error
// statuses are mapped to domain errors.
func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts, refused connections, and DNS failures all mean the
		// same thing to the caller: the cloud is unreachable.
		return errors.Offline("no connection, changes cannot be saved", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, method, path)
	}

	if dest != nil {
		if err := json.UnmarshalRead(resp.Body, dest); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// statusError maps an HTTP error status to a domain error.
func statusError(status int, method, path string) error {
	switch status {
	case http.StatusNotFound:
		return errors.NotFound(fmt.Sprintf("remote document not found: %s %s", method, path))
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.ErrUnauthorized
	case http.StatusConflict:
		return errors.ErrConflict
	default:
		return errors.Internal(fmt.Sprintf("remote call failed: %s %s: status %d", method, path, status), nil)
	}
}

func userPath(userID string, parts ...string) string {
	p := "/v1/users/" + url.PathEscape(userID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// Statuses returns every watch status document for the user.
func (c *Client) Statuses(ctx context.Context, userID string) ([]domain.SeriesStatus, error) {
	var statuses []domain.SeriesStatus
	if err := c.do(ctx, http.MethodGet, userPath(userID, "series"), nil, &statuses); err != nil {
		return nil, fmt.Errorf("fetch statuses: %w", err)
	}
	return statuses, nil
}

// SetStatus merge-writes the status field of a series document.
func (c *Client) SetStatus(ctx context.Context, userID string, seriesID int, status domain.WatchStatus) error {
	body := map[string]string{"status": string(status)}
	return c.do(ctx, http.MethodPut, userPath(userID, "series", strconv.Itoa(seriesID), "status"), body, nil)
}

// SetRating merge-writes the rating field of a series document.
func (c *Client) SetRating(ctx context.Context, userID string, seriesID, rating int) error {
	body := map[string]int{"rating": rating}
	return c.do(ctx, http.MethodPut, userPath(userID, "series", strconv.Itoa(seriesID), "rating"), body, nil)
}

// ClearRating removes the rating field, leaving the status untouched.
func (c *Client) ClearRating(ctx context.Context, userID string, seriesID int) error {
	return c.do(ctx, http.MethodDelete, userPath(userID, "series", strconv.Itoa(seriesID), "rating"), nil, nil)
}

// DeleteStatus removes the whole series document.
func (c *Client) DeleteStatus(ctx context.Context, userID string, seriesID int) error {
	return c.do(ctx, http.MethodDelete, userPath(userID, "series", strconv.Itoa(seriesID)), nil, nil)
}

// Lists returns every custom list owned by the user.
func (c *Client) Lists(ctx context.Context, userID string) ([]domain.CustomList, error) {
	var lists []domain.CustomList
	if err := c.do(ctx, http.MethodGet, userPath(userID, "lists"), nil, &lists); err != nil {
		return nil, fmt.Errorf("fetch lists: %w", err)
	}
	return lists, nil
}

// List returns one custom list by owner and ID, or nil when absent.
func (c *Client) List(ctx context.Context, ownerID, listID string) (*domain.CustomList, error) {
	var list domain.CustomList
	err := c.do(ctx, http.MethodGet, userPath(ownerID, "lists", listID), nil, &list)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch list: %w", err)
	}
	return &list, nil
}

// CreateList creates a custom list document.
func (c *Client) CreateList(ctx context.Context, list domain.CustomList) error {
	return c.do(ctx, http.MethodPost, userPath(list.OwnerID, "lists"), list, nil)
}

// RenameList merge-writes the name field of a list document.
func (c *Client) RenameList(ctx context.Context, ownerID, listID, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, http.MethodPatch, userPath(ownerID, "lists", listID), body, nil)
}

// AddListMembers unions seriesIDs into the list membership server-side.
func (c *Client) AddListMembers(ctx context.Context, ownerID, listID string, seriesIDs []int) error {
	body := map[string][]int{"series_ids": seriesIDs}
	return c.do(ctx, http.MethodPost, userPath(ownerID, "lists", listID, "members", "add"), body, nil)
}

// RemoveListMembers subtracts seriesIDs from the list membership server-side.
func (c *Client) RemoveListMembers(ctx context.Context, ownerID, listID string, seriesIDs []int) error {
	body := map[string][]int{"series_ids": seriesIDs}
	return c.do(ctx, http.MethodPost, userPath(ownerID, "lists", listID, "members", "remove"), body, nil)
}

// DeleteList removes a custom list document.
func (c *Client) DeleteList(ctx context.Context, ownerID, listID string) error {
	return c.do(ctx, http.MethodDelete, userPath(ownerID, "lists", listID), nil, nil)
}

// Follows returns every followed-list reference for the user.
func (c *Client) Follows(ctx context.Context, userID string) ([]domain.FollowedList, error) {
	var refs []domain.FollowedList
	if err := c.do(ctx, http.MethodGet, userPath(userID, "follows"), nil, &refs); err != nil {
		return nil, fmt.Errorf("fetch follows: %w", err)
	}
	return refs, nil
}

// PutFollow upserts a followed-list reference.
func (c *Client) PutFollow(ctx context.Context, userID string, ref domain.FollowedList) error {
	return c.do(ctx, http.MethodPut, userPath(userID, "follows", ref.ListID), ref, nil)
}

// DeleteFollow removes a followed-list reference.
func (c *Client) DeleteFollow(ctx context.Context, userID, listID string) error {
	return c.do(ctx, http.MethodDelete, userPath(userID, "follows", listID), nil, nil)
}

// ShareCode looks up a share code document, or nil when the code is
// unknown.
func (c *Client) ShareCode(ctx context.Context, code string) (*domain.ShareCode, error) {
	var sc domain.ShareCode
	err := c.do(ctx, http.MethodGet, "/v1/codes/"+url.PathEscape(code), nil, &sc)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch share code: %w", err)
	}
	return &sc, nil
}

// PutShareCode stores a share code document keyed by the code.
func (c *Client) PutShareCode(ctx context.Context, sc domain.ShareCode) error {
	return c.do(ctx, http.MethodPut, "/v1/codes/"+url.PathEscape(sc.Code), sc, nil)
}

// DeleteShareCode removes a share code document.
func (c *Client) DeleteShareCode(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodDelete, "/v1/codes/"+url.PathEscape(code), nil, nil)
}

// DeleteUser removes every remote document owned by the user.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if c.logger != nil {
		c.logger.Info("deleting remote user data", "user_id", userID)
	}
	return c.do(ctx, http.MethodDelete, userPath(userID), nil, nil)
}
