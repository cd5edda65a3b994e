// Package lemmy is a minimal client for the slice of the Lemmy HTTP API the
// comment engine consumes. It never retries: failures surface to the engine,
// which preserves prior state and lets the user retry manually.
package lemmy

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

	"golang.org/x/time/rate"

	"postview/pkg/models"
)

// APIError is a completed upstream call that was rejected. Message carries
// the upstream error token (e.g. "rate_limit_error") for categorization.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}

// Client talks to one Lemmy-compatible instance.
type Client struct {
	base    string
	jwt     string
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a client for baseURL. rps<=0 disables outbound rate limiting.
func New(baseURL, jwt string, timeout time.Duration, rps float64, burst int) *Client {
	c := &Client{
		base: baseURL,
		jwt:  jwt,
		http: &http.Client{Timeout: timeout},
	}
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return c
}

// GetComments fetches the flat, server-ordered comment batch for a post.
func (c *Client) GetComments(ctx context.Context, postID int64, sort models.Sort, maxDepth int) ([]models.CommentView, error) {
	q := url.Values{}
	q.Set("post_id", strconv.FormatInt(postID, 10))
	q.Set("sort", string(sort))
	q.Set("type_", "All")
	if maxDepth > 0 {
		q.Set("max_depth", strconv.Itoa(maxDepth))
	}
	var out struct {
		Comments []models.CommentView `json:"comments"`
	}
	if err := c.get(ctx, "/api/v3/comment/list", q, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

// GetSite fetches the instance admin list.
func (c *Client) GetSite(ctx context.Context) (models.SiteInfo, error) {
	var out struct {
		Admins []struct {
			Person models.Person `json:"person"`
		} `json:"admins"`
	}
	if err := c.get(ctx, "/api/v3/site", nil, &out); err != nil {
		return models.SiteInfo{}, err
	}
	site := models.SiteInfo{}
	for _, a := range out.Admins {
		site.Admins = append(site.Admins, a.Person)
	}
	return site, nil
}

// GetCommunity fetches the community's moderator list by name.
func (c *Client) GetCommunity(ctx context.Context, name string) (models.CommunityInfo, error) {
	q := url.Values{}
	q.Set("name", name)
	var out struct {
		Moderators []struct {
			Moderator models.Person `json:"moderator"`
		} `json:"moderators"`
	}
	if err := c.get(ctx, "/api/v3/community", q, &out); err != nil {
		return models.CommunityInfo{}, err
	}
	comm := models.CommunityInfo{}
	for _, m := range out.Moderators {
		comm.Moderators = append(comm.Moderators, m.Moderator)
	}
	return comm, nil
}

// LikeComment submits a vote. Score 0 retracts; the response carries the
// server-authoritative vote state and counts.
func (c *Client) LikeComment(ctx context.Context, commentID int64, score int) (models.CommentView, error) {
	body := map[string]any{"comment_id": commentID, "score": score}
	return c.commentMutation(ctx, http.MethodPost, "/api/v3/comment/like", body)
}

// EditComment replaces a comment's content (and optionally language).
func (c *Client) EditComment(ctx context.Context, commentID int64, content string, languageID int64) (models.CommentView, error) {
	body := map[string]any{"comment_id": commentID, "content": content}
	if languageID != 0 {
		body["language_id"] = languageID
	}
	return c.commentMutation(ctx, http.MethodPut, "/api/v3/comment", body)
}

// DeleteComment sets or clears the author-deleted flag.
func (c *Client) DeleteComment(ctx context.Context, commentID int64, deleted bool) (models.CommentView, error) {
	body := map[string]any{"comment_id": commentID, "deleted": deleted}
	return c.commentMutation(ctx, http.MethodPost, "/api/v3/comment/delete", body)
}

func (c *Client) commentMutation(ctx context.Context, method, path string, body map[string]any) (models.CommentView, error) {
	var out struct {
		CommentView models.CommentView `json:"comment_view"`
	}
	if err := c.send(ctx, method, path, nil, body, &out); err != nil {
		return models.CommentView{}, err
	}
	// A 2xx body without a comment_view is not a confirmation; surfacing it
	// as success would let a zero view overwrite the node.
	if out.CommentView.Comment.ID == 0 {
		return models.CommentView{}, &APIError{Status: http.StatusOK, Message: "response missing comment_view"}
	}
	return out.CommentView, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	return c.send(ctx, http.MethodGet, path, q, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, q url.Values, body map[string]any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.jwt != "" {
		req.Header.Set("Authorization", "Bearer "+c.jwt)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := http.StatusText(res.StatusCode)
		var eb struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return &APIError{Status: res.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
