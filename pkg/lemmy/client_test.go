package lemmy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"postview/pkg/models"
)

func newClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-jwt", 5*time.Second, 0, 0), srv
}

func TestGetComments(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"comments": []models.CommentView{
				{Comment: models.CommentFields{ID: 1, Path: "0.1", Content: "hi"}},
			},
		})
	})

	views, err := c.GetComments(context.Background(), 42, models.SortHot, 8)
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if gotPath != "/api/v3/comment/list" {
		t.Fatalf("path = %q", gotPath)
	}
	q := "max_depth=8&post_id=42&sort=Hot&type_=All"
	if gotQuery != q {
		t.Fatalf("query = %q, want %q", gotQuery, q)
	}
	if gotAuth != "Bearer test-jwt" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if len(views) != 1 || views[0].Comment.ID != 1 {
		t.Fatalf("views = %+v", views)
	}
}

func TestGetCommentsOmitsZeroDepth(t *testing.T) {
	var gotQuery string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"comments":[]}`))
	})
	if _, err := c.GetComments(context.Background(), 1, models.SortNew, 0); err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if gotQuery != "post_id=1&sort=New&type_=All" {
		t.Fatalf("query = %q", gotQuery)
	}
}

func TestGetSite(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/site" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"admins":[{"person":{"id":7,"name":"root"}}]}`))
	})
	site, err := c.GetSite(context.Background())
	if err != nil {
		t.Fatalf("GetSite: %v", err)
	}
	if len(site.Admins) != 1 || site.Admins[0].ID != 7 {
		t.Fatalf("site = %+v", site)
	}
}

func TestGetCommunity(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "golang" {
			t.Errorf("name = %q", got)
		}
		_, _ = w.Write([]byte(`{"moderators":[{"moderator":{"id":3,"name":"mod"}}]}`))
	})
	comm, err := c.GetCommunity(context.Background(), "golang")
	if err != nil {
		t.Fatalf("GetCommunity: %v", err)
	}
	if len(comm.Moderators) != 1 || comm.Moderators[0].ID != 3 {
		t.Fatalf("community = %+v", comm)
	}
}

func TestLikeComment(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"comment_view": models.CommentView{
				Comment: models.CommentFields{ID: 9},
				MyVote:  1,
				Counts:  models.Counts{Score: 2},
			},
		})
	})
	view, err := c.LikeComment(context.Background(), 9, 1)
	if err != nil {
		t.Fatalf("LikeComment: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("method = %q", gotMethod)
	}
	if gotBody["comment_id"] != float64(9) || gotBody["score"] != float64(1) {
		t.Fatalf("body = %v", gotBody)
	}
	if view.MyVote != 1 || view.Counts.Score != 2 {
		t.Fatalf("view = %+v", view)
	}
}

func TestEditCommentBody(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"comment_view":{"comment":{"id":9,"content":"new"}}}`))
	})

	if _, err := c.EditComment(context.Background(), 9, "new", 0); err != nil {
		t.Fatalf("EditComment: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("method = %q", gotMethod)
	}
	if _, present := gotBody["language_id"]; present {
		t.Fatalf("zero language_id sent: %v", gotBody)
	}

	if _, err := c.EditComment(context.Background(), 9, "new", 5); err != nil {
		t.Fatalf("EditComment with language: %v", err)
	}
	if gotBody["language_id"] != float64(5) {
		t.Fatalf("language_id = %v", gotBody["language_id"])
	}
}

func TestDeleteComment(t *testing.T) {
	var gotBody map[string]any
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"comment_view":{"comment":{"id":4,"deleted":true}}}`))
	})
	view, err := c.DeleteComment(context.Background(), 4, true)
	if err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if gotBody["deleted"] != true {
		t.Fatalf("body = %v", gotBody)
	}
	if !view.Comment.Deleted {
		t.Fatalf("view = %+v", view)
	}
}

func TestMutationMissingCommentView(t *testing.T) {
	// A 2xx body without comment_view must fail the call rather than hand
	// back a zero view as confirmed state.
	for _, body := range []string{`{}`, `{"comment_view":{}}`} {
		c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := c.LikeComment(context.Background(), 9, 1)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("body %s: err = %v, want APIError", body, err)
		}
		if _, err := c.EditComment(context.Background(), 9, "x", 0); !errors.As(err, &apiErr) {
			t.Fatalf("body %s: edit err = %v, want APIError", body, err)
		}
	}
}

func TestErrorToken(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"rate_limit_error"}`))
	})
	_, err := c.GetComments(context.Background(), 1, models.SortHot, 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "rate_limit_error" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestErrorWithoutToken(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream broke"))
	})
	_, err := c.GetSite(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Message != http.StatusText(http.StatusBadGateway) {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestNoAuthHeaderWithoutJWT(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"comments":[]}`))
	}))
	defer srv.Close()
	c := New(srv.URL, "", time.Second, 0, 0)
	if _, err := c.GetComments(context.Background(), 1, models.SortHot, 0); err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
}
