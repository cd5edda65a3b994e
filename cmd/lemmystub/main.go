// lemmystub is a development stand-in for an upstream Lemmy instance. It
// serves a small canned comment thread and accepts vote/edit/delete calls,
// mutating the fixtures in memory so the engine can be exercised end to end
// without a real federated server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	"postview/pkg/models"
)

type stub struct {
	mu    sync.Mutex
	views map[int64]*models.CommentView
	order []int64
}

func newStub() *stub {
	s := &stub{views: map[int64]*models.CommentView{}}
	seed := []models.CommentView{
		fixture(1, "0.1", "First!", 101, "alice"),
		fixture(2, "0.1.2", "Replying to first", 102, "bob"),
		fixture(3, "0.3", "Another root comment", 103, "carol"),
		fixture(4, "0.1.2.4", "Deep reply", 101, "alice"),
	}
	for i := range seed {
		v := seed[i]
		s.views[v.Comment.ID] = &v
		s.order = append(s.order, v.Comment.ID)
	}
	return s
}

func fixture(id int64, path, content string, creator int64, name string) models.CommentView {
	return models.CommentView{
		Comment: models.CommentFields{
			ID: id, Path: path, Content: content, CreatorID: creator,
			PostID: 42, Published: time.Now().UTC().Format(time.RFC3339),
		},
		Creator: models.Person{ID: creator, Name: name, Local: true},
		Counts:  models.Counts{Upvotes: 1, Score: 1},
	}
}

func (s *stub) handler(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("Content-Type", "application/json")
	switch string(ctx.Path()) {
	case "/api/v3/comment/list":
		s.list(ctx)
	case "/api/v3/site":
		_ = json.NewEncoder(ctx).Encode(map[string]any{
			"admins": []map[string]any{{"person": models.Person{ID: 103, Name: "carol", Local: true}}},
		})
	case "/api/v3/community":
		_ = json.NewEncoder(ctx).Encode(map[string]any{
			"moderators": []map[string]any{{"moderator": models.Person{ID: 101, Name: "alice", Local: true}}},
		})
	case "/api/v3/comment/like":
		s.mutate(ctx, func(v *models.CommentView, body map[string]any) {
			score := asInt(body["score"])
			v.MyVote = score
			v.Counts.Upvotes = 1
			v.Counts.Downvotes = 0
			if score == 1 {
				v.Counts.Upvotes = 2
			} else if score == -1 {
				v.Counts.Downvotes = 1
			}
			v.Counts.Score = v.Counts.Upvotes - v.Counts.Downvotes
		})
	case "/api/v3/comment":
		s.mutate(ctx, func(v *models.CommentView, body map[string]any) {
			if c, ok := body["content"].(string); ok {
				v.Comment.Content = c
			}
			v.Comment.Updated = time.Now().UTC().Format(time.RFC3339)
		})
	case "/api/v3/comment/delete":
		s.mutate(ctx, func(v *models.CommentView, body map[string]any) {
			if d, ok := body["deleted"].(bool); ok {
				v.Comment.Deleted = d
			}
		})
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		_, _ = ctx.WriteString(`{"error":"couldnt_find_path"}`)
	}
}

func (s *stub) list(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CommentView, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.views[id])
	}
	_ = json.NewEncoder(ctx).Encode(map[string]any{"comments": out})
}

func (s *stub) mutate(ctx *fasthttp.RequestCtx, apply func(*models.CommentView, map[string]any)) {
	var body map[string]any
	if err := json.Unmarshal(ctx.PostBody(), &body); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		_, _ = ctx.WriteString(`{"error":"invalid json"}`)
		return
	}
	id := int64(asInt(body["comment_id"]))
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	if !ok {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		_, _ = ctx.WriteString(`{"error":"couldnt_find_comment"}`)
		return
	}
	apply(v, body)
	_ = json.NewEncoder(ctx).Encode(map[string]any{"comment_view": *v})
}

func asInt(v any) int {
	f, _ := v.(float64)
	return int(f)
}

func main() {
	addr := flag.String("addr", ":8536", "listen address for the Lemmy API stub")
	flag.Parse()

	s := newStub()
	fmt.Printf("lemmy API stub listening on %s\n", *addr)
	srv := &fasthttp.Server{
		Handler:            s.handler,
		Name:               "postview-lemmystub",
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
	if err := srv.ListenAndServe(*addr); err != nil {
		fmt.Printf("lemmystub server exit: %v\n", err)
	}
}
