package thread

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"postview/pkg/logger"
	"postview/pkg/models"
)

// Upstream is the slice of the Lemmy API the engine consumes. All calls are
// blocking and honor ctx; none of them retries.
type Upstream interface {
	GetComments(ctx context.Context, postID int64, sort models.Sort, maxDepth int) ([]models.CommentView, error)
	GetSite(ctx context.Context) (models.SiteInfo, error)
	GetCommunity(ctx context.Context, name string) (models.CommunityInfo, error)
	LikeComment(ctx context.Context, commentID int64, score int) (models.CommentView, error)
	EditComment(ctx context.Context, commentID int64, content string, languageID int64) (models.CommentView, error)
	DeleteComment(ctx context.Context, commentID int64, deleted bool) (models.CommentView, error)
}

// LoadState is the load coordinator's state machine: Idle -> Loading ->
// {Idle, Error}. A load requested while Loading is a no-op.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateError
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// generation is one complete forest+index pair plus the badge sets from the
// auxiliary fetches. A generation is immutable in structure once installed;
// only node fields mutate. It is replaced wholesale by the next successful
// load and never patched incrementally.
type generation struct {
	sort    models.Sort
	forest  []*models.Comment
	index   *Index
	admins  map[int64]struct{}
	mods    map[int64]struct{}
	hasAux  bool
}

// Options configures an Engine for one post.
type Options struct {
	// Community is the community name used for the moderator fetch; empty
	// disables it (mod badges degrade to none).
	Community string
	// ActorID is the acting user's person id; zero means anonymous.
	ActorID int64
	// FetchDepth is the max_depth requested from the upstream.
	FetchDepth int
	// RenderDepth clamps the rendered tree; deeper subtrees become
	// continue-thread markers. Zero disables the clamp.
	RenderDepth int
}

// Engine is the comment-thread engine for a single post: it owns the current
// generation, coordinates loads, and applies confirmed mutations in place.
//
// The engine's state is guarded by one mutex; upstream calls always happen
// outside the lock. Mutations on different comment ids may be in flight
// concurrently, since each one only ever touches its own node. Two mutations
// on the same id are serialized advisorily via the in-flight set (ErrBusy),
// mirroring the UI's disabled controls during a pending request.
type Engine struct {
	upstream Upstream
	postID   int64
	opts     Options

	mu       sync.Mutex
	state    LoadState
	loadErr  Category
	sort     models.Sort
	gen      *generation
	inflight map[int64]struct{}
}

// NewEngine creates an engine for postID. No load is performed until Load is
// called.
func NewEngine(upstream Upstream, postID int64, opts Options) *Engine {
	return &Engine{
		upstream: upstream,
		postID:   postID,
		opts:     opts,
		inflight: make(map[int64]struct{}),
	}
}

// PostID returns the post this engine serves.
func (e *Engine) PostID() int64 { return e.postID }

// SetCommunity records the post's community name for the moderator fetch on
// subsequent loads. Empty disables the fetch.
func (e *Engine) SetCommunity(name string) {
	e.mu.Lock()
	e.opts.Community = name
	e.mu.Unlock()
}

// Load fetches the flat comment batch plus the auxiliary admin/moderator
// data concurrently, rebuilds the forest from scratch, and installs it as a
// new generation in one swap. It blocks until the load settles.
//
// While a load is in flight any further Load is a no-op (started=false).
// Auxiliary failures are non-fatal: badges degrade to none. A comment-fetch
// failure moves the engine to StateError and leaves the previous generation,
// if any, fully intact.
func (e *Engine) Load(ctx context.Context, sort models.Sort) (started bool, err error) {
	if !sort.Valid() {
		return false, &ValidationError{Msg: "unknown sort " + string(sort)}
	}

	e.mu.Lock()
	if e.state == StateLoading {
		e.mu.Unlock()
		return false, nil
	}
	prevSort := e.sort
	e.state = StateLoading
	e.sort = sort
	community := e.opts.Community
	e.mu.Unlock()

	var (
		wg    sync.WaitGroup
		views []models.CommentView
		verr  error
		site  models.SiteInfo
		serr  error
		comm  models.CommunityInfo
		cerr  error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		views, verr = e.upstream.GetComments(ctx, e.postID, sort, e.opts.FetchDepth)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		site, serr = e.upstream.GetSite(ctx)
	}()
	if community != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			comm, cerr = e.upstream.GetCommunity(ctx, community)
		}()
	}
	wg.Wait()

	if verr != nil {
		rej := reject(verr)
		e.mu.Lock()
		e.state = StateError
		e.loadErr = rej.(*RejectionError).Category
		// the visible forest is still the prior generation's, so the
		// reported sort must stay with it
		e.sort = prevSort
		e.mu.Unlock()
		logger.Error("comment_load_failed", "post", e.postID, "sort", sort, "error", verr)
		return true, rej
	}

	forest, index := BuildForest(views)
	gen := &generation{
		sort:   sort,
		forest: forest,
		index:  index,
		admins: personSet(site.Admins),
		mods:   personSet(comm.Moderators),
		// only fetches that actually ran count; without a community the mod
		// fetch is skipped and must not vouch for badge data
		hasAux: serr == nil || (community != "" && cerr == nil),
	}
	if serr != nil {
		logger.Warn("site_fetch_failed", "post", e.postID, "error", serr)
		gen.admins = nil
	}
	if cerr != nil {
		logger.Warn("community_fetch_failed", "post", e.postID, "community", community, "error", cerr)
		gen.mods = nil
	}

	e.mu.Lock()
	e.gen = gen
	e.state = StateIdle
	e.loadErr = ""
	e.mu.Unlock()
	logger.Info("comment_load_done", "post", e.postID, "sort", sort, "comments", index.Len(), "roots", len(forest))
	return true, nil
}

// ChangeSort reloads the thread under a new sort order. The previous
// generation stays visible until the reload succeeds.
func (e *Engine) ChangeSort(ctx context.Context, sort models.Sort) (bool, error) {
	return e.Load(ctx, sort)
}

// Vote applies the toggle rule and submits the effective vote. The node's
// vote state and counts are overwritten wholesale from the confirmed
// response; on failure the node is left byte-for-byte unchanged and its
// controls re-enabled.
func (e *Engine) Vote(ctx context.Context, id any, direction int) (*models.Comment, error) {
	if direction != -1 && direction != 1 {
		return nil, &ValidationError{Msg: "vote direction must be -1 or 1"}
	}
	cid, n, err := e.beginAction(id)
	if err != nil {
		return nil, err
	}
	score := toggleScore(n.VoteState, direction)

	view, uerr := e.upstream.LikeComment(ctx, cid, score)
	return e.finishAction(cid, view, uerr)
}

// Edit replaces the comment's content (and language) after upstream
// confirmation. Only the author may edit; the check is local and precedes
// any upstream call. Path and children are untouched.
func (e *Engine) Edit(ctx context.Context, id any, content string, languageID int64) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Msg: "edit content is empty"}
	}
	cid, n, err := e.beginAction(id)
	if err != nil {
		return nil, err
	}
	if n.Author.ID != e.opts.ActorID || e.opts.ActorID == 0 {
		e.endAction(cid)
		return nil, &AuthorizationError{CommentID: cid}
	}

	view, uerr := e.upstream.EditComment(ctx, cid, content, languageID)
	return e.finishAction(cid, view, uerr)
}

// DeleteOrRestore toggles the comment's deleted flag. Deletion never removes
// the node or its subtree; the same call on a deleted comment restores it.
// Only the author may toggle, checked locally.
func (e *Engine) DeleteOrRestore(ctx context.Context, id any) (*models.Comment, error) {
	cid, n, err := e.beginAction(id)
	if err != nil {
		return nil, err
	}
	if n.Author.ID != e.opts.ActorID || e.opts.ActorID == 0 {
		e.endAction(cid)
		return nil, &AuthorizationError{CommentID: cid}
	}
	deleted := !n.Deleted

	view, uerr := e.upstream.DeleteComment(ctx, cid, deleted)
	return e.finishAction(cid, view, uerr)
}

// beginAction coerces the id, resolves the node in the current generation
// and marks it in flight. Callers must pair it with finishAction or
// endAction.
func (e *Engine) beginAction(id any) (int64, *models.Comment, error) {
	cid, err := CoerceID(id)
	if err != nil {
		return 0, nil, &ValidationError{Msg: "bad comment id: " + err.Error()}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen == nil {
		return 0, nil, ErrNotLoaded
	}
	n, ok := e.gen.index.Lookup(cid)
	if !ok {
		return 0, nil, ErrNotFound
	}
	if _, busy := e.inflight[cid]; busy {
		return 0, nil, ErrBusy
	}
	e.inflight[cid] = struct{}{}
	return cid, n, nil
}

// endAction clears the in-flight mark, re-enabling the node's controls.
func (e *Engine) endAction(cid int64) {
	e.mu.Lock()
	delete(e.inflight, cid)
	e.mu.Unlock()
}

// finishAction applies a confirmed mutation response to the node as found in
// the generation current at completion time. Re-resolving the id covers the
// case where a reload swapped generations while the request was in flight;
// if the comment no longer exists the confirmed state is simply dropped.
// A response that does not name the acted-on comment is treated as a
// rejection, never applied.
func (e *Engine) finishAction(cid int64, view models.CommentView, uerr error) (*models.Comment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, cid)
	if uerr != nil {
		return nil, reject(uerr)
	}
	if view.Comment.ID != cid {
		return nil, reject(fmt.Errorf("confirmation names comment %d, expected %d", view.Comment.ID, cid))
	}
	if e.gen == nil {
		return nil, ErrNotFound
	}
	n, ok := e.gen.index.Lookup(cid)
	if !ok {
		return nil, ErrNotFound
	}
	applyConfirmed(n, view)
	return n, nil
}

// Sort returns the sort order of the most recent load request.
func (e *Engine) Sort() models.Sort {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sort
}

// State returns the load coordinator's current state.
func (e *Engine) State() LoadState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// lookup exposes the current generation's index for tests and internal use.
func (e *Engine) lookup(id int64) (*models.Comment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen == nil {
		return nil, false
	}
	return e.gen.index.Lookup(id)
}

func personSet(ps []models.Person) map[int64]struct{} {
	if len(ps) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(ps))
	for _, p := range ps {
		set[p.ID] = struct{}{}
	}
	return set
}
