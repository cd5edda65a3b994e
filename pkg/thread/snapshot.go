package thread

import "postview/pkg/models"

// RenderAuthor is an author reference with badges resolved against the
// generation's admin/moderator sets.
type RenderAuthor struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Local       bool   `json:"local"`
	ActorID     string `json:"actor_id,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	IsAdmin     bool   `json:"is_admin,omitempty"`
	IsModerator bool   `json:"is_moderator,omitempty"`
}

// RenderNode is one comment as handed to the rendering layer: a copy of the
// node's current fields, safe to marshal after the engine lock is released.
// Busy mirrors the in-flight set so the renderer can disable that node's
// controls; Continue carries the id to continue the thread from when the
// subtree lies beyond the render clamp.
type RenderNode struct {
	ID        int64         `json:"id"`
	ParentID  *int64        `json:"parent_id,omitempty"`
	Depth     int           `json:"depth"`
	Content   string        `json:"content"`
	Published string        `json:"published,omitempty"`
	Updated   string        `json:"updated,omitempty"`
	Deleted   bool          `json:"deleted"`
	VoteState int           `json:"my_vote"`
	Counts    models.Counts `json:"counts"`
	Author    RenderAuthor  `json:"creator"`
	Busy      bool          `json:"busy,omitempty"`
	Children  []*RenderNode `json:"children"`
	Continue  *int64        `json:"continue,omitempty"`
}

// Snapshot is the rendering collaborator's complete view of the engine: the
// clamped forest plus the load state machine's position.
type Snapshot struct {
	PostID   int64         `json:"post_id"`
	State    string        `json:"state"`
	Error    string        `json:"error,omitempty"`
	Sort     models.Sort   `json:"sort,omitempty"`
	Comments []*RenderNode `json:"comments"`
	Badges   bool          `json:"badges"`
}

// Snapshot renders the current generation. Nodes past the configured render
// depth are not silently truncated: the last visible ancestor gets an
// explicit continue-thread marker instead of its children.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		PostID:   e.postID,
		State:    e.state.String(),
		Sort:     e.sort,
		Comments: []*RenderNode{},
	}
	if e.state == StateError {
		snap.Error = string(e.loadErr)
	}
	if e.gen == nil {
		return snap
	}
	snap.Badges = e.gen.hasAux
	for _, root := range e.gen.forest {
		snap.Comments = append(snap.Comments, e.renderNode(root, 0))
	}
	return snap
}

// renderNode copies one node and recurses into children up to the render
// clamp. Called with the engine lock held.
func (e *Engine) renderNode(n *models.Comment, depth int) *RenderNode {
	_, busy := e.inflight[n.ID]
	out := &RenderNode{
		ID:        n.ID,
		ParentID:  n.ParentID,
		Depth:     n.Depth,
		Content:   n.Content,
		Published: n.Published,
		Updated:   n.Updated,
		Deleted:   n.Deleted,
		VoteState: n.VoteState,
		Counts:    n.Counts,
		Author:    e.renderAuthor(n.Author),
		Busy:      busy,
		Children:  []*RenderNode{},
	}
	if len(n.Children) == 0 {
		return out
	}
	if e.opts.RenderDepth > 0 && depth+1 >= e.opts.RenderDepth {
		id := n.ID
		out.Continue = &id
		return out
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, e.renderNode(c, depth+1))
	}
	return out
}

func (e *Engine) renderAuthor(p models.Person) RenderAuthor {
	a := RenderAuthor{
		ID:      p.ID,
		Name:    p.Name,
		Local:   p.Local,
		ActorID: p.ActorID,
		Avatar:  p.Avatar,
	}
	if e.gen != nil {
		_, a.IsAdmin = e.gen.admins[p.ID]
		_, a.IsModerator = e.gen.mods[p.ID]
	}
	return a
}
