package models

// Person is a read-only author reference attached to a comment. The engine
// never mutates it; badge resolution happens at render time.
type Person struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Local   bool   `json:"local"`
	ActorID string `json:"actor_id,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
}

// Counts holds the server-authoritative vote aggregates. They are always
// overwritten wholesale from a confirmed response, never adjusted locally.
type Counts struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	Score     int64 `json:"score"`
}

// Comment is a node in the thread forest. The same object is referenced by
// the forest and by the id index; there are no copies. ParentID and Depth are
// derived from Path and fixed for the comment's lifetime. Children is
// exclusively owned by the parent and rebuilt wholesale on every load.
type Comment struct {
	ID         int64      `json:"id"`
	Path       string     `json:"path"`
	ParentID   *int64     `json:"parent_id,omitempty"`
	Depth      int        `json:"depth"`
	Content    string     `json:"content"`
	Published  string     `json:"published,omitempty"`
	Updated    string     `json:"updated,omitempty"`
	Deleted    bool       `json:"deleted"`
	LanguageID int64      `json:"language_id,omitempty"`
	VoteState  int        `json:"my_vote"`
	Counts     Counts     `json:"counts"`
	Author     Person     `json:"creator"`
	Children   []*Comment `json:"children"`
}

// CommentFields is the raw comment record inside an upstream comment view.
type CommentFields struct {
	ID         int64  `json:"id"`
	CreatorID  int64  `json:"creator_id,omitempty"`
	PostID     int64  `json:"post_id,omitempty"`
	Content    string `json:"content"`
	Path       string `json:"path"`
	Published  string `json:"published,omitempty"`
	Updated    string `json:"updated,omitempty"`
	Deleted    bool   `json:"deleted,omitempty"`
	LanguageID int64  `json:"language_id,omitempty"`
}

// CommentView is one upstream record exactly as returned by a fetch or by a
// confirmed vote/edit/delete. MyVote is the acting user's vote (-1, 0, 1).
type CommentView struct {
	Comment CommentFields `json:"comment"`
	Creator Person        `json:"creator"`
	Counts  Counts        `json:"counts"`
	MyVote  int           `json:"my_vote,omitempty"`
}

// SiteInfo carries the auxiliary instance data used for admin badges.
type SiteInfo struct {
	Admins []Person `json:"admins"`
}

// CommunityInfo carries the auxiliary community data used for mod badges.
type CommunityInfo struct {
	Moderators []Person `json:"moderators"`
}
