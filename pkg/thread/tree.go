package thread

import "postview/pkg/models"

// BuildForest assembles the hierarchical forest from a flat batch of comment
// views in upstream order. The input order encodes sibling ranking under the
// active sort, so the root list and every children list preserve the batch's
// relative order. The returned Index references the same node objects as the
// forest. Runs in O(n) time and space.
//
// A comment whose parent id is absent from the batch (server omitted or
// pruned an ancestor) is promoted to a root instead of being dropped.
func BuildForest(views []models.CommentView) ([]*models.Comment, *Index) {
	byID := make(map[int64]*models.Comment, len(views))
	order := make([]*models.Comment, 0, len(views))
	for _, v := range views {
		if _, dup := byID[v.Comment.ID]; dup {
			continue
		}
		n := newNode(v)
		byID[n.ID] = n
		order = append(order, n)
	}

	roots := make([]*models.Comment, 0)
	for _, n := range order {
		if n.ParentID != nil {
			if p, ok := byID[*n.ParentID]; ok {
				p.Children = append(p.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots, &Index{nodes: byID}
}

// newNode materializes one forest node from an upstream record. parent and
// depth come from the path; everything else is copied as-is.
func newNode(v models.CommentView) *models.Comment {
	n := &models.Comment{
		ID:         v.Comment.ID,
		Path:       v.Comment.Path,
		Content:    v.Comment.Content,
		Published:  v.Comment.Published,
		Updated:    v.Comment.Updated,
		Deleted:    v.Comment.Deleted,
		LanguageID: v.Comment.LanguageID,
		VoteState:  v.MyVote,
		Counts:     v.Counts,
		Author:     v.Creator,
		Children:   []*models.Comment{},
	}
	pid, has, depth := ParsePath(v.Comment.Path)
	n.Depth = depth
	if has {
		p := pid
		n.ParentID = &p
	}
	return n
}
