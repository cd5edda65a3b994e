package thread

import "postview/pkg/models"

// applyConfirmed overwrites a node's server-authoritative fields from a
// confirmed mutation response. Vote state and counts are taken wholesale from
// the response, never incremented locally; path and children are never
// touched, so structure survives every mutation.
func applyConfirmed(n *models.Comment, v models.CommentView) {
	n.Content = v.Comment.Content
	n.Updated = v.Comment.Updated
	n.Deleted = v.Comment.Deleted
	if v.Comment.LanguageID != 0 {
		n.LanguageID = v.Comment.LanguageID
	}
	n.VoteState = v.MyVote
	n.Counts = v.Counts
}

// toggleScore implements the vote toggle rule: requesting the direction the
// node already has retracts the vote (score 0), anything else requests the
// direction itself.
func toggleScore(current, requested int) int {
	if current == requested {
		return 0
	}
	return requested
}
