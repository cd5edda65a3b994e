package thread

import (
	"encoding/json"
	"fmt"
	"strconv"

	"postview/pkg/models"
)

// Index is the flat id lookup over the forest. It references the identical
// node objects that appear in the tree, so mutating a node obtained from
// Lookup is visible to anything traversing the forest; the two views cannot
// desynchronize because the index has no write path of its own.
type Index struct {
	nodes map[int64]*models.Comment
}

// Lookup returns the node for id, if present.
func (ix *Index) Lookup(id int64) (*models.Comment, bool) {
	if ix == nil {
		return nil, false
	}
	n, ok := ix.nodes[id]
	return n, ok
}

// LookupAny looks up an id that may have drifted through serialization
// layers: int64, int, float64, json.Number or a numeric string all resolve
// to the same node.
func (ix *Index) LookupAny(id any) (*models.Comment, bool) {
	cid, err := CoerceID(id)
	if err != nil {
		return nil, false
	}
	return ix.Lookup(cid)
}

// Enumerate returns every node in the index, in unspecified order.
func (ix *Index) Enumerate() []*models.Comment {
	if ix == nil {
		return nil
	}
	out := make([]*models.Comment, 0, len(ix.nodes))
	for _, n := range ix.nodes {
		out = append(out, n)
	}
	return out
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.nodes)
}

// CoerceID normalizes the id representations that reach the engine from
// transport and UI layers into an int64.
func CoerceID(v any) (int64, error) {
	switch id := v.(type) {
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case int32:
		return int64(id), nil
	case float64:
		n := int64(id)
		if float64(n) != id {
			return 0, fmt.Errorf("non-integral comment id %v", id)
		}
		return n, nil
	case json.Number:
		return parseID(id.String())
	case string:
		return parseID(id)
	default:
		return 0, fmt.Errorf("unsupported comment id type %T", v)
	}
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
