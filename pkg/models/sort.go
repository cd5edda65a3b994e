package models

// Sort is the upstream comment sort order. The flat fetch order under a sort
// encodes sibling ranking, so changing sort always requires a full reload.
type Sort string

const (
	SortHot Sort = "Hot"
	SortTop Sort = "Top"
	SortNew Sort = "New"
	SortOld Sort = "Old"
)

// Valid reports whether s is a sort order the upstream accepts.
func (s Sort) Valid() bool {
	switch s {
	case SortHot, SortTop, SortNew, SortOld:
		return true
	}
	return false
}
