package ir

// PathItemKind identifies the kind of a single FieldPath element (§3.3).
type PathItemKind int

const (
	// PathItemIndex is a positional child index into a Structure or
	// Variant.
	PathItemIndex PathItemKind = iota
	// PathItemCurrentArrayElement stands for "the current element" of an
	// Array or Sequence on the way to a target.
	PathItemCurrentArrayElement
	// PathItemCurrentOptionContent stands for "the content" of an Option
	// on the way to a target.
	PathItemCurrentOptionContent
)

// PathItem is one element of a FieldPath.
type PathItem struct {
	Kind  PathItemKind
	Index int // meaningful only when Kind == PathItemIndex
}

// FieldPath is a resolved, positional reference from one field to another
// within the scope lattice: `(scope, [index…])` (§3.3). Field paths are
// produced only by the resolver (§4.2) and are immutable after creation.
type FieldPath struct {
	scope Scope
	items []PathItem
}

// NewFieldPath constructs a FieldPath rooted at scope, with no items yet.
// Only the resolver in package resolve should call this; it is exported so
// that package resolve (a sibling, higher layer) can build paths without a
// dependency cycle back into ir internals.
func NewFieldPath(scope Scope) *FieldPath {
	return &FieldPath{scope: scope}
}

// Append adds an item to the end of the path. Used only during resolution.
func (fp *FieldPath) Append(item PathItem) {
	fp.items = append(fp.items, item)
}

// RemoveLast removes the last item, used when a resolution candidate
// backtracks (mirrors bt_field_path_remove_last_item in
// resolve-field-path.c).
func (fp *FieldPath) RemoveLast() {
	if len(fp.items) == 0 {
		return
	}
	fp.items = fp.items[:len(fp.items)-1]
}

// Scope returns the path's root scope.
func (fp *FieldPath) Scope() Scope { return fp.scope }

// Items returns the path's items, root to leaf.
func (fp *FieldPath) Items() []PathItem {
	out := make([]PathItem, len(fp.items))
	copy(out, fp.items)
	return out
}

// Len returns the number of items in the path.
func (fp *FieldPath) Len() int { return len(fp.items) }
