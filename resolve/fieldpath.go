// Package resolve implements the field-path resolver and two-pass
// validator of §4.2/§4.3: given a field class that references a sibling
// field by name (a variant tag, a sequence length, an option selector), it
// locates that sibling in the surrounding scope lattice and installs the
// resulting field path on the referencing class.
//
// Grounded directly on
// original_source/src/lib/trace-ir/resolve-field-path.c
// (find_field_class_recursive, target_is_before_source,
// lca_is_structure_field_class, lca_to_target_has_struct_fc_only),
// re-expressed over the ir package's Go field-class tree instead of the C
// implementation's GPtrArray-based bt_field_path.
package resolve

import (
	"fmt"

	"github.com/tracekit/ctf/ir"
)

// Context holds the five scope roots a field path may be resolved against,
// in precedence order (§4.2/§4.3): packet-context ≺ event-header ≺
// event-common-context ≺ event-specific-context ≺ event-payload. A root may
// be nil if the owning stream/event class does not declare that scope.
type Context struct {
	PacketContext        ir.FieldClass
	EventHeader          ir.FieldClass
	EventCommonContext   ir.FieldClass
	EventSpecificContext ir.FieldClass
	EventPayload         ir.FieldClass
}

func (ctx *Context) root(scope ir.Scope) ir.FieldClass {
	switch scope {
	case ir.ScopePacketContext:
		return ctx.PacketContext
	case ir.ScopeEventHeader:
		return ctx.EventHeader
	case ir.ScopeEventCommonContext:
		return ctx.EventCommonContext
	case ir.ScopeEventSpecificContext:
		return ctx.EventSpecificContext
	case ir.ScopeEventPayload:
		return ctx.EventPayload
	default:
		return nil
	}
}

// childFieldClass returns the single child of parent addressed by item,
// mirroring the C resolver's borrow_child_field_class.
func childFieldClass(parent ir.FieldClass, item ir.PathItem) ir.FieldClass {
	switch item.Kind {
	case ir.PathItemCurrentOptionContent:
		if c, ok := parent.(ir.Contentful); ok {
			return c.Content()
		}
	case ir.PathItemIndex:
		if c, ok := parent.(ir.Container); ok {
			members := c.Members()
			if item.Index >= 0 && item.Index < len(members) {
				return members[item.Index].Class
			}
		}
	case ir.PathItemCurrentArrayElement:
		if e, ok := parent.(ir.Elemental); ok {
			return e.Element()
		}
	}
	return nil
}

// findFieldClassRecursive walks fc in pre-order, appending path items as it
// descends, stopping and returning true the moment the walk reaches the
// exact object target (identity, not name).
func findFieldClassRecursive(fc, target ir.FieldClass, path *ir.FieldPath) bool {
	if fc == target {
		return true
	}

	switch v := fc.(type) {
	case ir.Contentful:
		path.Append(ir.PathItem{Kind: ir.PathItemCurrentOptionContent})
		if findFieldClassRecursive(v.Content(), target, path) {
			return true
		}
		path.RemoveLast()
	case ir.Container:
		for i, m := range v.Members() {
			path.Append(ir.PathItem{Kind: ir.PathItemIndex, Index: i})
			if findFieldClassRecursive(m.Class, target, path) {
				return true
			}
			path.RemoveLast()
		}
	case ir.Elemental:
		path.Append(ir.PathItem{Kind: ir.PathItemCurrentArrayElement})
		if findFieldClassRecursive(v.Element(), target, path) {
			return true
		}
		path.RemoveLast()
	}

	return false
}

// findFieldClassInScope looks for target (by identity) under root, which
// lives at the given scope.
func findFieldClassInScope(root ir.FieldClass, scope ir.Scope, target ir.FieldClass) *ir.FieldPath {
	if root == nil {
		return nil
	}
	path := ir.NewFieldPath(scope)
	if findFieldClassRecursive(root, target, path) {
		return path
	}
	return nil
}

// findFieldClassInCtx looks for fc (by identity) across all five scopes, in
// precedence order, mirroring find_field_class_in_ctx.
func findFieldClassInCtx(fc ir.FieldClass, ctx *Context) *ir.FieldPath {
	scopes := []ir.Scope{
		ir.ScopePacketContext,
		ir.ScopeEventHeader,
		ir.ScopeEventCommonContext,
		ir.ScopeEventSpecificContext,
		ir.ScopeEventPayload,
	}
	for _, scope := range scopes {
		if p := findFieldClassInScope(ctx.root(scope), scope, fc); p != nil {
			return p
		}
	}
	return nil
}

// findNamedFieldClassRecursive walks fc in pre-order looking for a named
// child matching name — the by-name counterpart of
// findFieldClassRecursive, used because this implementation's variant tags,
// sequence lengths, and option selectors reference siblings by name rather
// than by a pre-established object pointer (§4.2: "resolve the name
// against the surrounding scope lattice").
func findNamedFieldClassRecursive(fc ir.FieldClass, name string, path *ir.FieldPath) (ir.FieldClass, bool) {
	switch v := fc.(type) {
	case ir.Container:
		for i, m := range v.Members() {
			path.Append(ir.PathItem{Kind: ir.PathItemIndex, Index: i})
			if m.Name == name {
				return m.Class, true
			}
			if found, ok := findNamedFieldClassRecursive(m.Class, name, path); ok {
				return found, true
			}
			path.RemoveLast()
		}
	case ir.Contentful:
		path.Append(ir.PathItem{Kind: ir.PathItemCurrentOptionContent})
		if found, ok := findNamedFieldClassRecursive(v.Content(), name, path); ok {
			return found, true
		}
		path.RemoveLast()
	case ir.Elemental:
		path.Append(ir.PathItem{Kind: ir.PathItemCurrentArrayElement})
		if found, ok := findNamedFieldClassRecursive(v.Element(), name, path); ok {
			return found, true
		}
		path.RemoveLast()
	}
	return nil, false
}

// findNamedFieldClassInCtx looks for a field named name across all five
// scopes, in precedence order, returning both the field class found and
// its path.
func findNamedFieldClassInCtx(name string, ctx *Context) (ir.FieldClass, *ir.FieldPath) {
	scopes := []ir.Scope{
		ir.ScopePacketContext,
		ir.ScopeEventHeader,
		ir.ScopeEventCommonContext,
		ir.ScopeEventSpecificContext,
		ir.ScopeEventPayload,
	}
	for _, scope := range scopes {
		root := ctx.root(scope)
		if root == nil {
			continue
		}
		path := ir.NewFieldPath(scope)
		if found, ok := findNamedFieldClassRecursive(root, name, path); ok {
			return found, path
		}
	}
	return nil, nil
}

// targetIsBeforeSource implements rule 1 of §4.2: tgt.scope <= src.scope,
// and if equal, tgt is lexicographically before src in the pre-order walk.
func targetIsBeforeSource(srcPath, tgtPath *ir.FieldPath) bool {
	if tgtPath.Scope() < srcPath.Scope() {
		return true
	}
	if tgtPath.Scope() > srcPath.Scope() {
		return false
	}

	srcItems := srcPath.Items()
	tgtItems := tgtPath.Items()
	n := len(srcItems)
	if len(tgtItems) < n {
		n = len(tgtItems)
	}
	for i := 0; i < n; i++ {
		if srcItems[i].Kind == ir.PathItemIndex && tgtItems[i].Kind == ir.PathItemIndex {
			if tgtItems[i].Index < srcItems[i].Index {
				return true
			}
			if tgtItems[i].Index > srcItems[i].Index {
				return false
			}
		}
	}
	return true
}

// targetInDifferentScopeHasStructOnly implements rule 2 of §4.2.
func targetInDifferentScopeHasStructOnly(srcPath, tgtPath *ir.FieldPath, ctx *Context) bool {
	if srcPath.Scope() == tgtPath.Scope() {
		return true
	}

	fc := ctx.root(tgtPath.Scope())
	for _, item := range tgtPath.Items() {
		if fc.Kind() == ir.KindArray || fc.Kind() == ir.KindSequence ||
			fc.Kind() == ir.KindOption || fc.Kind() == ir.KindVariant {
			return false
		}
		fc = childFieldClass(fc, item)
	}
	return true
}

// lcaIsStructure implements rule 3 of §4.2.
func lcaIsStructure(srcPath, tgtPath *ir.FieldPath, ctx *Context) bool {
	if srcPath.Scope() != tgtPath.Scope() {
		return true
	}

	srcFC := ctx.root(srcPath.Scope())
	tgtFC := ctx.root(tgtPath.Scope())

	var prevFC ir.FieldClass
	srcItems := srcPath.Items()
	tgtItems := tgtPath.Items()
	n := len(srcItems)
	if len(tgtItems) < n {
		n = len(tgtItems)
	}

	for i := 0; i < n; i++ {
		if srcFC != tgtFC {
			if prevFC == nil {
				// LCA is the root scope field class, which must be a
				// structure.
				break
			}
			return prevFC.Kind() == ir.KindStructure
		}
		prevFC = srcFC
		srcFC = childFieldClass(srcFC, srcItems[i])
		tgtFC = childFieldClass(tgtFC, tgtItems[i])
	}
	return true
}

// lcaToTargetHasStructOnly implements rule 4 of §4.2.
func lcaToTargetHasStructOnly(srcPath, tgtPath *ir.FieldPath, ctx *Context) bool {
	if srcPath.Scope() != tgtPath.Scope() {
		return true
	}

	srcFC := ctx.root(srcPath.Scope())
	tgtFC := ctx.root(tgtPath.Scope())

	srcItems := srcPath.Items()
	tgtItems := tgtPath.Items()
	n := len(srcItems)
	if len(tgtItems) < n {
		n = len(tgtItems)
	}

	i := 0
	for ; i < n; i++ {
		if srcItems[i] != tgtItems[i] {
			break
		}
		srcFC = childFieldClass(srcFC, srcItems[i])
		tgtFC = childFieldClass(tgtFC, tgtItems[i])
	}

	for ; i < len(tgtItems); i++ {
		if tgtFC.Kind() == ir.KindArray || tgtFC.Kind() == ir.KindSequence ||
			tgtFC.Kind() == ir.KindOption || tgtFC.Kind() == ir.KindVariant {
			return false
		}
		tgtFC = childFieldClass(tgtFC, tgtItems[i])
	}
	return true
}

// Error reports an invalid field path, naming both endpoints (§4.2:
// "reported as INVALID_FIELD_PATH with the offending source and target
// descriptions").
type Error struct {
	SourceDescription string
	TargetDescription string
	Reason            string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid field path: %s (source: %s, target: %s)", e.Reason, e.SourceDescription, e.TargetDescription)
}

// ResolveFieldPath resolves the field path from src to a sibling field
// named targetName, validating all four rules of §4.2. It is idempotent:
// calling it again with the same arguments re-derives the same path.
func ResolveFieldPath(src ir.FieldClass, targetName string, ctx *Context) (*ir.FieldPath, error) {
	tgtFC, tgtPath := findNamedFieldClassInCtx(targetName, ctx)
	if tgtFC == nil {
		return nil, &Error{
			SourceDescription: fmt.Sprintf("%s field class", src.Kind()),
			TargetDescription: fmt.Sprintf("field named %q", targetName),
			Reason:            "target field not found in any scope",
		}
	}

	srcPath := findFieldClassInCtx(src, ctx)
	if srcPath == nil {
		return nil, &Error{
			SourceDescription: fmt.Sprintf("%s field class", src.Kind()),
			TargetDescription: fmt.Sprintf("field named %q", targetName),
			Reason:            "source field not found in any scope",
		}
	}

	if !targetIsBeforeSource(srcPath, tgtPath) {
		return nil, &Error{
			SourceDescription: fmt.Sprintf("%s field class", src.Kind()),
			TargetDescription: fmt.Sprintf("field named %q", targetName),
			Reason:            "target field is located after the requesting field",
		}
	}

	if !targetInDifferentScopeHasStructOnly(srcPath, tgtPath, ctx) {
		return nil, &Error{
			SourceDescription: fmt.Sprintf("%s field class", src.Kind()),
			TargetDescription: fmt.Sprintf("field named %q", targetName),
			Reason:            "target field is in a different scope than the requesting field, through a non-structure container",
		}
	}

	if !lcaIsStructure(srcPath, tgtPath, ctx) {
		return nil, &Error{
			SourceDescription: fmt.Sprintf("%s field class", src.Kind()),
			TargetDescription: fmt.Sprintf("field named %q", targetName),
			Reason:            "lowest common ancestor of target and requesting fields is not a structure field class",
		}
	}

	if !lcaToTargetHasStructOnly(srcPath, tgtPath, ctx) {
		return nil, &Error{
			SourceDescription: fmt.Sprintf("%s field class", src.Kind()),
			TargetDescription: fmt.Sprintf("field named %q", targetName),
			Reason:            "path from lowest common ancestor to target field contains an array, sequence, option, or variant field class",
		}
	}

	return tgtPath, nil
}

// ResolveFieldPaths recursively resolves every variant tag, sequence
// length, and option selector reachable from fc (§4.2's "Resolving part"
// plus "Recursive part", combined into one walk since this implementation
// resolves eagerly rather than deferring to a second traversal).
func ResolveFieldPaths(fc ir.FieldClass, ctx *Context) error {
	if fc == nil {
		return nil
	}

	switch v := fc.(type) {
	case *ir.VariantFC:
		if v.TagFieldName() != "" && v.SelectorFieldPath() == nil {
			path, err := ResolveFieldPath(fc, v.TagFieldName(), ctx)
			if err != nil {
				return err
			}
			v.SetSelectorFieldPath(path)
		}
		for _, m := range v.Members() {
			if err := ResolveFieldPaths(m.Class, ctx); err != nil {
				return err
			}
		}
	case *ir.SequenceFC:
		if v.LengthFieldName() != "" && v.LengthFieldPath() == nil {
			path, err := ResolveFieldPath(fc, v.LengthFieldName(), ctx)
			if err != nil {
				return err
			}
			v.SetLengthFieldPath(path)
		}
		if err := ResolveFieldPaths(v.Element(), ctx); err != nil {
			return err
		}
	case *ir.OptionFC:
		if v.SelectorFieldName() != "" && v.SelectorFieldPath() == nil {
			path, err := ResolveFieldPath(fc, v.SelectorFieldName(), ctx)
			if err != nil {
				return err
			}
			v.SetSelectorFieldPath(path)
		}
		if err := ResolveFieldPaths(v.Content(), ctx); err != nil {
			return err
		}
	case *ir.StructureFC:
		for _, m := range v.Members() {
			if err := ResolveFieldPaths(m.Class, ctx); err != nil {
				return err
			}
		}
	case *ir.ArrayFC:
		if err := ResolveFieldPaths(v.Element(), ctx); err != nil {
			return err
		}
	}

	return nil
}
