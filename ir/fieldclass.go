package ir

import (
	"fmt"

	"github.com/tracekit/ctf/obj"
)

// FieldClass is a type descriptor for a single datum in a trace (§3.2). It
// is constructed unfrozen, mutated via kind-specific setters, frozen when
// the containing class is frozen, and destroyed when the last strong
// reference drops (obj.Base handles the last part via GetRef/PutRef).
type FieldClass interface {
	Kind() Kind
	Alignment() int
	Frozen() bool
	Freeze()
	base() *obj.Base
}

// common is embedded by every field-class implementation.
type common struct {
	base      obj.Base
	kind      Kind
	alignment int
}

func newCommon(kind Kind, alignment int) common {
	c := common{kind: kind, alignment: alignment}
	c.base.Init(nil)
	return c
}

func (c *common) Kind() Kind         { return c.kind }
func (c *common) Alignment() int     { return c.alignment }
func (c *common) Frozen() bool       { return c.base.Frozen() }
func (c *common) Freeze()            { c.base.Freeze() }
func (c *common) base() *obj.Base    { return &c.base }
func (c *common) checkMutable() error {
	if err := c.base.CheckMutable(); err != nil {
		return fmt.Errorf("%s field class: %w", c.kind, err)
	}
	return nil
}

// NamedFieldClass is one named member of a Structure or option of a
// Variant.
type NamedFieldClass struct {
	Name  string
	Class FieldClass
}

// Container is implemented by field classes holding an ordered list of
// named children: Structure and Variant (§3.2, §4.2 "structures only").
type Container interface {
	FieldClass
	Members() []NamedFieldClass
	IndexOf(name string) (int, bool)
}

// Elemental is implemented by field classes with a single, unnamed element
// class: Array and Sequence.
type Elemental interface {
	FieldClass
	Element() FieldClass
}

// Contentful is implemented by field classes with a single, unnamed content
// class: Option.
type Contentful interface {
	FieldClass
	Content() FieldClass
}

// freezeBase exposes the private base accessor to sibling files in this
// package (methods on *common are not directly usable from e.g.
// StructureFC without embedding, so this helper bridges OnFreeze
// registration for composite kinds).
func freezeBase(fc FieldClass) *obj.Base {
	return fc.base()
}
