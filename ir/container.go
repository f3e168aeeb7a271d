package ir

import "fmt"

// StructureFC is the Structure field class kind: an ordered list of named
// members. Alignment is the max of its members' alignments; member names
// must be unique (§3.2).
type StructureFC struct {
	common
	members   []NamedFieldClass
	nameIndex map[string]int
}

// NewStructureFC returns a new, empty Structure field class.
func NewStructureFC() *StructureFC {
	fc := &StructureFC{
		common:    newCommon(KindStructure, 1),
		nameIndex: map[string]int{},
	}
	return fc
}

// AppendMember adds a named member. Member names must be unique within the
// structure (§3.2). Freezing the structure deep-freezes every member's
// class (§3.1).
func (fc *StructureFC) AppendMember(name string, member FieldClass) error {
	if err := fc.checkMutable(); err != nil {
		return err
	}
	if _, exists := fc.nameIndex[name]; exists {
		return fmt.Errorf("ir: structure field class already has a member named %q", name)
	}

	fc.nameIndex[name] = len(fc.members)
	fc.members = append(fc.members, NamedFieldClass{Name: name, Class: member})

	if member.Alignment() > fc.alignment {
		fc.alignment = member.Alignment()
	}

	freezeBase(fc).OnFreeze(member.Freeze)

	return nil
}

// Members implements Container.
func (fc *StructureFC) Members() []NamedFieldClass {
	out := make([]NamedFieldClass, len(fc.members))
	copy(out, fc.members)
	return out
}

// IndexOf implements Container.
func (fc *StructureFC) IndexOf(name string) (int, bool) {
	i, ok := fc.nameIndex[name]
	return i, ok
}

var _ Container = (*StructureFC)(nil)

//
//
//

// VariantFC is the Variant field class kind: a tag discriminator
// (Enumeration field class) selecting among an ordered list of options.
// Alignment is undefined (reported as 0), per §3.2.
type VariantFC struct {
	common
	tagFC            *EnumerationFC
	tagFieldName     string
	options          []NamedFieldClass
	nameIndex        map[string]int
	selectorFieldPath *FieldPath
}

// NewVariantFC returns a new Variant field class discriminated by tagFC. If
// tagFieldName is non-empty, it names the sibling field the tag is resolved
// against (§3.2, §4.2).
func NewVariantFC(tagFC *EnumerationFC, tagFieldName string) *VariantFC {
	return &VariantFC{
		common:       newCommon(KindVariant, 0),
		tagFC:        tagFC,
		tagFieldName: tagFieldName,
		nameIndex:    map[string]int{},
	}
}

// TagFieldClass returns the variant's discriminating enumeration class.
func (fc *VariantFC) TagFieldClass() *EnumerationFC { return fc.tagFC }

// TagFieldName returns the unresolved by-name reference to the tag field,
// or "" if none was given (e.g. the variant is used only in contexts where
// resolution is done by caller-supplied index).
func (fc *VariantFC) TagFieldName() string { return fc.tagFieldName }

// SelectorFieldPath returns the resolved field path to the tag, or nil
// before resolution.
func (fc *VariantFC) SelectorFieldPath() *FieldPath { return fc.selectorFieldPath }

// SetSelectorFieldPath is called by package resolve once §4.2 resolution
// succeeds.
func (fc *VariantFC) SetSelectorFieldPath(fp *FieldPath) { fc.selectorFieldPath = fp }

// AppendOption adds a named option. Per §3.2, every tag label must
// eventually appear as an option name, and the option count must equal the
// label count; that cross-check is performed by the validator (§4.3), not
// here, since options may legitimately be added before all tag labels are
// known.
func (fc *VariantFC) AppendOption(name string, option FieldClass) error {
	if err := fc.checkMutable(); err != nil {
		return err
	}
	if _, exists := fc.nameIndex[name]; exists {
		return fmt.Errorf("ir: variant field class already has an option named %q", name)
	}

	fc.nameIndex[name] = len(fc.options)
	fc.options = append(fc.options, NamedFieldClass{Name: name, Class: option})

	freezeBase(fc).OnFreeze(option.Freeze)

	return nil
}

// Members implements Container (the variant's options).
func (fc *VariantFC) Members() []NamedFieldClass {
	out := make([]NamedFieldClass, len(fc.options))
	copy(out, fc.options)
	return out
}

// IndexOf implements Container.
func (fc *VariantFC) IndexOf(name string) (int, bool) {
	i, ok := fc.nameIndex[name]
	return i, ok
}

var _ Container = (*VariantFC)(nil)

//
//
//

// ArrayFC is the Array field class kind: a fixed-length, static array of a
// single element class (§3.2).
type ArrayFC struct {
	common
	element FieldClass
	length  int
}

// NewArrayFC returns a new static Array field class. length must be >= 1
// (§3.2).
func NewArrayFC(element FieldClass, length int) (*ArrayFC, error) {
	if length < 1 {
		return nil, fmt.Errorf("ir: array field class length must be >= 1, got %d", length)
	}
	fc := &ArrayFC{
		common:  newCommon(KindArray, element.Alignment()),
		element: element,
		length:  length,
	}
	freezeBase(fc).OnFreeze(element.Freeze)
	return fc, nil
}

// Element implements Elemental.
func (fc *ArrayFC) Element() FieldClass { return fc.element }

// Length returns the array's fixed length.
func (fc *ArrayFC) Length() int { return fc.length }

var _ Elemental = (*ArrayFC)(nil)

//
//
//

// SequenceFC is the Sequence field class kind: a dynamically-sized array
// whose length is read from another field, named before resolution and
// positionally addressed after (§3.2, §4.2).
type SequenceFC struct {
	common
	element          FieldClass
	lengthFieldName  string
	lengthFieldPath  *FieldPath
}

// NewSequenceFC returns a new Sequence field class. lengthFieldName must be
// non-empty at validation time (§3.2).
func NewSequenceFC(element FieldClass, lengthFieldName string) *SequenceFC {
	fc := &SequenceFC{
		common:          newCommon(KindSequence, element.Alignment()),
		element:         element,
		lengthFieldName: lengthFieldName,
	}
	freezeBase(fc).OnFreeze(element.Freeze)
	return fc
}

// Element implements Elemental.
func (fc *SequenceFC) Element() FieldClass { return fc.element }

// LengthFieldName returns the unresolved by-name reference to the length
// field.
func (fc *SequenceFC) LengthFieldName() string { return fc.lengthFieldName }

// LengthFieldPath returns the resolved field path to the length field, or
// nil before resolution.
func (fc *SequenceFC) LengthFieldPath() *FieldPath { return fc.lengthFieldPath }

// SetLengthFieldPath is called by package resolve once §4.2 resolution
// succeeds.
func (fc *SequenceFC) SetLengthFieldPath(fp *FieldPath) { fc.lengthFieldPath = fp }

var _ Elemental = (*SequenceFC)(nil)

//
//
//

// OptionSelectorKind identifies the shape of an Option field class's
// selector (§3.2: "bool, integer ranges, or enumeration label set").
type OptionSelectorKind int

const (
	OptionSelectorNone OptionSelectorKind = iota
	OptionSelectorBool
	OptionSelectorIntegerRanges
	OptionSelectorEnumLabels
)

// OptionFC is the Option field class kind: a content class that is present
// or absent depending on an optional selector. Alignment is undefined
// (reported as 0; the content's own alignment governs layout when present).
type OptionFC struct {
	common
	content            FieldClass
	selectorKind       OptionSelectorKind
	selectorFieldName  string
	selectorFieldPath  *FieldPath
	enumLabels         map[string]struct{}
}

// NewOptionFC returns a new Option field class wrapping content, with no
// selector (always present). Use SetSelector to add one.
func NewOptionFC(content FieldClass) *OptionFC {
	fc := &OptionFC{
		common:  newCommon(KindOption, 0),
		content: content,
	}
	freezeBase(fc).OnFreeze(content.Freeze)
	return fc
}

// Content implements Contentful.
func (fc *OptionFC) Content() FieldClass { return fc.content }

// SetSelector attaches a by-name selector reference to another field,
// resolved to a path later (§4.2, supplemented per SPEC_FULL.md §D.1: the
// option-with-selector case reuses the same resolution machinery as variant
// tags and sequence lengths).
func (fc *OptionFC) SetSelector(kind OptionSelectorKind, fieldName string, enumLabels []string) error {
	if err := fc.checkMutable(); err != nil {
		return err
	}
	fc.selectorKind = kind
	fc.selectorFieldName = fieldName
	if kind == OptionSelectorEnumLabels {
		fc.enumLabels = make(map[string]struct{}, len(enumLabels))
		for _, l := range enumLabels {
			fc.enumLabels[l] = struct{}{}
		}
	}
	return nil
}

// SelectorKind returns the option's selector kind.
func (fc *OptionFC) SelectorKind() OptionSelectorKind { return fc.selectorKind }

// SelectorFieldName returns the unresolved by-name selector reference, if
// any.
func (fc *OptionFC) SelectorFieldName() string { return fc.selectorFieldName }

// SelectorFieldPath returns the resolved field path to the selector, or nil
// before resolution (or if SelectorKind is None).
func (fc *OptionFC) SelectorFieldPath() *FieldPath { return fc.selectorFieldPath }

// SetSelectorFieldPath is called by package resolve once §4.2 resolution
// succeeds.
func (fc *OptionFC) SetSelectorFieldPath(fp *FieldPath) { fc.selectorFieldPath = fp }

// EnumLabels returns the set of enumeration labels that select this
// option's content as present, when SelectorKind is OptionSelectorEnumLabels.
func (fc *OptionFC) EnumLabels() map[string]struct{} { return fc.enumLabels }

var _ Contentful = (*OptionFC)(nil)
