// Package ir implements the Common Trace Format intermediate
// representation: field classes (types), field instances (values),
// packet/event/stream/trace classes and their instances, and clock classes
// and snapshots (§3 of the spec). Mutable builder objects are frozen deeply
// the first time they enter a use context, following the teacher's
// mutex-guarded "finished" idiom (trace_core.go, trace.go) generalized to
// the spec's "frozen" concept (§3.1).
package ir

// Kind identifies which alternative of the field-class tagged union a
// FieldClass is (§3.2).
type Kind int

const (
	KindBool Kind = iota
	KindBitArray
	KindIntegerUnsigned
	KindIntegerSigned
	KindRealSingle
	KindRealDouble
	KindEnumerationUnsigned
	KindEnumerationSigned
	KindString
	KindStructure
	KindVariant
	KindArray
	KindSequence
	KindOption
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindBitArray:
		return "bit-array"
	case KindIntegerUnsigned:
		return "integer-unsigned"
	case KindIntegerSigned:
		return "integer-signed"
	case KindRealSingle:
		return "real-single"
	case KindRealDouble:
		return "real-double"
	case KindEnumerationUnsigned:
		return "enumeration-unsigned"
	case KindEnumerationSigned:
		return "enumeration-signed"
	case KindString:
		return "string"
	case KindStructure:
		return "structure"
	case KindVariant:
		return "variant"
	case KindArray:
		return "array"
	case KindSequence:
		return "sequence"
	case KindOption:
		return "option"
	default:
		return "unknown"
	}
}

// IsInteger reports whether the kind is one of the two integer kinds.
func (k Kind) IsInteger() bool {
	return k == KindIntegerUnsigned || k == KindIntegerSigned
}

// IsEnumeration reports whether the kind is one of the two enumeration
// kinds.
func (k Kind) IsEnumeration() bool {
	return k == KindEnumerationUnsigned || k == KindEnumerationSigned
}

// IsNamedFieldClassContainer reports whether the kind holds an ordered list
// of named children (Structure, Variant) — the container kinds the
// field-path resolver walks with positional INDEX items (§4.2).
func (k Kind) IsNamedFieldClassContainer() bool {
	return k == KindStructure || k == KindVariant
}

// ByteOrder is the byte order of an Integer or Real field class.
type ByteOrder int

const (
	ByteOrderNative ByteOrder = iota
	ByteOrderLittleEndian
	ByteOrderBigEndian
)

// DisplayBase is the preferred display base of an Integer field class.
type DisplayBase int

const (
	DisplayBin DisplayBase = iota
	DisplayOct
	DisplayDec
	DisplayHex
)

// Encoding is the character encoding of an Integer or String field class.
type Encoding int

const (
	EncodingNone Encoding = iota
	EncodingASCII
	EncodingUTF8
)

// Scope identifies one of the five field-path scopes (§3.3), ordered per
// the dependency lattice of §4.2/§4.3: packet-context ≺ event-header ≺
// event-common-context ≺ event-specific-context ≺ event-payload.
type Scope int

const (
	ScopePacketContext Scope = iota
	ScopeEventHeader
	ScopeEventCommonContext
	ScopeEventSpecificContext
	ScopeEventPayload
)

func (s Scope) String() string {
	switch s {
	case ScopePacketContext:
		return "packet-context"
	case ScopeEventHeader:
		return "event-header"
	case ScopeEventCommonContext:
		return "event-common-context"
	case ScopeEventSpecificContext:
		return "event-specific-context"
	case ScopeEventPayload:
		return "event-payload"
	default:
		return "unknown-scope"
	}
}
