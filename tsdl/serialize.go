// Package tsdl serializes field-class trees to the TSDL metadata text
// grammar (§6 of the external-interfaces contract). It is a one-way writer
// only: the TSDL lexer/parser is explicitly out of scope, so there is no
// corresponding Parse here.
package tsdl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tracekit/ctf/ir"
)

// Serialize renders a field class as a standalone TSDL type declaration,
// suitable for use wherever a bare type (not a named member) is expected.
func Serialize(fc ir.FieldClass) (string, error) {
	return typeText(fc)
}

// SerializeMember renders one structure/variant member as a TSDL
// declaration ("<type> <name>;"-shaped, without the trailing semicolon),
// handling the array/sequence cases where the bracketed length sits after
// the member name rather than the element type.
func SerializeMember(name string, fc ir.FieldClass) (string, error) {
	switch t := fc.(type) {
	case *ir.ArrayFC:
		elt, err := typeText(t.Element())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s[%d]", elt, name, t.Length()), nil
	case *ir.SequenceFC:
		elt, err := typeText(t.Element())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s[%s]", elt, name, t.LengthFieldName()), nil
	default:
		base, err := typeText(fc)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s", base, name), nil
	}
}

func typeText(fc ir.FieldClass) (string, error) {
	switch t := fc.(type) {
	case *ir.BoolFC:
		return fmt.Sprintf("integer { size = 1; align = %d; signed = false; encoding = none; base = 10; byte_order = native; }", t.Alignment()), nil
	case *ir.BitArrayFC:
		return fmt.Sprintf("integer { size = %d; align = %d; signed = false; encoding = none; base = 2; byte_order = native; }", t.WidthBits(), t.Alignment()), nil
	case *ir.IntegerFC:
		return integerText(t)
	case *ir.RealFC:
		return fmt.Sprintf("floating_point { exp_dig = %d; mant_dig = %d; byte_order = %s; align = %d; }",
			t.ExponentBits(), t.MantissaBits(), byteOrderText(t.ByteOrder()), t.Alignment()), nil
	case *ir.StringFC:
		return fmt.Sprintf("string { encoding = %s; }", encodingText(t.Encoding())), nil
	case *ir.EnumerationFC:
		return enumerationText(t)
	case *ir.StructureFC:
		return structureText(t)
	case *ir.VariantFC:
		return variantText(t)
	case *ir.ArrayFC:
		elt, err := typeText(t.Element())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%d]", elt, t.Length()), nil
	case *ir.SequenceFC:
		elt, err := typeText(t.Element())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", elt, t.LengthFieldName()), nil
	case *ir.OptionFC:
		// Not part of the required grammar (§6 lists integer, float,
		// enum, struct, variant, array, sequence, string only); a
		// variant with one option is TSDL's nearest equivalent, and
		// CTF2 metadata text represents it the same way.
		content, err := typeText(t.Content())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("variant { has_value %s; }", content), nil
	default:
		return "", fmt.Errorf("tsdl: unsupported field class kind %v", fc.Kind())
	}
}

func integerText(fc *ir.IntegerFC) (string, error) {
	signed := "false"
	if fc.Signed() {
		signed = "true"
	}
	mapClause := ""
	if cc := fc.MappedClockClass(); cc != nil {
		mapClause = fmt.Sprintf(" map = clock.%s.value;", cc.Name())
	}
	return fmt.Sprintf("integer { size = %d; align = %d; signed = %s; encoding = %s; base = %s; byte_order = %s;%s }",
		fc.WidthBits(), fc.Alignment(), signed, encodingText(fc.Encoding()), baseText(fc.DisplayBase()), byteOrderText(fc.ByteOrder()), mapClause), nil
}

func enumerationText(fc *ir.EnumerationFC) (string, error) {
	container, err := integerText(fc.Container())
	if err != nil {
		return "", err
	}

	mappings := append([]ir.EnumerationMapping{}, fc.Mappings()...)
	sort.Slice(mappings, func(i, j int) bool { return mappings[i].Label < mappings[j].Label })

	entries := make([]string, 0, len(mappings))
	for _, m := range mappings {
		if fc.Signed() {
			for _, r := range m.SignedRanges.Ranges() {
				if r.Lower == r.Upper {
					entries = append(entries, fmt.Sprintf("%q = %d", m.Label, r.Lower))
				} else {
					entries = append(entries, fmt.Sprintf("%q = %d ... %d", m.Label, r.Lower, r.Upper))
				}
			}
			continue
		}
		for _, r := range m.UnsignedRanges.Ranges() {
			if r.Lower == r.Upper {
				entries = append(entries, fmt.Sprintf("%q = %d", m.Label, r.Lower))
			} else {
				entries = append(entries, fmt.Sprintf("%q = %d ... %d", m.Label, r.Lower, r.Upper))
			}
		}
	}

	return fmt.Sprintf("enum : %s { %s }", container, strings.Join(entries, ", ")), nil
}

func structureText(fc *ir.StructureFC) (string, error) {
	members := fc.Members()
	lines := make([]string, 0, len(members))
	for _, m := range members {
		text, err := SerializeMember(m.Name, m.Class)
		if err != nil {
			return "", err
		}
		lines = append(lines, text+";")
	}
	return fmt.Sprintf("struct {\n\t%s\n} align(%d)", strings.Join(lines, "\n\t"), fc.Alignment()), nil
}

func variantText(fc *ir.VariantFC) (string, error) {
	members := fc.Members()
	lines := make([]string, 0, len(members))
	for _, m := range members {
		text, err := SerializeMember(m.Name, m.Class)
		if err != nil {
			return "", err
		}
		lines = append(lines, text+";")
	}
	return fmt.Sprintf("variant <%s> {\n\t%s\n}", fc.TagFieldName(), strings.Join(lines, "\n\t")), nil
}

func byteOrderText(order ir.ByteOrder) string {
	switch order {
	case ir.ByteOrderLittleEndian:
		return "le"
	case ir.ByteOrderBigEndian:
		return "be"
	default:
		return "native"
	}
}

func baseText(base ir.DisplayBase) string {
	switch base {
	case ir.DisplayBin:
		return "2"
	case ir.DisplayOct:
		return "8"
	case ir.DisplayHex:
		return "16"
	default:
		return "10"
	}
}

func encodingText(enc ir.Encoding) string {
	switch enc {
	case ir.EncodingASCII:
		return "ASCII"
	case ir.EncodingUTF8:
		return "UTF8"
	default:
		return "none"
	}
}
