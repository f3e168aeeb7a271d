package ir

import "fmt"

// BoolFC is the Bool field class kind: a single bit, displayed as a
// boolean.
type BoolFC struct {
	common
}

// NewBoolFC returns a new, unfrozen Bool field class with the given byte
// alignment.
func NewBoolFC(alignment int) *BoolFC {
	return &BoolFC{common: newCommon(KindBool, alignment)}
}

// BitArrayFC is the BitArray field class kind: a fixed-width run of bits
// with no integer interpretation.
type BitArrayFC struct {
	common
	widthBits int
}

// NewBitArrayFC returns a new BitArray field class. widthBits must be >= 1
// (§3.2 invariant).
func NewBitArrayFC(widthBits, alignment int) (*BitArrayFC, error) {
	if widthBits < 1 {
		return nil, fmt.Errorf("ir: bit-array width must be >= 1, got %d", widthBits)
	}
	return &BitArrayFC{common: newCommon(KindBitArray, alignment), widthBits: widthBits}, nil
}

// WidthBits returns the bit-array's width in bits.
func (fc *BitArrayFC) WidthBits() int { return fc.widthBits }

// IntegerFC is an Integer field class, optionally mapped to a clock class
// (§3.2: "optional mapped clock class"; "if mapped clock set, type must be
// unsigned"). The mapping is held as a *ClockClass reference.
type IntegerFC struct {
	common
	signed        bool
	widthBits     int
	byteOrder     ByteOrder
	displayBase   DisplayBase
	encoding      Encoding
	mappedClock   *ClockClass
}

// NewIntegerFC returns a new Integer field class. widthBits must be in
// [1,64] (§3.2).
func NewIntegerFC(signed bool, widthBits int, alignment int, base DisplayBase, enc Encoding, order ByteOrder) (*IntegerFC, error) {
	if widthBits < 1 || widthBits > 64 {
		return nil, fmt.Errorf("ir: integer width must be in [1,64], got %d", widthBits)
	}
	kind := KindIntegerUnsigned
	if signed {
		kind = KindIntegerSigned
	}
	return &IntegerFC{
		common:      newCommon(kind, alignment),
		signed:      signed,
		widthBits:   widthBits,
		byteOrder:   order,
		displayBase: base,
		encoding:    enc,
	}, nil
}

// Signed reports whether the integer is signed.
func (fc *IntegerFC) Signed() bool { return fc.signed }

// WidthBits returns the integer's width in bits.
func (fc *IntegerFC) WidthBits() int { return fc.widthBits }

// ByteOrder returns the integer's byte order.
func (fc *IntegerFC) ByteOrder() ByteOrder { return fc.byteOrder }

// DisplayBase returns the integer's preferred display base.
func (fc *IntegerFC) DisplayBase() DisplayBase { return fc.displayBase }

// Encoding returns the integer's character encoding.
func (fc *IntegerFC) Encoding() Encoding { return fc.encoding }

// MappedClockClass returns the clock class this integer is mapped to, or
// nil.
func (fc *IntegerFC) MappedClockClass() *ClockClass { return fc.mappedClock }

// SetMappedClockClass attaches a clock class to this integer field class.
// Per §3.2, only unsigned integers may carry a mapped clock class.
func (fc *IntegerFC) SetMappedClockClass(cc *ClockClass) error {
	if err := fc.checkMutable(); err != nil {
		return err
	}
	if fc.signed {
		return fmt.Errorf("ir: mapped clock class requires an unsigned integer field class")
	}
	fc.mappedClock = cc
	return nil
}

// RealFC is the Real field class kind: a custom-precision IEEE 754 float,
// single (binary32) or double (binary64) shaped.
type RealFC struct {
	common
	double        bool
	signBit       int
	exponentBits  int
	mantissaBits  int
	byteOrder     ByteOrder
}

// NewRealFC returns a new Real field class. The (signBit, exponentBits,
// mantissaBits) triple must match IEEE 754 binary32 (1,8,24) or binary64
// (1,11,53) shape (§3.2).
func NewRealFC(signBit, exponentBits, mantissaBits, alignment int, order ByteOrder) (*RealFC, error) {
	var double bool
	switch {
	case signBit == 1 && exponentBits == 8 && mantissaBits == 24:
		double = false
	case signBit == 1 && exponentBits == 11 && mantissaBits == 53:
		double = true
	default:
		return nil, fmt.Errorf("ir: real field class (sign=%d, exp=%d, mant=%d) does not match IEEE 754 binary32 or binary64 shape", signBit, exponentBits, mantissaBits)
	}

	kind := KindRealSingle
	if double {
		kind = KindRealDouble
	}

	return &RealFC{
		common:       newCommon(kind, alignment),
		double:       double,
		signBit:      signBit,
		exponentBits: exponentBits,
		mantissaBits: mantissaBits,
		byteOrder:    order,
	}, nil
}

// IsDouble reports whether this is a binary64 (double) real field class.
func (fc *RealFC) IsDouble() bool { return fc.double }

// ExponentBits returns the exponent width in bits.
func (fc *RealFC) ExponentBits() int { return fc.exponentBits }

// MantissaBits returns the mantissa width in bits (including the implicit
// bit, per the IEEE shape check above).
func (fc *RealFC) MantissaBits() int { return fc.mantissaBits }

// ByteOrder returns the real's byte order.
func (fc *RealFC) ByteOrder() ByteOrder { return fc.byteOrder }

// StringFC is the String field class kind: a character-encoded,
// null-terminated run of bytes. Alignment is always 8 (§3.2).
type StringFC struct {
	common
	encoding Encoding
}

// NewStringFC returns a new String field class. Encoding must be ASCII or
// UTF-8 (§3.2; "none" is not valid for String, only for Integer).
func NewStringFC(enc Encoding) (*StringFC, error) {
	if enc != EncodingASCII && enc != EncodingUTF8 {
		return nil, fmt.Errorf("ir: string field class encoding must be ascii or utf8")
	}
	return &StringFC{common: newCommon(KindString, 8), encoding: enc}, nil
}

// Encoding returns the string's character encoding.
func (fc *StringFC) Encoding() Encoding { return fc.encoding }
