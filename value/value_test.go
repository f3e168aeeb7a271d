package value_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/tracekit/ctf/value"
)

// snapshot mirrors a Value tree as plain exported fields so go-cmp can diff
// it without reaching into value.Value's unexported state.
type snapshot struct {
	Kind     value.Kind
	Bool     bool
	Unsigned uint64
	Signed   int64
	Real     float64
	String   string
	Array    []snapshot
	Map      map[string]snapshot
}

func snapshotOf(v *value.Value) snapshot {
	s := snapshot{Kind: v.Kind()}
	switch v.Kind() {
	case value.KindBool:
		s.Bool, _ = v.AsBool()
	case value.KindUnsigned:
		s.Unsigned, _ = v.AsUnsigned()
	case value.KindSigned:
		s.Signed, _ = v.AsSigned()
	case value.KindReal:
		s.Real, _ = v.AsReal()
	case value.KindString:
		s.String, _ = v.AsString()
	case value.KindArray:
		for i := 0; i < v.ArrayLen(); i++ {
			s.Array = append(s.Array, snapshotOf(v.ArrayAt(i)))
		}
	case value.KindMap:
		s.Map = map[string]snapshot{}
		for _, k := range v.Keys() {
			elem, _ := v.Get(k)
			s.Map[k] = snapshotOf(elem)
		}
	}
	return s
}

// TestValueDeepCopySnapshotsAreIdentical uses go-cmp, in the teacher's
// table-test diffing style, to compare the entire tree shape rather than
// just the top-level IsEqual result TestValueRoundTrip already covers.
func TestValueDeepCopySnapshotsAreIdentical(t *testing.T) {
	v := buildTree()
	cp := v.DeepCopy()

	if diff := cmp.Diff(snapshotOf(v), snapshotOf(cp)); diff != "" {
		t.Fatalf("deep copy snapshot mismatch (-original +copy):\n%s", diff)
	}
}

func buildTree() *value.Value {
	m := value.Map()
	_ = m.Set("name", value.String("eth0"))
	_ = m.Set("enabled", value.Bool(true))
	_ = m.Set("mtu", value.Unsigned(1500))
	_ = m.Set("offset", value.Signed(-7))
	_ = m.Set("load", value.Real(0.125))

	arr := value.Array()
	_ = arr.Append(value.Unsigned(1))
	_ = arr.Append(value.Unsigned(2))
	_ = arr.Append(value.Null())
	_ = m.Set("samples", arr)

	return m
}

func TestValueRoundTrip(t *testing.T) {
	v := buildTree()
	cp := v.DeepCopy()

	require.True(t, v.IsEqual(cp), "copy(v) must equal v under IsEqual")
	require.False(t, cp.Frozen())

	// Mutating the copy must not affect the original.
	require.NoError(t, cp.Set("name", value.String("eth1")))
	require.False(t, v.IsEqual(cp))

	name, ok := v.Get("name")
	require.True(t, ok)
	s, ok := name.AsString()
	require.True(t, ok)
	require.Equal(t, "eth0", s)
}

func TestValueFreezeDeep(t *testing.T) {
	v := buildTree()
	v.Freeze()

	require.True(t, v.Frozen())

	samples, ok := v.Get("samples")
	require.True(t, ok)
	require.True(t, samples.Frozen(), "freeze must be deep into nested arrays")

	require.Error(t, v.Set("name", value.String("nope")))
	require.Error(t, samples.Append(value.Unsigned(3)))
}

func TestValueExtend(t *testing.T) {
	base := value.Map()
	_ = base.Set("a", value.Unsigned(1))
	_ = base.Set("b", value.Unsigned(2))

	ext := value.Map()
	_ = ext.Set("b", value.Unsigned(20))
	_ = ext.Set("c", value.Unsigned(3))

	merged, err := value.Extend(base, ext)
	require.NoError(t, err)

	for key, want := range map[string]uint64{"a": 1, "b": 20, "c": 3} {
		got, ok := merged.Get(key)
		require.True(t, ok, key)
		u, ok := got.AsUnsigned()
		require.True(t, ok)
		require.Equal(t, want, u)
	}

	// base and ext are untouched.
	b, _ := base.Get("b")
	u, _ := b.AsUnsigned()
	require.Equal(t, uint64(2), u)
}

func TestValueKindMismatch(t *testing.T) {
	s := value.String("x")
	require.Error(t, s.Append(value.Null()))
	require.Error(t, s.Set("k", value.Null()))
}
