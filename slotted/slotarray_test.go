package slotted

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AryanGodara/Paprika/keccak"
	"github.com/AryanGodara/Paprika/nibble"
)

func mustArray(t *testing.T, size int) Array {
	t.Helper()
	a, err := NewArray(make([]byte, size))
	require.NoError(t, err)
	return a
}

// requireConserved checks the space accounting invariant:
// directory + live payloads + free gap + tombstoned payloads == buffer.
func requireConserved(t *testing.T, a Array) {
	t.Helper()
	s := a.Stats()
	require.Equal(t, len(a.b), s.DirectoryBytes+s.LiveBytes+s.FreeBytes+s.TombBytes)
}

func TestNewArrayRejectsBadSizes(t *testing.T) {
	_, err := NewArray(make([]byte, headerBytes-1))
	require.ErrorIs(t, err, ErrBufferBadSize)

	_, err = NewArray(make([]byte, MaxBytes+1))
	require.ErrorIs(t, err, ErrBufferBadSize)

	// A zero-filled buffer of any valid size is a valid empty array.
	a := mustArray(t, MinSize)
	require.Equal(t, 0, a.Count())
	requireConserved(t, a)
}

func TestSetGetDeleteReuse(t *testing.T) {
	a := mustArray(t, 256)

	k := EntityKey(nibble.FromBytes([]byte{0x12, 0x34, 0x56, 0x78, 0x90}))
	require.True(t, a.TrySet(k, []byte{23}))
	requireConserved(t, a)

	v, ok := a.TryGet(k)
	require.True(t, ok)
	require.Equal(t, []byte{23}, v)

	require.True(t, a.Delete(k))
	_, ok = a.TryGet(k)
	require.False(t, ok)
	require.False(t, a.Delete(k))
	requireConserved(t, a)

	// The freed space serves a later insert.
	k2 := EntityKey(nibble.FromBytes([]byte{0xAB, 0xCD}))
	require.True(t, a.TrySet(k2, []byte{1, 2, 3}))
	v, ok = a.TryGet(k2)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, v)
	requireConserved(t, a)
}

func TestInsertReclaimsDeletedSpaceByDefragmentation(t *testing.T) {
	k1 := EntityKey(nibble.FromBytes([]byte{0x10}))
	k2 := EntityKey(nibble.FromBytes([]byte{0x20}))
	k3 := EntityKey(nibble.FromBytes([]byte{0x30}))
	d1 := []byte{1, 1, 1, 1}
	d2 := []byte{2, 2, 2, 2}
	d3 := []byte{3, 3, 3, 3}

	// Sized to hold exactly two entries; the third fits only once the
	// first entry's tombstoned space is reclaimed.
	size := headerBytes + 2*EntryBytes(k1, len(d1))
	a := mustArray(t, size)

	require.True(t, a.TrySet(k1, d1))
	require.True(t, a.TrySet(k2, d2))
	require.False(t, a.TrySet(k3, d3))

	require.True(t, a.Delete(k1))
	require.True(t, a.TrySet(k3, d3))
	requireConserved(t, a)

	_, ok := a.TryGet(k1)
	require.False(t, ok)
	v, ok := a.TryGet(k2)
	require.True(t, ok)
	require.Equal(t, d2, v)
	v, ok = a.TryGet(k3)
	require.True(t, ok)
	require.Equal(t, d3, v)
}

func TestInSituUpdateDoesNotRelocate(t *testing.T) {
	a := mustArray(t, 256)

	k1 := EntityKey(nibble.FromBytes([]byte{0x11}))
	k2 := EntityKey(nibble.FromBytes([]byte{0x22}))
	require.True(t, a.TrySet(k1, []byte{1, 2, 3, 4}))
	require.True(t, a.TrySet(k2, []byte{5, 6}))

	before, ok := a.TryGet(k2)
	require.True(t, ok)

	// Same-length overwrite of k1 must not move any payload.
	require.True(t, a.TrySet(k1, []byte{9, 9, 9, 9}))

	after, ok := a.TryGet(k2)
	require.True(t, ok)
	require.Same(t, &before[0], &after[0])

	v, ok := a.TryGet(k1)
	require.True(t, ok)
	require.Equal(t, []byte{9, 9, 9, 9}, v)
	requireConserved(t, a)
}

func TestResizingUpdateInTightBuffer(t *testing.T) {
	k := EntityKey(nibble.FromBytes([]byte{0x42}))
	d0 := []byte{1, 2, 3, 4}
	d2 := []byte{9, 8, 7, 6, 5, 4}

	// Just enough for the larger shape of the entry, nothing more.
	size := headerBytes + EntryBytes(k, len(d2))
	a := mustArray(t, size)

	require.True(t, a.TrySet(k, d0))
	require.True(t, a.TrySet(k, d2))
	requireConserved(t, a)

	v, ok := a.TryGet(k)
	require.True(t, ok)
	require.Equal(t, d2, v)
	require.Equal(t, 1, a.Count())

	// Shrinking is a resize too.
	require.True(t, a.TrySet(k, []byte{0xFF}))
	v, ok = a.TryGet(k)
	require.True(t, ok)
	require.Equal(t, []byte{0xFF}, v)
	requireConserved(t, a)
}

func TestResizingUpdatePreservesOtherEntries(t *testing.T) {
	a := mustArray(t, 256)

	k1 := EntityKey(nibble.FromBytes([]byte{0x11}))
	k2 := EntityKey(nibble.FromBytes([]byte{0x22}))
	k3 := EntityKey(nibble.FromBytes([]byte{0x33}))
	require.True(t, a.TrySet(k1, []byte{1}))
	require.True(t, a.TrySet(k2, []byte{2}))
	require.True(t, a.TrySet(k3, []byte{3}))

	require.True(t, a.TrySet(k2, []byte{20, 21, 22, 23}))

	for _, want := range []struct {
		k Key
		v []byte
	}{
		{k1, []byte{1}},
		{k2, []byte{20, 21, 22, 23}},
		{k3, []byte{3}},
	} {
		v, ok := a.TryGet(want.k)
		require.True(t, ok)
		require.Equal(t, want.v, v)
	}
	require.Equal(t, 3, a.Count())
	requireConserved(t, a)
}

func TestEntityAndScopedKeysCoexist(t *testing.T) {
	a := mustArray(t, 512)

	p := nibble.FromBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	h1 := keccak.Sum([]byte("cell-1"))
	h2 := keccak.Sum([]byte("cell-2"))

	require.True(t, a.TrySet(EntityKey(p), []byte("a")))
	require.True(t, a.TrySet(ScopedKey(p, h1), []byte("b")))
	require.True(t, a.TrySet(ScopedKey(p, h2), []byte("c")))

	v, ok := a.TryGet(EntityKey(p))
	require.True(t, ok)
	require.Equal(t, []byte("a"), v)
	v, ok = a.TryGet(ScopedKey(p, h1))
	require.True(t, ok)
	require.Equal(t, []byte("b"), v)
	v, ok = a.TryGet(ScopedKey(p, h2))
	require.True(t, ok)
	require.Equal(t, []byte("c"), v)
	requireConserved(t, a)
}

func TestScopedKeysWithSharedHashNeverAlias(t *testing.T) {
	a := mustArray(t, 512)

	pA := nibble.FromBytes([]byte{0xAA, 0xAA})
	pB := nibble.FromBytes([]byte{0xBB, 0xBB})
	h := keccak.Sum([]byte("shared-cell"))

	require.True(t, a.TrySet(ScopedKey(pA, h), []byte("x")))
	require.True(t, a.TrySet(ScopedKey(pB, h), []byte("y")))

	v, ok := a.TryGet(ScopedKey(pA, h))
	require.True(t, ok)
	require.Equal(t, []byte("x"), v)
	v, ok = a.TryGet(ScopedKey(pB, h))
	require.True(t, ok)
	require.Equal(t, []byte("y"), v)
}

func TestFailedSetLeavesBufferUnchanged(t *testing.T) {
	k1 := EntityKey(nibble.FromBytes([]byte{0x10}))
	d1 := []byte{1, 2, 3, 4}

	size := headerBytes + EntryBytes(k1, len(d1))
	a := mustArray(t, size)
	require.True(t, a.TrySet(k1, d1))

	snapshot := append([]byte{}, a.b...)

	// Fresh insert that cannot fit.
	require.False(t, a.TrySet(EntityKey(nibble.FromBytes([]byte{0x20})), []byte{9}))
	require.True(t, bytes.Equal(snapshot, a.b))

	// Resizing update that cannot fit must not lose the old entry.
	require.False(t, a.TrySet(k1, make([]byte, 64)))
	require.True(t, bytes.Equal(snapshot, a.b))

	v, ok := a.TryGet(k1)
	require.True(t, ok)
	require.Equal(t, d1, v)
}

func TestTooSmallBufferFailsSetWithoutError(t *testing.T) {
	a := mustArray(t, MinSize-1)
	require.False(t, a.TrySet(EntityKey(nibble.Path{}), nil))
	requireConserved(t, a)

	// The smallest buffer holds exactly the smallest entry.
	a = mustArray(t, MinSize)
	require.True(t, a.TrySet(EntityKey(nibble.Path{}), nil))
	v, ok := a.TryGet(EntityKey(nibble.Path{}))
	require.True(t, ok)
	require.Empty(t, v)
	requireConserved(t, a)
}

func TestFingerprintCollisionResolvedByFullComparison(t *testing.T) {
	a := mustArray(t, 256)

	// Same kind, same length, same first two nibbles: fingerprints
	// collide by construction, full comparison must separate them.
	k1 := EntityKey(nibble.FromBytes([]byte{0x12, 0x34}))
	k2 := EntityKey(nibble.FromBytes([]byte{0x12, 0x56}))
	require.Equal(t, fingerprint(k1), fingerprint(k2))

	require.True(t, a.TrySet(k1, []byte{1}))
	require.True(t, a.TrySet(k2, []byte{2}))

	v, ok := a.TryGet(k1)
	require.True(t, ok)
	require.Equal(t, []byte{1}, v)
	v, ok = a.TryGet(k2)
	require.True(t, ok)
	require.Equal(t, []byte{2}, v)
}
