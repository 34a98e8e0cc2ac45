package lutstore

import (
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/noiselut/internal/gradient"
	"github.com/MeKo-Tech/noiselut/internal/lut"
	"github.com/MeKo-Tech/noiselut/internal/params"
	"github.com/MeKo-Tech/noiselut/internal/tables"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() Metadata {
	return Metadata{
		Name:        "test",
		Description: "test store",
		Version:     "1",
		Sampling:    "exact",
		Params:      params.NoiseParameterSet{Octaves: 5, Lacunarity: 2, Gain: 0.5, TimeMultiplier: 1.5},
	}
}

func TestWriterCreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.lutdb")

	w, err := New(dbPath, testMetadata())
	require.NoError(t, err)
	defer w.Close()

	var count int
	err = w.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='buffers'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = w.db.QueryRow("SELECT COUNT(*) FROM metadata").Scan(&count)
	require.NoError(t, err)
	assert.NotZero(t, count)
}

func TestRoundTripIsBitExact(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.lutdb")

	color, err := gradient.Bake(gradient.TwoStop(mgl32.Vec3{0.1, 0.2, 0.3}, mgl32.Vec3{0.9, 0.7, 0.5}), 256, gradient.SampleStepped)
	require.NoError(t, err)
	perm := lut.EncodePermutation(tables.Permutation())
	grads := lut.EncodeGradients(tables.Gradients4D())

	w, err := New(dbPath, testMetadata())
	require.NoError(t, err)
	require.NoError(t, w.WriteBuffer("default", perm))
	require.NoError(t, w.WriteBuffer("default", grads))
	require.NoError(t, w.WriteBuffer("sunset", color))
	require.NoError(t, w.Close())

	r, err := OpenReader(dbPath)
	require.NoError(t, err)
	defer r.Close()

	for _, tc := range []struct {
		set  string
		want *lut.EncodedBuffer
	}{
		{"default", perm},
		{"default", grads},
		{"sunset", color},
	} {
		got, err := r.ReadBuffer(tc.set, tc.want.Name)
		require.NoError(t, err)
		assert.True(t, tc.want.Equal(got), "%s/%s differs after round trip", tc.set, tc.want.Name)
	}

	infos, err := r.List()
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "default", infos[0].Set)
	assert.Equal(t, "sunset", infos[2].Set)
	assert.Equal(t, 256, infos[2].Width)

	meta, err := r.Metadata()
	require.NoError(t, err)
	assert.Equal(t, testMetadata(), meta)
}

func TestReadMissingBuffer(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.lutdb")
	w, err := New(dbPath, testMetadata())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReader(dbPath)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadBuffer("nope", lut.ColorName)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriterReplacesExistingBuffer(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.lutdb")
	first, err := gradient.Bake(gradient.TwoStop(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}), 16, gradient.SampleExact)
	require.NoError(t, err)
	second, err := gradient.Bake(gradient.TwoStop(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}), 16, gradient.SampleExact)
	require.NoError(t, err)

	w, err := New(dbPath, testMetadata())
	require.NoError(t, err)
	require.NoError(t, w.WriteBuffer("g", first))
	require.NoError(t, w.Flush())
	require.NoError(t, w.WriteBuffer("g", second))
	require.NoError(t, w.Close())

	r, err := OpenReader(dbPath)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadBuffer("g", lut.ColorName)
	require.NoError(t, err)
	assert.True(t, second.Equal(got))
}

func TestWriteBufferCopiesInput(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.lutdb")
	buf := lut.EncodePermutation(tables.Permutation())
	want := buf.Clone()

	w, err := New(dbPath, testMetadata())
	require.NoError(t, err)
	require.NoError(t, w.WriteBuffer("default", buf))
	buf.Release()
	require.NoError(t, w.Close())

	r, err := OpenReader(dbPath)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadBuffer("default", lut.PermutationName)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestWriteEmptyBufferFails(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.lutdb")
	w, err := New(dbPath, testMetadata())
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.WriteBuffer("x", nil))
	assert.Error(t, w.WriteBuffer("x", lut.NewBuffer("e", 0, lut.TableSampler, lut.RangeUnsigned)))
}

func TestOpenReaderRejectsForeignDatabase(t *testing.T) {
	_, err := OpenReader(filepath.Join(t.TempDir(), "missing.lutdb"))
	assert.Error(t, err)
}
