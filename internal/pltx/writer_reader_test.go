package pltx

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWriter(t *testing.T, dir string, opts WriterOptions) *Writer {
	t.Helper()
	w, err := NewWriter(filepath.Join(dir, "out.pltx"), opts)
	require.NoError(t, err)
	return w
}

// S1: trivial file, one signal, one point.
func TestScenarioTrivialSingleSample(t *testing.T) {
	dir := t.TempDir()
	w := mustWriter(t, dir, WriterOptions{Compression: "none"})
	sid := w.AddSignalMeta("temp", "C", "", "sensor")
	require.NoError(t, w.RecordPoint(sid, 1.0, 42.5))
	require.NoError(t, w.StopAndSave())

	r, err := Open(filepath.Join(dir, "out.pltx"))
	require.NoError(t, err)
	defer r.Close()

	ts, vals, err := r.ReadSignalAll(sid)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0}, ts)
	assert.Equal(t, []float64{42.5}, vals)
}

// S2: multi-chunk file forcing several synchronous flushes.
func TestScenarioMultiChunk(t *testing.T) {
	dir := t.TempDir()
	w := mustWriter(t, dir, WriterOptions{Compression: "deflate", ChunkRecords: 10})
	sid := w.AddSignalMeta("pressure", "psi", "", "sensor")

	var wantTS, wantVals []float64
	for i := 0; i < 35; i++ {
		ts := float64(i)
		val := float64(i) * 2
		wantTS = append(wantTS, ts)
		wantVals = append(wantVals, val)
		require.NoError(t, w.RecordPoint(sid, ts, val))
	}
	require.NoError(t, w.StopAndSave())

	r, err := Open(filepath.Join(dir, "out.pltx"))
	require.NoError(t, err)
	defer r.Close()

	gotTS, gotVals, err := r.ReadSignalAll(sid)
	require.NoError(t, err)
	assert.Equal(t, wantTS, gotTS)
	assert.Equal(t, wantVals, gotVals)
}

// S3: interleaved signals, alternating one point of each per step.
func TestScenarioInterleavedSignals(t *testing.T) {
	dir := t.TempDir()
	w := mustWriter(t, dir, WriterOptions{Compression: "lz4", ChunkRecords: 5})
	sidA := w.AddSignalMeta("a", "", "", "")
	sidB := w.AddSignalMeta("b", "", "", "")

	for i := 0; i < 12; i++ {
		require.NoError(t, w.RecordPoint(sidA, float64(i), float64(i)))
		require.NoError(t, w.RecordPoint(sidB, float64(i), float64(-i)))
	}
	require.NoError(t, w.StopAndSave())

	r, err := Open(filepath.Join(dir, "out.pltx"))
	require.NoError(t, err)
	defer r.Close()

	tsA, valsA, err := r.ReadSignalAll(sidA)
	require.NoError(t, err)
	assert.Len(t, tsA, 12)
	assert.Equal(t, float64(0), valsA[0])

	tsB, valsB, err := r.ReadSignalAll(sidB)
	require.NoError(t, err)
	assert.Len(t, tsB, 12)
	assert.Equal(t, float64(-11), valsB[11])
}

// S4: range query exercises predicate pushdown and chunk pruning.
func TestScenarioRangeQuery(t *testing.T) {
	dir := t.TempDir()
	w := mustWriter(t, dir, WriterOptions{Compression: "zstd", ChunkRecords: 4})
	sid := w.AddSignalMeta("v", "", "", "")
	for i := 0; i < 20; i++ {
		require.NoError(t, w.RecordPoint(sid, float64(i), float64(i)*10))
	}
	require.NoError(t, w.StopAndSave())

	r, err := Open(filepath.Join(dir, "out.pltx"))
	require.NoError(t, err)
	defer r.Close()

	it := r.IterTimeRange(sid, 5, 9)
	var ts []float64
	for {
		chunkTS, _, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		ts = append(ts, chunkTS...)
	}
	assert.Equal(t, []float64{5, 6, 7, 8, 9}, ts)
}

// S5: name collision — AddSignalMeta is idempotent per name at the writer
// layer; registry-layer collision handling is exercised separately.
func TestScenarioRepeatedSignalNameReturnsSameSID(t *testing.T) {
	dir := t.TempDir()
	w := mustWriter(t, dir, WriterOptions{})
	sid1 := w.AddSignalMeta("dup", "", "", "")
	sid2 := w.AddSignalMeta("dup", "", "", "")
	assert.Equal(t, sid1, sid2)
	require.NoError(t, w.StopAndSave())
}

// S6: a truncated/corrupted file surfaces ErrCorrupt rather than panicking.
func TestScenarioCorruptFileTruncation(t *testing.T) {
	dir := t.TempDir()
	w := mustWriter(t, dir, WriterOptions{})
	sid := w.AddSignalMeta("x", "", "", "")
	require.NoError(t, w.RecordPoint(sid, 1, 1))
	require.NoError(t, w.StopAndSave())

	path := filepath.Join(dir, "out.pltx")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-4], 0o644)) // truncate footer

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRecordPointAfterSealReturnsErrAlreadySealed(t *testing.T) {
	dir := t.TempDir()
	w := mustWriter(t, dir, WriterOptions{})
	sid := w.AddSignalMeta("x", "", "", "")
	require.NoError(t, w.StopAndSave())
	err := w.RecordPoint(sid, 1, 1)
	assert.ErrorIs(t, err, ErrAlreadySealed)
}

func TestFsyncEveryNChunksZeroDisablesFsync(t *testing.T) {
	zero := 0
	opts := WriterOptions{ChunkRecords: 1, FsyncEveryNChunks: &zero}.withDefaults()
	assert.Equal(t, 0, *opts.FsyncEveryNChunks)
}

func TestResolveSignalUnknownReturnsErrUnknownSignal(t *testing.T) {
	dir := t.TempDir()
	w := mustWriter(t, dir, WriterOptions{})
	w.AddSignalMeta("known", "", "", "")
	require.NoError(t, w.StopAndSave())

	r, err := Open(filepath.Join(dir, "out.pltx"))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ResolveSignal("missing")
	assert.ErrorIs(t, err, ErrUnknownSignal)

	sig, err := r.ResolveSignal("known")
	require.NoError(t, err)
	assert.Equal(t, "known", sig.Name)
}

func TestUnknownSignalIterYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	w := mustWriter(t, dir, WriterOptions{})
	w.AddSignalMeta("x", "", "", "")
	require.NoError(t, w.StopAndSave())

	r, err := Open(filepath.Join(dir, "out.pltx"))
	require.NoError(t, err)
	defer r.Close()

	it := r.IterChunks(999)
	_, _, err = it.Next()
	assert.ErrorIs(t, err, io.EOF)
}
