package pltx

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderPrefixRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeHeaderPrefix(buf, CompZstd, 1700000000.5, 3))

	version, comp, created, sigCount, err := readHeaderPrefix(buf)
	require.NoError(t, err)
	assert.Equal(t, FileVersion, version)
	assert.Equal(t, CompZstd, comp)
	assert.Equal(t, 1700000000.5, created)
	assert.Equal(t, uint16(3), sigCount)
}

func TestHeaderPrefixBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("XXXX")
	buf.Write(make([]byte, 14))
	_, _, _, _, err := readHeaderPrefix(buf)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSignalMetaRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	sig := Signal{SID: 7, Name: "rpm", Unit: "1/min", Description: "engine speed", Source: "ecu"}
	require.NoError(t, writeSignalMeta(buf, sig))

	got, err := readSignalMeta(buf)
	require.NoError(t, err)
	assert.Equal(t, sig, got)
}

func TestChunkFrameRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	payload := []byte("compressed-bytes")
	h := chunkHeader{SID: 2, N: 4, RawLen: 64, CompLen: uint32(len(payload)), MinTS: 1.0, MaxTS: 4.0}
	require.NoError(t, writeChunkFrame(buf, h, payload))

	got, err := readChunkMagicAndHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)

	gotPayload := make([]byte, got.CompLen)
	_, err = io.ReadFull(buf, gotPayload)
	require.NoError(t, err)
	assert.Equal(t, payload, gotPayload)
}

func TestChunkFrameBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("NOPE")
	buf.Write(make([]byte, chunkHeaderSize))
	_, err := readChunkMagicAndHeader(buf)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestIndexBlockRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	entries := []IndexEntry{
		{SID: 1, Offset: 18, MinTS: 0, MaxTS: 1},
		{SID: 2, Offset: 200, MinTS: 0.5, MaxTS: 2.5},
	}
	require.NoError(t, writeIndexBlock(buf, entries))

	got, err := readIndexBlock(buf)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestFooterRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeFooter(buf, 12345))

	offset, err := readFooter(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), offset)
}

func TestEncodeDecodeRecords(t *testing.T) {
	ts := []float64{0.1, 0.2, 0.3}
	vals := []float64{10, 20, 30}
	raw := encodeRecords(ts, vals)
	assert.Len(t, raw, len(ts)*recordSize)

	gotTS, gotVals, err := decodeRecords(raw, uint32(len(ts)))
	require.NoError(t, err)
	assert.Equal(t, ts, gotTS)
	assert.Equal(t, vals, gotVals)
}

func TestDecodeRecordsLengthMismatch(t *testing.T) {
	raw := make([]byte, recordSize) // one record
	_, _, err := decodeRecords(raw, 2)
	assert.ErrorIs(t, err, ErrCorrupt)
}
