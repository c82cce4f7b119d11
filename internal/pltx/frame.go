package pltx

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Fixed binary layouts for the PLTX container. All integers are little
// endian; all floats are IEEE-754 binary64 little endian. See spec.md §4.2.
var (
	magicPLTX   = [4]byte{'P', 'L', 'T', 'X'}
	magicChunk  = [4]byte{'C', 'H', 'N', 'K'}
	magicIndex  = [4]byte{'I', 'D', 'X', 'T'}
	magicFooter = [4]byte{'F', 'T', 'E', 'R'}
)

// FileVersion is the current PLTX format version.
const FileVersion uint8 = 2

// recordSize is the on-disk size of one (timestamp, value) pair.
const recordSize = 16

// headerPrefixSize is the fixed size of the header prefix, before the
// variable-length signal metadata table.
const headerPrefixSize = 4 + 1 + 1 + 8 + 2

// chunkHeaderSize is the fixed size of a chunk frame's header, after its
// magic and before the compressed payload.
const chunkHeaderSize = 4 + 4 + 4 + 4 + 8 + 8

// indexEntrySize is the fixed size of one index entry.
const indexEntrySize = 4 + 8 + 8 + 8

// footerSize is the fixed size of the footer.
const footerSize = 4 + 8

// Signal describes one registered signal's static attributes.
type Signal struct {
	SID         uint32
	Name        string
	Unit        string
	Description string
	Source      string
}

type chunkHeader struct {
	SID     uint32
	N       uint32
	RawLen  uint32
	CompLen uint32
	MinTS   float64
	MaxTS   float64
}

// IndexEntry is one (offset, [min_ts, max_ts]) summary for a chunk belonging
// to a signal. Order within a signal's slice is chunk-write order.
type IndexEntry struct {
	SID    uint32
	Offset uint64
	MinTS  float64
	MaxTS  float64
}

func writeUint16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeFloat64(w io.Writer, v float64) error {
	return writeUint64(w, math.Float64bits(v))
}

func readUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readFloat64(r io.Reader) (float64, error) {
	bits, err := readUint64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("pltx: string field too long (%d bytes)", len(s))
	}
	if err := writeUint16(w, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readUint16(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// writeHeaderPrefix writes the 18-byte header prefix.
func writeHeaderPrefix(w io.Writer, comp uint8, created float64, sigCount uint16) error {
	if _, err := w.Write(magicPLTX[:]); err != nil {
		return err
	}
	var verComp [2]byte
	verComp[0] = FileVersion
	verComp[1] = comp
	if _, err := w.Write(verComp[:]); err != nil {
		return err
	}
	if err := writeFloat64(w, created); err != nil {
		return err
	}
	return writeUint16(w, sigCount)
}

// readHeaderPrefix reads and validates the header prefix's magic.
func readHeaderPrefix(r io.Reader) (version, comp uint8, created float64, sigCount uint16, err error) {
	var magic [4]byte
	if _, err = io.ReadFull(r, magic[:]); err != nil {
		return
	}
	if magic != magicPLTX {
		err = fmt.Errorf("%w: bad header magic %q", ErrCorrupt, magic)
		return
	}
	var verComp [2]byte
	if _, err = io.ReadFull(r, verComp[:]); err != nil {
		return
	}
	version, comp = verComp[0], verComp[1]
	if created, err = readFloat64(r); err != nil {
		return
	}
	sigCount, err = readUint16(r)
	return
}

func writeSignalMeta(w io.Writer, sig Signal) error {
	if err := writeUint32(w, sig.SID); err != nil {
		return err
	}
	for _, s := range []string{sig.Name, sig.Unit, sig.Description, sig.Source} {
		if err := writeString(w, s); err != nil {
			return err
		}
	}
	return nil
}

func readSignalMeta(r io.Reader) (Signal, error) {
	var sig Signal
	sid, err := readUint32(r)
	if err != nil {
		return sig, err
	}
	sig.SID = sid
	if sig.Name, err = readString(r); err != nil {
		return sig, err
	}
	if sig.Unit, err = readString(r); err != nil {
		return sig, err
	}
	if sig.Description, err = readString(r); err != nil {
		return sig, err
	}
	if sig.Source, err = readString(r); err != nil {
		return sig, err
	}
	return sig, nil
}

// writeChunkFrame writes "CHNK" || header || compressed payload.
func writeChunkFrame(w io.Writer, h chunkHeader, payload []byte) error {
	if _, err := w.Write(magicChunk[:]); err != nil {
		return err
	}
	if err := writeUint32(w, h.SID); err != nil {
		return err
	}
	if err := writeUint32(w, h.N); err != nil {
		return err
	}
	if err := writeUint32(w, h.RawLen); err != nil {
		return err
	}
	if err := writeUint32(w, h.CompLen); err != nil {
		return err
	}
	if err := writeFloat64(w, h.MinTS); err != nil {
		return err
	}
	if err := writeFloat64(w, h.MaxTS); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readChunkMagicAndHeader reads the leading "CHNK" magic and fixed header
// fields from r. It does not read the payload.
func readChunkMagicAndHeader(r io.Reader) (chunkHeader, error) {
	var h chunkHeader
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return h, err
	}
	if magic != magicChunk {
		return h, fmt.Errorf("%w: bad chunk magic %q", ErrCorrupt, magic)
	}
	var err error
	if h.SID, err = readUint32(r); err != nil {
		return h, err
	}
	if h.N, err = readUint32(r); err != nil {
		return h, err
	}
	if h.RawLen, err = readUint32(r); err != nil {
		return h, err
	}
	if h.CompLen, err = readUint32(r); err != nil {
		return h, err
	}
	if h.MinTS, err = readFloat64(r); err != nil {
		return h, err
	}
	if h.MaxTS, err = readFloat64(r); err != nil {
		return h, err
	}
	return h, nil
}

func writeIndexBlock(w io.Writer, entries []IndexEntry) error {
	if _, err := w.Write(magicIndex[:]); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeUint32(w, e.SID); err != nil {
			return err
		}
		if err := writeUint64(w, e.Offset); err != nil {
			return err
		}
		if err := writeFloat64(w, e.MinTS); err != nil {
			return err
		}
		if err := writeFloat64(w, e.MaxTS); err != nil {
			return err
		}
	}
	return nil
}

func readIndexBlock(r io.Reader) ([]IndexEntry, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if magic != magicIndex {
		return nil, fmt.Errorf("%w: bad index magic %q", ErrCorrupt, magic)
	}
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	entries := make([]IndexEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var e IndexEntry
		if e.SID, err = readUint32(r); err != nil {
			return nil, err
		}
		if e.Offset, err = readUint64(r); err != nil {
			return nil, err
		}
		if e.MinTS, err = readFloat64(r); err != nil {
			return nil, err
		}
		if e.MaxTS, err = readFloat64(r); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func writeFooter(w io.Writer, indexOffset uint64) error {
	if _, err := w.Write(magicFooter[:]); err != nil {
		return err
	}
	return writeUint64(w, indexOffset)
}

func readFooter(r io.Reader) (uint64, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return 0, fmt.Errorf("%w: footer read: %v", ErrCorrupt, err)
	}
	if magic != magicFooter {
		return 0, fmt.Errorf("%w: bad footer magic %q", ErrCorrupt, magic)
	}
	return readUint64(r)
}

// encodeRecords packs parallel timestamp/value slices into the raw
// (ts, val) x N byte layout chunks store uncompressed.
func encodeRecords(ts, vals []float64) []byte {
	buf := make([]byte, len(ts)*recordSize)
	for i := range ts {
		binary.LittleEndian.PutUint64(buf[i*recordSize:], math.Float64bits(ts[i]))
		binary.LittleEndian.PutUint64(buf[i*recordSize+8:], math.Float64bits(vals[i]))
	}
	return buf
}

// decodeRecords unpacks a raw record buffer of known record count n.
func decodeRecords(raw []byte, n uint32) (ts, vals []float64, err error) {
	if uint64(len(raw)) != uint64(n)*recordSize {
		return nil, nil, fmt.Errorf("%w: record buffer length %d not a multiple matching n=%d", ErrCorrupt, len(raw), n)
	}
	ts = make([]float64, n)
	vals = make([]float64, n)
	for i := uint32(0); i < n; i++ {
		off := int(i) * recordSize
		ts[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[off:]))
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[off+8:]))
	}
	return ts, vals, nil
}
