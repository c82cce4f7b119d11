package pltx

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Reader parses a sealed PLTX file and serves chunk-at-a-time iteration over
// any signal, using the footer-indexed chunk offsets to avoid linearly
// scanning the chunk region. See spec.md §4.3.
//
// A Reader is synchronous and must be used from a single goroutine at a time;
// it owns one seekable file handle that Next() calls reposition.
type Reader struct {
	path    string
	f       *os.File
	version uint8
	comp    uint8
	created float64

	signals     map[uint32]Signal
	signalOrder []uint32
	index       map[uint32][]IndexEntry

	log hclog.Logger
}

// ReaderOption configures Open.
type ReaderOption func(*Reader)

// WithReaderLogger overrides the reader's hclog.Logger (default: a null
// logger that discards all output).
func WithReaderLogger(l hclog.Logger) ReaderOption {
	return func(r *Reader) { r.log = l }
}

// Open opens path read-only and eagerly parses the header, footer, and
// index, per spec.md §4.3's construction contract.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pltx: open %s: %w", path, err)
	}
	r := &Reader{
		path:    path,
		f:       f,
		signals: make(map[uint32]Signal),
		index:   make(map[uint32][]IndexEntry),
		log:     hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	if err := r.readFooterAndIndex(); err != nil {
		f.Close()
		return nil, err
	}
	r.log.Debug("opened pltx file", "path", path, "signals", len(r.signals), "version", r.version)
	return r, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.f.Close()
}

// Version returns the file format version.
func (r *Reader) Version() uint8 { return r.version }

// Compression returns the codec used for every chunk in this file.
func (r *Reader) Compression() uint8 { return r.comp }

// Created returns the writer-construction timestamp stored in the header.
func (r *Reader) Created() float64 { return r.created }

// ListSignals returns (sid, name) pairs in header insertion order.
func (r *Reader) ListSignals() []Signal {
	out := make([]Signal, 0, len(r.signalOrder))
	for _, sid := range r.signalOrder {
		out = append(out, r.signals[sid])
	}
	return out
}

// SignalByName resolves a signal name to its full metadata.
func (r *Reader) SignalByName(name string) (Signal, bool) {
	for _, sid := range r.signalOrder {
		if r.signals[sid].Name == name {
			return r.signals[sid], true
		}
	}
	return Signal{}, false
}

// ResolveSignal is SignalByName with an error return, for callers that want
// to discriminate a missing signal via errors.Is(err, ErrUnknownSignal).
func (r *Reader) ResolveSignal(name string) (Signal, error) {
	sig, ok := r.SignalByName(name)
	if !ok {
		return Signal{}, fmt.Errorf("pltx: %w: %q", ErrUnknownSignal, name)
	}
	return sig, nil
}

func (r *Reader) readHeader() error {
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("pltx: seek header: %w", err)
	}
	version, comp, created, sigCount, err := readHeaderPrefix(r.f)
	if err != nil {
		return fmt.Errorf("pltx: read header prefix: %w", err)
	}
	r.version, r.comp, r.created = version, comp, created
	for i := uint16(0); i < sigCount; i++ {
		sig, err := readSignalMeta(r.f)
		if err != nil {
			return fmt.Errorf("pltx: read signal metadata %d/%d: %w", i+1, sigCount, err)
		}
		r.signals[sig.SID] = sig
		r.signalOrder = append(r.signalOrder, sig.SID)
	}
	return nil
}

func (r *Reader) readFooterAndIndex() error {
	size, err := r.f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("pltx: seek end: %w", err)
	}
	if size < footerSize {
		return fmt.Errorf("%w: file too small for footer", ErrCorrupt)
	}
	if _, err := r.f.Seek(size-footerSize, io.SeekStart); err != nil {
		return fmt.Errorf("pltx: seek footer: %w", err)
	}
	indexOffset, err := readFooter(r.f)
	if err != nil {
		return fmt.Errorf("pltx: read footer: %w", err)
	}
	if _, err := r.f.Seek(int64(indexOffset), io.SeekStart); err != nil {
		return fmt.Errorf("pltx: seek index: %w", err)
	}
	entries, err := readIndexBlock(r.f)
	if err != nil {
		return fmt.Errorf("pltx: read index: %w", err)
	}
	for _, e := range entries {
		r.index[e.SID] = append(r.index[e.SID], e)
	}
	return nil
}

// ChunkIterator yields one decompressed chunk per Next() call, in
// chunk-write order. It is not restartable; call IterChunks/IterTimeRange
// again to read from the start.
type ChunkIterator struct {
	r       *Reader
	entries []IndexEntry
	pos     int
	t1, t2  float64
	ranged  bool
}

// Next reads and decompresses the next matching chunk. It returns io.EOF
// once the iterator is exhausted.
func (it *ChunkIterator) Next() (ts, vals []float64, err error) {
	for it.pos < len(it.entries) {
		e := it.entries[it.pos]
		it.pos++
		if it.ranged && (e.MaxTS < it.t1 || e.MinTS > it.t2) {
			continue
		}
		ts, vals, err = it.r.readChunkAt(e)
		if err != nil {
			return nil, nil, err
		}
		if it.ranged {
			ts, vals = filterRange(ts, vals, it.t1, it.t2)
			if len(ts) == 0 {
				continue
			}
		}
		return ts, vals, nil
	}
	return nil, nil, io.EOF
}

func filterRange(ts, vals []float64, t1, t2 float64) ([]float64, []float64) {
	outTS := ts[:0:0]
	outVals := vals[:0:0]
	for i, t := range ts {
		if t >= t1 && t <= t2 {
			outTS = append(outTS, t)
			outVals = append(outVals, vals[i])
		}
	}
	return outTS, outVals
}

func (r *Reader) readChunkAt(e IndexEntry) (ts, vals []float64, err error) {
	if _, err := r.f.Seek(int64(e.Offset), io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("pltx: seek chunk at %d: %w", e.Offset, err)
	}
	h, err := readChunkMagicAndHeader(r.f)
	if err != nil {
		return nil, nil, fmt.Errorf("pltx: read chunk header at %d: %w", e.Offset, err)
	}
	if h.SID != e.SID {
		return nil, nil, fmt.Errorf("%w: index points to sid %d but chunk at %d has sid %d", ErrCorrupt, e.SID, e.Offset, h.SID)
	}
	payload := make([]byte, h.CompLen)
	if _, err := io.ReadFull(r.f, payload); err != nil {
		return nil, nil, fmt.Errorf("pltx: short chunk payload read at %d: %w", e.Offset, err)
	}
	raw, err := decompress(payload, r.comp, int(h.RawLen))
	if err != nil {
		return nil, nil, fmt.Errorf("pltx: decompress chunk at %d: %w", e.Offset, err)
	}
	return decodeRecords(raw, h.N)
}

// IterChunks iterates every chunk for sid in write order. An unknown sid
// yields an immediately-exhausted iterator, matching spec.md §4.3's
// "no entries" design choice.
func (r *Reader) IterChunks(sid uint32) *ChunkIterator {
	return &ChunkIterator{r: r, entries: r.index[sid]}
}

// IterTimeRange iterates chunks whose [min_ts, max_ts] intersects [t1, t2],
// yielding only records within that range. Chunks with no surviving records
// are skipped entirely (predicate pushdown, spec.md §4.3/§8 property 4).
func (r *Reader) IterTimeRange(sid uint32, t1, t2 float64) *ChunkIterator {
	return &ChunkIterator{r: r, entries: r.index[sid], t1: t1, t2: t2, ranged: true}
}

// ReadSignalAll concatenates every chunk for sid in write order.
func (r *Reader) ReadSignalAll(sid uint32) (ts, vals []float64, err error) {
	it := r.IterChunks(sid)
	for {
		chunkTS, chunkVals, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		ts = append(ts, chunkTS...)
		vals = append(vals, chunkVals...)
	}
	return ts, vals, nil
}
