package pltx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression codes persisted in the file header. These values are part of
// the on-disk format and must not be renumbered.
const (
	CompNone    uint8 = 0
	CompDeflate uint8 = 1
	CompLZ4     uint8 = 2
	CompZstd    uint8 = 3
)

// ErrUnknownCodec is returned when decompress encounters a codec byte that
// isn't one of the CompNone/CompDeflate/CompLZ4/CompZstd constants.
var ErrUnknownCodec = fmt.Errorf("pltx: unknown compression codec")

// ErrDecompressedLengthMismatch is returned when a chunk's decompressed
// payload length doesn't match its raw_len field.
var ErrDecompressedLengthMismatch = fmt.Errorf("pltx: decompressed length mismatch")

func codecName(c uint8) string {
	switch c {
	case CompNone:
		return "none"
	case CompDeflate:
		return "deflate"
	case CompLZ4:
		return "lz4"
	case CompZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// pickCompression resolves a writer-construction tag to a codec, applying the
// fallback-to-deflate policy from spec.md §4.1. "none" and recognized codecs
// never fall back; unrecognized tags degrade to deflate.
func pickCompression(tag string) uint8 {
	switch tag {
	case "none":
		return CompNone
	case "zstd":
		return CompZstd
	case "lz4":
		return CompLZ4
	case "deflate":
		return CompDeflate
	default:
		return CompDeflate
	}
}

// compress encodes data with the given codec. level is only consulted for
// deflate; zstd and lz4 use their own speed/ratio presets.
func compress(data []byte, comp uint8, level int) ([]byte, error) {
	switch comp {
	case CompNone:
		return data, nil
	case CompDeflate:
		var buf bytes.Buffer
		fw, err := flate.NewWriter(&buf, level)
		if err != nil {
			return nil, fmt.Errorf("pltx: deflate writer: %w", err)
		}
		if _, err := fw.Write(data); err != nil {
			return nil, fmt.Errorf("pltx: deflate write: %w", err)
		}
		if err := fw.Close(); err != nil {
			return nil, fmt.Errorf("pltx: deflate close: %w", err)
		}
		return buf.Bytes(), nil
	case CompLZ4:
		var buf bytes.Buffer
		lw := lz4.NewWriter(&buf)
		if _, err := lw.Write(data); err != nil {
			return nil, fmt.Errorf("pltx: lz4 write: %w", err)
		}
		if err := lw.Close(); err != nil {
			return nil, fmt.Errorf("pltx: lz4 close: %w", err)
		}
		return buf.Bytes(), nil
	case CompZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("pltx: zstd writer: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, ErrUnknownCodec
	}
}

// decompress decodes data with the given codec and verifies the result is
// exactly rawLen bytes long, per spec.md §4.1's mandatory length check.
func decompress(data []byte, comp uint8, rawLen int) ([]byte, error) {
	var out []byte
	switch comp {
	case CompNone:
		out = data
	case CompDeflate:
		fr := flate.NewReader(bytes.NewReader(data))
		defer fr.Close()
		b, err := io.ReadAll(fr)
		if err != nil {
			return nil, fmt.Errorf("pltx: deflate read: %w", err)
		}
		out = b
	case CompLZ4:
		lr := lz4.NewReader(bytes.NewReader(data))
		b, err := io.ReadAll(lr)
		if err != nil {
			return nil, fmt.Errorf("pltx: lz4 read: %w", err)
		}
		out = b
	case CompZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("pltx: zstd reader: %w", err)
		}
		defer dec.Close()
		b, err := dec.DecodeAll(data, make([]byte, 0, rawLen))
		if err != nil {
			return nil, fmt.Errorf("pltx: zstd decode: %w", err)
		}
		out = b
	default:
		return nil, ErrUnknownCodec
	}
	if len(out) != rawLen {
		return nil, fmt.Errorf("%w: got %d want %d", ErrDecompressedLengthMismatch, len(out), rawLen)
	}
	return out, nil
}
