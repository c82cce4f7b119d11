package pltx

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// WriterOptions configures NewWriter. Zero-value fields are replaced with
// the defaults from spec.md §4.4.
type WriterOptions struct {
	// TempDir is where the temp-chunks file is created. Defaults to the
	// directory containing the final path.
	TempDir string

	// Compression is the codec selection tag: "none", "zstd", "lz4", or
	// anything else (falls back to deflate). Defaults to "zstd".
	Compression string

	// ChunkRecords is the per-signal buffer size that triggers a synchronous
	// flush. Defaults to 2048.
	ChunkRecords int

	// FlushInterval is how often the periodic flusher wakes to drain
	// non-empty buffers. Defaults to 500ms.
	FlushInterval time.Duration

	// FsyncEveryNChunks fsyncs the temp file every N chunks appended; 0
	// disables periodic fsync. Defaults to 8 when nil.
	FsyncEveryNChunks *int

	// MaxFinalizeRetries bounds stop_and_save's retry loop when assembling
	// the final file, per spec.md §9's recommendation. Defaults to 3.
	MaxFinalizeRetries int

	// FinalizeRetryBackoff is the sleep between finalize attempts. Defaults
	// to 1 second, matching the source behavior described in spec.md §4.4.
	FinalizeRetryBackoff time.Duration

	// Logger receives structured debug/warn events from the writer. Defaults
	// to a no-op logger.
	Logger hclog.Logger
}

func (o WriterOptions) withDefaults() WriterOptions {
	if o.Compression == "" {
		o.Compression = "zstd"
	}
	if o.ChunkRecords <= 0 {
		o.ChunkRecords = 2048
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = 500 * time.Millisecond
	}
	if o.FsyncEveryNChunks == nil {
		n := 8
		o.FsyncEveryNChunks = &n
	}
	if o.MaxFinalizeRetries <= 0 {
		o.MaxFinalizeRetries = 3
	}
	if o.FinalizeRetryBackoff <= 0 {
		o.FinalizeRetryBackoff = time.Second
	}
	if o.Logger == nil {
		o.Logger = hclog.NewNullLogger()
	}
	return o
}
