package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/baksi-org/pltx/internal/pltx"
	"github.com/baksi-org/pltx/internal/unified"
	"github.com/spf13/cobra"
)

var (
	writeCompression string
	writeChunkSize   int
)

var writeCmd = &cobra.Command{
	Use:   "write <input> <output.pltx>",
	Short: "Convert a CSV (or other supported) timeseries file into a PLTX container",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		src, dst := args[0], args[1]

		eng, err := unified.Open(src)
		if err != nil {
			die("open %s: %v", src, err)
		}
		defer eng.Close()

		header, err := eng.GetHeader()
		if err != nil {
			die("read header of %s: %v", src, err)
		}

		w, err := pltx.NewWriter(dst, pltx.WriterOptions{
			Compression:  writeCompression,
			ChunkRecords: writeChunkSize,
			Logger:       log,
		})
		if err != nil {
			die("create writer for %s: %v", dst, err)
		}
		w.Start()

		for _, name := range header.SignalNames {
			sid := w.AddSignalMeta(name, "", "", src)
			it, err := eng.IterChunks(name, writeChunkSize)
			if err != nil {
				die("iterate signal %s: %v", name, err)
			}
			for {
				ts, vals, err := it.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					die("iterate signal %s: %v", name, err)
				}
				if err := w.RecordBatch(sid, ts, vals); err != nil {
					die("record batch for %s: %v", name, err)
				}
			}
		}

		if err := w.StopAndSave(); err != nil {
			die("finalize %s: %v", dst, err)
		}
		fmt.Printf("wrote %s (%d signals)\n", dst, len(header.SignalNames))
	},
}

func init() {
	writeCmd.Flags().StringVar(&writeCompression, "compression", "zstd", "compression codec: none, deflate, lz4, zstd")
	writeCmd.Flags().IntVar(&writeChunkSize, "chunk-records", 2048, "records buffered per signal before a flush")
	rootCmd.AddCommand(writeCmd)
}
