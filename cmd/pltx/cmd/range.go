package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/baksi-org/pltx/internal/pltx"
	"github.com/spf13/cobra"
)

var rangeCmd = &cobra.Command{
	Use:   "range <file.pltx> <signal> <t1> <t2>",
	Short: "Print samples of one signal within [t1, t2], using index pushdown",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		path, signal := args[0], args[1]
		t1, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			die("parse t1: %v", err)
		}
		t2, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			die("parse t2: %v", err)
		}

		r, err := pltx.Open(path)
		if err != nil {
			die("open %s: %v", path, err)
		}
		defer r.Close()

		sig, err := r.ResolveSignal(signal)
		if err != nil {
			die("%v", err)
		}

		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		fmt.Fprintln(w, "time,value")

		it := r.IterTimeRange(sig.SID, t1, t2)
		for {
			ts, vals, err := it.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				die("iterate range: %v", err)
			}
			for i := range ts {
				fmt.Fprintf(w, "%g,%g\n", ts[i], vals[i])
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(rangeCmd)
}
