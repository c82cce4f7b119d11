package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/baksi-org/pltx/internal/pltx"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <file.pltx> <signal>",
	Short: "Print every (timestamp, value) sample of one signal as CSV",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		path, signal := args[0], args[1]
		r, err := pltx.Open(path)
		if err != nil {
			die("open %s: %v", path, err)
		}
		defer r.Close()

		sig, err := r.ResolveSignal(signal)
		if err != nil {
			die("%v", err)
		}

		ts, vals, err := r.ReadSignalAll(sig.SID)
		if err != nil {
			die("read signal %s: %v", signal, err)
		}

		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		fmt.Fprintln(w, "time,value")
		for i := range ts {
			fmt.Fprintf(w, "%g,%g\n", ts[i], vals[i])
		}
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}
