package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/baksi-org/pltx/internal/pltx"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.pltx>",
	Short: "Print header and signal summary for a PLTX file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r, err := pltx.Open(args[0])
		if err != nil {
			die("open %s: %v", args[0], err)
		}
		defer r.Close()

		created := time.Unix(int64(r.Created()), 0).UTC()
		fmt.Printf("version: %d\n", r.Version())
		fmt.Printf("compression: %s\n", compressionName(r.Compression()))
		fmt.Printf("created: %s\n", created.Format(time.RFC3339))
		fmt.Printf("signals: %d\n\n", len(r.ListSignals()))

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"sid", "name", "unit", "description", "source"})
		for _, sig := range r.ListSignals() {
			table.Append([]string{
				fmt.Sprintf("%d", sig.SID), sig.Name, sig.Unit, sig.Description, sig.Source,
			})
		}
		table.Render()
	},
}

func compressionName(c uint8) string {
	switch c {
	case 0:
		return "none"
	case 1:
		return "deflate"
	case 2:
		return "lz4"
	case 3:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
