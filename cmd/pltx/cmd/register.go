package cmd

import (
	"os"

	"github.com/baksi-org/pltx/internal/registry"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <file>...",
	Short: "Register one or more timeseries files and print their assigned public signal names",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mgr := registry.NewManager(registry.WithLogger(log))
		defer mgr.Close()

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"path", "public name", "original name"})

		for _, path := range args {
			names, err := mgr.RegisterFile(path)
			if err != nil {
				die("register %s: %v", path, err)
			}
			for _, public := range names {
				_, orig, err := mgr.Resolve(public)
				if err != nil {
					die("resolve %s: %v", public, err)
				}
				table.Append([]string{path, public, orig})
			}
		}
		table.Render()
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
