package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	logger_adapter "github.com/Edmond40/afari-real-estate-sub000/internal/adapters/logger"
	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
)

type rootOptions struct {
	file     string
	logLevel string
	output   string
}

func Execute() error {
	return newRootCmd(os.Stdout, os.Stderr).Execute()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "listingctl",
		Short:         "Offline tools for the listing browse core",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
				Writer:   stderr,
				Level:    logger_adapter.ParseLevel(opts.logLevel),
				UseColor: true,
			}).WithFields(port.Fields{"component": "listingctl", "command": cmd.Name()})

			cmd.SetContext(contextkeys.ContextWithLogger(cmd.Context(), logger))
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "snapshot file with listings (.json, .yaml or .yml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "output format: table, json, yaml")

	root.AddCommand(browseCmd(opts), statsCmd(opts), notifyCmd())
	return root
}
