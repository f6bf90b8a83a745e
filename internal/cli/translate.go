package cli

import (
	"fmt"

	"akcli/internal/config"

	"github.com/spf13/cobra"
)

func (a *App) translateCommand(defaults config.Translate) *cobra.Command {
	var (
		trace  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "translate ID",
		Short: "Translate an error reference into edge server logs",
		Long: "Look up the edge server logs behind an error reference ID " +
			"and show what failed while serving the request.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.buildService()
			if err != nil {
				return err
			}

			id := args[0]
			resp, err := svc.Translate(cmd.Context(), id, trace)
			if err != nil {
				return err
			}

			if resp.Result.NoLogsFound() {
				printWarning(a.stderr, fmt.Sprintf("No logs match the reference ID: %s", id))
				return nil
			}

			if asJSON {
				return printJSON(a.stdout, resp)
			}

			renderTranslateTable(a.stdout, resp, id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", defaults.Trace, "Collect logs from every edge server involved in serving the request")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}
