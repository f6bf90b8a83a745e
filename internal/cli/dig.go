package cli

import (
	"fmt"
	"strings"

	"akcli/internal/config"
	"akcli/pkg/diag"

	"github.com/spf13/cobra"
)

func (a *App) digCommand(defaults config.Dig) *cobra.Command {
	var (
		queryType string
		short     bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "dig HOSTNAME",
		Short: "Resolve a hostname using an edge server",
		Long: "Resolve a fully qualified domain name through an edge server " +
			"and show the returned DNS records.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			queryType = strings.ToUpper(queryType)
			if !diag.IsValidQueryType(queryType) {
				return fmt.Errorf("invalid query type %q (valid types: %s)",
					queryType, strings.Join(diag.QueryTypes, ", "))
			}

			svc, err := a.buildService()
			if err != nil {
				return err
			}

			hostname := args[0]
			resp, err := svc.Dig(cmd.Context(), hostname, queryType)
			if err != nil {
				return err
			}

			if !resp.Result.HasAnswers() {
				printWarning(a.stderr, fmt.Sprintf("No record matches the query: %s", hostname))
				return nil
			}

			if asJSON {
				return printJSON(a.stdout, resp)
			}

			renderDigTable(a.stdout, resp.Result.AnswerSection, hostname, queryType, short)
			return nil
		},
	}

	cmd.Flags().StringVar(&queryType, "query-type", defaults.QueryType, "Choose the type of DNS query")
	cmd.Flags().BoolVar(&short, "short", defaults.ShortOutput, "Show only the returned values")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}
