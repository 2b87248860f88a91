package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "todoweb",
		Short:        "Web frontend for a todo REST backend",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Serve the todo list against a local backend
  todoweb serve --api-url http://localhost:8000

  # Read API_URL and friends from a custom env file
  todoweb serve --env-file deploy/.env
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newServeCmd())

	return cmd
}
