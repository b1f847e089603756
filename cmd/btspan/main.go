// Braintrust span identity tool
// Encodes, decodes, and bridges portable span identities from the command line
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/braintrustdata/braintrust-go/pkg/spanid"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "btspan",
		Short:        "Braintrust span identity tool",
		SilenceUsage: true,
	}

	root.AddCommand(encodeCmd())
	root.AddCommand(decodeCmd())
	root.AddCommand(headersCmd())
	root.AddCommand(emitCmd())
	root.AddCommand(versionCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "btspan %s (commit %s, built %s)\n", version, commit, buildTime)
		},
	}
}

func objectTypeFromName(name string) (spanid.ObjectType, error) {
	for _, t := range []spanid.ObjectType{
		spanid.ObjectTypeExperiment,
		spanid.ObjectTypeProjectLogs,
		spanid.ObjectTypePlaygroundLogs,
	} {
		if t.String() == name {
			return t, nil
		}
	}
	return spanid.ObjectTypeUnknown, fmt.Errorf("unknown object type %q (want experiment, project_logs, or playground_logs)", name)
}
