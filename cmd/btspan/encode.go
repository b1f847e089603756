package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/braintrustdata/braintrust-go/pkg/spanid"
)

func encodeCmd() *cobra.Command {
	var (
		objectType string
		objectID   string
		metadata   string
		rowID      string
		spanID     string
		rootSpanID string
		legacy     bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a span identity from its components",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := objectTypeFromName(objectType)
			if err != nil {
				return err
			}

			c := spanid.SpanComponents{
				ObjectType: t,
				ObjectID:   objectID,
				RowID:      rowID,
				SpanID:     spanID,
				RootSpanID: rootSpanID,
			}
			if metadata != "" {
				var args map[string]any
				if err := json.Unmarshal([]byte(metadata), &args); err != nil {
					return fmt.Errorf("parsing --metadata: %w", err)
				}
				c.ComputeObjectMetadataArgs = args
			}

			v := spanid.VersionV4
			if legacy {
				v = spanid.VersionV3
			}
			encoded, err := c.Encode(v)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}

	cmd.Flags().StringVar(&objectType, "type", "project_logs", "object type: experiment, project_logs, or playground_logs")
	cmd.Flags().StringVar(&objectID, "object-id", "", "object id (mutually exclusive with --metadata)")
	cmd.Flags().StringVar(&metadata, "metadata", "", "JSON object of metadata arguments resolving the object")
	cmd.Flags().StringVar(&rowID, "row-id", "", "row id of the span")
	cmd.Flags().StringVar(&spanID, "span-id", "", "span id (hex)")
	cmd.Flags().StringVar(&rootSpanID, "root-span-id", "", "root span id (hex)")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "emit the older all-UUID wire version")

	return cmd
}
