package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/braintrustdata/braintrust-go/pkg/spanid"
)

// identityView is the YAML shape printed for a decoded identity.
type identityView struct {
	ObjectType string         `yaml:"object_type"`
	ObjectID   string         `yaml:"object_id,omitempty"`
	Metadata   map[string]any `yaml:"compute_object_metadata_args,omitempty"`
	RowID      string         `yaml:"row_id"`
	SpanID     string         `yaml:"span_id"`
	RootSpanID string         `yaml:"root_span_id"`
}

func viewOf(c *spanid.SpanComponents) identityView {
	return identityView{
		ObjectType: c.ObjectType.String(),
		ObjectID:   c.ObjectID,
		Metadata:   c.ComputeObjectMetadataArgs,
		RowID:      c.RowID,
		SpanID:     c.SpanID,
		RootSpanID: c.RootSpanID,
	}
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <encoded>",
		Short: "Decode an encoded span identity and print it as YAML",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("missing encoded identity\n\nUsage: btspan decode <encoded>")
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := spanid.Decode(args[0])
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(viewOf(c))
			if err != nil {
				return err
			}
			_, _ = cmd.OutOrStdout().Write(out)
			return nil
		},
	}
}
