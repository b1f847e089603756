package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/braintrustdata/braintrust-go/pkg/spanid"
	btrace "github.com/braintrustdata/braintrust-go/pkg/trace"
)

func headersCmd() *cobra.Command {
	var (
		traceparent string
		bag         string
		useV4       bool
		show        bool
	)

	cmd := &cobra.Command{
		Use:   "headers",
		Short: "Derive an encoded span identity from W3C trace headers",
		Long: `Derive an encoded span identity from a W3C traceparent header and a
baggage header carrying a "braintrust.parent" member.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := http.Header{}
			if traceparent != "" {
				h.Set("traceparent", traceparent)
			}
			if bag != "" {
				h.Set("baggage", bag)
			}

			var opts []btrace.HeaderOption
			if useV4 {
				opts = append(opts, btrace.WithV4Encoding())
			}
			encoded, ok := btrace.ParentFromHeaders(cmd.Context(), h, opts...)
			if !ok {
				return fmt.Errorf("headers carry no usable span identity")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), encoded)

			if show {
				c, err := spanid.Decode(encoded)
				if err != nil {
					return err
				}
				out, err := yaml.Marshal(viewOf(c))
				if err != nil {
					return err
				}
				_, _ = cmd.OutOrStdout().Write(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&traceparent, "traceparent", "", "W3C traceparent header value")
	cmd.Flags().StringVar(&bag, "baggage", "", "W3C baggage header value")
	cmd.Flags().BoolVar(&useV4, "v4", false, "emit the compact wire version")
	cmd.Flags().BoolVar(&show, "show", false, "also print the decoded identity as YAML")

	return cmd
}
