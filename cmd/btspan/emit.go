package main

import (
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	btrace "github.com/braintrustdata/braintrust-go/pkg/trace"
)

func emitCmd() *cobra.Command {
	var (
		parent string
		name   string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Emit a sample span through the parent-resolving processor",
		Long: `Emit a single span through the same processor the SDK registers,
exported as JSON on stdout. Useful for inspecting the exact attributes
a configured parent produces.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := btrace.ParseParent(parent)
			if err != nil {
				return err
			}

			exporterOpts := []stdouttrace.Option{stdouttrace.WithWriter(cmd.OutOrStdout())}
			if pretty {
				exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
			}
			exporter, err := stdouttrace.New(exporterOpts...)
			if err != nil {
				return err
			}

			tp := sdktrace.NewTracerProvider()
			tp.RegisterSpanProcessor(btrace.NewProcessor(
				sdktrace.NewSimpleSpanProcessor(exporter),
				btrace.WithDefaultParent(p),
			))

			_, span := tp.Tracer("btspan").Start(cmd.Context(), name)
			span.End()

			return tp.Shutdown(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "project_name:default-go-project", `logical parent as "type:id"`)
	cmd.Flags().StringVar(&name, "name", "btspan.emit", "span name")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print the exported JSON")

	return cmd
}
