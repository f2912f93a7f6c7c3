package main

import (
	"github.com/spf13/cobra"

	"github.com/jacoelho/cmf"
	"github.com/jacoelho/cmf/refgraph"
)

func newWriteCmd(a *app) *cobra.Command {
	var (
		output     string
		namespaces []string
		closure    bool
	)
	cmd := &cobra.Command{
		Use:   "write [-o FILE] [--ns PREFIX]... FILE...",
		Short: "Rewrite a model as one canonical CMF document",
		Long: `Reads every document into one model and writes it back as a single
document in canonical order. With --ns only the named namespaces are written
and references to anything else become absolute URIs. --closure extends the
named namespaces with everything they reach.`,
		Args: requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.read(cmd.Context(), args)
			if err != nil {
				return err
			}
			if closure && len(namespaces) > 0 {
				ids, err := namespaceIDs(m, namespaces)
				if err != nil {
					return usageError{err}
				}
				g := refgraph.Build(m, refgraph.WithBuiltin(a.kinds.IsBuiltin))
				namespaces = g.Prefixes(g.Closure(ids...))
			}
			opts := cmf.NewWriteOptions().WithNamespaces(namespaces...)
			if output == "" || output == "-" {
				return cmf.Write(a.stdout, m, opts)
			}
			return cmf.WriteFile(output, m, opts)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringArrayVar(&namespaces, "ns", nil, "namespace prefix to write (repeatable)")
	cmd.Flags().BoolVar(&closure, "closure", false, "also write every namespace reachable from --ns")
	return cmd
}
