package main

import (
	"github.com/spf13/cobra"

	"github.com/jacoelho/cmf/refgraph"
)

func newClosureCmd(a *app) *cobra.Command {
	var namespaces []string
	cmd := &cobra.Command{
		Use:   "closure --ns PREFIX... FILE...",
		Short: "Print the namespaces reachable from the given ones",
		Long: `Reads every document into one model and prints, one prefix per line, the
named namespaces together with every namespace they reach through component
references and augmentations. Builtin namespaces are never listed.`,
		Args: requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(namespaces) == 0 {
				return usageError{errNoNamespaces}
			}
			m, err := a.read(cmd.Context(), args)
			if err != nil {
				return err
			}
			ids, err := namespaceIDs(m, namespaces)
			if err != nil {
				return usageError{err}
			}
			g := refgraph.Build(m, refgraph.WithBuiltin(a.kinds.IsBuiltin))
			for _, prefix := range g.Prefixes(g.Closure(ids...)) {
				if err := writeln(a.stdout, prefix); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&namespaces, "ns", nil, "starting namespace prefix (repeatable)")
	return cmd
}
