package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Read CMF documents and report diagnostics",
		Long: `Reads every document into one model. On success it prints one line per
namespace with its prefix, URI, kind and component count. On failure it prints
one diagnostic per line and exits with status 1.`,
		Args: requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.read(cmd.Context(), args)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, ns := range m.Namespaces() {
				kind := ns.Kind
				if kind == "" {
					kind = "-"
				}
				if err := writef(tw, "%s\t%s\t%s\t%d\n", ns.Prefix, ns.URI, kind, len(m.ComponentsIn(ns.ID))); err != nil {
					return err
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			return writef(a.stdout, "%d namespaces, %d components\n", m.NamespaceCount(), m.ComponentCount())
		},
	}
}
