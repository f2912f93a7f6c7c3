// Command cmftool reads CMF model documents, reports construction
// diagnostics, rewrites models canonically and prints namespace closures.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacoelho/cmf"
	cmferrors "github.com/jacoelho/cmf/errors"
	"github.com/jacoelho/cmf/internal/config"
	"github.com/jacoelho/cmf/internal/ctxlog"
	"github.com/jacoelho/cmf/internal/nskind"
	"github.com/jacoelho/cmf/model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks a command line the user must fix.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

var (
	// errReported means the failure was already written to stderr.
	errReported     = errors.New("reported")
	errNoNamespaces = errors.New("at least one --ns prefix is required")
)

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errReported):
		return 1
	case errors.As(err, new(usageError)):
		_ = writef(stderr, "error: %v\n", err)
		_ = writeln(stderr, root.UsageString())
		return 2
	default:
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}
}

// app holds what every subcommand shares after the root has set up.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	logLevel   string
	logFormat  string
	cfg        config.Config
	kinds      *nskind.Table
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "cmftool",
		Short: "Read, check and rewrite CMF models",
		Long: `cmftool builds a model from one or more CMF documents.

Subcommands:
  check    - read documents and report diagnostics
  write    - rewrite a model canonically, optionally as a namespace subset
  closure  - print the namespaces reachable from the given ones`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: auto, text, json")

	root.AddCommand(newCheckCmd(a), newWriteCmd(a), newClosureCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return usageError{err}
	}

	level, err := ctxlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return usageError{err}
	}
	logger, err := ctxlog.New(a.stderr, level, cfg.Log.Format)
	if err != nil {
		return usageError{err}
	}
	kinds, err := cfg.KindTable()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.kinds = kinds
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	return nil
}

// read builds one model from the files at paths. Diagnostics are written to
// stderr one per line.
func (a *app) read(ctx context.Context, paths []string) (*model.Model, error) {
	opts := cmf.NewReadOptions().
		WithLogger(ctxlog.FromContext(ctx)).
		WithConcurrency(a.cfg.Read.Concurrency).
		WithReservedPrefixes(a.cfg.Namespaces.Reserved).
		WithNamespaceKinds(a.kinds.Rows())
	docs := make([]cmf.Document, len(paths))
	for i, path := range paths {
		docs[i] = cmf.FileDocument(path)
	}
	m, err := cmf.Read(opts, docs...)
	if err == nil {
		return m, nil
	}
	diags, ok := cmferrors.AsDiagnostics(err)
	if !ok {
		return nil, err
	}
	for _, d := range diags {
		if werr := writeln(a.stderr, d.Error()); werr != nil {
			return nil, werr
		}
	}
	if werr := writef(a.stderr, "%d diagnostic(s)\n", len(diags)); werr != nil {
		return nil, werr
	}
	return nil, errReported
}

// namespaceIDs maps prefixes to namespace handles.
func namespaceIDs(m *model.Model, prefixes []string) ([]model.NamespaceID, error) {
	ids := make([]model.NamespaceID, 0, len(prefixes))
	for _, prefix := range prefixes {
		ns := m.NamespaceByPrefix(prefix)
		if ns == nil {
			return nil, fmt.Errorf("no namespace with prefix %q", prefix)
		}
		ids = append(ids, ns.ID)
	}
	return ids, nil
}

func requireFiles(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError{fmt.Errorf("%s needs at least one CMF file", cmd.Name())}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
