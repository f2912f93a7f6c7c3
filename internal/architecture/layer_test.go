package architecture_test

import (
	"slices"
	"strings"
	"testing"
)

// allowedModuleImports lists, per package, the module packages it may import.
// Every package must appear in the table.
var allowedModuleImports = map[string][]string{
	"errors":                nil,
	"internal/vocab":        nil,
	"internal/state":        nil,
	"internal/natural":      nil,
	"internal/prefixmap":    nil,
	"internal/ctxlog":       nil,
	"internal/nskind":       {"internal/vocab"},
	"model":                 {"internal/prefixmap", "internal/vocab"},
	"refgraph":              {"model"},
	"internal/attach":       {"errors", "internal/vocab", "model"},
	"internal/reader":       {"errors", "internal/attach", "internal/state", "internal/vocab", "model"},
	"internal/writer":       {"internal/natural", "internal/vocab", "model"},
	"internal/config":       {"internal/nskind"},
	"internal/architecture": nil,
	"":                      {"internal/nskind", "internal/reader", "internal/writer", "model"},
	"cmd/cmftool":           {"", "errors", "internal/config", "internal/ctxlog", "internal/nskind", "model", "refgraph"},
}

func TestModuleLayering(t *testing.T) {
	t.Parallel()

	graph := collectPackageImports(t)
	for pkg, imports := range graph {
		rel := strings.TrimPrefix(strings.TrimPrefix(pkg, modulePath), "/")
		allowed, ok := allowedModuleImports[rel]
		if !ok {
			t.Errorf("package %s is not placed in the layering table", pkg)
			continue
		}
		for imp := range imports {
			if !hasPkgPrefix(imp, modulePath) {
				continue
			}
			impRel := strings.TrimPrefix(strings.TrimPrefix(imp, modulePath), "/")
			if !slices.Contains(allowed, impRel) {
				t.Errorf("%s must not import %s", pkg, imp)
			}
		}
	}
}

// Third-party dependencies stay with the concern that owns them.
func TestThirdPartyOwnership(t *testing.T) {
	t.Parallel()

	owners := map[string][]string{
		"github.com/spf13/cobra":                 {"cmd/cmftool"},
		"github.com/go-playground/validator/v10": {"internal/config"},
		"github.com/mattn/go-isatty":             {"internal/ctxlog"},
		"golang.org/x/text":                      {"internal/natural"},
		"golang.org/x/sync":                      {"internal/reader"},
		"gopkg.in/yaml.v3":                       {"internal/config", "internal/nskind"},
	}

	graph := collectPackageImports(t)
	for pkg, imports := range graph {
		rel := strings.TrimPrefix(strings.TrimPrefix(pkg, modulePath), "/")
		for imp := range imports {
			for dep, allowed := range owners {
				if hasPkgPrefix(imp, dep) && !slices.Contains(allowed, rel) {
					t.Errorf("%s imports %s, which belongs to %v", pkg, imp, allowed)
				}
			}
		}
	}
}

func TestLibraryDoesNotImportCommands(t *testing.T) {
	t.Parallel()

	graph := collectPackageImports(t)
	cmdPrefix := modulePkg("cmd")
	for pkg, imports := range graph {
		if hasPkgPrefix(pkg, cmdPrefix) {
			continue
		}
		for imp := range imports {
			if hasPkgPrefix(imp, cmdPrefix) {
				t.Fatalf("library package %s imports command package %s", pkg, imp)
			}
		}
	}
}
