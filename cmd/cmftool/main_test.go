package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>
<Model xmlns="https://docs.oasis-open.org/niemopen/ns/specification/cmf/1.0/"
       xmlns:structures="https://docs.oasis-open.org/niemopen/ns/model/structures/6.0/">
`

const coreDoc = header + `
<Namespace structures:id="nc">
  <NamespaceURI>http://example/nc/</NamespaceURI>
  <NamespacePrefixText>nc</NamespacePrefixText>
</Namespace>
<Namespace structures:id="xs">
  <NamespaceURI>http://www.w3.org/2001/XMLSchema</NamespaceURI>
  <NamespacePrefixText>xs</NamespacePrefixText>
</Namespace>
<Datatype structures:id="xs.string">
  <Name>string</Name>
  <Namespace structures:ref="xs"/>
</Datatype>
<DataProperty structures:id="nc.PersonName">
  <Name>PersonName</Name>
  <Namespace structures:ref="nc"/>
  <Datatype structures:ref="xs.string"/>
</DataProperty>
</Model>
`

const extDoc = header + `
<Namespace structures:id="ext">
  <NamespaceURI>http://example/ext/</NamespaceURI>
  <NamespacePrefixText>ext</NamespacePrefixText>
</Namespace>
<Class structures:id="ext.PersonType">
  <Name>PersonType</Name>
  <Namespace structures:ref="ext"/>
  <ChildPropertyAssociation>
    <DataProperty structures:uri="http://example/nc/PersonName"/>
  </ChildPropertyAssociation>
</Class>
</Model>
`

type fixture struct {
	dir  string
	core string
	ext  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{dir: dir, core: filepath.Join(dir, "core.cmf"), ext: filepath.Join(dir, "ext.cmf")}
	require.NoError(t, os.WriteFile(f.core, []byte(coreDoc), 0o644))
	require.NoError(t, os.WriteFile(f.ext, []byte(extDoc), 0o644))
	return f
}

func runCmd(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCheck(t *testing.T) {
	f := newFixture(t)
	code, stdout, stderr := runCmd("check", f.core, f.ext)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "3 namespaces, 3 components")
	assert.Regexp(t, `(?m)^xs\s+http://www.w3.org/2001/XMLSchema\s+XSD\s+1$`, stdout)
	assert.Regexp(t, `(?m)^nc\s+http://example/nc/\s+-\s+1$`, stdout)
}

func TestCheckReportsDiagnostics(t *testing.T) {
	f := newFixture(t)
	bad := filepath.Join(f.dir, "bad.cmf")
	require.NoError(t, os.WriteFile(bad, []byte(header+"<Bogus/>\n</Model>\n"), 0o644))

	code, stdout, stderr := runCmd("check", f.core, bad)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "bad.cmf:")
	assert.Contains(t, stderr, "[cmf-vocabulary]")
	assert.Contains(t, stderr, "1 diagnostic(s)")
}

func TestCheckMissingFile(t *testing.T) {
	code, _, stderr := runCmd("check", filepath.Join(t.TempDir(), "missing.cmf"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "[cmf-io]")
}

func TestUsageErrors(t *testing.T) {
	tests := map[string][]string{
		"no files":       {"check"},
		"unknown flag":   {"check", "--bogus", "x.cmf"},
		"bad log level":  {"--log-level", "loud", "check", "x.cmf"},
		"closure no ns":  {"closure", "x.cmf"},
		"bad log format": {"--log-format", "xml", "check", "x.cmf"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			code, _, stderr := runCmd(args...)
			assert.Equal(t, 2, code, stderr)
			assert.Contains(t, stderr, "error:")
		})
	}
}

func TestWrite(t *testing.T) {
	f := newFixture(t)
	code, stdout, stderr := runCmd("write", "--ns", "ext", f.core, f.ext)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `<Class structures:id="ext.PersonType">`)
	assert.Contains(t, stdout, `<DataProperty structures:uri="http://example/nc/PersonName">`)
	assert.NotContains(t, stdout, `structures:id="nc"`)
}

func TestWriteClosureToFile(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "out.cmf")
	code, stdout, stderr := runCmd("write", "--ns", "ext", "--closure", "-o", out, f.core, f.ext)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `structures:id="nc"`)
	assert.Contains(t, text, `<DataProperty structures:ref="nc.PersonName">`)
	assert.NotContains(t, text, `structures:id="xs"`, "builtin namespaces stay out of a closure")

	code, stdout, stderr = runCmd("check", out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "2 namespaces")
}

func TestClosure(t *testing.T) {
	f := newFixture(t)
	code, stdout, stderr := runCmd("closure", "--ns", "ext", f.core, f.ext)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, []string{"ext", "nc"}, strings.Fields(stdout))

	code, _, stderr = runCmd("closure", "--ns", "nope", f.core)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `no namespace with prefix "nope"`)
}

func TestConfigKindsAndLogging(t *testing.T) {
	f := newFixture(t)
	cfgPath := filepath.Join(f.dir, "cmftool.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
log:
  level: debug
  format: json
namespaces:
  kinds:
    - uri: http://example/nc/
      kind: BUILTIN
`), 0o644))

	code, stdout, stderr := runCmd("--config", cfgPath, "closure", "--ns", "ext", f.core, f.ext)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, []string{"ext"}, strings.Fields(stdout))
	assert.Contains(t, stderr, `"level":"DEBUG"`)
}
