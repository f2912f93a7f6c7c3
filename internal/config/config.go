// Package config loads the cmftool configuration file.
//
//	log:
//	  level: info      # debug, info, warn, error
//	  format: auto     # auto, text, json
//	read:
//	  concurrency: 4   # 0 uses GOMAXPROCS
//	namespaces:
//	  reserved:
//	    nc: http://release.niem.gov/niem/niem-core/5.0/
//	  kind_table: kinds.yaml
//	  kinds:
//	    - uri: http://example.com/proxy/
//	      kind: BUILTIN
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jacoelho/cmf/internal/nskind"
)

// Config is the cmftool configuration.
type Config struct {
	Log        Log        `yaml:"log"`
	Read       Read       `yaml:"read"`
	Namespaces Namespaces `yaml:"namespaces"`
}

// Log selects the level and format of diagnostics written to stderr.
type Log struct {
	Level  string `yaml:"level" validate:"required,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"required,oneof=auto text json"`
}

// Read tunes model construction.
type Read struct {
	Concurrency int `yaml:"concurrency" validate:"gte=0,lte=1024"`
}

// Namespaces holds prefix reservations and namespace classification.
type Namespaces struct {
	Reserved map[string]string `yaml:"reserved" validate:"dive,keys,nsprefix,endkeys,required,uri"`
	// KindTable is a nskind table file. A relative path is resolved against
	// the directory of the configuration file.
	KindTable string         `yaml:"kind_table" validate:"omitempty,file"`
	Kinds     []nskind.Entry `yaml:"kinds" validate:"dive"`
}

var prefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("nsprefix", func(fl validator.FieldLevel) bool {
		return prefixPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("config: register nsprefix validation: %v", err))
	}
	return v
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: Log{Level: "info", Format: "auto"},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Namespaces.KindTable != "" && !filepath.IsAbs(cfg.Namespaces.KindTable) {
		cfg.Namespaces.KindTable = filepath.Join(filepath.Dir(path), cfg.Namespaces.KindTable)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads and validates a configuration from r. A relative kind table
// path is resolved against the working directory.
func Parse(r io.Reader) (Config, error) {
	cfg, err := decode(r)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	return cfg, nil
}

// Validate checks every field of c.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %v", field, fe.Param(), fe.Value())
	case "nsprefix":
		return fmt.Sprintf("%s: %q is not a namespace prefix", field, fe.Value())
	case "file":
		return fmt.Sprintf("%s: %v is not a readable file", field, fe.Value())
	default:
		return fmt.Sprintf("%s fails %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// KindTable returns the configured namespace classification: the rows of
// the kind table file overridden by the inline kinds.
func (c Config) KindTable() (*nskind.Table, error) {
	tbl := nskind.New(nil)
	if c.Namespaces.KindTable != "" {
		f, err := os.Open(c.Namespaces.KindTable)
		if err != nil {
			return nil, fmt.Errorf("open kind table: %w", err)
		}
		defer f.Close()
		if tbl, err = nskind.Load(f); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Namespaces.KindTable, err)
		}
	}
	for _, e := range c.Namespaces.Kinds {
		tbl = tbl.With(e.URI, e.Kind)
	}
	return tbl, nil
}
