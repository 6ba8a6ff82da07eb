package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is used when neither the answers nor the user supply a port.
	DefaultPort = 3000
	// DefaultManagedPort is the managed backend's pooled connection port.
	DefaultManagedPort = 6543
	// DefaultManagedDatabase is the managed backend's default database name.
	DefaultManagedDatabase = "postgres"
)

var projectNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidProjectName reports whether name is usable as both a directory and a package name.
func ValidProjectName(name string) bool {
	return len(name) <= 214 && projectNamePattern.MatchString(name)
}

// hclAnswers mirrors ProjectConfig with HCL tags; gohcl decodes into plain types.
type hclAnswers struct {
	Name        string          `hcl:"name"`
	Port        int             `hcl:"port,optional"`
	Language    string          `hcl:"language,optional"`
	GitInit     bool            `hcl:"git_init,optional"`
	ORM         bool            `hcl:"orm,optional"`
	Managed     bool            `hcl:"managed,optional"`
	Container   bool            `hcl:"container,optional"`
	Autoreload  bool            `hcl:"autoreload,optional"`
	Database    string          `hcl:"database,optional"`
	Locality    string          `hcl:"locality,optional"`
	ManagedURL  string          `hcl:"managed_url,optional"`
	ManagedKey  string          `hcl:"managed_key,optional"`
	AddOns      []string        `hcl:"addons,optional"`
	Credentials *hclCredentials `hcl:"managed_credentials,block"`
}

type hclCredentials struct {
	ProjectRef string `hcl:"project_ref"`
	Password   string `hcl:"password"`
	Region     string `hcl:"region"`
	Port       int    `hcl:"port,optional"`
	Database   string `hcl:"database,optional"`
}

// Load reads an answers file (.yaml, .yml, .json or .hcl), applies defaults
// and validates the result.
//
// Parameters:
//   - path: Path to the answers file
//
// Returns:
//   - *ProjectConfig: Parsed configuration with defaults applied, nil on read/parse failure
//   - *Diagnostics: Validation issues found
//
// Concurrency:
//   - Single-threaded file I/O
func Load(path string) (*ProjectConfig, *Diagnostics) {
	diags := NewDiagnostics()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			diags.AddError("Answers file not found", path, "Check the --answers path")
		} else {
			diags.AddError(fmt.Sprintf("Failed to read answers file: %v", err), path, "Check file permissions")
		}
		return nil, diags
	}

	var cfg ProjectConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		cfg, err = ParseHCL(data, path)
	default:
		cfg, err = ParseYAML(data)
	}
	if err != nil {
		diags.AddError(err.Error(), path, "Check the answers file syntax")
		return nil, diags
	}

	final, vdiags := Finalize(cfg)
	return &final, vdiags
}

// ParseYAML decodes YAML (or JSON) answers without applying defaults.
func ParseYAML(data []byte) (ProjectConfig, error) {
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ProjectConfig{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// ParseHCL decodes HCL answers without applying defaults.
func ParseHCL(data []byte, filename string) (ProjectConfig, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return ProjectConfig{}, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}

	var raw hclAnswers
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return ProjectConfig{}, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := ProjectConfig{
		Name:       raw.Name,
		Port:       raw.Port,
		Language:   LanguageMode(raw.Language),
		GitInit:    raw.GitInit,
		ORM:        raw.ORM,
		Managed:    raw.Managed,
		Container:  raw.Container,
		Autoreload: raw.Autoreload,
		Database:   DatabaseKind(raw.Database),
		Locality:   Locality(raw.Locality),
		ManagedURL: raw.ManagedURL,
		ManagedKey: raw.ManagedKey,
		AddOns:     raw.AddOns,
	}
	if raw.Credentials != nil {
		cfg.Credentials = &ManagedCredentials{
			ProjectRef: raw.Credentials.ProjectRef,
			Password:   raw.Credentials.Password,
			Region:     raw.Credentials.Region,
			Port:       raw.Credentials.Port,
			Database:   raw.Credentials.Database,
		}
	}
	return cfg, nil
}

// Finalize applies defaults to a copy of cfg and validates it.
//
// Parameters:
//   - cfg: Configuration assembled from prompts, flags or an answers file
//
// Returns:
//   - ProjectConfig: Configuration with defaults applied
//   - *Diagnostics: Validation issues found
//
// Concurrency:
//   - Pure function
func Finalize(cfg ProjectConfig) (ProjectConfig, *Diagnostics) {
	out := cfg.Clone()
	applyDefaults(&out)
	diags := NewDiagnostics()
	validateConfig(out, diags)
	return out, diags
}

// applyDefaults fills in default values and reconciles the managed flag with
// the database kind.
func applyDefaults(cfg *ProjectConfig) {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Language == "" {
		cfg.Language = LanguageUntyped
	}
	if cfg.Database == "" {
		cfg.Database = DatabaseNone
	}
	if cfg.Managed && cfg.Database == DatabaseNone {
		cfg.Database = DatabaseManaged
	}
	if cfg.Database == DatabaseManaged {
		cfg.Managed = true
	}
	if cfg.Locality == "" {
		cfg.Locality = LocalityLocal
	}
	if cfg.Credentials != nil {
		if cfg.Credentials.Port == 0 {
			cfg.Credentials.Port = DefaultManagedPort
		}
		if cfg.Credentials.Database == "" {
			cfg.Credentials.Database = DefaultManagedDatabase
		}
	}

	seen := make(map[string]bool, len(cfg.AddOns))
	addOns := cfg.AddOns[:0:0]
	for _, name := range cfg.AddOns {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		addOns = append(addOns, name)
	}
	cfg.AddOns = addOns
}

// newValidator builds a validator that reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("projectname", func(fl validator.FieldLevel) bool {
		return ValidProjectName(fl.Field().String())
	})
	return v
}

// validateConfig performs struct-tag validation and the cross-field rules.
func validateConfig(cfg ProjectConfig, diags *Diagnostics) {
	if err := newValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			diags.AddError(fmt.Sprintf("validation failed: %v", err), "", "")
			return
		}
		for _, fe := range verrs {
			path := fe.Namespace()
			if i := strings.Index(path, "."); i >= 0 {
				path = path[i+1:]
			}
			diags.AddError(fieldMessage(fe), path, fieldSuggestion(fe))
		}
	}

	if cfg.Managed && cfg.Database != DatabaseManaged {
		diags.AddError("Managed backend conflicts with a local database selection", "database",
			fmt.Sprintf("Set database to %q or disable managed", DatabaseManaged))
	}
	if cfg.Managed && cfg.ORM && cfg.Credentials == nil {
		diags.AddError("Managed backend with ORM requires credentials", "managed_credentials",
			"Provide project_ref, password, region, port and database")
	}
	if cfg.Managed && !cfg.ORM && (cfg.ManagedURL == "" || cfg.ManagedKey == "") {
		diags.AddError("Managed backend without ORM requires URL and key", "managed_url",
			"Set managed_url and managed_key")
	}
	if cfg.Locality == LocalityRemote && cfg.Database != DatabaseMongoDB {
		diags.AddWarning("Locality only applies to MongoDB and will be ignored", "locality", "")
	}
	if slices.Contains(cfg.AddOns, "") {
		diags.AddError("Empty add-on name", "addons", "Remove blank entries")
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and 65535", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "projectname":
		return fmt.Sprintf("Invalid project name %q", fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func fieldSuggestion(fe validator.FieldError) string {
	switch fe.Tag() {
	case "projectname":
		return "Use lowercase letters, numbers, dots, hyphens and underscores only"
	case "min", "max":
		return "Use port numbers between 1 and 65535"
	default:
		return ""
	}
}
