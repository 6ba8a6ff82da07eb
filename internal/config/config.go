// Package config provides the project configuration model for expressgen.
//
// Overview:
//   - Responsibility: ProjectConfig model, answers-file loading, defaults, validation
//   - Key Types: ProjectConfig, LanguageMode, DatabaseKind, Locality, Diagnostics
//   - Concurrency Model: Immutable after loading; passed by value
//   - Error Semantics: Validation issues collected as diagnostics with suggestions
//   - Performance Notes: Single-pass parsing
//
// Usage:
//
//	cfg, diags := config.Load("answers.yaml")
//	if diags.HasErrors() {
//	    return diags
//	}
package config

import (
	"fmt"
	"net/url"
	"slices"
)

// LanguageMode selects typed (TypeScript) or untyped (JavaScript) output.
type LanguageMode string

const (
	LanguageTyped   LanguageMode = "typed"
	LanguageUntyped LanguageMode = "untyped"
)

// Typed reports whether the mode emits type annotations and ES imports.
func (m LanguageMode) Typed() bool {
	return m == LanguageTyped
}

// Ext returns the source file extension for the mode.
func (m LanguageMode) Ext() string {
	if m.Typed() {
		return "ts"
	}
	return "js"
}

// DatabaseKind identifies the database the generated service talks to.
type DatabaseKind string

const (
	DatabaseNone     DatabaseKind = "none"
	DatabasePostgres DatabaseKind = "postgres"
	DatabaseMySQL    DatabaseKind = "mysql"
	DatabaseMongoDB  DatabaseKind = "mongodb"
	DatabaseManaged  DatabaseKind = "managed"
)

// DatabaseKinds returns every supported database kind in prompt order.
func DatabaseKinds() []DatabaseKind {
	return []DatabaseKind{DatabaseNone, DatabasePostgres, DatabaseMySQL, DatabaseMongoDB, DatabaseManaged}
}

// LocalDatabaseKinds returns the kinds offered when the user opts into a local database.
func LocalDatabaseKinds() []DatabaseKind {
	return []DatabaseKind{DatabasePostgres, DatabaseMySQL, DatabaseMongoDB}
}

// Valid reports whether k is one of the supported kinds.
func (k DatabaseKind) Valid() bool {
	return slices.Contains(DatabaseKinds(), k)
}

// Locality tells whether the database runs on the developer machine or is hosted.
type Locality string

const (
	LocalityLocal  Locality = "local"
	LocalityRemote Locality = "remote"
)

// ManagedCredentials are the five values prompted for when a managed backend
// is used through the ORM. They are combined into the pooled DATABASE_URL.
type ManagedCredentials struct {
	ProjectRef string `yaml:"project_ref" json:"project_ref" validate:"required"`
	Password   string `yaml:"password" json:"password" validate:"required"`
	Region     string `yaml:"region" json:"region" validate:"required"`
	Port       int    `yaml:"port" json:"port" validate:"min=1,max=65535"`
	Database   string `yaml:"database" json:"database" validate:"required"`
}

// DatabaseURL builds the pooled connection string for the managed backend.
// The user name and password are percent-encoded.
func (c ManagedCredentials) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword("postgres."+c.ProjectRef, c.Password),
		Host:   fmt.Sprintf("aws-0-%s.pooler.supabase.com:%d", c.Region, c.Port),
		Path:   "/" + c.Database,
	}
	return u.String()
}

// ProjectConfig is the complete, resolved set of scaffolding choices.
//
// Parameters:
//   - Name: Project directory and package name
//   - Port: Default HTTP port of the generated service
//   - Language: typed or untyped output
//   - GitInit: Run version-control initialization at the end
//   - ORM: Set up the ORM (Prisma)
//   - Managed: Use the managed backend (Supabase)
//   - Container: Write a container descriptor
//   - Autoreload: Add a dev script with file watching
//   - Database: Database kind
//   - Locality: Database locality (only meaningful for MongoDB)
//   - Credentials: Managed backend credentials (managed + ORM)
//   - ManagedURL / ManagedKey: Managed backend SDK settings (managed without ORM)
//   - AddOns: Optional packages from the add-on catalog
//
// Concurrency:
//   - Immutable after loading; copy with Clone before sharing slices
type ProjectConfig struct {
	Name        string              `yaml:"name" json:"name" validate:"required,projectname"`
	Port        int                 `yaml:"port" json:"port" validate:"min=1,max=65535"`
	Language    LanguageMode        `yaml:"language" json:"language" validate:"oneof=typed untyped"`
	GitInit     bool                `yaml:"git_init" json:"git_init"`
	ORM         bool                `yaml:"orm" json:"orm"`
	Managed     bool                `yaml:"managed" json:"managed"`
	Container   bool                `yaml:"container" json:"container"`
	Autoreload  bool                `yaml:"autoreload" json:"autoreload"`
	Database    DatabaseKind        `yaml:"database" json:"database" validate:"oneof=none postgres mysql mongodb managed"`
	Locality    Locality            `yaml:"locality" json:"locality" validate:"oneof=local remote"`
	Credentials *ManagedCredentials `yaml:"managed_credentials,omitempty" json:"managed_credentials,omitempty"`
	ManagedURL  string              `yaml:"managed_url,omitempty" json:"managed_url,omitempty"`
	ManagedKey  string              `yaml:"managed_key,omitempty" json:"managed_key,omitempty"`
	AddOns      []string            `yaml:"addons,omitempty" json:"addons,omitempty"`
}

// Clone returns a deep copy of the configuration.
func (c ProjectConfig) Clone() ProjectConfig {
	out := c
	out.AddOns = slices.Clone(c.AddOns)
	if c.Credentials != nil {
		creds := *c.Credentials
		out.Credentials = &creds
	}
	return out
}

// HasDatabase reports whether any database (local or managed) is configured.
func (c ProjectConfig) HasDatabase() bool {
	return c.Database != DatabaseNone && c.Database != ""
}

// LocalDatabase reports whether a self-hosted database driver is used.
func (c ProjectConfig) LocalDatabase() bool {
	return c.HasDatabase() && c.Database != DatabaseManaged
}

// HasAddOn reports whether the named add-on was selected.
func (c ProjectConfig) HasAddOn(name string) bool {
	return slices.Contains(c.AddOns, name)
}
