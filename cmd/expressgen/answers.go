package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"go.eggybyte.com/expressgen/internal/config"
	"go.eggybyte.com/expressgen/internal/deps"
	"go.eggybyte.com/expressgen/internal/prompt"
	"go.eggybyte.com/expressgen/internal/ui"
)

// answerFlags holds the flags shared by new and plan.
type answerFlags struct {
	answersFile    string
	nonInteractive bool

	port        int
	typescript  bool
	gitInit     bool
	orm         bool
	managed     bool
	container   bool
	autoreload  bool
	database    string
	locality    string
	managedURL  string
	managedKey  string
	managedRef  string
	managedPass string
	region      string
	poolerPort  int
	managedDB   string
	addOns      []string
}

func (f *answerFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.answersFile, "answers", "a", "", "Answers file (.yaml, .yml, .json or .hcl)")
	flags.BoolVar(&f.nonInteractive, "non-interactive", false, "Take every answer from flags instead of prompting")

	flags.IntVar(&f.port, "port", config.DefaultPort, "Default HTTP port")
	flags.BoolVar(&f.typescript, "typescript", false, "Generate TypeScript sources")
	flags.BoolVar(&f.gitInit, "git", true, "Initialize a git repository")
	flags.BoolVar(&f.orm, "orm", false, "Set up Prisma ORM")
	flags.BoolVar(&f.managed, "managed", false, "Use Supabase as a managed backend")
	flags.BoolVar(&f.container, "docker", false, "Write a Dockerfile")
	flags.BoolVar(&f.autoreload, "autoreload", false, "Add nodemon and a dev script")
	flags.StringVar(&f.database, "database", string(config.DatabaseNone),
		fmt.Sprintf("Database kind (%s)", joinKinds(config.DatabaseKinds())))
	flags.StringVar(&f.locality, "locality", string(config.LocalityLocal), "MongoDB locality (local, remote)")
	flags.StringVar(&f.managedURL, "supabase-url", "", "Supabase URL (managed without ORM)")
	flags.StringVar(&f.managedKey, "supabase-key", "", "Supabase key (managed without ORM)")
	flags.StringVar(&f.managedRef, "supabase-ref", "", "Supabase project reference (managed with ORM)")
	flags.StringVar(&f.managedPass, "supabase-password", "", "Supabase database password (managed with ORM)")
	flags.StringVar(&f.region, "supabase-region", "", "Supabase region (managed with ORM)")
	flags.IntVar(&f.poolerPort, "supabase-port", config.DefaultManagedPort, "Supabase pooler port (managed with ORM)")
	flags.StringVar(&f.managedDB, "supabase-database", config.DefaultManagedDatabase, "Supabase database name (managed with ORM)")
	flags.StringSliceVar(&f.addOns, "addons", nil, fmt.Sprintf("Add-on packages (%s)", joinAddOns()))
}

// fromFlags builds a configuration from flag values only.
func (f *answerFlags) fromFlags(name string) config.ProjectConfig {
	cfg := config.ProjectConfig{
		Name:       name,
		Port:       f.port,
		Language:   config.LanguageUntyped,
		GitInit:    f.gitInit,
		ORM:        f.orm,
		Managed:    f.managed,
		Container:  f.container,
		Autoreload: f.autoreload,
		Database:   config.DatabaseKind(f.database),
		Locality:   config.Locality(f.locality),
		ManagedURL: f.managedURL,
		ManagedKey: f.managedKey,
		AddOns:     f.addOns,
	}
	if f.typescript {
		cfg.Language = config.LanguageTyped
	}
	if f.managed && f.orm {
		cfg.Credentials = &config.ManagedCredentials{
			ProjectRef: f.managedRef,
			Password:   f.managedPass,
			Region:     f.region,
			Port:       f.poolerPort,
			Database:   f.managedDB,
		}
	}
	return cfg
}

// resolve collects the configuration from the answers file, the flags or the
// prompts, then applies defaults and validates it.
func (f *answerFlags) resolve(args []string) (config.ProjectConfig, error) {
	var name string
	if len(args) > 0 {
		name = args[0]
	}

	var raw config.ProjectConfig
	switch {
	case f.answersFile != "":
		loaded, diags := config.Load(f.answersFile)
		if loaded == nil {
			reportDiagnostics(diags)
			return config.ProjectConfig{}, diags.Err()
		}
		raw = *loaded
		if name != "" {
			raw.Name = name
		}
	case f.nonInteractive:
		if name == "" {
			return config.ProjectConfig{}, fmt.Errorf("project name is required with --non-interactive")
		}
		raw = f.fromFlags(name)
	default:
		collected, err := prompt.New(os.Stdin, os.Stdout).Collect(name)
		if err != nil {
			return config.ProjectConfig{}, fmt.Errorf("failed to collect answers: %w", err)
		}
		raw = collected
	}

	cfg, diags := config.Finalize(raw)
	reportDiagnostics(diags)
	if diags.HasErrors() {
		return config.ProjectConfig{}, diags.Err()
	}

	if unknown := deps.UnknownAddOns(cfg.AddOns); len(unknown) > 0 {
		return config.ProjectConfig{}, fmt.Errorf("unknown add-ons: %s (available: %s)",
			strings.Join(unknown, ", "), joinAddOns())
	}
	return cfg, nil
}

func reportDiagnostics(diags *config.Diagnostics) {
	for _, d := range diags.Items() {
		msg := d.Message
		if d.Path != "" {
			msg = d.Path + ": " + msg
		}
		if d.Severity == config.SeverityError {
			ui.Error("%s", msg)
		} else {
			ui.Warning("%s", msg)
		}
		if d.Suggestion != "" {
			ui.Info("  %s", d.Suggestion)
		}
	}
}

func joinKinds(kinds []config.DatabaseKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func joinAddOns() string {
	var names []string
	for _, pkg := range deps.Catalog() {
		names = append(names, pkg.Name)
	}
	return strings.Join(names, ", ")
}
