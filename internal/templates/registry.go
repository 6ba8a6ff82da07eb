package templates

import (
	"errors"
	"fmt"
	"slices"

	"go.eggybyte.com/expressgen/internal/config"
	"go.eggybyte.com/expressgen/internal/version"
)

var (
	// ErrInvalidSelection is returned for a database kind or artifact kind
	// outside the supported catalog.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrNoArtifact is returned when a variant has no file of the requested
	// kind (a project without a database has no data-access module).
	ErrNoArtifact = errors.New("no artifact for variant")
)

// Kind names a generated file.
type Kind string

const (
	KindDataAccess      Kind = "data-access"
	KindRoute           Kind = "route"
	KindEntry           Kind = "entry"
	KindContainer       Kind = "container"
	KindContainerIgnore Kind = "container-ignore"
	KindIgnoreList      Kind = "ignore-list"
	KindReadme          Kind = "readme"
)

// VariantKey is the tuple of configuration dimensions that selects template content.
type VariantKey struct {
	Language config.LanguageMode
	Database config.DatabaseKind
	ORM      bool
}

// String renders the key for diagnostics.
func (k VariantKey) String() string {
	return fmt.Sprintf("%s/%s/orm=%t", k.Language, k.Database, k.ORM)
}

// KeyFor derives the variant key of a configuration.
func KeyFor(cfg config.ProjectConfig) VariantKey {
	return VariantKey{Language: cfg.Language, Database: cfg.Database, ORM: cfg.ORM}
}

// Params carries the values substituted into templates.
type Params struct {
	Name       string
	Port       int
	Typed      bool
	Ext        string
	Autoreload bool
	Container  bool
	NodeImage  string
	Database   config.DatabaseKind
	ORM        bool
	// OverrideURL makes the ORM client read DATABASE_URL explicitly (managed backend).
	OverrideURL bool
	// DataAccess is set when config/db.<ext> is generated, so the entry module loads it.
	DataAccess bool
	AddOns     []string
}

// Uses reports whether the named add-on was selected.
func (p Params) Uses(name string) bool {
	return slices.Contains(p.AddOns, name)
}

// ParamsFor builds template parameters from a configuration.
func ParamsFor(cfg config.ProjectConfig) Params {
	return Params{
		Name:        cfg.Name,
		Port:        cfg.Port,
		Typed:       cfg.Language.Typed(),
		Ext:         cfg.Language.Ext(),
		Autoreload:  cfg.Autoreload,
		Container:   cfg.Container,
		NodeImage:   version.NodeImage,
		Database:    cfg.Database,
		ORM:         cfg.ORM,
		OverrideURL: cfg.ORM && cfg.Database == config.DatabaseManaged,
		DataAccess:  cfg.ORM || cfg.HasDatabase(),
		AddOns:      slices.Clone(cfg.AddOns),
	}
}

// variant lists the template paths of one VariantKey. An empty dataAccess
// means the variant has no data-access module.
type variant struct {
	route      string
	entry      string
	dataAccess string
}

// Registry maps every supported VariantKey to its templates.
type Registry struct {
	loader   *Loader
	variants map[VariantKey]variant
}

// NewRegistry builds the registry table from the supported enumerations.
func NewRegistry() *Registry {
	return &Registry{
		loader:   NewLoader(),
		variants: buildVariants(),
	}
}

func buildVariants() map[VariantKey]variant {
	table := make(map[VariantKey]variant)
	for _, lang := range []config.LanguageMode{config.LanguageTyped, config.LanguageUntyped} {
		dir := lang.Ext()
		for _, db := range config.DatabaseKinds() {
			for _, orm := range []bool{false, true} {
				table[VariantKey{Language: lang, Database: db, ORM: orm}] = variant{
					route:      variantFile(dir, "route"),
					entry:      variantFile(dir, "entry"),
					dataAccess: dataAccessTemplate(dir, db, orm),
				}
			}
		}
	}
	return table
}

// dataAccessTemplate applies the data-access precedence: ORM client, then
// the managed SDK wrapper, then a native driver, then nothing.
func dataAccessTemplate(dir string, db config.DatabaseKind, orm bool) string {
	if orm {
		return variantFile(dir, "prisma")
	}
	switch db {
	case config.DatabaseManaged:
		return variantFile(dir, "supabase")
	case config.DatabasePostgres:
		return variantFile(dir, "pg")
	case config.DatabaseMySQL:
		return variantFile(dir, "mysql")
	case config.DatabaseMongoDB:
		return variantFile(dir, "mongo")
	}
	return ""
}

func variantFile(dir, name string) string {
	return dir + "/" + name + ".tmpl"
}

var commonTemplates = map[Kind]string{
	KindContainer:       "common/Dockerfile.tmpl",
	KindContainerIgnore: "common/dockerignore.tmpl",
	KindIgnoreList:      "common/gitignore.tmpl",
	KindReadme:          "common/README.md.tmpl",
}

// Keys returns every VariantKey in the table.
func (r *Registry) Keys() []VariantKey {
	keys := make([]VariantKey, 0, len(r.variants))
	for k := range r.variants {
		keys = append(keys, k)
	}
	return keys
}

// Generate renders the file of the given kind for a variant.
//
// Parameters:
//   - kind: Which file to render
//   - key: Variant selecting the template set
//   - params: Values substituted into the template
//
// Returns:
//   - string: Rendered file content
//   - error: ErrInvalidSelection, ErrNoArtifact or a rendering error
func (r *Registry) Generate(kind Kind, key VariantKey, params Params) (string, error) {
	if tmpl, ok := commonTemplates[kind]; ok {
		return r.loader.LoadAndRender(tmpl, params)
	}

	v, ok := r.variants[key]
	if !ok {
		return "", fmt.Errorf("%w: unsupported variant %s", ErrInvalidSelection, key)
	}

	var tmpl string
	switch kind {
	case KindRoute:
		tmpl = v.route
	case KindEntry:
		tmpl = v.entry
	case KindDataAccess:
		if v.dataAccess == "" {
			return "", fmt.Errorf("%w: %s for %s", ErrNoArtifact, kind, key)
		}
		tmpl = v.dataAccess
	default:
		return "", fmt.Errorf("%w: unknown artifact kind %q", ErrInvalidSelection, kind)
	}

	content, err := r.loader.LoadAndRender(tmpl, params)
	if err != nil {
		return "", fmt.Errorf("failed to render %s for %s: %w", kind, key, err)
	}
	return content, nil
}

// FilePath returns the project-relative path of a generated file.
func FilePath(kind Kind, lang config.LanguageMode) string {
	ext := lang.Ext()
	switch kind {
	case KindDataAccess:
		return "config/db." + ext
	case KindRoute:
		return "routes/index." + ext
	case KindEntry:
		return "index." + ext
	case KindContainer:
		return "Dockerfile"
	case KindContainerIgnore:
		return ".dockerignore"
	case KindIgnoreList:
		return ".gitignore"
	case KindReadme:
		return "README.md"
	}
	return ""
}
