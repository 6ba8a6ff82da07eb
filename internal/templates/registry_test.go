package templates

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/expressgen/internal/config"
)

var typeAnnotation = regexp.MustCompile(`\b(?:const|let) \w+: [A-Za-z]`)

func allKeys() []VariantKey {
	var keys []VariantKey
	for _, lang := range []config.LanguageMode{config.LanguageTyped, config.LanguageUntyped} {
		for _, db := range config.DatabaseKinds() {
			for _, orm := range []bool{false, true} {
				keys = append(keys, VariantKey{Language: lang, Database: db, ORM: orm})
			}
		}
	}
	return keys
}

func paramsFor(key VariantKey) Params {
	return ParamsFor(config.ProjectConfig{
		Name:     "svc",
		Port:     4000,
		Language: key.Language,
		Database: key.Database,
		ORM:      key.ORM,
	})
}

func assertLanguageStyle(t *testing.T, key VariantKey, kind Kind, content string) {
	t.Helper()
	if key.Language.Typed() {
		assert.Contains(t, content, "import ", "%s %s should use ES imports", key, kind)
		assert.NotContains(t, content, "require(", "%s %s", key, kind)
		assert.Contains(t, content, "export default ", "%s %s", key, kind)
		assert.Regexp(t, typeAnnotation, content, "%s %s should be annotated", key, kind)
		return
	}
	assert.Contains(t, content, "require(", "%s %s should use require", key, kind)
	assert.NotRegexp(t, regexp.MustCompile(`(?m)^import `), content, "%s %s", key, kind)
	assert.Contains(t, content, "module.exports = ", "%s %s", key, kind)
	assert.NotRegexp(t, typeAnnotation, content, "%s %s should not be annotated", key, kind)
}

func TestRegistryCoversEveryVariant(t *testing.T) {
	reg := NewRegistry()

	assert.ElementsMatch(t, allKeys(), reg.Keys())
}

func TestGenerateEveryVariant(t *testing.T) {
	reg := NewRegistry()

	for _, key := range allKeys() {
		t.Run(key.String(), func(t *testing.T) {
			params := paramsFor(key)
			for _, kind := range []Kind{KindRoute, KindEntry, KindDataAccess} {
				content, err := reg.Generate(kind, key, params)
				if kind == KindDataAccess && key.Database == config.DatabaseNone && !key.ORM {
					assert.ErrorIs(t, err, ErrNoArtifact)
					continue
				}
				require.NoError(t, err, "%s", kind)
				assert.NotEmpty(t, strings.TrimSpace(content))
				assert.NotContains(t, content, "<no value>")
				assertLanguageStyle(t, key, kind, content)
			}
		})
	}
}

func TestDataAccessPrecedence(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name     string
		key      VariantKey
		contains []string
		excludes []string
	}{
		{
			name:     "managed with orm overrides datasource",
			key:      VariantKey{Language: config.LanguageTyped, Database: config.DatabaseManaged, ORM: true},
			contains: []string{"new PrismaClient({", "process.env.DATABASE_URL"},
			excludes: []string{"supabase"},
		},
		{
			name:     "local with orm relies on schema",
			key:      VariantKey{Language: config.LanguageUntyped, Database: config.DatabasePostgres, ORM: true},
			contains: []string{"new PrismaClient()"},
			excludes: []string{"'pg'", "datasources"},
		},
		{
			name:     "managed without orm wraps sdk",
			key:      VariantKey{Language: config.LanguageUntyped, Database: config.DatabaseManaged},
			contains: []string{"@supabase/supabase-js", "SUPABASE_URL", "SUPABASE_KEY", "// async function listTodos"},
		},
		{
			name:     "postgres driver",
			key:      VariantKey{Language: config.LanguageTyped, Database: config.DatabasePostgres},
			contains: []string{"from 'pg'", "const pool: Pool", "DB_HOST", "DB_PORT", "console.error"},
		},
		{
			name:     "mysql driver",
			key:      VariantKey{Language: config.LanguageUntyped, Database: config.DatabaseMySQL},
			contains: []string{"require('mysql2/promise')", "DB_PASSWORD", "console.error"},
		},
		{
			name:     "mongodb driver",
			key:      VariantKey{Language: config.LanguageTyped, Database: config.DatabaseMongoDB},
			contains: []string{"from 'mongoose'", "MONGODB_URI", "mongodb://localhost:27017/svc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := reg.Generate(KindDataAccess, tt.key, paramsFor(tt.key))
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, content, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, content, s)
			}
		})
	}
}

func TestUnknownDatabaseKindIsRejected(t *testing.T) {
	reg := NewRegistry()
	key := VariantKey{Language: config.LanguageTyped, Database: config.DatabaseKind("oracle")}

	for _, kind := range []Kind{KindRoute, KindEntry, KindDataAccess} {
		_, err := reg.Generate(kind, key, Params{})
		assert.ErrorIs(t, err, ErrInvalidSelection)
		assert.False(t, errors.Is(err, ErrNoArtifact))
	}
}

func TestUnknownKindIsRejected(t *testing.T) {
	reg := NewRegistry()
	key := VariantKey{Language: config.LanguageTyped, Database: config.DatabaseNone}

	_, err := reg.Generate(Kind("styles"), key, Params{})
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

// Untyped, no database, container, port 4000.
func TestScenarioEntryAndContainer(t *testing.T) {
	reg := NewRegistry()
	cfg := config.ProjectConfig{
		Name:      "svc",
		Port:      4000,
		Language:  config.LanguageUntyped,
		Database:  config.DatabaseNone,
		Container: true,
	}
	key, params := KeyFor(cfg), ParamsFor(cfg)

	entry, err := reg.Generate(KindEntry, key, params)
	require.NoError(t, err)
	assert.Contains(t, entry, "require('express')")
	assert.Contains(t, entry, "const CONFIGURED_PORT = 4000;")
	assert.Contains(t, entry, "resolvePort(process.env.PORT, CONFIGURED_PORT, DEFAULT_PORT)")
	assert.Contains(t, entry, "app.use('/api', routes);")
	assert.NotContains(t, entry, "./config/db")

	dockerfile, err := reg.Generate(KindContainer, key, params)
	require.NoError(t, err)
	assert.Contains(t, dockerfile, "EXPOSE 4000\n")
	assert.Contains(t, dockerfile, `CMD ["npm", "start"]`)
	assert.Contains(t, dockerfile, "FROM node:20-alpine")
}

func TestEntryWiresMiddlewareAddOns(t *testing.T) {
	reg := NewRegistry()
	cfg := config.ProjectConfig{
		Name:     "svc",
		Port:     3000,
		Language: config.LanguageTyped,
		Database: config.DatabasePostgres,
		AddOns:   []string{"cors", "helmet", "zod"},
	}

	entry, err := reg.Generate(KindEntry, KeyFor(cfg), ParamsFor(cfg))
	require.NoError(t, err)
	assert.Contains(t, entry, "import cors from 'cors';\n")
	assert.Contains(t, entry, "app.use(cors());\n")
	assert.Contains(t, entry, "app.use(helmet());\n")
	assert.Contains(t, entry, "import './config/db';\n")
	assert.NotContains(t, entry, "morgan")
	assert.NotContains(t, entry, "\n\n\n")
}

func TestSupportFiles(t *testing.T) {
	reg := NewRegistry()
	cfg := config.ProjectConfig{Name: "svc", Port: 8080, Language: config.LanguageTyped, Autoreload: true, Container: true}
	key, params := KeyFor(cfg), ParamsFor(cfg)

	ignore, err := reg.Generate(KindIgnoreList, key, params)
	require.NoError(t, err)
	assert.Contains(t, ignore, "node_modules/")
	assert.Contains(t, ignore, "dist/")

	readme, err := reg.Generate(KindReadme, key, params)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(readme, "# svc\n"))
	assert.Contains(t, readme, "npm run dev")
	assert.Contains(t, readme, "npm run build")
	assert.Contains(t, readme, "docker run -p 8080:8080")
}

func TestFilePath(t *testing.T) {
	assert.Equal(t, "config/db.ts", FilePath(KindDataAccess, config.LanguageTyped))
	assert.Equal(t, "routes/index.js", FilePath(KindRoute, config.LanguageUntyped))
	assert.Equal(t, "index.ts", FilePath(KindEntry, config.LanguageTyped))
	assert.Equal(t, "Dockerfile", FilePath(KindContainer, config.LanguageTyped))
}

func TestListTemplates(t *testing.T) {
	list, err := NewLoader().ListTemplates()
	require.NoError(t, err)

	assert.Contains(t, list, "ts/entry.tmpl")
	assert.Contains(t, list, "common/Dockerfile.tmpl")
	for _, key := range allKeys() {
		v := NewRegistry().variants[key]
		for _, p := range []string{v.route, v.entry, v.dataAccess} {
			if p != "" {
				assert.Contains(t, list, p)
			}
		}
	}
}
