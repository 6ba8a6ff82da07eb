package deps

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"go.eggybyte.com/expressgen/internal/config"
)

func assertNoDuplicates(t *testing.T, list []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, p := range list {
		assert.False(t, seen[p], "duplicate package %q in %v", p, list)
		seen[p] = true
	}
}

func catalogNames() []string {
	var names []string
	for _, pkg := range Catalog() {
		names = append(names, pkg.Name)
	}
	return names
}

func TestResolveUntypedBase(t *testing.T) {
	set := Resolve(config.ProjectConfig{Language: config.LanguageUntyped, Database: config.DatabaseNone})

	if diff := cmp.Diff([]string{"express", "dotenv"}, set.Runtime()); diff != "" {
		t.Errorf("runtime mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, set.Dev())
}

func TestResolveTypedPostgres(t *testing.T) {
	set := Resolve(config.ProjectConfig{
		Language:   config.LanguageTyped,
		Database:   config.DatabasePostgres,
		Autoreload: true,
		AddOns:     []string{"helmet", "cors"},
	})

	wantRuntime := []string{"express", "dotenv", "pg", "helmet", "cors"}
	wantDev := []string{"@types/express", "typescript", "ts-node", "@types/node", "nodemon", "@types/pg", "@types/cors"}
	if diff := cmp.Diff(wantRuntime, set.Runtime()); diff != "" {
		t.Errorf("runtime mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantDev, set.Dev()); diff != "" {
		t.Errorf("dev mismatch (-want +got):\n%s", diff)
	}
}

func TestPackagesWithoutTypesAddNoDevDependency(t *testing.T) {
	set := Database(config.ProjectConfig{Language: config.LanguageTyped, Database: config.DatabaseMySQL})

	assert.Equal(t, []string{"mysql2"}, set.Runtime())
	assert.Empty(t, set.Dev())
}

func TestORMSkipsDrivers(t *testing.T) {
	cfg := config.ProjectConfig{Language: config.LanguageTyped, Database: config.DatabaseMongoDB, ORM: true}

	assert.True(t, Database(cfg).Empty())
	assert.Contains(t, Resolve(cfg).Runtime(), "@prisma/client")
	assert.Contains(t, Resolve(cfg).Dev(), "prisma")
	assert.NotContains(t, Resolve(cfg).Runtime(), "mongoose")
}

func TestManagedWithoutORMUsesSDK(t *testing.T) {
	set := Database(config.ProjectConfig{Language: config.LanguageUntyped, Database: config.DatabaseManaged})

	assert.Equal(t, []string{"@supabase/supabase-js"}, set.Runtime())
}

func TestResolveNoDuplicatesForAnySubset(t *testing.T) {
	names := catalogNames()
	subsets := [][]string{
		nil,
		names,
		append(append([]string{}, names...), names...),
		{"cors", "cors", "morgan"},
	}

	for _, lang := range []config.LanguageMode{config.LanguageTyped, config.LanguageUntyped} {
		for _, db := range config.DatabaseKinds() {
			for _, orm := range []bool{false, true} {
				for _, addOns := range subsets {
					set := Resolve(config.ProjectConfig{Language: lang, Database: db, ORM: orm, Autoreload: true, AddOns: addOns})
					assertNoDuplicates(t, set.Runtime())
					assertNoDuplicates(t, set.Dev())
				}
			}
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	cfg := config.ProjectConfig{Language: config.LanguageTyped, Database: config.DatabasePostgres, AddOns: catalogNames()}

	first := Resolve(cfg)
	for i := 0; i < 10; i++ {
		again := Resolve(cfg)
		assert.Equal(t, first.Runtime(), again.Runtime())
		assert.Equal(t, first.Dev(), again.Dev())
	}
}

func TestWithoutDropsInstalled(t *testing.T) {
	var installed Set
	installed.AddRuntime("express", "dotenv")
	installed.AddDev("typescript")

	var next Set
	next.AddRuntime("express", "cors")
	next.AddDev("typescript", "@types/cors")

	rest := next.Without(installed)
	assert.Equal(t, []string{"cors"}, rest.Runtime())
	assert.Equal(t, []string{"@types/cors"}, rest.Dev())
}

func TestUnknownAddOns(t *testing.T) {
	assert.Equal(t, []string{"leftpad"}, UnknownAddOns([]string{"cors", "leftpad"}))
	assert.Empty(t, UnknownAddOns(catalogNames()))
}
