// Package deps resolves the npm packages a generated project needs.
//
// Overview:
//   - Responsibility: Map a ProjectConfig to ordered runtime and dev package lists
//   - Key Types: Set, Package, resolver stages (Base, Database, Extras)
//   - Concurrency Model: Pure functions; Set is not safe for concurrent mutation
//   - Error Semantics: Unknown add-ons are reported by UnknownAddOns, never guessed
//   - Performance Notes: Linear in the number of packages
//
// Usage:
//
//	set := deps.Resolve(cfg)
//	runner.Install(ctx, set.Runtime())
//	runner.InstallDev(ctx, set.Dev())
package deps

import (
	"slices"

	"go.eggybyte.com/expressgen/internal/config"
)

// Set is a pair of ordered, duplicate-free package lists.
type Set struct {
	runtime []string
	dev     []string
}

// AddRuntime appends packages to the runtime list, skipping ones already present.
func (s *Set) AddRuntime(pkgs ...string) {
	s.runtime = appendUnique(s.runtime, pkgs...)
}

// AddDev appends packages to the dev list, skipping ones already present.
func (s *Set) AddDev(pkgs ...string) {
	s.dev = appendUnique(s.dev, pkgs...)
}

// add appends a runtime package and, in typed mode, its type declarations.
func (s *Set) add(typed bool, pkg Package) {
	s.AddRuntime(pkg.Name)
	if typed && pkg.Types != "" {
		s.AddDev(pkg.Types)
	}
}

// Merge appends other's packages after s's, preserving first-seen order.
func (s *Set) Merge(other Set) {
	s.AddRuntime(other.runtime...)
	s.AddDev(other.dev...)
}

// Without returns a copy of s minus every package already in installed.
func (s Set) Without(installed Set) Set {
	var out Set
	for _, p := range s.runtime {
		if !slices.Contains(installed.runtime, p) {
			out.runtime = append(out.runtime, p)
		}
	}
	for _, p := range s.dev {
		if !slices.Contains(installed.dev, p) {
			out.dev = append(out.dev, p)
		}
	}
	return out
}

// Runtime returns a copy of the runtime list.
func (s Set) Runtime() []string { return slices.Clone(s.runtime) }

// Dev returns a copy of the dev list.
func (s Set) Dev() []string { return slices.Clone(s.dev) }

// Empty reports whether both lists are empty.
func (s Set) Empty() bool { return len(s.runtime) == 0 && len(s.dev) == 0 }

func appendUnique(list []string, pkgs ...string) []string {
	for _, p := range pkgs {
		if p != "" && !slices.Contains(list, p) {
			list = append(list, p)
		}
	}
	return list
}

// Package pairs an npm package with its optional type declaration package.
type Package struct {
	Name  string
	Types string
}

var (
	express = Package{Name: "express", Types: "@types/express"}
	dotenv  = Package{Name: "dotenv"}

	prismaClient = Package{Name: "@prisma/client"}
	supabase     = Package{Name: "@supabase/supabase-js"}
	pg           = Package{Name: "pg", Types: "@types/pg"}
	mysql2       = Package{Name: "mysql2"}
	mongoose     = Package{Name: "mongoose"}
)

// Base returns the packages installed right after the manifest is initialized:
// the web framework, env loading, the toolchain for typed mode and the
// autoreload watcher.
func Base(cfg config.ProjectConfig) Set {
	typed := cfg.Language.Typed()
	var s Set
	s.add(typed, express)
	s.add(typed, dotenv)
	if typed {
		s.AddDev("typescript", "ts-node", "@types/node")
	}
	if cfg.Autoreload {
		s.AddDev("nodemon")
	}
	if cfg.ORM {
		s.AddRuntime(prismaClient.Name)
		s.AddDev("prisma")
	}
	return s
}

// Database returns the driver packages for the database branch. The ORM
// branch needs nothing beyond Base.
func Database(cfg config.ProjectConfig) Set {
	var s Set
	if cfg.ORM {
		return s
	}
	typed := cfg.Language.Typed()
	switch cfg.Database {
	case config.DatabaseManaged:
		s.add(typed, supabase)
	case config.DatabasePostgres:
		s.add(typed, pg)
	case config.DatabaseMySQL:
		s.add(typed, mysql2)
	case config.DatabaseMongoDB:
		s.add(typed, mongoose)
	}
	return s
}

// Extras returns the selected add-ons in selection order. Unknown names are
// skipped; callers validate with UnknownAddOns first.
func Extras(cfg config.ProjectConfig) Set {
	typed := cfg.Language.Typed()
	var s Set
	for _, name := range cfg.AddOns {
		if pkg, ok := LookupAddOn(name); ok {
			s.add(typed, pkg)
		}
	}
	return s
}

// Resolve returns every package the project needs, in install order.
func Resolve(cfg config.ProjectConfig) Set {
	s := Base(cfg)
	s.Merge(Database(cfg))
	s.Merge(Extras(cfg))
	return s
}
