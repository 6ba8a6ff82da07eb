package generators

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"go.eggybyte.com/expressgen/internal/config"
	"go.eggybyte.com/expressgen/internal/deps"
	"go.eggybyte.com/expressgen/internal/envfile"
	"go.eggybyte.com/expressgen/internal/manifest"
	"go.eggybyte.com/expressgen/internal/projectfs"
	"go.eggybyte.com/expressgen/internal/templates"
	"go.eggybyte.com/expressgen/internal/toolrunner"
)

// EnvFileName is the settings file written at the project root.
const EnvFileName = ".env"

// FileArtifact is one file written by a run.
type FileArtifact struct {
	Path    string      `yaml:"path" json:"path"`
	Content string      `yaml:"-" json:"-"`
	Mode    fs.FileMode `yaml:"-" json:"-"`
}

// Action is one unit of work inside a phase. Exactly one field is set.
type Action struct {
	Command *toolrunner.Command
	File    *FileArtifact
	Env     []EnvChange
	Scripts *manifest.Scripts
}

// Stage is a phase together with its actions, in execution order.
type Stage struct {
	Phase   Phase
	Actions []Action
}

// Plan is the complete, ordered description of a run. It is computed without
// touching the file system and executed by an Assembler.
type Plan struct {
	Config  config.ProjectConfig
	Variant templates.VariantKey
	Stages  []*Stage
	Deps    deps.Set

	env string
}

type planBuilder struct {
	plan      *Plan
	installed deps.Set
}

func (b *planBuilder) stage(p Phase) *Stage {
	s := &Stage{Phase: p}
	b.plan.Stages = append(b.plan.Stages, s)
	return s
}

func (s *Stage) command(c toolrunner.Command) {
	c = c.In(s.Phase.String())
	s.Actions = append(s.Actions, Action{Command: &c})
}

func (s *Stage) file(path, content string) {
	s.Actions = append(s.Actions, Action{File: &FileArtifact{Path: path, Content: content, Mode: 0644}})
}

// install adds the install commands for the packages of set that no earlier
// phase installed. The dev call is skipped when nothing dev-only remains.
func (b *planBuilder) install(s *Stage, set deps.Set) {
	rest := set.Without(b.installed)
	if runtime := rest.Runtime(); len(runtime) > 0 {
		s.command(toolrunner.NpmInstall(runtime, false))
	}
	if dev := rest.Dev(); len(dev) > 0 {
		s.command(toolrunner.NpmInstall(dev, true))
	}
	b.installed.Merge(rest)
}

// BuildPlan maps a finalized configuration to the ordered phases of a run.
//
// Parameters:
//   - cfg: Configuration with defaults applied and validated
//   - reg: Template registry
//
// Returns:
//   - *Plan: Stages with their actions
//   - error: templates.ErrInvalidSelection for an unsupported variant, or a rendering error
func BuildPlan(cfg config.ProjectConfig, reg *templates.Registry) (*Plan, error) {
	key, params := templates.KeyFor(cfg), templates.ParamsFor(cfg)
	b := &planBuilder{plan: &Plan{Config: cfg.Clone(), Variant: key}}

	render := func(kind templates.Kind) (string, error) {
		return reg.Generate(kind, key, params)
	}

	// The variant must exist before anything is planned.
	entry, err := render(templates.KindEntry)
	if err != nil {
		return nil, err
	}
	route, err := render(templates.KindRoute)
	if err != nil {
		return nil, err
	}

	s := b.stage(PhaseCreateTree)
	for _, kind := range []templates.Kind{templates.KindIgnoreList, templates.KindReadme} {
		content, err := render(kind)
		if err != nil {
			return nil, err
		}
		s.file(templates.FilePath(kind, cfg.Language), content)
	}
	s.file(EnvFileName, "")

	s = b.stage(PhaseInitManifest)
	s.command(toolrunner.NpmInit())
	if cfg.Language.Typed() {
		s.command(toolrunner.TscInit())
	}

	b.install(b.stage(PhaseInstallBaseDeps), deps.Base(cfg))

	scripts := manifest.ScriptsFor(cfg)
	s = b.stage(PhaseWriteManifestScripts)
	s.Actions = append(s.Actions, Action{Scripts: &scripts})

	if cfg.ORM {
		b.stage(PhaseOrmInit).command(toolrunner.PrismaInit(prismaProvider(cfg.Database)))
	}

	if cfg.Container {
		s = b.stage(PhaseContainerFile)
		for _, kind := range []templates.Kind{templates.KindContainer, templates.KindContainerIgnore} {
			content, err := render(kind)
			if err != nil {
				return nil, err
			}
			s.file(templates.FilePath(kind, cfg.Language), content)
		}
	}

	changes := envChanges(cfg)
	store := envfile.Parse("")
	if err := ApplyEnv(store, changes); err != nil {
		return nil, fmt.Errorf("failed to plan %s: %w", EnvFileName, err)
	}
	b.plan.env = store.String()

	s = b.stage(PhaseDatabaseBranch)
	s.Actions = append(s.Actions, Action{Env: changes})
	dataAccess, err := render(templates.KindDataAccess)
	switch {
	case err == nil:
		s.file(templates.FilePath(templates.KindDataAccess, cfg.Language), dataAccess)
	case !errors.Is(err, templates.ErrNoArtifact):
		return nil, err
	}
	b.install(s, deps.Database(cfg))

	s = b.stage(PhaseWriteRouteAndEntry)
	s.file(templates.FilePath(templates.KindRoute, cfg.Language), route)
	s.file(templates.FilePath(templates.KindEntry, cfg.Language), entry)

	if len(cfg.AddOns) > 0 {
		b.install(b.stage(PhaseExtraDeps), deps.Extras(cfg))
	}

	if cfg.GitInit {
		b.stage(PhaseVcsInit).command(toolrunner.GitInit())
	}

	b.stage(PhaseDone)
	b.plan.Deps = b.installed
	return b.plan, nil
}

// Phases returns the phases of the plan in order.
func (p *Plan) Phases() []Phase {
	var out []Phase
	for _, s := range p.Stages {
		out = append(out, s.Phase)
	}
	return out
}

// Commands returns every external command in execution order.
func (p *Plan) Commands() []toolrunner.Command {
	var out []toolrunner.Command
	for _, s := range p.Stages {
		for _, a := range s.Actions {
			if a.Command != nil {
				out = append(out, *a.Command)
			}
		}
	}
	return out
}

// Files returns every file artifact in write order.
func (p *Plan) Files() []FileArtifact {
	var out []FileArtifact
	for _, s := range p.Stages {
		for _, a := range s.Actions {
			if a.File != nil {
				out = append(out, *a.File)
			}
		}
	}
	return out
}

// EnvContent returns the .env content the plan produces from an empty file.
// A real run may also keep lines added by the ORM init tool.
func (p *Plan) EnvContent() string {
	return p.env
}

// EnvKeys returns every key the plan sets in .env, including the keys of
// opaque blocks, in write order.
func (p *Plan) EnvKeys() []string {
	var keys []string
	for _, s := range p.Stages {
		for _, a := range s.Actions {
			for _, c := range a.Env {
				if c.Raw == "" {
					keys = append(keys, c.Key)
					continue
				}
				keys = append(keys, envfile.Keys(c.Raw)...)
			}
		}
	}
	return keys
}

// PlanView is the serializable form of a plan used by the plan command.
type PlanView struct {
	Project      string               `yaml:"project" json:"project"`
	RunID        string               `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	Variant      string               `yaml:"variant" json:"variant"`
	Phases       []Phase              `yaml:"phases" json:"phases"`
	Directories  []string             `yaml:"directories" json:"directories"`
	Files        []string             `yaml:"files" json:"files"`
	Env          string               `yaml:"env" json:"env"`
	Runtime      []string             `yaml:"runtime_dependencies" json:"runtime_dependencies"`
	Dev          []string             `yaml:"dev_dependencies" json:"dev_dependencies"`
	Scripts      map[string]string    `yaml:"scripts" json:"scripts"`
	Commands     []toolrunner.Command `yaml:"commands" json:"commands"`
	FileContents map[string]string    `yaml:"file_contents,omitempty" json:"file_contents,omitempty"`
}

// View renders the plan for display. withContents includes generated file bodies.
func (p *Plan) View(withContents bool) PlanView {
	v := PlanView{
		Project:     p.Config.Name,
		Variant:     p.Variant.String(),
		Phases:      p.Phases(),
		Directories: slices.Clone(projectfs.Layout),
		Env:         p.EnvContent(),
		Runtime:     p.Deps.Runtime(),
		Dev:         p.Deps.Dev(),
		Scripts:     map[string]string{},
		Commands:    p.Commands(),
	}
	if withContents {
		v.FileContents = map[string]string{}
	}
	for _, f := range p.Files() {
		v.Files = append(v.Files, f.Path)
		if withContents {
			v.FileContents[f.Path] = f.Content
		}
	}
	for _, s := range p.Stages {
		for _, a := range s.Actions {
			if a.Scripts == nil {
				continue
			}
			v.Scripts["main"] = a.Scripts.Main
			for _, e := range a.Scripts.Entries {
				v.Scripts[e.Name] = e.Command
			}
		}
	}
	return v
}
