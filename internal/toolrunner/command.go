package toolrunner

import (
	"strings"
)

// Policy classifies how a command failure affects the run.
type Policy int

const (
	// Fatal failures abort the run.
	Fatal Policy = iota
	// Recoverable failures are logged and the run continues.
	Recoverable
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Fatal:
		return "fatal"
	case Recoverable:
		return "recoverable"
	}
	return "unknown"
}

// MarshalText renders the policy name in plans.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Command is one described side effect of a run.
type Command struct {
	Phase   string   `yaml:"phase" json:"phase"`
	Tool    string   `yaml:"tool" json:"tool"`
	Args    []string `yaml:"args" json:"args"`
	Policy  Policy   `yaml:"policy" json:"policy"`
	Summary string   `yaml:"summary" json:"summary"`
}

// In returns a copy of c attributed to phase.
func (c Command) In(phase string) Command {
	c.Phase = phase
	return c
}

// Line renders the command as it would be typed in a shell.
func (c Command) Line() string {
	return strings.Join(append([]string{c.Tool}, c.Args...), " ")
}

// NpmInit initializes package.json with defaults.
func NpmInit() Command {
	return Command{Tool: "npm", Args: []string{"init", "-y"}, Policy: Fatal, Summary: "Initialize package.json"}
}

// TscInit writes tsconfig.json.
func TscInit() Command {
	return Command{Tool: "npx", Args: []string{"tsc", "--init"}, Policy: Fatal, Summary: "Create tsconfig.json"}
}

// NpmInstall installs runtime packages, or dev packages when dev is set.
func NpmInstall(pkgs []string, dev bool) Command {
	args := []string{"install"}
	summary := "Install dependencies"
	if dev {
		args = append(args, "-D")
		summary = "Install dev dependencies"
	}
	return Command{Tool: "npm", Args: append(args, pkgs...), Policy: Fatal, Summary: summary}
}

// PrismaInit scaffolds prisma/schema.prisma for a datasource provider.
func PrismaInit(provider string) Command {
	return Command{
		Tool:    "npx",
		Args:    []string{"prisma", "init", "--datasource-provider", provider},
		Policy:  Fatal,
		Summary: "Initialize Prisma",
	}
}

// GitInit initializes a repository. It is the only recoverable command.
func GitInit() Command {
	return Command{Tool: "git", Args: []string{"init"}, Policy: Recoverable, Summary: "Initialize git repository"}
}
