// Package prompt collects project choices interactively.
//
// Overview:
//   - Responsibility: Ask the question sequence and build a ProjectConfig
//   - Key Types: Prompter
//   - Concurrency Model: Blocks on input; one Prompter per terminal
//   - Error Semantics: Invalid answers are re-asked; ErrNoInput when input ends
//   - Performance Notes: Line-buffered reads
//
// Usage:
//
//	p := prompt.New(os.Stdin, os.Stdout)
//	cfg, err := p.Collect(nameFromArgs)
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.eggybyte.com/expressgen/internal/config"
	"go.eggybyte.com/expressgen/internal/deps"
)

// ErrNoInput is returned when the input ends before a question is answered.
var ErrNoInput = errors.New("no more input")

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Input asks a free-form question. An empty answer selects def.
func (p *Prompter) Input(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "? %s (%s): ", label, def)
	} else {
		fmt.Fprintf(p.out, "? %s: ", label)
	}
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Required asks until valid accepts the answer.
func (p *Prompter) Required(label, def string, valid func(string) error) (string, error) {
	for {
		answer, err := p.Input(label, def)
		if err != nil {
			return "", err
		}
		if verr := valid(answer); verr != nil {
			fmt.Fprintf(p.out, "  %v\n", verr)
			continue
		}
		return answer, nil
	}
}

// Confirm asks a yes/no question. An empty answer selects def.
func (p *Prompter) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(p.out, "? %s [%s]: ", label, hint)
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "  Please answer y or n")
	}
}

// Select asks for one of options, by number or by name. An empty answer
// selects options[def].
func (p *Prompter) Select(label string, options []string, def int) (string, error) {
	for {
		fmt.Fprintf(p.out, "? %s\n", label)
		for i, opt := range options {
			marker := " "
			if i == def {
				marker = ">"
			}
			fmt.Fprintf(p.out, "  %s %d) %s\n", marker, i+1, opt)
		}
		fmt.Fprintf(p.out, "  Choice (%d): ", def+1)

		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if answer == "" {
			return options[def], nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, opt := range options {
			if strings.EqualFold(opt, answer) {
				return opt, nil
			}
		}
		fmt.Fprintf(p.out, "  Invalid choice %q\n", answer)
	}
}

// Port asks for a port number until a value in 1-65535 is given.
func (p *Prompter) Port(label string, def int) (int, error) {
	var port int
	_, err := p.Required(label, strconv.Itoa(def), func(s string) error {
		n, err := ParsePort(s)
		if err != nil {
			return err
		}
		port = n
		return nil
	})
	return port, err
}

// ParsePort parses a port number in 1-65535.
func ParsePort(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return 0, fmt.Errorf("invalid port %q: enter a number between 1 and 65535", s)
	}
	return n, nil
}

// Collect runs the full question sequence. A non-empty name is offered as
// the default answer to the project name question.
//
// Returns:
//   - config.ProjectConfig: Answers, before defaults and validation
//   - error: ErrNoInput or a read error
func (p *Prompter) Collect(name string) (config.ProjectConfig, error) {
	var cfg config.ProjectConfig
	var err error

	if cfg.Name, err = p.Required("Project name", name, validateName); err != nil {
		return cfg, err
	}
	if cfg.Port, err = p.Port("Port", config.DefaultPort); err != nil {
		return cfg, err
	}
	if cfg.GitInit, err = p.Confirm("Initialize a git repository?", true); err != nil {
		return cfg, err
	}
	typed, err := p.Confirm("Use TypeScript?", false)
	if err != nil {
		return cfg, err
	}
	cfg.Language = config.LanguageUntyped
	if typed {
		cfg.Language = config.LanguageTyped
	}
	if cfg.ORM, err = p.Confirm("Set up Prisma ORM?", false); err != nil {
		return cfg, err
	}
	if cfg.Managed, err = p.Confirm("Use Supabase as a managed backend?", false); err != nil {
		return cfg, err
	}
	if cfg.Container, err = p.Confirm("Add a Dockerfile?", false); err != nil {
		return cfg, err
	}
	if cfg.Autoreload, err = p.Confirm("Add nodemon for autoreload?", true); err != nil {
		return cfg, err
	}

	if cfg.Managed {
		cfg.Database = config.DatabaseManaged
		if err := p.collectManaged(&cfg); err != nil {
			return cfg, err
		}
	} else if err := p.collectLocal(&cfg); err != nil {
		return cfg, err
	}

	for _, addOn := range deps.Catalog() {
		ok, err := p.Confirm(fmt.Sprintf("Install %s?", addOn.Name), false)
		if err != nil {
			return cfg, err
		}
		if ok {
			cfg.AddOns = append(cfg.AddOns, addOn.Name)
		}
	}
	return cfg, nil
}

func (p *Prompter) collectManaged(cfg *config.ProjectConfig) error {
	nonEmpty := func(s string) error {
		if s == "" {
			return errors.New("a value is required")
		}
		return nil
	}

	if !cfg.ORM {
		var err error
		if cfg.ManagedURL, err = p.Required("Supabase URL", "", nonEmpty); err != nil {
			return err
		}
		cfg.ManagedKey, err = p.Required("Supabase key", "", nonEmpty)
		return err
	}

	creds := &config.ManagedCredentials{}
	var err error
	if creds.ProjectRef, err = p.Required("Supabase project reference", "", nonEmpty); err != nil {
		return err
	}
	if creds.Password, err = p.Required("Database password", "", nonEmpty); err != nil {
		return err
	}
	if creds.Region, err = p.Required("Region", "", nonEmpty); err != nil {
		return err
	}
	if creds.Port, err = p.Port("Pooler port", config.DefaultManagedPort); err != nil {
		return err
	}
	if creds.Database, err = p.Input("Database name", config.DefaultManagedDatabase); err != nil {
		return err
	}
	cfg.Credentials = creds
	return nil
}

func (p *Prompter) collectLocal(cfg *config.ProjectConfig) error {
	cfg.Database = config.DatabaseNone
	cfg.Locality = config.LocalityLocal

	use, err := p.Confirm("Use a database?", false)
	if err != nil || !use {
		return err
	}

	var kinds []string
	for _, k := range config.LocalDatabaseKinds() {
		kinds = append(kinds, string(k))
	}
	kind, err := p.Select("Database", kinds, 0)
	if err != nil {
		return err
	}
	cfg.Database = config.DatabaseKind(kind)

	if cfg.Database == config.DatabaseMongoDB {
		locality, err := p.Select("Where does MongoDB run?", []string{string(config.LocalityLocal), string(config.LocalityRemote)}, 0)
		if err != nil {
			return err
		}
		cfg.Locality = config.Locality(locality)
	}
	return nil
}

func validateName(name string) error {
	if !config.ValidProjectName(name) {
		return fmt.Errorf("invalid project name %q: use lowercase letters, numbers, dots, hyphens and underscores", name)
	}
	return nil
}
