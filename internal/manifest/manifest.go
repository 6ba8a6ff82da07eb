// Package manifest edits the generated project's package.json.
//
// Overview:
//   - Responsibility: Set main and script entries while keeping every other field and its order
//   - Key Types: Manifest, Scripts
//   - Concurrency Model: Not safe for concurrent mutation
//   - Error Semantics: Malformed JSON is reported with the file path
//   - Performance Notes: In-place edits with sjson, reads with gjson; manifests are small
//
// Usage:
//
//	m, err := manifest.Load(path)
//	m.SetMain("index.ts")
//	m.SetScript("start", "ts-node index.ts")
//	err = m.Save(path)
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"go.eggybyte.com/expressgen/internal/config"
)

// FileName is the manifest file name inside the project root.
const FileName = "package.json"

// npmStyle is the layout npm writes: two-space indent, arrays one element per line.
var npmStyle = &pretty.Options{Indent: "  "}

var pathEscaper = strings.NewReplacer(`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`)

// path joins keys into a gjson/sjson path.
func path(keys ...string) string {
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = pathEscaper.Replace(k)
	}
	return strings.Join(escaped, ".")
}

// Manifest is package.json content edited in place; fields keep their order.
type Manifest struct {
	data []byte
}

// New returns a minimal manifest for a project that has not been initialized.
func New(name string) *Manifest {
	m := &Manifest{data: []byte("{}")}
	m.setString("name", name)
	m.setString("version", "1.0.0")
	return m
}

// Parse reads manifest content.
func Parse(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("failed to parse manifest: invalid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, errors.New("failed to parse manifest: expected a JSON object")
	}
	return &Manifest{data: bytes.Clone(data)}, nil
}

// Load reads the manifest at path.
func Load(file string) (*Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", file, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return m, nil
}

// marshalString encodes s without escaping &, < and >, matching npm output.
func marshalString(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func (m *Manifest) set(p string, s string) error {
	data, err := sjson.SetRawBytes(m.data, p, marshalString(s))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", p, err)
	}
	m.data = data
	return nil
}

// setString sets a top-level string; top-level keys always form a valid path.
func (m *Manifest) setString(key, value string) {
	_ = m.set(path(key), value)
}

// Field returns a top-level string field.
func (m *Manifest) Field(key string) (string, bool) {
	r := gjson.GetBytes(m.data, path(key))
	if r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}

// SetMain sets the entry file.
func (m *Manifest) SetMain(main string) {
	m.setString("main", main)
}

// SetScript sets one entry of the scripts object, creating it when missing.
// Existing scripts keep their position.
func (m *Manifest) SetScript(name, command string) error {
	if r := gjson.GetBytes(m.data, "scripts"); r.Exists() && !r.IsObject() {
		return errors.New("failed to set script: scripts is not an object")
	}
	return m.set(path("scripts", name), command)
}

// Script returns a script command.
func (m *Manifest) Script(name string) (string, bool) {
	r := gjson.GetBytes(m.data, path("scripts", name))
	if r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}

// Dependencies returns the package names listed in a dependency section
// ("dependencies" or "devDependencies") in file order.
func (m *Manifest) Dependencies(section string) ([]string, error) {
	r := gjson.GetBytes(m.data, path(section))
	if !r.Exists() {
		return nil, nil
	}
	if !r.IsObject() {
		return nil, fmt.Errorf("failed to parse %s: expected a JSON object", section)
	}
	var names []string
	r.ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	return names, nil
}

// Bytes renders the manifest the way npm lays it out, with a trailing newline.
func (m *Manifest) Bytes() ([]byte, error) {
	out := pretty.PrettyOptions(m.data, npmStyle)
	return append(bytes.TrimRight(out, "\n"), '\n'), nil
}

// Save writes the manifest to path.
func (m *Manifest) Save(file string) error {
	data, err := m.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", file, err)
	}
	return nil
}

// Scripts are the entries written for a configuration, in write order.
type Scripts struct {
	Main    string
	Entries []Script
}

// Script is one named npm script.
type Script struct {
	Name    string
	Command string
}

// ScriptsFor selects main and the start/dev/build scripts for a configuration.
func ScriptsFor(cfg config.ProjectConfig) Scripts {
	main := "index." + cfg.Language.Ext()
	s := Scripts{Main: main}

	runner := "node"
	if cfg.Language.Typed() {
		runner = "ts-node"
	}
	s.Entries = append(s.Entries, Script{Name: "start", Command: runner + " " + main})

	if cfg.Autoreload {
		dev := "nodemon " + main
		if cfg.Language.Typed() {
			dev = "nodemon --exec ts-node " + main
		}
		s.Entries = append(s.Entries, Script{Name: "dev", Command: dev})
	}
	if cfg.Language.Typed() {
		s.Entries = append(s.Entries, Script{Name: "build", Command: "tsc"})
	}
	return s
}

// Apply writes main and every script of s into m.
func (m *Manifest) Apply(s Scripts) error {
	m.SetMain(s.Main)
	for _, e := range s.Entries {
		if err := m.SetScript(e.Name, e.Command); err != nil {
			return err
		}
	}
	return nil
}
