// Package envfile edits the generated project's .env file.
//
// Overview:
//   - Responsibility: Ordered KEY=VALUE storage with idempotent structured updates
//   - Key Types: Store, Entry
//   - Concurrency Model: Not safe for concurrent mutation; one Store per run
//   - Error Semantics: ErrUnencodable from Set for values no quoting style can carry;
//     parse errors from Values (malformed raw blocks)
//   - Performance Notes: Linear scans; files are a few dozen lines
//
// Usage:
//
//	store := envfile.Parse(existing)
//	err := store.Set("DATABASE_URL", url)
//	err = store.Set("PORT", "4000")
//	os.WriteFile(".env", []byte(store.String()), 0644)
package envfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

// ErrUnencodable is returned by Set for a value that dotenv loaders cannot
// read back unchanged in any quoting style.
var ErrUnencodable = errors.New("value cannot be written to an env file")

// Entry is one ordered key/value update.
type Entry struct {
	Key   string
	Value string
}

// Store holds the lines of an env file in order.
//
// Structured updates (Set) keep each key on at most one line. Raw blocks
// (AppendRaw) are opaque and are appended verbatim.
type Store struct {
	lines []string
}

// Parse builds a Store from existing file content. CRLF and CR line endings
// are normalized to LF.
func Parse(content string) *Store {
	s := &Store{}
	content = normalize(content)
	if content == "" {
		return s
	}
	s.lines = strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	return s
}

// Set replaces every line assigning key with a single key=value line appended
// at the end. Applying the same Set twice leaves the content unchanged.
// The store is untouched when the value cannot be encoded.
func (s *Store) Set(key, value string) error {
	line, err := formatLine(key, value)
	if err != nil {
		return err
	}
	s.remove(key)
	s.lines = append(s.lines, line)
	return nil
}

// SetAll applies Set for each entry in order, stopping at the first error.
func (s *Store) SetAll(entries ...Entry) error {
	for _, e := range entries {
		if err := s.Set(e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// AppendRaw appends an opaque multi-line block. It is not idempotent:
// appending the same block twice yields it twice.
func (s *Store) AppendRaw(block string) {
	block = strings.TrimRight(normalize(block), "\n")
	if block == "" {
		return
	}
	if n := len(s.lines); n > 0 && s.lines[n-1] != "" {
		s.lines = append(s.lines, "")
	}
	s.lines = append(s.lines, strings.Split(block, "\n")...)
}

// Has reports whether any line assigns key.
func (s *Store) Has(key string) bool {
	for _, line := range s.lines {
		if lineKey(line) == key {
			return true
		}
	}
	return false
}

// Count returns the number of lines assigning key.
func (s *Store) Count(key string) int {
	n := 0
	for _, line := range s.lines {
		if lineKey(line) == key {
			n++
		}
	}
	return n
}

// Values parses the current content the way dotenv loaders will read it.
func (s *Store) Values() (map[string]string, error) {
	values, err := godotenv.Unmarshal(s.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse env content: %w", err)
	}
	return values, nil
}

// String renders the content with a trailing newline, or "" when empty.
func (s *Store) String() string {
	if len(s.lines) == 0 {
		return ""
	}
	return strings.Join(s.lines, "\n") + "\n"
}

// remove drops all lines for key, then collapses the blank runs the removal
// leaves behind and trims blank lines at both ends.
func (s *Store) remove(key string) {
	kept := s.lines[:0]
	for _, line := range s.lines {
		if lineKey(line) != key {
			kept = append(kept, line)
		}
	}

	compact := kept[:0]
	for i, line := range kept {
		if strings.TrimSpace(line) == "" {
			if len(compact) == 0 || i == len(kept)-1 || strings.TrimSpace(compact[len(compact)-1]) == "" {
				continue
			}
			line = ""
		}
		compact = append(compact, line)
	}
	for len(compact) > 0 && compact[len(compact)-1] == "" {
		compact = compact[:len(compact)-1]
	}
	s.lines = compact
}

// SetKeys applies ordered structured updates to content and returns the new content.
func SetKeys(content string, updates ...Entry) (string, error) {
	s := Parse(content)
	if err := s.SetAll(updates...); err != nil {
		return "", err
	}
	return s.String(), nil
}

// AppendRaw appends an opaque block to content and returns the new content.
func AppendRaw(content, block string) string {
	s := Parse(content)
	s.AppendRaw(block)
	return s.String()
}

// Keys returns the keys assigned in content, in line order.
func Keys(content string) []string {
	var keys []string
	for _, line := range strings.Split(normalize(content), "\n") {
		if key := lineKey(line); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// lineKey extracts the key assigned on line, or "" for comments and blanks.
func lineKey(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}
	line = strings.TrimPrefix(line, "export ")
	i := strings.IndexAny(line, "=:")
	if i <= 0 {
		return ""
	}
	return strings.TrimSpace(line[:i])
}

// Quoting rules follow how godotenv reads values back. Unquoted values expand
// $VAR and stop at " #". Single quotes are literal but cannot hold ' or a line
// break. Double quotes expand escapes and $VAR, and a " inside is only
// recovered when it is not the first or last character, so values with both
// quote kinds are rejected. In either quoting style a trailing backslash
// escapes the closing quote.
var (
	needsQuoting = " \t#\"'$\n\r"
	doubleEscape = strings.NewReplacer(`\`, `\\`, `$`, `\$`, "\n", `\n`, "\r", `\r`)
)

// formatLine renders key=value so that dotenv loaders read value unchanged.
func formatLine(key, value string) (string, error) {
	if !strings.ContainsAny(value, needsQuoting) {
		return key + "=" + value, nil
	}
	if strings.HasSuffix(value, `\`) {
		return "", fmt.Errorf("%w: %s ends with a backslash", ErrUnencodable, key)
	}
	if !strings.ContainsAny(value, "'\n\r") {
		return key + "='" + value + "'", nil
	}
	if !strings.Contains(value, `"`) {
		return key + `="` + doubleEscape.Replace(value) + `"`, nil
	}
	return "", fmt.Errorf("%w: %s contains both quote characters", ErrUnencodable, key)
}

func normalize(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}
