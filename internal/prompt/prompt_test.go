package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/expressgen/internal/config"
)

func answers(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func noAddOns() []string {
	return strings.Split(strings.Repeat("n,", 10), ",")[:10]
}

func collect(t *testing.T, input string) (config.ProjectConfig, string) {
	t.Helper()
	var out bytes.Buffer
	cfg, err := New(strings.NewReader(input), &out).Collect("")
	require.NoError(t, err)
	return cfg, out.String()
}

func TestCollectDefaults(t *testing.T) {
	input := answers(append([]string{"svc", "", "", "", "", "", "", "", ""}, noAddOns()...)...)

	cfg, _ := collect(t, input)

	want := config.ProjectConfig{
		Name:       "svc",
		Port:       3000,
		GitInit:    true,
		Language:   config.LanguageUntyped,
		Autoreload: true,
		Database:   config.DatabaseNone,
		Locality:   config.LocalityLocal,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Collect mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectRepromptsInvalidPort(t *testing.T) {
	lines := []string{"svc", "99999", "abc", "4000", "y", "y", "n", "n", "y", "n", "y", "2", "y"}
	input := answers(append(lines, noAddOns()[1:]...)...)

	cfg, out := collect(t, input)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, 2, strings.Count(out, "invalid port"))
	assert.Equal(t, config.LanguageTyped, cfg.Language)
	assert.True(t, cfg.Container)
	assert.False(t, cfg.Autoreload)
	assert.Equal(t, config.DatabaseMySQL, cfg.Database)
	assert.Equal(t, []string{"cors"}, cfg.AddOns)
}

func TestCollectManagedWithORM(t *testing.T) {
	lines := []string{"svc", "", "n", "n", "y", "y", "n", "n", "abcd", "pw", "us-east-1", "", ""}
	cfg, _ := collect(t, answers(append(lines, noAddOns()...)...))

	assert.Equal(t, config.DatabaseManaged, cfg.Database)
	require.NotNil(t, cfg.Credentials)
	assert.Equal(t, config.ManagedCredentials{
		ProjectRef: "abcd",
		Password:   "pw",
		Region:     "us-east-1",
		Port:       6543,
		Database:   "postgres",
	}, *cfg.Credentials)
	assert.Equal(t, "postgresql://postgres.abcd:pw@aws-0-us-east-1.pooler.supabase.com:6543/postgres", cfg.Credentials.DatabaseURL())
}

func TestCollectManagedWithoutORM(t *testing.T) {
	lines := []string{"svc", "", "n", "n", "n", "y", "n", "n", "", "https://x.supabase.co", "anon-key"}
	cfg, out := collect(t, answers(append(lines, noAddOns()...)...))

	assert.Equal(t, "https://x.supabase.co", cfg.ManagedURL)
	assert.Equal(t, "anon-key", cfg.ManagedKey)
	assert.Nil(t, cfg.Credentials)
	assert.Contains(t, out, "a value is required")
}

func TestCollectRemoteMongo(t *testing.T) {
	lines := []string{"svc", "", "n", "n", "n", "n", "n", "n", "y", "MongoDB", "remote"}
	cfg, _ := collect(t, answers(append(lines, noAddOns()...)...))

	assert.Equal(t, config.DatabaseMongoDB, cfg.Database)
	assert.Equal(t, config.LocalityRemote, cfg.Locality)
}

func TestCollectRejectsInvalidName(t *testing.T) {
	lines := []string{"My App", "my-app", "", "", "", "", "", "", "", ""}
	cfg, out := collect(t, answers(append(lines, noAddOns()...)...))

	assert.Equal(t, "my-app", cfg.Name)
	assert.Contains(t, out, `invalid project name "My App"`)
}

func TestCollectOffersGivenName(t *testing.T) {
	input := answers(append([]string{"", "", "", "", "", "", "", "", ""}, noAddOns()...)...)
	var out bytes.Buffer

	cfg, err := New(strings.NewReader(input), &out).Collect("my-api")
	require.NoError(t, err)

	assert.Equal(t, "my-api", cfg.Name)
	assert.True(t, strings.HasPrefix(out.String(), "? Project name (my-api): "))
}

func TestCollectStopsAtEndOfInput(t *testing.T) {
	_, err := New(strings.NewReader("svc\n3000\n"), &bytes.Buffer{}).Collect("")

	assert.ErrorIs(t, err, ErrNoInput)
}

func TestConfirmRepromptsUnknownAnswer(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("maybe\nyes\n"), &out)

	ok, err := p.Confirm("Continue?", false)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Please answer y or n")
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"3000", 3000, false},
		{" 80 ", 80, false},
		{"65535", 65535, false},
		{"0", 0, true},
		{"65536", 0, true},
		{"-1", 0, true},
		{"http", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePort(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePort(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePort(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
