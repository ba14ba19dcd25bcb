package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"dirkit/internal/domain"
)

const (
	EnvPrefix = "DIRKIT"

	KeySource           = "source"
	KeyTarget           = "target"
	KeyExclude          = "exclude"
	KeyDestructive      = "destructive"
	KeyDryRun           = "dry-run"
	KeyMatch            = "match"
	KeyTUI              = "tui"
	KeyOutput           = "output"
	KeyIgnoreFolders    = "ignore-folders"
	KeyIgnoreExtensions = "ignore-extensions"
	KeyVerbose          = "verbose"
	KeyLogLevel         = "log-level"

	DefaultTargetName = "copia"
	DefaultReportName = "project_structure.txt"
)

var (
	DefaultExclude          = []string{"backend/node_modules", "backend/uploads", ".git", "frontend/node_modules", "frontend-old"}
	DefaultIgnoreFolders    = []string{"backend/node_modules", ".git", "uploads", "copia"}
	DefaultIgnoreExtensions = []string{".bak"}
)

type MirrorConfig struct {
	SourceDir   string
	TargetDir   string
	Exclude     []string
	Destructive bool
	DryRun      bool
	Match       domain.MatchMode
	TUI         bool
	Verbose     bool
	LogLevel    string
}

type DumpConfig struct {
	SourceDir        string
	OutputFile       string
	IgnoreFolders    []string
	IgnoreExtensions []string
	Match            domain.MatchMode
	Verbose          bool
	LogLevel         string
}

// New returns a viper instance with defaults registered and DIRKIT_*
// environment variables bound.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyExclude, DefaultExclude)
	v.SetDefault(KeyIgnoreFolders, DefaultIgnoreFolders)
	v.SetDefault(KeyIgnoreExtensions, DefaultIgnoreExtensions)
	v.SetDefault(KeyMatch, string(domain.MatchSubstring))
	return v
}

// ReadFile merges a YAML (or any viper-supported) config file into v.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func LoadMirror(v *viper.Viper) (MirrorConfig, error) {
	source, err := sourceDir(v)
	if err != nil {
		return MirrorConfig{}, err
	}
	target := strings.TrimSpace(v.GetString(KeyTarget))
	if target == "" {
		target = filepath.Join(source, DefaultTargetName)
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return MirrorConfig{}, err
	}
	if target == source {
		return MirrorConfig{}, errors.New("target must differ from source")
	}
	// A destructive run removes the target, so it must never contain the source.
	if Contains(target, source) {
		return MirrorConfig{}, fmt.Errorf("target %s contains source %s", target, source)
	}

	match, err := domain.ParseMatchMode(v.GetString(KeyMatch))
	if err != nil {
		return MirrorConfig{}, err
	}

	return MirrorConfig{
		SourceDir:   source,
		TargetDir:   target,
		Exclude:     stringList(v, KeyExclude),
		Destructive: v.GetBool(KeyDestructive),
		DryRun:      v.GetBool(KeyDryRun),
		Match:       match,
		TUI:         v.GetBool(KeyTUI),
		Verbose:     v.GetBool(KeyVerbose),
		LogLevel:    v.GetString(KeyLogLevel),
	}, nil
}

func LoadDump(v *viper.Viper) (DumpConfig, error) {
	source, err := sourceDir(v)
	if err != nil {
		return DumpConfig{}, err
	}
	output := strings.TrimSpace(v.GetString(KeyOutput))
	if output == "" {
		output = filepath.Join(source, DefaultReportName)
	}
	output, err = filepath.Abs(output)
	if err != nil {
		return DumpConfig{}, err
	}

	match, err := domain.ParseMatchMode(v.GetString(KeyMatch))
	if err != nil {
		return DumpConfig{}, err
	}

	return DumpConfig{
		SourceDir:        source,
		OutputFile:       output,
		IgnoreFolders:    stringList(v, KeyIgnoreFolders),
		IgnoreExtensions: stringList(v, KeyIgnoreExtensions),
		Match:            match,
		Verbose:          v.GetBool(KeyVerbose),
		LogLevel:         v.GetString(KeyLogLevel),
	}, nil
}

// Contains reports whether path lies beneath dir. Both are expected to be
// cleaned absolute paths.
func Contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func sourceDir(v *viper.Viper) (string, error) {
	source := strings.TrimSpace(v.GetString(KeySource))
	if source == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return wd, nil
	}
	return filepath.Abs(source)
}

// stringList reads a list value. Environment variables arrive as a single
// string, so comma-separated values are split here.
func stringList(v *viper.Viper, key string) []string {
	raw := v.GetStringSlice(key)
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
