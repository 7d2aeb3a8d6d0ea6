package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kbukum/kvrest/logger"
)

// FileSystem abstracts the file operations the loader needs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file without overriding variables already set.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds config.yml and .env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles holds the config and env file paths picked by a Resolver.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths from opts, searching the standard
// locations for any left empty.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(configCandidates(serviceName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(envCandidates(serviceName))
	}
	return resolved
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig holds loader dependencies and overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	Flags      *pflag.FlagSet
	// FlagKeys maps flag names to config keys.
	FlagKeys map[string]string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithFlags layers command-line flags over file and environment values.
// keys maps a flag name to the config key it sets. Flags the user did not
// pass only supply their default when no other source has the key.
func WithFlags(fs *pflag.FlagSet, keys map[string]string) LoaderOption {
	return func(lc *LoaderConfig) {
		lc.Flags = fs
		lc.FlagKeys = keys
	}
}

// LoadConfig loads configuration for serviceName into cfg. Precedence from
// lowest to highest: flag defaults, config.yml, .env, environment, flags
// passed on the command line.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	v, err := newViper(files, lc)
	if err != nil {
		return err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

func newViper(files ResolvedFiles, lc LoaderConfig) (*viper.Viper, error) {
	v := viper.New()
	fs := lc.FileSystem

	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			logger.Warn("failed to load config file", logger.MergeWithError(
				logger.Fields("path", files.ConfigFile), err))
		}
	}

	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("failed to load env file", logger.MergeWithError(
				logger.Fields("path", files.EnvFile), err))
		}
	}

	v.AutomaticEnv()
	autoBindEnvVars(v)

	if err := bindFlags(v, lc.Flags, lc.FlagKeys); err != nil {
		return nil, err
	}
	return v, nil
}

// bindFlags binds every mapped flag. Environment values are stored with
// Set, so a flag the user passed is Set as well to outrank them.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	if fs == nil {
		return nil
	}
	for name, key := range keys {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("config: unknown flag %q for key %s", name, key)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("config: bind flag %q: %w", name, err)
		}
		if f.Changed {
			v.Set(key, f.Value.String())
		}
	}
	return nil
}

// configCandidates lists config.yml locations in search order.
func configCandidates(serviceName string) []string {
	var paths []string
	for _, name := range serviceNames(serviceName) {
		for _, up := range []string{".", "..", "../.."} {
			paths = append(paths, fmt.Sprintf("%s/cmd/%s/config.yml", up, name))
		}
	}
	return append(paths,
		"./config/config.yml",
		"../config/config.yml",
		"./config.yml",
	)
}

// envCandidates lists .env locations in search order. A service-specific
// .env.<name> anywhere wins over a plain .env.
func envCandidates(serviceName string) []string {
	var dirs []string
	for _, name := range serviceNames(serviceName) {
		dirs = append(dirs, upwards("cmd/"+name)...)
		dirs = append(dirs, upwards("config/"+name)...)
	}
	dirs = append(dirs, upwards("config")...)
	dirs = append(dirs, ".", "..", "../..")

	var paths []string
	for _, file := range []string{".env." + serviceName, ".env"} {
		for _, dir := range dirs {
			paths = append(paths, dir+"/"+file)
		}
	}
	return removeDuplicates(paths)
}

func upwards(dir string) []string {
	return []string{"./" + dir, "../" + dir, "../../" + dir}
}

// serviceNames returns the service name and, for dashed names, its last
// segment ("acme-kvrest" also searches "kvrest").
func serviceNames(serviceName string) []string {
	if idx := strings.LastIndex(serviceName, "-"); idx != -1 && idx < len(serviceName)-1 {
		return []string{serviceName, serviceName[idx+1:]}
	}
	return []string{serviceName}
}

// autoBindEnvVars sets every environment variable under each of its nested
// key variants.
func autoBindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		for _, variant := range generateEnvKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants returns the config keys an environment variable
// may address:
//
//	KVREST_API_KEY -> [kvrest_api_key, kvrest.api.key, kvrest.api_key, kvrest_api.key]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.Join(parts, "."),
	}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], "_")+"."+strings.Join(parts[i:], "."))
	}
	return removeDuplicates(variants)
}

func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
