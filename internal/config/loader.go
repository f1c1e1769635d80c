// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `CARDS_`, where `__` maps to “.”
     (e.g., `CARDS_FORM__VERIFY_SCOPE → form.verify_scope`).

Keys absent from every layer keep the values from `Defaults()`.  After
merging, the tree is unmarshalled, validated, and enriched with the runtime
root path.  The result is read once at startup and passed down explicitly.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  — final “config loaded” with key highlights.
  • Logs use the global sugared logger (`zap.S()`), which is a no-op until
    the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`, so
    `go run ./cmd/web` works from any sub-directory.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "CARDS_"

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves CARDS_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to the executable layout (<root>/bin/web).
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load discovers the root directory and loads from it.
func Load() (*Config, error) { return LoadFrom(rootDir()) }

// LoadFrom reads .env, YAML, and env overrides under root, validates, and
// caches the Config.
func LoadFrom(root string) (*Config, error) {
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: CARDS_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"verify_scope", cfg.Form.VerifyScope,
		"seed_file", cfg.Board.SeedFile,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// Path resolves p against the configured root unless it is absolute.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.Root, p)
}
