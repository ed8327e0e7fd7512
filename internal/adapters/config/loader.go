// Package config loads the provisioning configuration.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// EnvVersion overrides the library version.
	EnvVersion = "LIBGPIOD_VERSION"
	// EnvArch overrides the architectures to provision (comma separated).
	EnvArch = "TARGET_ARCH"
)

// Loader implements ports.ConfigLoader using a YAML file and environment overrides.
type Loader struct {
	Logger ports.Logger
	Getenv func(string) string
}

// NewLoader creates a new Loader reading the process environment.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

// Load layers the file at path and then the environment over the defaults.
func (l *Loader) Load(path string, required bool) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	pf, err := readProvfile(path, required)
	if err != nil {
		return domain.Config{}, err
	}
	if pf != nil {
		apply(&cfg, pf)
	}

	l.applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return domain.Config{}, zerr.With(err, "path", path)
	}
	return cfg, nil
}

func readProvfile(path string, required bool) (*Provfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var pf Provfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		if errors.Is(err, io.EOF) {
			return &pf, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return &pf, nil
}

func apply(cfg *domain.Config, pf *Provfile) {
	setString(&cfg.Library, pf.Library)
	setString(&cfg.Layout.Library, pf.Library)
	setString(&cfg.Version, pf.Version)
	setString(&cfg.URLTemplate, pf.URLTemplate)
	if pf.ArchiveFormat != "" {
		cfg.ArchiveFormat = domain.ArchiveFormat(pf.ArchiveFormat)
	}

	setString(&cfg.Layout.Root, pf.Root)
	setString(&cfg.Layout.PrefixRoot, pf.PrefixRoot)
	setString(&cfg.Layout.WorkDir, pf.WorkDir)
	setString(&cfg.Layout.PkgConfigDirTemplate, pf.PkgConfigDirTemplate)
	setString(&cfg.Layout.LoaderConfDir, pf.LoaderConfDir)

	if pf.ConfigureFlags != nil {
		cfg.ConfigureFlags = pf.ConfigureFlags
	}
	if pf.Make != nil {
		cfg.Make = pf.Make
	}
	if pf.Ldconfig != nil {
		cfg.Ldconfig = pf.Ldconfig
	}
	if pf.Jobs != nil {
		cfg.Jobs = *pf.Jobs
	}
	if pf.Architectures != nil {
		cfg.Architectures = domain.ParseArchitectureList(strings.Join(pf.Architectures, ","))
	}

	if len(pf.Env) > 0 {
		keys := make([]string, 0, len(pf.Env))
		for k := range pf.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cfg.Env = make([]string, 0, len(keys))
		for _, k := range keys {
			cfg.Env = append(cfg.Env, k+"="+pf.Env[k])
		}
	}
}

func (l *Loader) applyEnv(cfg *domain.Config) {
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := strings.TrimSpace(getenv(EnvVersion)); v != "" {
		cfg.Version = v
		l.info("version " + v + " taken from " + EnvVersion)
	}
	if v := strings.TrimSpace(getenv(EnvArch)); v != "" {
		cfg.Architectures = domain.ParseArchitectureList(v)
		l.info("architectures " + strings.Join(cfg.Architectures, ",") + " taken from " + EnvArch)
	}
}

func (l *Loader) info(msg string) {
	if l.Logger != nil {
		l.Logger.Info(msg)
	}
}

// Validate rejects configurations the pipeline cannot run with.
func Validate(cfg domain.Config) error {
	invalid := func(key, reason string) error {
		return zerr.With(zerr.With(domain.ErrInvalidConfig, "key", key), "reason", reason)
	}

	switch {
	case strings.TrimSpace(cfg.Library) == "":
		return invalid("library", "must not be empty")
	case strings.TrimSpace(cfg.Version) == "":
		return invalid("version", "must not be empty")
	case !strings.Contains(cfg.URLTemplate, "{version}"):
		return invalid("url_template", "must contain {version}")
	case cfg.Jobs < 0:
		return invalid("jobs", "must not be negative, got "+strconv.Itoa(cfg.Jobs))
	case len(cfg.Make) == 0 || cfg.Make[0] == "":
		return invalid("make", "must name a program")
	case len(cfg.Ldconfig) == 0 || cfg.Ldconfig[0] == "":
		return invalid("ldconfig", "must name a program")
	case !strings.Contains(cfg.Layout.PkgConfigDirTemplate, "{triple}"):
		return invalid("pkgconfig_dir_template", "must contain {triple}")
	}

	if cfg.ArchiveFormat != "" && cfg.ArchiveFormat != domain.ArchiveGzip && cfg.ArchiveFormat != domain.ArchiveXz {
		return invalid("archive_format", "must be tar.gz or tar.xz")
	}

	for _, entry := range cfg.Env {
		if k, _, ok := strings.Cut(entry, "="); !ok || k == "" {
			return invalid("env", "malformed entry "+entry)
		}
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
