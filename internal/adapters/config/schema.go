package config

// Provfile is the structure of the libprov.yaml configuration file.
// Unset keys keep their built-in defaults.
type Provfile struct {
	Library              string            `yaml:"library"`
	Version              string            `yaml:"version"`
	URLTemplate          string            `yaml:"url_template"`
	ArchiveFormat        string            `yaml:"archive_format"`
	Root                 string            `yaml:"root"`
	PrefixRoot           string            `yaml:"prefix_root"`
	WorkDir              string            `yaml:"work_dir"`
	PkgConfigDirTemplate string            `yaml:"pkgconfig_dir_template"`
	LoaderConfDir        string            `yaml:"loader_conf_dir"`
	ConfigureFlags       []string          `yaml:"configure_flags"`
	Make                 []string          `yaml:"make"`
	Ldconfig             []string          `yaml:"ldconfig"`
	Jobs                 *int              `yaml:"jobs"`
	Env                  map[string]string `yaml:"env"`
	Architectures        []string          `yaml:"architectures"`
}
