// Package zephirconfig parses and defaults the single YAML configuration
// file that describes a Zephir function (spec.md §3 / §6).
package zephirconfig

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zephir-project/zephir/internal/zerrors"
)

// ArtifactType names the kind of packaged artifact a bundle contains.
type ArtifactType string

const (
	ArtifactNative ArtifactType = "NATIVE"
	ArtifactWasm   ArtifactType = "WASM"
	ArtifactLua    ArtifactType = "LUA"
)

// UnmarshalYAML defaults an empty artifactType to NATIVE, matching the Rust
// original's #[derive(Default)] on ArtifactType. yaml.v3 does not call it
// when the key is absent; Parse applies the same default in that case.
func (a *ArtifactType) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch ArtifactType(raw) {
	case ArtifactNative, ArtifactWasm, ArtifactLua:
		*a = ArtifactType(raw)
	case "":
		*a = ArtifactNative
	default:
		return errors.Errorf("unknown artifactType %q", raw)
	}
	return nil
}

// ApplicationConfig describes how to invoke the unpacked artifact.
type ApplicationConfig struct {
	Entry string `yaml:"entry"`
}

// ArtifactConfig describes where the bundle comes from and what it contains.
type ArtifactConfig struct {
	PackagePath  string       `yaml:"packagePath"`
	ArtifactType ArtifactType `yaml:"artifactType"`
}

const (
	defaultMemory   uint64 = 128 * 1024 * 1024
	defaultStorage  uint64 = 512 * 1024 * 1024
	defaultCPULimit uint64 = 10
)

// ResourceConfig carries the resource caps applied by the sandbox enforcer.
type ResourceConfig struct {
	Memory   uint64 `yaml:"memory"`
	Storage  uint64 `yaml:"storage"`
	CPULimit uint64 `yaml:"cpuLimit"`
}

// UnmarshalYAML applies spec.md §6's default resource caps to any field left
// unset (zero) in the document.
func (r *ResourceConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain ResourceConfig
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	if p.Memory == 0 {
		p.Memory = defaultMemory
	}
	if p.Storage == 0 {
		p.Storage = defaultStorage
	}
	if p.CPULimit == 0 {
		p.CPULimit = defaultCPULimit
	}
	*r = ResourceConfig(p)
	return nil
}

// FunctionConfig groups the bundle, app, and resource sections.
type FunctionConfig struct {
	Bundle    ArtifactConfig    `yaml:"bundle"`
	App       ApplicationConfig `yaml:"app"`
	Resources ResourceConfig    `yaml:"resources"`
}

// StorageConfig names the two storage roots Zephir operates under.
type StorageConfig struct {
	Sandbox string `yaml:"sandbox"`
	Cache   string `yaml:"cache"`
}

const (
	defaultSandboxDir = "zephir-sandbox/"
	defaultCacheDir   = "zephir-cache/"
)

func sanitizedStorage(s *StorageConfig) StorageConfig {
	if s == nil {
		return StorageConfig{Sandbox: defaultSandboxDir, Cache: defaultCacheDir}
	}
	out := *s
	if out.Sandbox == "" {
		out.Sandbox = defaultSandboxDir
	}
	if out.Cache == "" {
		out.Cache = defaultCacheDir
	}
	return out
}

// LogConfig drives the logger built by internal/zlogger.
type LogConfig struct {
	ToFile       bool   `yaml:"toFile"`
	FilePath     string `yaml:"filePath"`
	ToStdout     bool   `yaml:"toStdout"`
	Prefix       string `yaml:"prefix"`
	DebugEnabled bool   `yaml:"debugEnabled"`
}

const defaultName = "zephir-function"

// ZephirConfig is the parsed, defaulted form of a zephir.yaml file.
type ZephirConfig struct {
	Name      string         `yaml:"name"`
	Function  FunctionConfig `yaml:"function"`
	Storage   StorageConfig  `yaml:"storage"`
	LogConfig LogConfig      `yaml:"logConfig"`
}

// unmarshalShape mirrors ZephirConfig but keeps storage/logConfig as pointers
// so we can tell "absent" apart from "present with zero values", the same
// distinction the Rust original expresses with Option<T>.
type unmarshalShape struct {
	Name      string         `yaml:"name"`
	Function  FunctionConfig `yaml:"function"`
	Storage   *StorageConfig `yaml:"storage"`
	LogConfig *LogConfig     `yaml:"logConfig"`
}

// Parse reads and defaults a ZephirConfig from raw YAML bytes.
func Parse(data []byte) (*ZephirConfig, error) {
	var shape unmarshalShape
	if err := yaml.Unmarshal(data, &shape); err != nil {
		return nil, zerrors.Configuration("parsing zephir config", err)
	}

	cfg := &ZephirConfig{
		Name:     shape.Name,
		Function: shape.Function,
		Storage:  sanitizedStorage(shape.Storage),
	}
	if cfg.Name == "" {
		cfg.Name = defaultName
	}
	if shape.LogConfig != nil {
		cfg.LogConfig = *shape.LogConfig
	} else {
		cfg.LogConfig = LogConfig{ToStdout: true, Prefix: "[" + cfg.Name + "]"}
	}
	if cfg.Function.App.Entry == "" {
		cfg.Function.App.Entry = "./zephir-function"
	}
	if cfg.Function.Bundle.PackagePath == "" {
		cfg.Function.Bundle.PackagePath = "function.zephir"
	}
	// ArtifactType.UnmarshalYAML and ResourceConfig.UnmarshalYAML only run
	// when yaml.v3 visits the corresponding node, which it does not do when
	// "function.bundle.artifactType" or the entire "function.resources"
	// section is absent from the document. Re-apply the same defaults here
	// so an omitted section still lands on the documented default rather
	// than a Go zero value.
	if cfg.Function.Bundle.ArtifactType == "" {
		cfg.Function.Bundle.ArtifactType = ArtifactNative
	}
	if cfg.Function.Resources.Memory == 0 {
		cfg.Function.Resources.Memory = defaultMemory
	}
	if cfg.Function.Resources.Storage == 0 {
		cfg.Function.Resources.Storage = defaultStorage
	}
	if cfg.Function.Resources.CPULimit == 0 {
		cfg.Function.Resources.CPULimit = defaultCPULimit
	}
	return cfg, nil
}

// ParseFile reads a ZephirConfig from the file at path.
func ParseFile(path string) (*ZephirConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerrors.Configuration("reading config file "+path, err)
	}
	return Parse(data)
}

// SaneDefaults returns the fully-defaulted starter configuration the init
// command writes out, matching original_source's ZephirConfig::sane_defaults.
func SaneDefaults() *ZephirConfig {
	return &ZephirConfig{
		Name: defaultName,
		Function: FunctionConfig{
			App:    ApplicationConfig{Entry: "./zephir-function"},
			Bundle: ArtifactConfig{PackagePath: "function.zephir", ArtifactType: ArtifactNative},
			Resources: ResourceConfig{
				Memory:   defaultMemory,
				Storage:  defaultStorage,
				CPULimit: defaultCPULimit,
			},
		},
		Storage: StorageConfig{Sandbox: defaultSandboxDir, Cache: defaultCacheDir},
		LogConfig: LogConfig{
			ToFile:       false,
			ToStdout:     true,
			Prefix:       "[" + defaultName + "]",
			DebugEnabled: false,
		},
	}
}

// WriteFile serializes cfg as YAML to path.
func WriteFile(path string, cfg *ZephirConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return zerrors.Configuration("marshaling zephir config", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return zerrors.IO("writing config file "+path, err)
	}
	return nil
}
