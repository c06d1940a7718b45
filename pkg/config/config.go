// Package config はビルド設定ファイル（YAML）を読み込む
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zurustar/trustc/pkg/compiler/codegen"
	"github.com/zurustar/trustc/pkg/toolchain"
)

// Config はビルド設定
type Config struct {
	Module    ModuleConfig    `yaml:"module"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
}

// ModuleConfig は出力するIRモジュールの設定
type ModuleConfig struct {
	ID           string `yaml:"id"`
	TargetTriple string `yaml:"target_triple"`
}

// ToolchainConfig はネイティブコンパイラの設定
type ToolchainConfig struct {
	Compiler string   `yaml:"compiler"`
	Flags    []string `yaml:"flags"`
}

// ValidationError は検証エラーをまとめたもの
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Module: ModuleConfig{
			ID: codegen.DefaultModuleID,
		},
		Toolchain: ToolchainConfig{
			Compiler: toolchain.DefaultCompiler,
		},
	}
}

// Load は設定ファイルを読み込み、検証する
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	return Parse(file, path)
}

// Parse はYAMLを解析する。記述のない項目はデフォルト値のまま
func Parse(r io.Reader, name string) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値を検証する
func (c *Config) Validate() error {
	var errs ValidationError
	if c.Module.ID == "" {
		errs.Issues = append(errs.Issues, "module.id must be provided")
	} else if strings.ContainsAny(c.Module.ID, "'\"\\\n\r") {
		errs.Issues = append(errs.Issues, fmt.Sprintf("module.id %q must not contain quotes, backslashes or newlines", c.Module.ID))
	}
	if strings.ContainsAny(c.Module.TargetTriple, "\"\\\n\r") {
		errs.Issues = append(errs.Issues, fmt.Sprintf("module.target_triple %q must not contain quotes, backslashes or newlines", c.Module.TargetTriple))
	}
	if c.Toolchain.Compiler == "" {
		errs.Issues = append(errs.Issues, "toolchain.compiler must be provided")
	}
	for i, flag := range c.Toolchain.Flags {
		if flag == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("toolchain.flags[%d] must be a non-empty string", i))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
