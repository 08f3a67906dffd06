package aggregator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultRatePerSecond é o ritmo de criação de regras quando o arquivo
	// de configuração não define outro.
	DefaultRatePerSecond = 4.0

	// DefaultTimeoutSeconds vale para as chamadas ao provedor.
	DefaultTimeoutSeconds = 10
)

// ProviderConfig descreve o endpoint de criação de regras de firewall.
type ProviderConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	// RatePerSecond limita as chamadas de criação. Zero usa o padrão.
	RatePerSecond  float64 `yaml:"rate_per_second"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// Config é o arquivo YAML da ferramenta.
type Config struct {
	// Sources são URLs de listas de texto com endereços, uma por linha ou
	// separados por espaço/vírgula. Linhas podem ter comentários com '#'.
	Sources []string `yaml:"sources"`

	// Input é um arquivo local no mesmo formato das fontes remotas.
	Input string `yaml:"input"`

	// Output recebe a lista consolidada, um endereço por linha.
	Output string `yaml:"output"`

	// Report recebe o relatório JSON com o desfecho por endereço.
	Report string `yaml:"report"`

	// Push liga a criação de regras no provedor. Desligado, cada endereço
	// sai no relatório como dry_run.
	Push bool `yaml:"push"`

	Provider ProviderConfig `yaml:"provider"`
}

// Load lê e interpreta o arquivo de configuração no caminho dado.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse interpreta o YAML e aplica os padrões do provedor. A validação fica
// em Validate: flags de linha de comando podem completar um arquivo parcial
// antes da checagem final.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults preenche os campos numéricos zerados do provedor.
func (c *Config) ApplyDefaults() {
	if c.Provider.RatePerSecond <= 0 {
		c.Provider.RatePerSecond = DefaultRatePerSecond
	}
	if c.Provider.TimeoutSeconds <= 0 {
		c.Provider.TimeoutSeconds = DefaultTimeoutSeconds
	}
}

// Validate confere o mínimo para uma rodada fazer sentido.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 && c.Input == "" {
		return fmt.Errorf("no sources and no input file configured")
	}
	if c.Push {
		if c.Provider.URL == "" {
			return fmt.Errorf("push enabled but provider.url is empty")
		}
		if c.Provider.Token == "" {
			return fmt.Errorf("push enabled but provider.token is empty")
		}
	}
	return nil
}
