// Package config carga la configuración del servicio desde YAML con
// overrides por variables de entorno (el env siempre pisa al archivo).
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"` // debug | info | warn | error
	} `yaml:"log"`

	Keys struct {
		// Dir es el directorio del keystore (archivos <thumbprint>.json).
		Dir string `yaml:"dir"`
		// Namespace es el prefijo del key id: <namespace>:x5t#S256:<thumbprint>.
		Namespace string `yaml:"namespace"`
		// Algorithm para claves nuevas: RS256 | RS384 | RS512 | ES256.
		Algorithm string `yaml:"algorithm"`
	} `yaml:"keys"`

	Barcode struct {
		// ECLevel por defecto: L (máxima capacidad de datos). Subirlo mejora
		// la robustez de escaneo a costa de capacidad.
		ECLevel string `yaml:"ec_level"`
	} `yaml:"barcode"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	c.applyEnvOverrides()
	return &c, c.Validate()
}

// LoadFromEnv builds a config from environment variables only (no YAML).
func LoadFromEnv() (*Config, error) {
	var c Config
	c.applyDefaults()
	c.applyEnvOverrides()
	return &c, c.Validate()
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Keys.Dir == "" {
		c.Keys.Dir = "keys"
	}
	if c.Keys.Namespace == "" {
		c.Keys.Namespace = "prc"
	}
	if c.Keys.Algorithm == "" {
		c.Keys.Algorithm = "ES256"
	}
	if c.Barcode.ECLevel == "" {
		c.Barcode.ECLevel = "L"
	}
}

// applyEnvOverrides: pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("KEYS_DIR"); ok {
		c.Keys.Dir = v
	}
	if v, ok := getEnvStr("KEYS_NAMESPACE"); ok {
		c.Keys.Namespace = v
	}
	if v, ok := getEnvStr("KEYS_ALGORITHM"); ok {
		c.Keys.Algorithm = strings.ToUpper(v)
	}
	if v, ok := getEnvStr("BARCODE_EC_LEVEL"); ok {
		c.Barcode.ECLevel = strings.ToUpper(v)
	}
}

func (c *Config) Validate() error {
	switch c.Keys.Algorithm {
	case "RS256", "RS384", "RS512", "ES256":
	default:
		return fmt.Errorf("config: unknown keys.algorithm %q", c.Keys.Algorithm)
	}
	switch c.Barcode.ECLevel {
	case "L", "M", "Q", "H":
	default:
		return fmt.Errorf("config: unknown barcode.ec_level %q", c.Barcode.ECLevel)
	}
	return nil
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
