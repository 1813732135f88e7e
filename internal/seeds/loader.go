// Package seeds loads the seed-site configuration: the external list of root
// URLs the crawler targets. The list is read once per run and never mutated
// by the core.
package seeds

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Sites []string `yaml:"sites"`
}

type Loader struct {
	reader io.Reader
}

func NewLoader(reader io.Reader) *Loader {
	return &Loader{reader: reader}
}

func (l *Loader) Load() (*Config, error) {
	decoder := yaml.NewDecoder(l.reader)
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode seed config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed config: %w", err)
	}
	defer file.Close()
	return NewLoader(file).Load()
}

func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return fmt.Errorf("seed config lists no sites")
	}
	for _, site := range c.Sites {
		u, err := url.Parse(site)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("seed site %q is not an absolute URL", site)
		}
	}
	return nil
}
