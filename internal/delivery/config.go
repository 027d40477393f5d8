package delivery

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// JobConfig is the structured config file handed to the job by the
// scheduling platform.
type JobConfig struct {
	TemplateDirectory string `yaml:"template_directory"`
	TemplateFile      string `yaml:"template_file"`
}

// LoadJobConfig reads and decodes the YAML job configuration.
func LoadJobConfig(path string) (JobConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return JobConfig{}, fmt.Errorf("delivery: read config %s: %w", path, err)
	}
	var cfg JobConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return JobConfig{}, fmt.Errorf("delivery: decode config %s: %w", path, err)
	}
	if cfg.TemplateDirectory == "" || cfg.TemplateFile == "" {
		return JobConfig{}, fmt.Errorf("delivery: config %s: template_directory and template_file are required", path)
	}
	return cfg, nil
}

// TemplatePath is the full path of the alert template.
func (c JobConfig) TemplatePath() string {
	return filepath.Join(c.TemplateDirectory, c.TemplateFile)
}
