package report

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Category is one support category measured by the dashboard: a fixed
// top-level Wrike folder, optionally paired with an archive twin whose
// contents count identically.
type Category struct {
	Key             string `yaml:"key"`
	Name            string `yaml:"name"`
	FolderID        string `yaml:"folder_id"`
	ArchiveFolderID string `yaml:"archive_folder_id"`
}

// Validate implements validation.Validatable.
func (c Category) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Key, validation.Required),
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.FolderID, validation.Required),
	)
}

// FolderIDs returns the category folder plus its archive twin, if any.
func (c Category) FolderIDs() []string {
	ids := []string{c.FolderID}
	if c.ArchiveFolderID != "" {
		ids = append(ids, c.ArchiveFolderID)
	}
	return ids
}

// Config pins the report's folder landscape: the roots whose children
// are the country and region groups, the tech-support category counted
// in tasks, and the project categories counted in project folders.
type Config struct {
	CountriesFolderID string     `yaml:"countries_folder_id"`
	RegionsFolderID   string     `yaml:"regions_folder_id"`
	TechSupport       Category   `yaml:"tech_support"`
	ProjectCategories []Category `yaml:"project_categories"`
}

// Validate implements validation.Validatable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CountriesFolderID, validation.Required),
		validation.Field(&c.RegionsFolderID, validation.Required),
		validation.Field(&c.TechSupport, validation.Required),
		validation.Field(&c.ProjectCategories, validation.Required),
	)
}

// LoadConfig reads and validates a category configuration YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse category config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid category config: %w", err)
	}

	return &cfg, nil
}
