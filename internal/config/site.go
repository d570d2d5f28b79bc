package config

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteFS embed.FS

type Image struct {
	URL    string `yaml:"url"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Site holds the metadata shared by every page.
type Site struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`
	Image       Image  `yaml:"image"`
}

// LoadSite returns the embedded defaults overlaid with the file at path,
// if path is set.
func LoadSite(path string) (Site, error) {
	data, err := siteFS.ReadFile("site.yaml")
	if err != nil {
		return Site{}, fmt.Errorf("reading embedded site config: %w", err)
	}
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return Site{}, fmt.Errorf("parsing embedded site config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Site{}, fmt.Errorf("reading site config: %w", err)
		}
		if err := yaml.Unmarshal(data, &site); err != nil {
			return Site{}, fmt.Errorf("parsing site config %s: %w", path, err)
		}
	}

	site.BaseURL = strings.TrimRight(site.BaseURL, "/")
	if site.Name == "" || site.BaseURL == "" {
		return Site{}, fmt.Errorf("site config: name and base_url are required")
	}
	return site, nil
}
