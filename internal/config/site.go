package config

// SiteConfig holds site-specific policy overrides for a single host.
// This allows customizing audit behavior per site without CLI flags.
type SiteConfig struct {
	// Headers are custom HTTP headers to include in requests to this site.
	// Useful for password-protected staging installs.
	Headers map[string]string `yaml:"headers,omitempty"`

	// VolatileParams are query parameter names stripped during URL
	// normalization, in addition to the built-in defaults.
	VolatileParams []string `yaml:"volatileParams,omitempty"`

	// Modifiers are extra redaction marker tokens recognized by the
	// pattern engine (e.g., site-specific suffixes like "web" or "lo").
	Modifiers []string `yaml:"modifiers,omitempty"`

	// LeakKinds restricts reported leaks for this site to the named
	// media kinds. If empty, the global filter applies.
	LeakKinds []string `yaml:"leakKinds,omitempty"`

	// MaxSitemapDepth overrides the global sitemap recursion depth for
	// this site. If zero, the global bound is used.
	MaxSitemapDepth int `yaml:"maxSitemapDepth,omitempty"`
}

// File represents the structure of the .jetghost configuration file.
type File struct {
	// Sites maps hostnames to their site-specific configurations.
	// Keys should be the bare host (e.g., "blog.example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
		if len(siteConfig.VolatileParams) > 0 {
			result.VolatileParams = siteConfig.VolatileParams
		}
		if len(siteConfig.Modifiers) > 0 {
			result.Modifiers = siteConfig.Modifiers
		}
		if len(siteConfig.LeakKinds) > 0 {
			result.LeakKinds = siteConfig.LeakKinds
		}
		if siteConfig.MaxSitemapDepth != 0 {
			result.MaxSitemapDepth = siteConfig.MaxSitemapDepth
		}
	}

	return result
}
