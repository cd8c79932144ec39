// Package config provides configuration structures and utilities for JetGhost.
// It defines the main configuration options for sitemap audits, pattern
// probing, bulk fingerprint sweeps, and report generation preferences.
package config
