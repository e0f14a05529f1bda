// Package config defines the daybegin configuration record, its defaults and
// normalization, and the interactive first-run wizard that writes it as YAML.
package config
