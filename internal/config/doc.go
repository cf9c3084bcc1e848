// Package config loads outliner settings from defaults, an optional YAML
// file, and OUTLINER_ environment variables using viper, and converts them
// into the option types of the layout, reader and export packages.
package config
