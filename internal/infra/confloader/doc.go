// Package confloader provides configuration loading mechanism.
//
// It uses koanf to merge configuration from several sources.
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap / WithOverrides)
//  2. Environment variables
//  3. Configuration file (YAML)
//  4. Default values already present in the target struct
//
// A Watcher built on fsnotify reports changes to the configuration file so
// callers can Reload.
package confloader
