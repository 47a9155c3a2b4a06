package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Paths follow the YAML keys, for example:
//
//	display
//	window.title
//	startup.geometry.width
//	hotkeys.toggle_fullscreen
//	logging.level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// lookupValue walks the config as a generic YAML tree. Zero values are
// omitted from the tree, so known but unset leaves resolve to nil.
func lookupValue(cfg *Config, path string) (any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	parts := strings.Split(path, ".")
	var node any = tree
	for _, part := range parts {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown config path %q", path)
		}
		next, ok := m[part]
		if !ok {
			if knownPath(path) {
				return nil, nil
			}
			return nil, fmt.Errorf("unknown config path %q", path)
		}
		node = next
	}
	return node, nil
}

var knownLeaves = []string{
	"display",
	"window.id", "window.title",
	"startup.title",
	"startup.geometry.x", "startup.geometry.y", "startup.geometry.width", "startup.geometry.height", "startup.geometry.client",
	"startup.disable_maximize_button", "startup.disable_minimize_button", "startup.disable_resize",
	"startup.maximize", "startup.fullscreen", "startup.clip_cursor", "startup.hide_cursor",
	"hotkeys.toggle_fullscreen", "hotkeys.toggle_maximize", "hotkeys.clip_cursor", "hotkeys.restore_cursor_clip",
	"ipc.socket", "ipc.watch_buffer",
	"logging.level", "logging.format", "logging.file",
}

func knownPath(path string) bool {
	for _, p := range knownLeaves {
		if p == path {
			return true
		}
	}
	return false
}
