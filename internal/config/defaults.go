package config

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"default_target_version": "",
		"strict_warnings":        false,
		"output_format":          "text",
		"show_progress":          true,
		"no_color":               false,
		"indent":                 2,
	}
}
