package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/nestpack/internal/model"
)

// loadSettings returns the default settings overlaid with the values from
// a TOML config file when a path is given. Keys absent from the file keep
// their defaults.
func loadSettings(path string) (model.PackSettings, error) {
	settings := model.DefaultSettings()
	if path == "" {
		return settings, nil
	}
	meta, err := toml.DecodeFile(path, &settings)
	if err != nil {
		return settings, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return settings, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return settings, nil
}
