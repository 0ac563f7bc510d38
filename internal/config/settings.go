package config

import (
	"os"

	"gopkg.in/ini.v1"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
)

// SettingsSection is the ini section holding module settings
const SettingsSection = "palette"

// Settings are the user facing module settings
type Settings struct {
	// DisplayUnequipped shows unequipped inventory in the palette
	DisplayUnequipped bool
	// BuiltinRoller appends the local dice pool roller as the last
	// fallback receiver
	BuiltinRoller bool
	// MaxSkillDepth bounds recursion into skill category sources; zero
	// keeps the catalog default
	MaxSkillDepth int
}

// DefaultSettings returns the settings used when no file is configured
func DefaultSettings() *Settings {
	return &Settings{
		DisplayUnequipped: true,
		BuiltinRoller:     false,
	}
}

var settingsLoadOptions = ini.LoadOptions{
	Insensitive:             false,
	IgnoreInlineComment:     false,
	SkipUnrecognizableLines: true,
	AllowShadows:            false,
}

// LoadSettings reads settings from an ini file. An empty path or a missing
// file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}

	file, err := ini.LoadSources(settingsLoadOptions, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read settings %s", path)
	}
	return settingsFrom(file)
}

// ParseSettings reads settings from ini source bytes
func ParseSettings(data []byte) (*Settings, error) {
	file, err := ini.LoadSources(settingsLoadOptions, data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse settings")
	}
	return settingsFrom(file)
}

func settingsFrom(file *ini.File) (*Settings, error) {
	settings := DefaultSettings()
	if !file.HasSection(SettingsSection) {
		return settings, nil
	}
	section := file.Section(SettingsSection)

	vb := errors.NewValidationBuilder()
	readBool := func(name string, dst *bool) {
		if !section.HasKey(name) {
			return
		}
		v, err := section.Key(name).Bool()
		if err != nil {
			vb.Fieldf(name, "must be a boolean, got %q", section.Key(name).String())
			return
		}
		*dst = v
	}
	readBool("displayUnequipped", &settings.DisplayUnequipped)
	readBool("builtinRoller", &settings.BuiltinRoller)

	if section.HasKey("maxSkillDepth") {
		depth, err := section.Key("maxSkillDepth").Int()
		if err != nil {
			vb.Fieldf("maxSkillDepth", "must be an integer, got %q", section.Key("maxSkillDepth").String())
		} else {
			errors.ValidateRange("maxSkillDepth", depth, 1, 16, vb)
			settings.MaxSkillDepth = depth
		}
	}

	if err := vb.Build(); err != nil {
		return nil, err
	}
	return settings, nil
}
