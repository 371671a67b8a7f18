// Package config loads the tactical doctrine from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/vimy/vimy-tactics/rules"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadDoctrine reads a doctrine file. Fields the file leaves out keep their
// default values; everything is clamped by Validate.
func LoadDoctrine(path string) (rules.Doctrine, error) {
	d := rules.DefaultDoctrine()
	d.SquadCaps = nil // a file listing caps replaces the defaults rather than merging
	if err := loadYAML(path, &d); err != nil {
		return rules.Doctrine{}, fmt.Errorf("load doctrine %s: %w", path, err)
	}
	d.Validate()
	return d, nil
}

// ModTime returns the file's modification time, used to detect edits.
func ModTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}
