package db

import (
	_ "embed"
	"fmt"

	"feedbackboard/internal/insight"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed themes.yaml
var themesYAML []byte

type taxonomy struct {
	Themes []struct {
		Name  string `yaml:"name"`
		Order int    `yaml:"order"`
	} `yaml:"themes"`
}

// DefaultThemes parses the embedded theme taxonomy.
func DefaultThemes() ([]insight.Theme, error) {
	var tx taxonomy
	if err := yaml.Unmarshal(themesYAML, &tx); err != nil {
		return nil, fmt.Errorf("parse themes.yaml: %w", err)
	}

	out := make([]insight.Theme, 0, len(tx.Themes))
	hasDefault := false
	for _, t := range tx.Themes {
		if t.Name == insight.DefaultThemeName {
			hasDefault = true
		}
		out = append(out, insight.Theme{Name: t.Name, OrderIndex: t.Order})
	}
	if !hasDefault {
		return nil, fmt.Errorf("themes.yaml: missing %q theme", insight.DefaultThemeName)
	}
	return out, nil
}

// SeedThemes inserts missing themes by name. Existing rows are left untouched so
// manual edits survive restarts.
func SeedThemes(gdb *gorm.DB) error {
	themes, err := DefaultThemes()
	if err != nil {
		return err
	}
	for i := range themes {
		err := gdb.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&themes[i]).Error
		if err != nil {
			return fmt.Errorf("seed theme %q: %w", themes[i].Name, err)
		}
	}
	return nil
}
