package insight

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DefaultThemeName is the bucket every extracted insight lands in until a human moves it.
	DefaultThemeName = "Uncategorised"
	// DefaultTagColor is used for tags created without an explicit colour.
	DefaultTagColor = "#6b7280"
	// MaxContentLength caps stored insight content, in characters.
	MaxContentLength = 2000
)

// SourceType is where a piece of feedback came from.
type SourceType string

const (
	SourceReddit    SourceType = "reddit"
	SourceDiscord   SourceType = "discord"
	SourceInterview SourceType = "interview"
	SourceSlack     SourceType = "slack"
	SourceOther     SourceType = "other"
)

func (s SourceType) Valid() bool {
	switch s {
	case SourceReddit, SourceDiscord, SourceInterview, SourceSlack, SourceOther:
		return true
	}
	return false
}

// Theme is a fixed top-level category.
type Theme struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	Name       string `gorm:"uniqueIndex;not null"`
	OrderIndex int    `gorm:"not null;default:0"`
}

// Tag is a reusable label. Name is unique, lowercase and trimmed.
type Tag struct {
	ID        string  `gorm:"type:uuid;primaryKey"`
	Name      string  `gorm:"uniqueIndex;not null"`
	ColorCode *string `gorm:"type:text"`
}

// Insight is one atomic statement extracted from feedback.
// SuggestedThemeID is the LLM's opinion and is cleared whenever ThemeID changes.
type Insight struct {
	ID               string      `gorm:"type:uuid;primaryKey"`
	Content          string      `gorm:"type:text;not null"`
	SourceURL        *string     `gorm:"type:text"`
	SourceType       *SourceType `gorm:"type:text"`
	ThemeID          string      `gorm:"type:uuid;index;not null"`
	SuggestedThemeID *string     `gorm:"type:uuid"`
	CreatedAt        time.Time   `gorm:"index;not null"`

	ModAuthorURL       *string `gorm:"type:text"`
	ModAuthorName      *string `gorm:"type:text"`
	ModAuthorAvatarURL *string `gorm:"type:text"`

	Theme          *Theme `gorm:"foreignKey:ThemeID"`
	SuggestedTheme *Theme `gorm:"foreignKey:SuggestedThemeID"`
	Tags           []Tag  `gorm:"many2many:insight_tags"`
}

// InsightTag is the join row. The composite primary key makes a pair unique.
type InsightTag struct {
	InsightID string `gorm:"type:uuid;primaryKey"`
	TagID     string `gorm:"type:uuid;primaryKey;index"`
}

func (t *Theme) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (i *Insight) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// ThemeName returns the confirmed theme's name, empty when not loaded.
func (i *Insight) ThemeName() string {
	if i.Theme == nil {
		return ""
	}
	return i.Theme.Name
}

// TagNames returns the names of the loaded tags in order.
func (i *Insight) TagNames() []string {
	out := make([]string, 0, len(i.Tags))
	for _, t := range i.Tags {
		out = append(out, t.Name)
	}
	return out
}
