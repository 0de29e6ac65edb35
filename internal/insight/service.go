package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"feedbackboard/internal/apperr"
	"feedbackboard/internal/search"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the relational store for themes, tags and insights.
// It holds no state between calls; every read goes to the database.
type Service struct {
	DB *gorm.DB
}

type ListFilter struct {
	ThemeID string
	TagIDs  []string
	Limit   int
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Theme").
		Preload("SuggestedTheme").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name asc") })
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Service) Themes(ctx context.Context) ([]Theme, error) {
	var out []Theme
	if err := s.DB.WithContext(ctx).Order("order_index asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}
	return out, nil
}

func (s *Service) Tags(ctx context.Context) ([]Tag, error) {
	var out []Tag
	if err := s.DB.WithContext(ctx).Order("name asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return out, nil
}

func (s *Service) CreateInsight(ctx context.Context, in *Insight) error {
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(in).Error; err != nil {
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Insight, error) {
	if !validID(id) {
		return nil, apperr.NotFound("insight not found")
	}
	var in Insight
	if err := withRelations(s.DB.WithContext(ctx)).Where("id = ?", id).First(&in).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("insight not found")
		}
		return nil, fmt.Errorf("load insight: %w", err)
	}
	return &in, nil
}

// List returns insights newest first with theme and tags loaded. An insight
// matches the tag filter only when it carries every listed tag.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Insight, error) {
	q := withRelations(s.DB.WithContext(ctx).Model(&Insight{}))
	if f.ThemeID != "" {
		if !validID(f.ThemeID) {
			return nil, apperr.Validation("theme_id must be a UUID")
		}
		q = q.Where("theme_id = ?", f.ThemeID)
	}
	for _, tagID := range f.TagIDs {
		if !validID(tagID) {
			return nil, apperr.Validation("tag_id must be a UUID")
		}
		q = q.Where("id IN (?)", s.DB.Model(&InsightTag{}).Select("insight_id").Where("tag_id = ?", tagID))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []Insight
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	return out, nil
}

// SearchContent returns the newest insights (at most limit) whose content contains
// any keyword, case-insensitively. No keywords means no filter.
func (s *Service) SearchContent(ctx context.Context, keywords []string, limit int) ([]Insight, error) {
	q := withRelations(s.DB.WithContext(ctx).Model(&Insight{}))

	if len(keywords) > 0 {
		patterns := make([]string, 0, len(keywords))
		for _, k := range keywords {
			patterns = append(patterns, search.ContainsPattern(strings.ToLower(k)))
		}

		if s.DB.Dialector.Name() == "postgres" {
			// backslash is the default LIKE escape in postgres
			q = q.Where("content ILIKE ANY (?)", pq.Array(patterns))
		} else {
			cond := s.DB.Where(`LOWER(content) LIKE ? ESCAPE '\'`, patterns[0])
			for _, p := range patterns[1:] {
				cond = cond.Or(`LOWER(content) LIKE ? ESCAPE '\'`, p)
			}
			q = q.Where(cond)
		}
	}

	var out []Insight
	if err := q.Order("created_at desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("search insights: %w", err)
	}
	return out, nil
}

// Move assigns a confirmed theme and clears the suggestion.
func (s *Service) Move(ctx context.Context, id, themeID string) (*Insight, error) {
	if !validID(id) {
		return nil, apperr.NotFound("insight not found")
	}
	if !validID(themeID) {
		return nil, apperr.Validation("theme_id is not a known theme")
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Theme{}).Where("id = ?", themeID).Count(&n).Error; err != nil {
			return fmt.Errorf("load theme: %w", err)
		}
		if n == 0 {
			return apperr.Validation("theme_id is not a known theme")
		}

		res := tx.Model(&Insight{}).Where("id = ?", id).Updates(map[string]any{
			"theme_id":           themeID,
			"suggested_theme_id": nil,
		})
		if res.Error != nil {
			return fmt.Errorf("update insight: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("insight not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an insight and its tag links.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NotFound("insight not found")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("insight_id = ?", id).Delete(&InsightTag{}).Error; err != nil {
			return fmt.Errorf("delete insight tags: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&Insight{})
		if res.Error != nil {
			return fmt.Errorf("delete insight: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("insight not found")
		}
		return nil
	})
}
