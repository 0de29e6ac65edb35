package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"feedbackboard/internal/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func colorOrDefault(color *string) *string {
	if color == nil || strings.TrimSpace(*color) == "" {
		c := DefaultTagColor
		return &c
	}
	c := strings.TrimSpace(*color)
	return &c
}

// FindTag looks a tag up by its normalized name.
func (s *Service) FindTag(ctx context.Context, name string) (*Tag, error) {
	var t Tag
	err := s.DB.WithContext(ctx).Where("name = ?", NormalizeTagName(name)).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tag not found")
		}
		return nil, fmt.Errorf("load tag: %w", err)
	}
	return &t, nil
}

// CreateTag creates a tag explicitly. A taken name is a Conflict.
func (s *Service) CreateTag(ctx context.Context, name string, color *string) (*Tag, error) {
	name = NormalizeTagName(name)
	if name == "" {
		return nil, apperr.Validation("Enter a tag name.")
	}
	t := Tag{Name: name, ColorCode: colorOrDefault(color)}
	if err := s.DB.WithContext(ctx).Create(&t).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperr.Conflict("A tag with this name already exists.")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &t, nil
}

// ResolveTag returns the tag with the given name, creating it with the default
// colour when absent. Losing a concurrent create race is not an error: the
// winner's row is returned.
func (s *Service) ResolveTag(ctx context.Context, name string) (*Tag, error) {
	name = NormalizeTagName(name)
	if name == "" {
		return nil, apperr.Validation("tag name is empty")
	}

	t, err := s.FindTag(ctx, name)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	return s.insertOrResolveTag(ctx, name)
}

func (s *Service) insertOrResolveTag(ctx context.Context, name string) (*Tag, error) {
	t := Tag{Name: name, ColorCode: colorOrDefault(nil)}
	err := s.DB.WithContext(ctx).Create(&t).Error
	if err == nil {
		return &t, nil
	}
	if isDuplicateKey(err) {
		return s.FindTag(ctx, name)
	}
	return nil, fmt.Errorf("create tag %q: %w", name, err)
}

// DeleteTag removes a tag and every link to it.
func (s *Service) DeleteTag(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NotFound("tag not found")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&InsightTag{}).Error; err != nil {
			return fmt.Errorf("delete tag links: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&Tag{})
		if res.Error != nil {
			return fmt.Errorf("delete tag: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("tag not found")
		}
		return nil
	})
}

// LinkTag associates a tag with an insight. Repeating it is a no-op.
func (s *Service) LinkTag(ctx context.Context, insightID, tagID string) error {
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&InsightTag{InsightID: insightID, TagID: tagID}).Error
	if err != nil {
		return fmt.Errorf("link tag: %w", err)
	}
	return nil
}

// AttachTag is LinkTag for user requests: both rows must exist.
func (s *Service) AttachTag(ctx context.Context, insightID, tagID string) error {
	if !validID(insightID) {
		return apperr.NotFound("insight not found")
	}
	if !validID(tagID) {
		return apperr.NotFound("tag not found")
	}

	db := s.DB.WithContext(ctx)
	var n int64
	if err := db.Model(&Insight{}).Where("id = ?", insightID).Count(&n).Error; err != nil {
		return fmt.Errorf("load insight: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("insight not found")
	}
	if err := db.Model(&Tag{}).Where("id = ?", tagID).Count(&n).Error; err != nil {
		return fmt.Errorf("load tag: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("tag not found")
	}
	return s.LinkTag(ctx, insightID, tagID)
}

func (s *Service) UnlinkTag(ctx context.Context, insightID, tagID string) error {
	if !validID(insightID) || !validID(tagID) {
		return nil
	}
	err := s.DB.WithContext(ctx).
		Where("insight_id = ? AND tag_id = ?", insightID, tagID).
		Delete(&InsightTag{}).Error
	if err != nil {
		return fmt.Errorf("unlink tag: %w", err)
	}
	return nil
}
