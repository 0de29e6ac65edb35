package insight

import (
	"context"
	"fmt"
)

// TagCount is how often one tag is attached, overall and per confirmed theme.
type TagCount struct {
	TagID        string
	TagName      string
	ColorCode    *string
	CountAll     int64
	CountByTheme map[string]int64
}

type tagThemeCount struct {
	TagID   string
	ThemeID string
	N       int64
}

// TagFrequency counts tag usage. Every theme appears in CountByTheme, zero when unused.
func (s *Service) TagFrequency(ctx context.Context) ([]TagCount, error) {
	themes, err := s.Themes(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.Tags(ctx)
	if err != nil {
		return nil, err
	}

	var rows []tagThemeCount
	if err := s.DB.WithContext(ctx).Raw(`
		select it.tag_id as tag_id, i.theme_id as theme_id, count(*) as n
		from insight_tags it
		join insights i on i.id = it.insight_id
		group by it.tag_id, i.theme_id
	`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}

	byTag := make(map[string]map[string]int64, len(tags))
	for _, r := range rows {
		if byTag[r.TagID] == nil {
			byTag[r.TagID] = map[string]int64{}
		}
		byTag[r.TagID][r.ThemeID] += r.N
	}

	out := make([]TagCount, 0, len(tags))
	for _, t := range tags {
		tc := TagCount{
			TagID:        t.ID,
			TagName:      t.Name,
			ColorCode:    t.ColorCode,
			CountByTheme: make(map[string]int64, len(themes)),
		}
		for _, th := range themes {
			n := byTag[t.ID][th.ID]
			tc.CountByTheme[th.ID] = n
			tc.CountAll += n
		}
		out = append(out, tc)
	}
	return out, nil
}
