package cache

import (
	"context"
	"time"
)

// Filter dictionaries change only when jobs are created or deleted, so a long
// TTL plus explicit invalidation on writes is enough.
const FilterDictTTL = 24 * time.Hour

func LocationsKey() string { return "filters:locations" }
func SkillsKey() string    { return "filters:skills" }

func (c *Cache) GetLocations(ctx context.Context) ([]string, error) {
	var locations []string
	if err := c.Get(ctx, LocationsKey(), &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (c *Cache) SetLocations(ctx context.Context, locations []string) error {
	return c.Set(ctx, LocationsKey(), locations, FilterDictTTL)
}

func (c *Cache) GetSkills(ctx context.Context) ([]string, error) {
	var skills []string
	if err := c.Get(ctx, SkillsKey(), &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

func (c *Cache) SetSkills(ctx context.Context, skills []string) error {
	return c.Set(ctx, SkillsKey(), skills, FilterDictTTL)
}

func (c *Cache) InvalidateFilterDicts(ctx context.Context) error {
	return c.Delete(ctx, LocationsKey(), SkillsKey())
}
