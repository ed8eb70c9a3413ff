package app

import (
	"fmt"
	"strconv"
	"strings"

	"hotel_saas/internal/domain"
)

var facilityAliases = map[string][]string{
	"name":     {"name", "facility_name", "title"},
	"category": {"category", "group", "type"},
}

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// mapFacilities turns the amenity list of a content API property into
// facilities. Items may be plain strings or objects; names are de-duplicated
// case-insensitively.
func mapFacilities(p map[string]any) []domain.Facility {
	var raw []any
	for _, k := range []string{"facilities", "amenities", "hotel_facilities"} {
		if v, ok := lookupAny(p, k).([]any); ok && len(v) > 0 {
			raw = v
			break
		}
	}

	var desc *string
	if id := firstInt64Flexible(p, "hotel_id", "id"); id != nil {
		d := fmt.Sprintf("imported from property %d", *id)
		desc = &d
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]domain.Facility, 0, len(raw))
	for _, it := range raw {
		var f domain.Facility
		switch t := it.(type) {
		case string:
			f.Name = strings.TrimSpace(t)
		case map[string]any:
			if s := firstNonEmptyAlias(t, facilityAliases, "name"); s != nil {
				f.Name = *s
			}
			f.Category = firstNonEmptyAlias(t, facilityAliases, "category")
		}
		if f.Name == "" {
			continue
		}
		k := strings.ToLower(f.Name)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		f.Description = desc
		f.IsActive = true
		out = append(out, f)
	}
	return out
}
