package search

import (
	"fmt"
	"strings"
)

// QueryVariants generates the ordered list of query strings for an item.
// Earlier variants are more specific; the orchestrator's first-wins
// deduplication preserves their priority.
func QueryVariants(item Item) []string {
	if item.Title == "" {
		return nil
	}
	var variants []string
	if item.Season != nil && item.Episode != nil {
		variants = episodeVariants(item)
	} else {
		variants = movieVariants(item)
	}
	return dedupe(variants)
}

// dedupe drops repeated variants, keeping the first occurrence. Single-word
// titles make the spaced and dotted forms collide.
func dedupe(variants []string) []string {
	seen := make(map[string]bool, len(variants))
	out := variants[:0]
	for _, v := range variants {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func episodeVariants(item Item) []string {
	title := item.Title
	tag := fmt.Sprintf("S%02dE%02d", *item.Season, *item.Episode)
	dotted := strings.ReplaceAll(title, " ", ".")

	variants := []string{
		fmt.Sprintf("%s %s", title, tag),
		fmt.Sprintf("%s%s", title, tag),
		fmt.Sprintf("%s.%s", dotted, tag),
	}
	if item.Year != nil {
		variants = append(variants, fmt.Sprintf("%s %d %s", title, *item.Year, tag))
	}
	variants = append(variants, fmt.Sprintf("%s %dx%02d", title, *item.Season, *item.Episode))
	return variants
}

func movieVariants(item Item) []string {
	title := item.Title
	dotted := strings.ReplaceAll(title, " ", ".")

	if item.Year == nil {
		return []string{title, dotted}
	}
	year := *item.Year
	return []string{
		fmt.Sprintf("%s %d", title, year),
		fmt.Sprintf("%s.%d", dotted, year),
		title,
		fmt.Sprintf("%s (%d)", title, year),
	}
}
