// Package rules maps file extensions to category directory names.
//
// Classification is extension-based only and first-match-wins: rules are kept
// in an ordered slice, never a map, so lookup order is the declaration order.
// The default table intentionally lists ".pdf" under both "PDF" and "Ebook";
// because "PDF" comes first, ".pdf" always classifies as "PDF". That overlap
// is preserved, documented behavior, surfaced by Overlaps for anyone who
// wants to tighten their own rules file.
package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dropsort/dropsort/internal/errors"
)

// Fallback is the catch-all category for extensions no rule claims.
const Fallback = "Others"

// Rule binds one category directory name to the extensions it claims.
type Rule struct {
	Category   string   `yaml:"category"`
	Extensions []string `yaml:"extensions"`
}

// Ruleset is an ordered list of rules. Order is significant: CategoryFor
// returns the first matching rule's category.
type Ruleset []Rule

// Default returns the built-in extension table.
func Default() Ruleset {
	return Ruleset{
		{Category: "PDF", Extensions: []string{".pdf"}},
		{Category: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp"}},
		{Category: "Video", Extensions: []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm", ".m4v"}},
		{Category: "Audio", Extensions: []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a", ".wma"}},
		{Category: "Documents", Extensions: []string{".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".txt", ".rtf", ".csv", ".odt"}},
		{Category: "Zip", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
		{Category: "Ebook", Extensions: []string{".epub", ".mobi", ".azw", ".azw3", ".pdf"}},
		{Category: "Installers", Extensions: []string{".exe", ".dmg", ".pkg", ".app", ".msi"}},
	}
}

// Load reads a ruleset from a YAML file.
//
// File format:
//
//	- category: PDF
//	  extensions: [".pdf"]
//	- category: Images
//	  extensions: [".jpg", ".png"]
//
// YAML sequences preserve order, so the file order is the match order.
func Load(path string) (Ruleset, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- Rules file path from user config is expected
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, errors.Wrapf(err, errors.CodeValidation, "parse rules file %s", path)
	}

	if err := rs.Validate(); err != nil {
		return nil, err
	}

	return rs, nil
}

// CategoryFor returns the category for a file extension.
//
// Matching is case-insensitive. Extensions no rule claims, including the
// empty string, fall through to Fallback. Total over all inputs, no errors.
func (rs Ruleset) CategoryFor(ext string) string {
	ext = strings.ToLower(ext)
	for _, rule := range rs {
		for _, candidate := range rule.Extensions {
			if candidate == ext {
				return rule.Category
			}
		}
	}
	return Fallback
}

// Categories returns the category names in rule order with Fallback appended.
// Duplicate category names are collapsed to their first occurrence.
func (rs Ruleset) Categories() []string {
	seen := make(map[string]bool, len(rs)+1)
	out := make([]string, 0, len(rs)+1)
	for _, rule := range rs {
		if !seen[rule.Category] {
			seen[rule.Category] = true
			out = append(out, rule.Category)
		}
	}
	if !seen[Fallback] {
		out = append(out, Fallback)
	}
	return out
}

// Validate checks the ruleset for structural problems.
//
// Overlapping extensions across categories are allowed (first-match-wins
// resolves them deterministically) and are not an error here.
func (rs Ruleset) Validate() error {
	if len(rs) == 0 {
		return errors.Validation("ruleset is empty")
	}

	for i, rule := range rs {
		if rule.Category == "" {
			return errors.Validationf("rule %d has an empty category", i)
		}
		if strings.ContainsRune(rule.Category, os.PathSeparator) {
			return errors.Validationf("category %q contains a path separator", rule.Category)
		}
		if len(rule.Extensions) == 0 {
			return errors.Validationf("category %q has no extensions", rule.Category)
		}
		for _, ext := range rule.Extensions {
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				return errors.Validationf("category %q: extension %q must start with a dot", rule.Category, ext)
			}
			if ext != strings.ToLower(ext) {
				return errors.Validationf("category %q: extension %q must be lowercase", rule.Category, ext)
			}
		}
	}

	return nil
}

// Overlaps returns extensions claimed by more than one category, mapped to
// the categories that claim them in rule order. First-match-wins means the
// first category listed is the one that takes effect.
func (rs Ruleset) Overlaps() map[string][]string {
	claims := make(map[string][]string)
	for _, rule := range rs {
		for _, ext := range rule.Extensions {
			claims[ext] = append(claims[ext], rule.Category)
		}
	}

	overlaps := make(map[string][]string)
	for ext, categories := range claims {
		if len(categories) > 1 {
			overlaps[ext] = categories
		}
	}
	return overlaps
}
