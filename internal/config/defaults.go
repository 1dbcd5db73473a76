package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry is a single configuration key with its default value.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every configuration key with its default.
// The manager registers these with viper so environment overrides apply.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// ===================
		// Paths
		// ===================
		{
			Key:         "paths.lesson_plan",
			Value:       d.Paths.LessonPlan,
			Description: "Lesson plan CSV (week, date, topic, reference, chapter, page_start, page_end)",
		},
		{
			Key:         "paths.sources",
			Value:       d.Paths.Sources,
			Description: "Directory containing the source PDFs",
		},
		{
			Key:         "paths.output",
			Value:       d.Paths.Output,
			Description: "Path of the assembled textbook PDF",
		},
		{
			Key:         "paths.bibliography",
			Value:       d.Paths.Bibliography,
			Description: "BibTeX file with an entry per reference (empty to skip citations)",
		},
		{
			Key:         "paths.references",
			Value:       d.Paths.References,
			Description: "YAML map of reference key to PDF filename; a trailing ... matches a filename prefix",
		},

		// ===================
		// Cover sheets
		// ===================
		{
			Key:         "cover.page_size",
			Value:       d.Cover.PageSize,
			Description: "Cover sheet page size (Letter, Legal, Tabloid, A3, A4, A5)",
		},
		{
			Key:         "cover.font",
			Value:       d.Cover.Font,
			Description: "Cover sheet font family (Times, Helvetica, Courier)",
		},
		{
			Key:         "cover.title_format",
			Value:       d.Cover.TitleFormat,
			Description: "Cover sheet title; %d is replaced with the week number",
		},

		// ===================
		// Logging
		// ===================
		{
			Key:         "log.level",
			Value:       d.Log.Level,
			Description: "Log level (debug, info, warn, error)",
		},
	}
}

// GetDefault returns the default entry for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	// Don't allow keys starting or ending with dots
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
