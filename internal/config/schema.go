package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jackzampolin/coursepack/internal/materials"
)

// ErrInvalidLogLevel is returned for log levels slog does not know.
var ErrInvalidLogLevel = errors.New("invalid log level")

// Config holds coursepack configuration.
// Stored at: ./config.yaml, ./materials/config.yaml or ~/.coursepack/config.yaml
type Config struct {
	Paths PathsCfg `mapstructure:"paths" yaml:"paths" json:"paths"`
	Cover CoverCfg `mapstructure:"cover" yaml:"cover" json:"cover"`
	Log   LogCfg   `mapstructure:"log" yaml:"log" json:"log"`
}

// PathsCfg locates the course inputs and the assembled textbook.
// Paths support ${ENV_VAR} references.
type PathsCfg struct {
	LessonPlan   string `mapstructure:"lesson_plan" yaml:"lesson_plan" json:"lesson_plan"`
	Sources      string `mapstructure:"sources" yaml:"sources" json:"sources"`
	Output       string `mapstructure:"output" yaml:"output" json:"output"`
	Bibliography string `mapstructure:"bibliography" yaml:"bibliography" json:"bibliography"`
	References   string `mapstructure:"references" yaml:"references" json:"references"`
}

// CoverCfg configures weekly cover sheets.
type CoverCfg struct {
	PageSize    string `mapstructure:"page_size" yaml:"page_size" json:"page_size"`          // Letter, A4, ...
	Font        string `mapstructure:"font" yaml:"font" json:"font"`                         // Times, Helvetica, Courier
	TitleFormat string `mapstructure:"title_format" yaml:"title_format" json:"title_format"` // must contain %d for the week number
}

// LogCfg configures logging.
type LogCfg struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"` // debug, info, warn, error
}

// DefaultConfig returns configuration with the conventional materials layout.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsFor(materials.New(materials.DefaultDirName)),
		Cover: CoverCfg{
			PageSize:    "Letter",
			Font:        "Times",
			TitleFormat: "Readings for Week %d",
		},
		Log: LogCfg{
			Level: "info",
		},
	}
}

// PathsFor returns the paths of the conventional layout under dir.
func PathsFor(dir *materials.Dir) PathsCfg {
	return PathsCfg{
		LessonPlan:   dir.LessonPlanPath(),
		Sources:      dir.SourcesDir(),
		Output:       dir.OutputPath(),
		Bibliography: dir.BibliographyPath(),
		References:   dir.ReferencesPath(),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Paths.Validate(); err != nil {
		return fmt.Errorf("paths: %w", err)
	}
	if err := c.Cover.Validate(); err != nil {
		return fmt.Errorf("cover: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

var pdfPath = regexp.MustCompile(`(?i)\.pdf$`)

// Validate validates the paths configuration. Bibliography and references
// may be empty to skip those stages.
func (c *PathsCfg) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LessonPlan, validation.Required),
		validation.Field(&c.Sources, validation.Required),
		validation.Field(&c.Output, validation.Required, validation.Match(pdfPath).Error("must be a .pdf file")),
	)
}

// Validate validates the cover sheet configuration.
func (c *CoverCfg) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PageSize, validation.Required, validation.By(oneOfFold("Letter", "Legal", "Tabloid", "A3", "A4", "A5"))),
		validation.Field(&c.Font, validation.Required, validation.By(oneOfFold("Times", "Helvetica", "Arial", "Courier"))),
		validation.Field(&c.TitleFormat, validation.Required, validation.By(weekVerb)),
	)
}

// Validate validates the logging configuration.
func (c *LogCfg) Validate() error {
	_, err := ParseLevel(c.Level)
	return err
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
}

func oneOfFold(allowed ...string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		for _, a := range allowed {
			if strings.EqualFold(s, a) {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}

func weekVerb(value any) error {
	s, _ := value.(string)
	if strings.Count(s, "%d") != 1 || strings.Count(s, "%") != 1 {
		return errors.New("must contain exactly one %d for the week number")
	}
	return nil
}
