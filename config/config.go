// Package config loads the settings of an evaluation run from defaults, a
// YAML file and CROSSVAL_* environment variables, in increasing priority.
package config

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/crossval/crossval"
	"github.com/YuminosukeSato/crossval/pkg/errors"
	"github.com/YuminosukeSato/crossval/pkg/log"
)

// Environment variables read by Load.
const (
	EnvScheme      = "CROSSVAL_SCHEME"
	EnvP           = "CROSSVAL_P"
	EnvK           = "CROSSVAL_K"
	EnvSeed        = "CROSSVAL_SEED"
	EnvLogLevel    = "CROSSVAL_LOG_LEVEL"
	EnvLogFormat   = "CROSSVAL_LOG_FORMAT"
	EnvHeatmapPath = "CROSSVAL_HEATMAP_PATH"
)

// EvaluationConfig selects the validation scheme and the ambient settings of a run.
type EvaluationConfig struct {
	// Scheme is one of "loo", "lpo" or "kfold".
	Scheme string `yaml:"scheme" validate:"required,oneof=loo lpo kfold"`

	// P is the number of held-out samples for "lpo".
	P int `yaml:"p" validate:"gte=0,required_if=Scheme lpo"`

	// K is the number of folds for "kfold".
	K int `yaml:"k" validate:"gte=0,required_if=Scheme kfold"`

	// Seed makes k-fold partitions reproducible. Nil means a random seed.
	Seed *uint64 `yaml:"seed,omitempty"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat is "console" (zerolog, human readable) or "json" (slog, Cloud Logging).
	LogFormat string `yaml:"log_format" validate:"oneof=console json"`

	Report ReportConfig `yaml:"report"`
}

// ReportConfig controls the rendering of the confusion matrix.
type ReportConfig struct {
	// HeatmapPath is where the heat map is written; empty disables it.
	// The extension selects the format (.png, .svg, .pdf, ...).
	HeatmapPath string  `yaml:"heatmap_path"`
	Title       string  `yaml:"title"`
	WidthCm     float64 `yaml:"width_cm" validate:"gt=0"`
	HeightCm    float64 `yaml:"height_cm" validate:"gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns a 5-fold configuration.
func Default() EvaluationConfig {
	return EvaluationConfig{
		Scheme:    log.SchemeKFold,
		K:         5,
		LogLevel:  "info",
		LogFormat: "console",
		Report: ReportConfig{
			Title:    "Confusion matrix",
			WidthCm:  12,
			HeightCm: 10,
		},
	}
}

// Load returns Default overridden by the YAML file at path (skipped when
// path is empty or the file does not exist) and then by the environment.
func Load(path string) (EvaluationConfig, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "load config file %s", path)
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *EvaluationConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WithStack(err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "parse yaml")
	}
	return nil
}

func loadEnv(cfg *EvaluationConfig) error {
	if v := os.Getenv(EnvScheme); v != "" {
		cfg.Scheme = strings.ToLower(v)
	}
	if v := os.Getenv(EnvP); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewValidationError(EnvP, "must be an integer", v)
		}
		cfg.P = i
	}
	if v := os.Getenv(EnvK); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewValidationError(EnvK, "must be an integer", v)
		}
		cfg.K = i
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.NewValidationError(EnvSeed, "must be an unsigned integer", v)
		}
		cfg.Seed = &seed
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv(EnvHeatmapPath); v != "" {
		cfg.Report.HeatmapPath = v
	}
	return nil
}

// Validate checks the struct tags. The first violation is returned as a
// *errors.ValidationError naming the YAML field.
func (c EvaluationConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errors.NewValidationError(fieldName(fe.Namespace()), ruleText(fe), fe.Value())
	}
	return errors.WithStack(err)
}

func fieldName(namespace string) string {
	// "EvaluationConfig.Report.WidthCm" -> "report.width_cm"
	parts := strings.Split(namespace, ".")[1:]
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ruleText(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required_if":
		return fmt.Sprintf("must be at least 1 when scheme is %q", strings.Fields(fe.Param())[1])
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed %q %s", fe.Tag(), fe.Param())
	}
}

// Splitter returns the splitter of the configured scheme.
func (c EvaluationConfig) Splitter() crossval.Splitter {
	switch c.Scheme {
	case log.SchemeLeaveOneOut:
		return crossval.LeavePOutSplitter{P: 1}
	case log.SchemeLeavePOut:
		return crossval.LeavePOutSplitter{P: c.P}
	default:
		return crossval.KFoldSplitter{K: c.K, Rand: c.Rand()}
	}
}

// Rand returns a seeded PCG generator, or nil when no seed is configured.
func (c EvaluationConfig) Rand() *rand.Rand {
	if c.Seed == nil {
		return nil
	}
	return crossval.NewSeededRand(*c.Seed)
}

// Level returns the parsed log level.
func (c EvaluationConfig) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.LevelInfo
	}
	return l
}

// SetupLogging installs the process-wide logger described by LogFormat and
// LogLevel, writing to w. The console format also routes errors.Warn through
// zerolog.
func (c EvaluationConfig) SetupLogging(w io.Writer) error {
	switch c.LogFormat {
	case "json":
		return log.SetupLogger(w, c.LogLevel)
	case "console", "":
		zl := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
			Level(log.ZerologLevel(c.Level())).
			With().Timestamp().Logger()
		log.SetLogger(log.NewZerologLogger(zl))
		log.InstallZerologWarnings(zl)
		return nil
	default:
		return errors.NewValidationError("log_format", "must be console or json", c.LogFormat)
	}
}
