package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidToolpath indicates unusable pass geometry
	ErrInvalidToolpath = errors.New("invalid toolpath settings")

	// ErrInvalidFeed indicates a non-positive speed or feed rate
	ErrInvalidFeed = errors.New("invalid feed settings")

	// ErrInvalidDepth indicates inconsistent heights or depths
	ErrInvalidDepth = errors.New("invalid depth settings")

	// ErrInvalidOutput indicates invalid preview or watch settings
	ErrInvalidOutput = errors.New("invalid output settings")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateToolpath(&cfg.Toolpath); err != nil {
		errs = append(errs, err)
	}
	if err := validateMilling(&cfg.Milling); err != nil {
		errs = append(errs, err)
	}
	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateToolpath(cfg *ToolpathConfig) error {
	var errs []error

	if cfg.Passes < 0 {
		errs = append(errs, fmt.Errorf("%w: passes cannot be negative, got %d", ErrInvalidToolpath, cfg.Passes))
	}
	if cfg.Offset < 0 {
		errs = append(errs, fmt.Errorf("%w: offset cannot be negative, got %g", ErrInvalidToolpath, cfg.Offset))
	}
	if cfg.Passes >= 2 && cfg.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("%w: spacing must be positive with %d passes, got %g", ErrInvalidToolpath, cfg.Passes, cfg.Spacing))
	}
	if cfg.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("%w: resolution must be positive, got %g", ErrInvalidToolpath, cfg.Resolution))
	}
	if cfg.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("%w: tolerance cannot be negative, got %g", ErrInvalidToolpath, cfg.Tolerance))
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidToolpath, cfg.Workers))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateMilling(cfg *MillingConfig) error {
	var errs []error

	if cfg.SpindleSpeed <= 0 {
		errs = append(errs, fmt.Errorf("%w: spindle_speed must be positive, got %d", ErrInvalidFeed, cfg.SpindleSpeed))
	}
	if cfg.FeedRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: feed_rate must be positive, got %d", ErrInvalidFeed, cfg.FeedRate))
	}
	if cfg.PlungeFeedRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: plunge_feed_rate must be positive, got %d", ErrInvalidFeed, cfg.PlungeFeedRate))
	}

	// Positive cut depths are corrected by the generator, not rejected.
	if cfg.SafeHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: safe_height must be above the work, got %g", ErrInvalidDepth, cfg.SafeHeight))
	}
	if cfg.HoleDepth >= cfg.HoleStart {
		errs = append(errs, fmt.Errorf("%w: hole_depth (%g) must be below hole_start (%g)", ErrInvalidDepth, cfg.HoleDepth, cfg.HoleStart))
	}
	if cfg.LargeHoleThreshold <= 0 {
		errs = append(errs, fmt.Errorf("%w: large_hole_threshold must be positive, got %g", ErrInvalidDepth, cfg.LargeHoleThreshold))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateOutput(cfg *OutputConfig) error {
	var errs []error

	if cfg.PreviewScale <= 0 {
		errs = append(errs, fmt.Errorf("%w: preview_scale must be positive, got %g", ErrInvalidOutput, cfg.PreviewScale))
	}
	if cfg.PreviewMaxSize < 0 {
		errs = append(errs, fmt.Errorf("%w: preview_max_size cannot be negative, got %d", ErrInvalidOutput, cfg.PreviewMaxSize))
	}
	if cfg.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidOutput, cfg.DebounceMS))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear
// formatting. errors.Is still sees every sentinel.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return &validationError{msg: "validation failed:\n  - " + strings.Join(msgs, "\n  - "), errs: errs}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }
