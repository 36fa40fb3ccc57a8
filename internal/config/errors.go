package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoInput is returned when no templates file is configured.
	ErrNoInput = errors.New("no input file specified")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidViewport is returned when width or height is not positive.
	ErrInvalidViewport = errors.New("invalid viewport: width and height must be positive")

	// ErrUnsupportedFormat is returned for an image format other than png, jpeg or webp.
	ErrUnsupportedFormat = errors.New("unsupported format (supported: png, jpeg, webp)")

	// ErrInvalidQuality is returned when quality is outside 1..100.
	ErrInvalidQuality = errors.New("invalid quality: must be between 1 and 100")

	// ErrInvalidTimeout is returned when a wait budget is negative or a
	// navigation timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: navigation must be positive, waits non-negative")

	// ErrNoTargetSite is returned when the demo base or search endpoint is empty.
	ErrNoTargetSite = errors.New("demo base URL and search endpoint are required")
)
