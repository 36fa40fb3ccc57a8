package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// webpCommands lists the encoders tried in order to turn a PNG into WebP.
func webpCommands(input, output string, quality int) [][]string {
	q := strconv.Itoa(quality)
	return [][]string{
		{"cwebp", "-quiet", "-q", q, input, "-o", output},
		{"ffmpeg", "-y", "-loglevel", "error", "-i", input, "-c:v", "libwebp", "-quality", q, output},
	}
}

// convertToWebP encodes input as WebP at output using the first available
// encoder.
func convertToWebP(ctx context.Context, input, output string, quality int) error {
	if input == "" {
		return errors.New("empty input image path")
	}
	var errs []error
	for _, args := range webpCommands(input, output, quality) {
		if _, err := exec.LookPath(args[0]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", args[0], err))
			continue
		}
		cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // fixed encoder binaries
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", args[0], err))
			continue
		}
		return nil
	}
	return fmt.Errorf("webp conversion failed: %w", errors.Join(errs...))
}
