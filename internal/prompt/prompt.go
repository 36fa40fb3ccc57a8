// Package prompt asks the operator the startup questions of a capture run.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"templateshot/internal/config"
)

// Prompter reads answers line by line from an input stream.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// New returns a Prompter reading from r and writing questions to w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// Ask prints question and returns the trimmed answer. End of input counts
// as a blank answer.
func (p *Prompter) Ask(question string) (string, error) {
	if _, err := fmt.Fprint(p.w, question); err != nil {
		return "", err
	}
	line, err := p.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.w)
	}
	return strings.TrimSpace(line), nil
}

// Int asks for a positive integer. Blank, invalid or non-positive answers
// yield def.
func (p *Prompter) Int(question string, def int) (int, error) {
	answer, err := p.Ask(question)
	if err != nil {
		return def, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n <= 0 {
		return def, nil
	}
	return n, nil
}

// Format asks for an image format. Unknown answers yield def.
func (p *Prompter) Format(question string, def config.Format) (config.Format, error) {
	answer, err := p.Ask(question)
	if err != nil {
		return def, err
	}
	if answer == "" {
		return def, nil
	}
	format, err := config.ParseFormat(answer)
	if err != nil {
		return def, nil
	}
	return format, nil
}

// YesNo asks a yes/no question.
func (p *Prompter) YesNo(question string, def bool) (bool, error) {
	answer, err := p.Ask(question)
	if err != nil {
		return def, err
	}
	return ParseYesNo(answer, def), nil
}

// WaitForEnter prints msg and blocks until a line (or end of input) is read.
func (p *Prompter) WaitForEnter(msg string) error {
	_, err := p.Ask(msg)
	return err
}

// ParseYesNo maps y/yes/true/1 to true and n/no/false/0 to false,
// case-insensitively. Anything else yields def.
func ParseYesNo(value string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "true", "1":
		return true
	case "n", "no", "false", "0":
		return false
	default:
		return def
	}
}

// Setup asks the capture questions and stores the answers in cfg:
// width, height, format and whether the template panel stays open.
func Setup(p *Prompter, cfg *config.Config) error {
	var err error
	if cfg.Width, err = p.Int(fmt.Sprintf("Screenshot width (default %d): ", cfg.Width), cfg.Width); err != nil {
		return err
	}
	if cfg.Height, err = p.Int(fmt.Sprintf("Screenshot height (default %d): ", cfg.Height), cfg.Height); err != nil {
		return err
	}
	if cfg.Format, err = p.Format(fmt.Sprintf("Screenshot format (png/jpeg/webp, default %s): ", cfg.Format), cfg.Format); err != nil {
		return err
	}
	hint := "Y/n"
	if !cfg.KeepPanelOpen {
		hint = "y/N"
	}
	if cfg.KeepPanelOpen, err = p.YesNo(fmt.Sprintf("Keep template panel open? (%s): ", hint), cfg.KeepPanelOpen); err != nil {
		return err
	}
	return nil
}
