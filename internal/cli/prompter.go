package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrNonInteractive is returned when a prompt is needed in non-interactive mode.
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// Prompter asks the user for form values. current is preselected.
type Prompter interface {
	Select(title string, options []string, current string) (string, error)
	Input(title string, current string) (string, error)
}

// HuhPrompter implements Prompter with charmbracelet/huh.
type HuhPrompter struct{}

func (p *HuhPrompter) Select(title string, options []string, current string) (string, error) {
	result := current
	opts := make([]huh.Option[string], len(options))
	for i, opt := range options {
		opts[i] = huh.NewOption(opt, opt)
	}
	err := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&result).
		Run()
	return result, err
}

func (p *HuhPrompter) Input(title string, current string) (string, error) {
	result := current
	err := huh.NewInput().
		Title(title).
		Value(&result).
		Run()
	return result, err
}

// NoopPrompter fails every prompt.
type NoopPrompter struct{}

func (p *NoopPrompter) Select(string, []string, string) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Input(string, string) (string, error) {
	return "", ErrNonInteractive
}
