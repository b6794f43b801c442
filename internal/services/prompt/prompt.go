// Package prompt answers aggregator overwrite conflicts, either interactively or from a fixed policy.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/temirov/barrel/internal/barrel"
	"github.com/temirov/barrel/internal/types"
)

// Policy selects how conflicts are answered.
type Policy string

const (
	// PolicyPrompt asks the user on the terminal.
	PolicyPrompt Policy = "prompt"
	// PolicyOverwrite replaces every existing aggregator.
	PolicyOverwrite Policy = "overwrite"
	// PolicySkip keeps every existing aggregator and its subtree.
	PolicySkip Policy = "skip"

	accessibleEnvironmentVariable = "ACCESSIBLE"

	errorUnsupportedPolicyFormat = "unsupported conflict policy %q (expected prompt, overwrite, or skip)"
	errorPromptFormat            = "prompt failed: %w"
)

// ErrAborted is returned when the user cancels the conflict prompt.
var ErrAborted = errors.New("conflict prompt aborted")

// isTerminal reports whether the file descriptor is attached to a terminal.
var isTerminal = func(fileDescriptor uintptr) bool {
	return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
}

// ParsePolicy converts a configuration or flag value into a Policy. An empty value means PolicyPrompt.
func ParsePolicy(value string) (Policy, error) {
	normalized := Policy(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return PolicyPrompt, nil
	case PolicyPrompt, PolicyOverwrite, PolicySkip:
		return normalized, nil
	default:
		return "", fmt.Errorf(errorUnsupportedPolicyFormat, value)
	}
}

// NewPrompter returns the prompter for policy together with the policy actually in effect.
// PolicyPrompt degrades to PolicySkip when input is not a terminal, so unattended runs never overwrite.
func NewPrompter(policy Policy, input *os.File, output io.Writer) (barrel.Prompter, Policy) {
	switch policy {
	case PolicyOverwrite:
		return NewFixedPrompter(types.DecisionOverwrite), PolicyOverwrite
	case PolicySkip:
		return NewFixedPrompter(types.DecisionSkip), PolicySkip
	}
	if input == nil || !isTerminal(input.Fd()) {
		return NewFixedPrompter(types.DecisionSkip), PolicySkip
	}
	return NewTerminalPrompter(input, output), PolicyPrompt
}

// FixedPrompter answers every conflict with the same decision.
type FixedPrompter struct {
	decision types.Decision
}

// NewFixedPrompter constructs a FixedPrompter.
func NewFixedPrompter(decision types.Decision) *FixedPrompter {
	return &FixedPrompter{decision: decision}
}

// Choose returns the configured decision unless ctx is already done.
func (prompter *FixedPrompter) Choose(ctx context.Context, _ string, _ []types.Decision) (types.Decision, error) {
	if contextError := ctx.Err(); contextError != nil {
		return "", contextError
	}
	return prompter.decision, nil
}

// TerminalPrompter renders a select list with huh and waits for the user.
type TerminalPrompter struct {
	input      io.Reader
	output     io.Writer
	accessible bool
}

// NewTerminalPrompter constructs a TerminalPrompter reading from input and drawing on output.
// Accessible mode is enabled when the ACCESSIBLE environment variable is set.
func NewTerminalPrompter(input io.Reader, output io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		input:      input,
		output:     output,
		accessible: os.Getenv(accessibleEnvironmentVariable) != "",
	}
}

// Choose shows message with one entry per option and returns the selected one.
func (prompter *TerminalPrompter) Choose(ctx context.Context, message string, options []types.Decision) (types.Decision, error) {
	var selected string

	huhOptions := make([]huh.Option[string], len(options))
	for optionIndex, option := range options {
		huhOptions[optionIndex] = huh.NewOption(string(option), string(option))
	}

	selection := huh.NewSelect[string]().
		Title(message).
		Options(huhOptions...).
		Value(&selected)

	form := huh.NewForm(huh.NewGroup(selection)).
		WithInput(prompter.input).
		WithOutput(prompter.output).
		WithAccessible(prompter.accessible)

	if runError := form.RunWithContext(ctx); runError != nil {
		if errors.Is(runError, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", fmt.Errorf(errorPromptFormat, runError)
	}
	return types.Decision(selected), nil
}

var (
	_ barrel.Prompter = (*FixedPrompter)(nil)
	_ barrel.Prompter = (*TerminalPrompter)(nil)
)
