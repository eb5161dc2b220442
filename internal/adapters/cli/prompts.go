package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

// Ensure Prompts implements usecases.UserPrompter.
var _ usecases.UserPrompter = (*Prompts)(nil)

// Prompts provides interactive CLI prompts for discover/create scaffolding
// commands, reading from the given reader (typically os.Stdin).
type Prompts struct {
	reader *bufio.Reader
}

// NewPrompts creates a new Prompts instance reading from reader.
func NewPrompts(reader *bufio.Reader) *Prompts {
	return &Prompts{reader: reader}
}

// PromptString displays a prompt and returns the user's input,
// defaultValue on empty input.
func (p *Prompts) PromptString(prompt string, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	input, err := p.reader.ReadString('\n')
	if err != nil {
		return defaultValue, nil
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue, nil
	}
	return input, nil
}

// PromptBool displays a yes/no prompt, defaultValue on empty input.
func (p *Prompts) PromptBool(prompt string, defaultValue bool) (bool, error) {
	defaultStr := "n"
	if defaultValue {
		defaultStr = "y"
	}

	fmt.Printf("%s [%s/n]: ", prompt, defaultStr)
	input, err := p.reader.ReadString('\n')
	if err != nil {
		return defaultValue, nil
	}

	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return defaultValue, nil
	}

	return input == "y" || input == "yes", nil
}

// PromptSelect displays a prompt with a fixed option set and returns the
// selected option, or defaultValue if the input is blank or invalid.
func (p *Prompts) PromptSelect(prompt string, options []string, defaultValue string) (string, error) {
	if len(options) == 0 {
		return defaultValue, nil
	}
	if len(options) == 1 {
		return options[0], nil
	}

	fmt.Printf("%s\n", prompt)
	for i, opt := range options {
		fmt.Printf("  %d) %s\n", i+1, opt)
	}
	fmt.Printf("Select (1-%d) [%s]: ", len(options), defaultValue)

	input, err := p.reader.ReadString('\n')
	if err != nil {
		return defaultValue, nil
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue, nil
	}

	var idx int
	if _, err := fmt.Sscanf(input, "%d", &idx); err != nil || idx < 1 || idx > len(options) {
		return defaultValue, nil
	}

	return options[idx-1], nil
}
