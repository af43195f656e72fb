package cli

import (
	"github.com/AlecAivazis/survey/v2"
)

// selectTheme prompts for one of names. Replaced in tests.
var selectTheme = func(names []string, current string) (string, error) {
	prompt := &survey.Select{
		Message: "Theme",
		Options: names,
		Default: current,
	}
	var out string
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", err
	}
	return out, nil
}
