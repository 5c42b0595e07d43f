package console

import (
	"strings"

	"github.com/chzyer/readline"
)

const (
	Yes = "y"
	No  = "n"
)

var yesNoConstraints = []string{"y", "n"}

func YesOrNo(question string) (string, error) {
	return Prompt(question, yesNoConstraints...)
}

// Prompt asks until the answer matches one of the constraints. Only an empty
// answer picks the default (the first constraint); anything unmatched asks
// again.
func Prompt(question string, constraints ...string) (string, error) {
	if len(constraints) == 0 {
		rl, err := readline.New(question)
		if err != nil {
			return "", err
		}
		return rl.Readline()
	}
	def := strings.ToUpper(constraints[0])
	var prompt strings.Builder
	prompt.WriteString(question)
	prompt.WriteString(" [")
	prompt.WriteString(def)
	for i := 1; i < len(constraints); i++ {
		prompt.WriteString("/")
		prompt.WriteString(constraints[i])
	}
	prompt.WriteString("]:")
	rl, err := readline.New(prompt.String())
	if err != nil {
		return "", err
	}
	for {
		response, err := rl.Readline()
		if err != nil {
			return "", err
		}
		if answer, ok := match(response, constraints); ok {
			return answer, nil
		}
	}
}

// match resolves an answer against the constraints: empty picks the first
// (the default), anything else must equal a constraint after case folding.
func match(response string, constraints []string) (string, bool) {
	if response == "" {
		return constraints[0], true
	}
	normalized := strings.ToLower(response)
	for _, c := range constraints {
		if normalized == c {
			return normalized, true
		}
	}
	return "", false
}
