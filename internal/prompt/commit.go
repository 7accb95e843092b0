package prompt

import "fmt"

// Commit builds the prompt sent to the model for commit generation.
func Commit(rules, diff string) string {
	return fmt.Sprintf(`You are a strict Release Manager. Write a git commit message.

RULES (Adhere strictly):
%s

CHANGES TO COMMIT:
`+"```"+`
%s
`+"```"+`

Output ONLY the raw commit message. No code blocks.
`, rules, diff)
}
