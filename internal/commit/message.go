package commit

import "strings"

// Fallback is printed whenever a message could not be generated.
const Fallback = "docs: sync rule indices (AI generation failed)"

// NoChanges is printed when the staged diff is blank.
const NoChanges = "No staged changes."

const fence = "```"

// Sanitize removes every code-fence marker from raw model output and trims
// surrounding whitespace.
func Sanitize(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, fence, ""))
}

// OrFallback returns msg, or Fallback when msg is blank.
func OrFallback(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return Fallback
	}
	return msg
}
