package rules

import (
	"os"

	"go.uber.org/zap"
)

// DefaultPath is the rules file looked up relative to the working directory.
const DefaultPath = "Git-Commit-Message-rules.md"

// Default is used when no rules file is available.
const Default = `
STRICT FORMATTING RULES:
1. Header: type(scope): title
   - "type" must be one of: feat, fix, docs, style, refactor, test, chore
   - "scope" is optional but recommended
   - "title" must be < 50 chars, IMPERATIVE mood (e.g., "add" not "added"), NO trailing period.

2. Body:
   - Must generally be separated from header by a blank line.
   - Use BULLET POINTS (-) for all details.
   - Wrap text at 72 characters.
   - Explain WHAT changed and WHY.
   - Do NOT repeat the title.

3. NO Markdown formatting (no bold/italics/backticks).
`

// Load returns the contents of the rules file at path verbatim, or Default
// when the file is missing or unreadable. It never fails.
func Load(log *zap.Logger, path string) string {
	if log == nil {
		log = zap.NewNop()
	}
	if path == "" {
		path = DefaultPath
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		log.Debug("Rules file not found, using built-in rules", zap.String("path", path))
		return Default
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug("Rules file unreadable, using built-in rules", zap.String("path", path), zap.Error(err))
		return Default
	}

	log.Debug("Loaded rules file", zap.String("path", path), zap.Int("bytes", len(data)))
	return string(data)
}
