package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitEmbedsRulesAndDiff(t *testing.T) {
	rules := "1. Header: type(scope): title\n2. No markdown."
	diff := "diff --git a/x.go b/x.go\n+added line\n-removed line\n"

	got := Commit(rules, diff)

	assert.Contains(t, got, rules)
	assert.Contains(t, got, diff)
	assert.Contains(t, got, "Release Manager")
	assert.Contains(t, got, "Output ONLY the raw commit message")
}

func TestCommitFramesDiffInCodeBlock(t *testing.T) {
	got := Commit("rules", "+x")

	start := strings.Index(got, "CHANGES TO COMMIT:\n```\n")
	assert.NotEqual(t, -1, start)
	assert.Contains(t, got[start:], "+x\n```")
	assert.Less(t, strings.Index(got, "rules"), start)
}

func TestCommitIsDeterministic(t *testing.T) {
	assert.Equal(t, Commit("r", "d"), Commit("r", "d"))
}
