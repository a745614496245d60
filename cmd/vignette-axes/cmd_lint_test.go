package main

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/testutils"
)

func TestLintCommand(t *testing.T) {
	dir := t.TempDir()
	clean := writeFixture(t, dir, "clean.json", testutils.ProjectDefinition())
	fallback := writeFixture(t, dir, "fallback.json", testutils.UnrubricatedDefinition())

	t.Run("clean definition", func(t *testing.T) {
		out, err := runCommand(t, "lint", "-d", clean, "--strict")
		require.NoError(t, err)
		assert.Equal(t, "no warnings\n", out)
	})

	t.Run("json output", func(t *testing.T) {
		out, err := runCommand(t, "lint", "-d", fallback, "-f", "json")
		require.NoError(t, err)

		var warnings []domain.Warning
		require.NoError(t, json.Unmarshal([]byte(out), &warnings))
		require.Len(t, warnings, 1)
		assert.Equal(t, domain.WarningDirectionFallback, warnings[0].Code)
	})

	t.Run("strict fails on warnings", func(t *testing.T) {
		out, err := runCommand(t, "lint", "-d", fallback, "--strict")
		require.Error(t, err)
		assert.Contains(t, out, "direction_fallback")

		var lintErr *LintFailureError
		require.True(t, errors.As(err, &lintErr))
		assert.Equal(t, 1, lintErr.Count)
	})

	t.Run("unknown placeholder suggestion", func(t *testing.T) {
		c := testutils.ProjectDefinition()
		c.Template += "\nConsider [Achievment] too."
		typo := writeFixture(t, dir, "typo.json", c)

		out, err := runCommand(t, "lint", "-d", typo)
		require.NoError(t, err)
		assert.Contains(t, out, "unknown_placeholder")
		assert.Contains(t, out, `did you mean "Achievement"?`)
	})
}
