package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRubricFlagOverridesConfig(t *testing.T) {
	require.NoError(t, rootCmd.PersistentFlags().Set("rubric", "custom-rubric.yaml"))
	t.Cleanup(func() {
		rubricPath = ""
	})

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	assert.Equal(t, "custom-rubric.yaml", cfg.Scoring.RubricPath)
}

func TestRootNoRubricFlagKeepsConfigPath(t *testing.T) {
	rubricPath = ""

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	assert.Empty(t, cfg.Scoring.RubricPath)
}
