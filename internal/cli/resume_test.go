package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiforge/wikiforge/internal/config"
)

func TestResumeCmd_Registered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"resume"})
	require.NoError(t, err)
	assert.Equal(t, "resume <document-id>", cmd.Use)
}

func TestResumeCmd_RequiresIDArg(t *testing.T) {
	resetRootCmd(t)
	rootCmd.SetArgs([]string{"resume"})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	assert.Error(t, rootCmd.Execute())
}

func TestResumeCmd_UnknownID(t *testing.T) {
	resetRootCmd(t)
	dir := t.TempDir()

	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	rootCmd.SetArgs([]string{"--dir", dir, "resume", "does-not-exist"})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	assert.Error(t, rootCmd.Execute())
}

func TestDocumentStateDirPath(t *testing.T) {
	cfg := config.Defaults()
	cfg.Output.Directory = "output"
	assert.Equal(t, "output/.state", documentStateDir(cfg))
}
