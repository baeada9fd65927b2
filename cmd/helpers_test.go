package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/tqa/internal/session"
	"github.com/dotcommander/tqa/internal/types"
)

type cliResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// runCLI executes tqa with args from a fresh temporary working directory
// and with every flag back at its default.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	require.NotEmpty(t, args)

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	oldExit, oldErr := exitFunc, errWriter
	res := cliResult{}
	exitFunc = func(code int) {
		if res.exitCode == 0 {
			res.exitCode = code
		}
	}
	errWriter = &stderr
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer func() {
		exitFunc, errWriter = oldExit, oldErr
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := rootCmd.Execute(); err != nil && res.exitCode == 0 {
		res.exitCode = 1
	}
	res.stdout = stdout.String()
	res.stderr = stderr.String()
	return res
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

// chdirTemp moves into a fresh directory so no .tqarc file is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return dir
}

// writeSession saves a session with one segment per target text.
func writeSession(t *testing.T, path string, targets ...string) *session.Session {
	t.Helper()
	segs := make([]types.Segment, len(targets))
	for i, tgt := range targets {
		segs[i] = types.Segment{ID: i + 1, SourceText: "source", TargetText: tgt, SourceLang: "en", TargetLang: "fi"}
	}
	s := session.New(segs, "en", "fi")
	require.NoError(t, s.Save(path))
	return s
}

// failingSessionFile writes a three-word session with one critical error.
func failingSessionFile(t *testing.T, path string) {
	t.Helper()
	s := writeSession(t, path, "Kissa istui matolla.")
	require.NoError(t, s.AddAnnotation(1, types.Annotation{ErrorType: "Numerical Error", Span: "matolla"}))
	require.NoError(t, s.Save(path))
}
