package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseArgs(t *testing.T) []string {
	t.Helper()
	return []string{
		"-config", filepath.Join(t.TempDir(), "absent.json"),
		"-depth", "1",
		"-ai-delay", "0s",
		"-log-level", "error",
	}
}

func TestRunHumanVsAI(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), append(baseArgs(t), "-coords=false"), strings.NewReader("7 7\nq\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "X to move")
	assert.Contains(t, out.String(), "O plays")
}

func TestRunAIVsAIWritesTrace(t *testing.T) {
	dot := filepath.Join(t.TempDir(), "search.dot")
	var out bytes.Buffer
	err := run(context.Background(), append(baseArgs(t), "-mode", "ai_vs_ai", "-trace", dot), strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Game over")

	data, err := os.ReadFile(dot)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
}

func TestRunRejectsUnknownMode(t *testing.T) {
	err := run(context.Background(), append(baseArgs(t), "-mode", "blitz"), strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	args := []string{"-config", filepath.Join(t.TempDir(), "absent.json"), "-log-level", ""}
	err := run(context.Background(), args, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
