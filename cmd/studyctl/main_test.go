package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyflow-backend/internal/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlanCmd_JSON(t *testing.T) {
	out, err := run(t, "plan", "--json")
	require.NoError(t, err)

	var overview models.PlanOverview
	require.NoError(t, json.Unmarshal([]byte(out), &overview))
	assert.Equal(t, 47, overview.ProgressPercent)
	assert.Equal(t, 4, overview.SubjectCount)
}

func TestPlanCmd_Render(t *testing.T) {
	out, err := run(t, "plan")
	require.NoError(t, err)

	assert.Contains(t, out, "47% Complete")
	assert.Contains(t, out, "Priority Focus")
	assert.Contains(t, out, "Extra practice needed")
}

func TestCompleteCmd(t *testing.T) {
	out, err := run(t, "complete", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "completed 2 (Computer Science, 45 min)")
	assert.Contains(t, out, "52% Complete")

	_, err = run(t, "complete", "1")
	assert.Error(t, err)
}

func TestNotesProcessCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genetics.txt")
	require.NoError(t, os.WriteFile(path, []byte("genes encode proteins"), 0o600))

	out, err := run(t, "notes", "process", path)
	require.NoError(t, err)
	assert.Contains(t, out, "key concepts in genetics")
	assert.Contains(t, out, "3 words")
	assert.Contains(t, out, "Flashcards (3)")
	assert.Contains(t, out, "Quiz (2)")
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, 0, bytes.Count([]byte(progressBar(0)), []byte("█")))
	assert.Equal(t, 9, bytes.Count([]byte(progressBar(47)), []byte("█")))
	assert.Equal(t, 20, bytes.Count([]byte(progressBar(100)), []byte("█")))
}
