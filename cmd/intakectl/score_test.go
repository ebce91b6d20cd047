package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiringdesk/resume-intake/internal/scoring"
)

type fixedParser struct{ text string }

func (p fixedParser) ExtractText(string) (string, error) { return p.text, nil }

func (p fixedParser) ExtractTextFromBytes([]byte) (string, error) { return p.text, nil }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScoreFiles_Table(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "cv.txt", "Sales executive with 3 years experience using Salesforce CRM to grow client revenue and close leads.")
	pdf := writeFile(t, dir, "cv.pdf", "%PDF")

	var out bytes.Buffer
	err := scoreFiles(&out, fixedParser{text: "nothing relevant"}, []string{txt, pdf}, false)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "AUTO-HIRE")
	assert.Contains(t, lines[1], "60")
	assert.Contains(t, lines[1], "MAYBE")
	assert.Contains(t, lines[2], "REJECT")
}

func TestScoreFiles_JSON(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "cv.txt", "")

	var out bytes.Buffer
	require.NoError(t, scoreFiles(&out, fixedParser{}, []string{txt}, true))

	var got scoredFile
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, txt, got.File)
	assert.Equal(t, 0, got.Result.Score)
	assert.Equal(t, scoring.VerdictReject, got.AutoHire.Verdict)
}

func TestScoreFiles_MissingFile(t *testing.T) {
	err := scoreFiles(&bytes.Buffer{}, fixedParser{}, []string{filepath.Join(t.TempDir(), "missing.txt")}, false)
	assert.Error(t, err)
}
