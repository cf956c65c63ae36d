package fixer_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/railwayapp/includecase/internal/checker"
	"github.com/railwayapp/includecase/internal/directive"
	"github.com/railwayapp/includecase/internal/filesystems"
	"github.com/railwayapp/includecase/internal/fixer"
	"github.com/railwayapp/includecase/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockMenuReader for testing
type MockMenuReader struct {
	inputs []string
	index  int
}

func (m *MockMenuReader) ReadString(delim byte) (string, error) {
	if m.index >= len(m.inputs) {
		return "", fmt.Errorf("EOF")
	}
	result := m.inputs[m.index] + "\n"
	m.index++
	return result, nil
}

// readOnlyFS rejects every write.
type readOnlyFS struct {
	*filesystems.MemoryFS
}

func (readOnlyFS) WriteFile(string, []byte) error {
	return filesystems.ErrReadOnly
}

func tree() *filesystems.MemoryFS {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("main.cpp", []byte("#include \"engine/Renderer.h\"\n#include \"Util.h\"\n"))
	mfs.AddFile("engine/renderer.h", []byte("#pragma once\n"))
	mfs.AddFile("util.h", []byte("#pragma once\n"))
	return mfs
}

func check(t *testing.T, fs filesystems.FileSystem) *schema.Report {
	t.Helper()
	report, err := checker.New(fs, checker.Options{}).Check(context.Background(), ".")
	require.NoError(t, err)
	return report
}

func read(t *testing.T, fs filesystems.FileSystem, name string) string {
	t.Helper()
	content, err := fs.ReadFile(name)
	require.NoError(t, err)
	return string(content)
}

func TestFix_Auto(t *testing.T) {
	mfs := tree()
	report := check(t, mfs)
	require.Equal(t, 2, report.Count())

	var out bytes.Buffer
	f := fixer.New(mfs, &MockMenuReader{}, &out, fixer.Options{Auto: true})
	summary, err := f.Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Fixed: 2}, summary)
	assert.Equal(t, "#include \"engine/renderer.h\"\n#include \"util.h\"\n", read(t, mfs, "main.cpp"))
	assert.Contains(t, out.String(), `Fixed include statement from '#include "Util.h"' to '#include "util.h"'.`)
	assert.Empty(t, check(t, mfs).Files)
}

func TestFix_Interactive(t *testing.T) {
	mfs := tree()
	report := check(t, mfs)

	var out bytes.Buffer
	// empty answer takes the first choice; 2 is Skip with one suggestion
	reader := &MockMenuReader{inputs: []string{"", "2"}}
	summary, err := fixer.New(mfs, reader, &out, fixer.Options{}).Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Fixed: 1, Skipped: 1}, summary)
	assert.Equal(t, "#include \"engine/renderer.h\"\n#include \"Util.h\"\n", read(t, mfs, "main.cpp"))

	text := out.String()
	assert.Contains(t, text, "File(1/1): main.cpp")
	assert.Contains(t, text, "        2: Skip\n")
	assert.Contains(t, text, "        3: Fix all 1 files automatically\n")
	assert.Contains(t, text, "        4: Skip all - quit program\n")
	assert.Contains(t, text, "        Skipped.")
}

func TestFix_FixAll(t *testing.T) {
	mfs := tree()
	report := check(t, mfs)

	var out bytes.Buffer
	reader := &MockMenuReader{inputs: []string{"3"}}
	summary, err := fixer.New(mfs, reader, &out, fixer.Options{}).Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Fixed: 2}, summary)
	assert.Equal(t, 1, reader.index, "only the first finding should prompt")
	assert.Contains(t, out.String(), "Fixing all automatically.")
}

func TestFix_Quit(t *testing.T) {
	mfs := tree()
	report := check(t, mfs)

	var out bytes.Buffer
	reader := &MockMenuReader{inputs: []string{"1", "4"}}
	summary, err := fixer.New(mfs, reader, &out, fixer.Options{}).Fix(context.Background(), report)

	assert.ErrorIs(t, err, fixer.ErrQuit)
	assert.Equal(t, schema.Summary{Fixed: 1}, summary)
	assert.Equal(t, "#include \"engine/renderer.h\"\n#include \"Util.h\"\n", read(t, mfs, "main.cpp"))
}

func TestFix_InvalidChoice(t *testing.T) {
	mfs := tree()
	report := check(t, mfs)

	var out bytes.Buffer
	reader := &MockMenuReader{inputs: []string{"abc", "9"}}
	summary, err := fixer.New(mfs, reader, &out, fixer.Options{}).Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Skipped: 2}, summary)
	assert.Contains(t, out.String(), "Invalid choice. Skipped.")
}

func TestFix_ReaderError(t *testing.T) {
	mfs := tree()
	report := check(t, mfs)

	var out bytes.Buffer
	_, err := fixer.New(mfs, &MockMenuReader{}, &out, fixer.Options{}).Fix(context.Background(), report)
	assert.ErrorContains(t, err, "failed to read input")
}

func TestFix_Ambiguous(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("main.c", []byte("#include <LOG.h>\n"))
	mfs.AddFile("a/Log.h", nil)
	mfs.AddFile("a/log.h", nil)
	mfs.AddFile("Makefile", nil)

	report := check(t, mfs)
	findings := report.Findings()
	require.Len(t, findings, 1)
	require.Equal(t, schema.KindAmbiguous, findings[0].Kind)
	require.Len(t, findings[0].Suggestions, 2)

	var out bytes.Buffer
	reader := &MockMenuReader{inputs: []string{"2"}}
	summary, err := fixer.New(mfs, reader, &out, fixer.Options{}).Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Fixed: 1}, summary)
	assert.Equal(t, "#include <"+findings[0].Suggestions[1].Value+">\n", read(t, mfs, "main.c"))
	assert.Contains(t, out.String(), "Should be one of:")
}

func TestFix_DuplicateDirectives(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("main.cpp", []byte("#include \"Util.h\"\n#ifdef X\n#include \"Util.h\"\n#endif\n"))
	mfs.AddFile("util.h", nil)

	report := check(t, mfs)
	require.Equal(t, 2, report.Count())

	var out bytes.Buffer
	summary, err := fixer.New(mfs, &MockMenuReader{}, &out, fixer.Options{Auto: true}).Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Fixed: 2}, summary)
	assert.Equal(t, "#include \"util.h\"\n#ifdef X\n#include \"util.h\"\n#endif\n", read(t, mfs, "main.cpp"))
	assert.Equal(t, 2, strings.Count(out.String(), "Fixed include statement"))
}

func TestFix_DuplicateDirectivesSkipFirst(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("main.cpp", []byte("#include \"Util.h\"\n#ifdef X\n#include \"Util.h\"\n#endif\n"))
	mfs.AddFile("util.h", nil)

	report := check(t, mfs)
	require.Equal(t, 2, report.Count())

	var out bytes.Buffer
	// skip line 1, take the first choice on line 3
	reader := &MockMenuReader{inputs: []string{"2", ""}}
	summary, err := fixer.New(mfs, reader, &out, fixer.Options{}).Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Skipped: 1, Fixed: 1}, summary)
	assert.Equal(t, "#include \"Util.h\"\n#ifdef X\n#include \"util.h\"\n#endif\n", read(t, mfs, "main.cpp"))
}

func TestFix_DirectiveMovedSinceScan(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("main.cpp", []byte("#include \"Util.h\"\n"))
	mfs.AddFile("util.h", nil)

	report := check(t, mfs)
	require.NoError(t, mfs.WriteFile("main.cpp", []byte("// moved\n#include \"Util.h\"\n")))

	var out bytes.Buffer
	summary, err := fixer.New(mfs, &MockMenuReader{}, &out, fixer.Options{Auto: true}).Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Errors: 1}, summary)
	assert.Contains(t, out.String(), "Unable to correct include statement. Do it manually.")
}

func TestFix_TruncatedSinceScan(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("main.cpp", []byte("#include \"very/long/path/to/Header.h\"\n"))
	mfs.AddFile("very/long/path/to/header.h", nil)

	report := check(t, mfs)
	require.Equal(t, 1, report.Count())
	require.NoError(t, mfs.WriteFile("main.cpp", nil))

	var out bytes.Buffer
	summary, err := fixer.New(mfs, &MockMenuReader{}, &out, fixer.Options{Auto: true}).Fix(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, schema.Summary{Errors: 1}, summary)
}

func TestFix_DelimiterFallback(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("main.cpp", []byte("#include <Util.h>\n"))
	mfs.AddFile("util.h", nil)

	report := schema.NewReport(".")
	report.AddFinding(schema.Finding{
		File:        "main.cpp",
		Line:        1,
		Value:       "Util.h",
		Delim:       directive.Quote,
		Kind:        schema.KindCase,
		Suggestions: []schema.Suggestion{{Value: "util.h", Path: "util.h"}},
	})

	var out bytes.Buffer
	summary, err := fixer.New(mfs, &MockMenuReader{}, &out, fixer.Options{Auto: true}).Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Fixed: 1}, summary)
	assert.Equal(t, "#include <util.h>\n", read(t, mfs, "main.cpp"))
	assert.Contains(t, out.String(), "to '#include <util.h>'")
}

func TestFix_UnableToCorrect(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("main.cpp", []byte("#include \"other.h\"\n"))

	report := schema.NewReport(".")
	report.AddFinding(schema.Finding{
		File:        "main.cpp",
		Line:        1,
		Value:       "Util.h",
		Delim:       directive.Quote,
		Kind:        schema.KindCase,
		Suggestions: []schema.Suggestion{{Value: "util.h"}},
	})

	var out bytes.Buffer
	summary, err := fixer.New(mfs, &MockMenuReader{}, &out, fixer.Options{Auto: true}).Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Errors: 1}, summary)
	assert.Contains(t, out.String(), "Unable to correct include statement. Do it manually.")
	assert.Equal(t, "#include \"other.h\"\n", read(t, mfs, "main.cpp"))
}

func TestFix_ReadOnly(t *testing.T) {
	mfs := tree()
	report := check(t, mfs)

	var out bytes.Buffer
	fs := readOnlyFS{mfs}
	summary, err := fixer.New(fs, &MockMenuReader{}, &out, fixer.Options{Auto: true}).Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Errors: 2}, summary)
	assert.Contains(t, out.String(), "filesystem is read-only")
}

func TestFix_Cancelled(t *testing.T) {
	mfs := tree()
	report := check(t, mfs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := fixer.New(mfs, &MockMenuReader{}, &out, fixer.Options{Auto: true}).Fix(ctx, report)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"yes", true},
		{"YES", true},
		{" Yes ", true},
		{"y", false},
		{"no", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			ok, err := fixer.Confirm(&MockMenuReader{inputs: []string{tt.input}}, &out, "/src")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
			assert.Contains(t, out.String(), "process the folder '/src'")
		})
	}
}

func TestConfirm_NoInput(t *testing.T) {
	var out bytes.Buffer
	ok, err := fixer.Confirm(&MockMenuReader{}, &out, ".")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestDefaultMenuReader_LastLineWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	ok, err := fixer.Confirm(fixer.NewMenuReader(bytes.NewBufferString("yes")), &out, ".")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFix_StaleSuggestion(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("main.cpp", []byte("#include \"Gone.h\"\n"))

	report := schema.NewReport(".")
	report.AddFinding(schema.Finding{
		File:        "main.cpp",
		Line:        1,
		Value:       "Gone.h",
		Delim:       directive.Quote,
		Kind:        schema.KindCase,
		Suggestions: []schema.Suggestion{{Value: "gone.h", Path: "gone.h"}},
	})

	var out bytes.Buffer
	summary, err := fixer.New(mfs, &MockMenuReader{}, &out, fixer.Options{Auto: true}).Fix(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, schema.Summary{Errors: 1}, summary)
	assert.Contains(t, out.String(), "gone.h: suggested file no longer exists. Skipped.")
	assert.Equal(t, "#include \"Gone.h\"\n", read(t, mfs, "main.cpp"))
}
