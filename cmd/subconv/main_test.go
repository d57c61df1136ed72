package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/subconv/internal/convert"
	"github.com/creamcroissant/subconv/internal/service"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConvertCommandStdin(t *testing.T) {
	stdout, stderr, err := execute(t, convert.SampleInput,
		"convert", "--log-level", "error", "--report", "json", "--profile=false", "--output", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "proxies:\n"))
	assert.Contains(t, stdout, "name: example-trojan")
	assert.Contains(t, stderr, `"status": "ok"`)
	assert.Contains(t, stderr, `"failed": 1`)
}

func TestConvertCommandAllFailed(t *testing.T) {
	stdout, stderr, err := execute(t, "vmess://!!!\nss://abc\n",
		"convert", "--log-level", "error", "--report", "text", "--profile=false", "--output", "")
	require.Error(t, err)
	assert.Equal(t, 3, exitCode(err))
	assert.Equal(t, convert.StatusAllFailed.Message(), err.Error())
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "0 succeeded, 2 failed")
}

func TestConvertCommandEmpty(t *testing.T) {
	_, _, err := execute(t, "  \n\n",
		"convert", "--log-level", "error", "--report", "", "--profile=false", "--output", "")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestConvertCommandProfileToFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "links.txt")
	output := filepath.Join(dir, "clash.yaml")
	require.NoError(t, os.WriteFile(input, []byte(convert.SampleInput), 0o644))

	stdout, _, err := execute(t, "",
		"convert", input, "--log-level", "error", "--report", "", "--profile", "--output", output)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "proxy-groups:")
	assert.Contains(t, string(data), "MATCH,Proxy")
}

func TestConvertCommandRejectsReportFormat(t *testing.T) {
	_, _, err := execute(t, convert.SampleInput,
		"convert", "--log-level", "error", "--report", "xml", "--profile=false", "--output", "")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestSampleAndVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "sample")
	require.NoError(t, err)
	assert.Equal(t, convert.SampleInput+"\n", stdout)

	stdout, _, err = execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "subconv dev"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 2, exitCode(&statusError{status: convert.StatusEmpty}))
	assert.Equal(t, 3, exitCode(&statusError{status: convert.StatusAllFailed}))
}

func TestRegenerate(t *testing.T) {
	svc := service.NewConversionService(service.ConversionOptions{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	var written []string
	write := func(doc string) error {
		written = append(written, doc)
		return nil
	}

	regenerate(context.Background(), svc, logger, convert.SampleInput, write)
	require.Len(t, written, 1)
	assert.Contains(t, written[0], "name: example-vless")
	assert.Contains(t, logs.String(), "output updated")

	regenerate(context.Background(), svc, logger, "ss://abc", write)
	assert.Len(t, written, 1, "failed snapshots keep the previous output")
	assert.Contains(t, logs.String(), "output not updated")

	regenerate(context.Background(), svc, logger, convert.SampleInput, func(string) error {
		return errors.New("disk full")
	})
	assert.Contains(t, logs.String(), "write output failed")
}

func TestConvertHelpListsSchemes(t *testing.T) {
	assert.Equal(t, "vmess://, vless://, trojan://", supportedSchemes())

	cmd, _, err := rootCmd.Find([]string{"convert"})
	require.NoError(t, err)
	assert.Contains(t, cmd.Long, "Supported schemes: vmess://, vless://, trojan://.")
}
