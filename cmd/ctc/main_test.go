package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ctc version")
}

func TestCalcFromFlags(t *testing.T) {
	out, err := execute(t, "calc", "--basic-salary", "1575000", "--fiscal-year", "FY 2025-26")
	require.NoError(t, err)
	assert.Contains(t, out, "Offer: CTC=₹15,75,000 Gross=₹15,75,000 Tax=₹1,09,200 Net=₹12,74,400")
	assert.Contains(t, out, "Fiscal Year: FY 2025-26 (INR)")
}

func TestCalcJSON(t *testing.T) {
	out, err := execute(t, "calc", "--basic-salary", "1000000", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"rebate_applied": true`)
}

func TestCalcRejectsInvalidAmounts(t *testing.T) {
	_, err := execute(t, "calc", "--hra=-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, calculation.ErrInvalidInput)

	_, err = execute(t, "calc", "--basic-salary", "lots")
	assert.ErrorIs(t, err, calculation.ErrInvalidInput)
}

func TestCalcFromFileWithPackage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packages.yaml")
	_, err := execute(t, "init", path)
	require.NoError(t, err)

	out, err := execute(t, "calc", "--input", path, "--package", "associate", "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "Associate,Vikram Shah,"))

	_, err = execute(t, "calc", "--input", path, "--package", "Director")
	assert.ErrorContains(t, err, "not found")

	_, err = execute(t, "calc", "--input", path, "--hra", "10")
	assert.ErrorContains(t, err, "cannot be combined")
}

func TestCalcWritesReportFile(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "calc", "--basic-salary", "900000", "--format", "html", "--out", dir)
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, dir, filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}

func TestCalcPDFNeedsOut(t *testing.T) {
	_, err := execute(t, "calc", "--basic-salary", "900000", "--format", "pdf")
	assert.ErrorContains(t, err, "requires --out")
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.yaml")
	_, err := execute(t, "init", path)
	require.NoError(t, err)
	_, err = execute(t, "init", path)
	assert.ErrorContains(t, err, "already exists")
	_, err = execute(t, "init", path, "--force")
	assert.NoError(t, err)
}

func TestLetterCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packages.yaml")
	_, err := execute(t, "init", path)
	require.NoError(t, err)

	pdfPath := filepath.Join(dir, "offers.pdf")
	out, err := execute(t, "letter", "--input", path, "--out", pdfPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 offer letter(s)")

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestEnvOr(t *testing.T) {
	t.Setenv("CTC_TEST_VALUE", "from-env")
	assert.Equal(t, "from-env", envOr("CTC_TEST_VALUE", "default"))
	assert.Equal(t, "default", envOr("CTC_TEST_UNSET", "default"))
}

func TestOpenStoreMemory(t *testing.T) {
	st, err := openStore("memory")
	require.NoError(t, err)
	assert.NoError(t, st.Close())

	st, err = openStore(":memory:")
	require.NoError(t, err)
	assert.NoError(t, st.Close())
}
