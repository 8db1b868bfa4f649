package check

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racemetrics/pkg/compliance"
)

const legalSpecs = `
carNumber: "42"
engine:
  displacement: 350
  compressionRatio: 9.5
weight:
  totalWeight: 2750
wheels:
  frontTireSize: 225/50R15
`

const illegalSpecs = `
engine:
  displacement: 362
weight:
  totalWeight: 2750
`

func writeSpecs(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "specs.yml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	return file
}

func TestRunCheck(t *testing.T) {
	reg, err := compliance.NewRegistry()
	require.NoError(t, err)

	t.Run("compliant", func(t *testing.T) {
		specs, err := readSpecs(writeSpecs(t, legalSpecs))
		require.NoError(t, err)
		var out bytes.Buffer
		require.NoError(t, runCheck(&out, reg, "", specs))
		assert.Contains(t, out.String(), "Rulebook: six-shooter")
		assert.Contains(t, out.String(), "PASS")
		assert.Contains(t, out.String(), "Compliant")
	})
	t.Run("violation", func(t *testing.T) {
		specs, err := readSpecs(writeSpecs(t, illegalSpecs))
		require.NoError(t, err)
		var out bytes.Buffer
		err = runCheck(&out, reg, compliance.SixShooter, specs)
		assert.ErrorIs(t, err, ErrNotCompliant)
		assert.Contains(t, out.String(), "FAIL")
		assert.Contains(t, out.String(), "Engine displacement exceeds 360 cubic inch limit")
	})
	t.Run("unknown rulebook", func(t *testing.T) {
		var out bytes.Buffer
		err := runCheck(&out, reg, "nascar", nil)
		assert.ErrorIs(t, err, compliance.ErrUnknownRulebook)
	})
	t.Run("invalid yaml", func(t *testing.T) {
		_, err := readSpecs(writeSpecs(t, "engine: ["))
		assert.Error(t, err)
	})
}
