package cpm

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_, b, _, _ = runtime.Caller(0)
	romPath    = filepath.Join(filepath.Dir(b), "testdata", "roms")
)

// diagnostic describes a CPU exerciser and the text it prints on
// success.
type diagnostic struct {
	name    string
	success string
	failure string
	slow    bool
}

var diagnostics = []diagnostic{
	{name: "TST8080.COM", success: "CPU IS OPERATIONAL", failure: "CPU HAS FAILED"},
	{name: "8080PRE.COM", success: "8080 Preliminary tests complete", failure: "ERROR"},
	{name: "CPUTEST.COM", success: "CPU TESTS OK", failure: "ERROR"},
	{name: "8080EXM.COM", success: "Tests complete", failure: "ERROR", slow: true},
}

// TestDiagnostics runs the CP/M CPU exercisers placed in
// testdata/roms. Missing ROMs are skipped.
func TestDiagnostics(t *testing.T) {
	for _, d := range diagnostics {
		d := d
		t.Run(d.name, func(t *testing.T) {
			path := filepath.Join(romPath, d.name)
			if _, err := os.Stat(path); err != nil {
				t.Skipf("%s not present", path)
			}
			if d.slow && testing.Short() {
				t.Skip("skipping exerciser in short mode")
			}

			m, err := Open(path)
			require.NoError(t, err)

			res, err := m.Run(context.Background())
			require.NoError(t, err)

			assert.Contains(t, res.Output, d.success)
			assert.NotContains(t, res.Output, d.failure)
			t.Logf("%s: %d instructions, %d cycles in %s", d.name, res.Instructions, res.Cycles, res.Elapsed)
		})
	}
}
