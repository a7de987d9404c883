/*
 * root_test.go, part of fraggrow.
 *
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package cli

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/fraggrow/ledger"
)

const fakePELE = `#!/bin/sh
ctl="$1"
in=$(sed -n 's/^INPUT=//p' "$ctl")
out=$(sed -n 's/^OUTPUT=//p' "$ctl")
printf '#Task    #Step    #Accepted Pele Steps    Binding Energy\n1    0    0    -1.0\n1    1    1    -2.0\n1    2    2    -1.5\n' > "$out/report_1"
{
for m in 1 2 3; do
echo "MODEL        $m"; grep -E '^(ATOM|HETATM)' "$in"; echo "ENDMDL"
done
echo "END"
} > "$out/trajectory_1.pdb"
`

const fakePlop = `res=$(basename "$1" .pdb)
low=$(echo "$res" | tr 'A-Z' 'a-z')
cp "TESTDATA/${low}z" "${low}z"
echo rotamers > "${res}.rot.assign"
`

func TestFlags(Te *testing.T) {
	cmd := NewRootCommand()
	for _, v := range []string{"complex_pdb", "fragment_pdb", "core_atom", "fragment_atom", "iterations", "criteria", "plop_path",
		"sch_python", "pele_dir", "contrl", "resfold", "report", "traject", "pdbout", "h_core", "h_frag", "chain_core",
		"chain_frag", "growth", "strict", "cpus", "mpirun", "contact_residue", "compress_archive", "ledger", "metrics_file",
		"plot", "config", "log-level", "log-format", "direction", "frame_column"} {
		assert.NotNil(Te, cmd.Flags().Lookup(v), v)
	}
	f := cmd.Flags().Lookup("iterations")
	assert.Equal(Te, "10", f.DefValue)
	assert.Equal(Te, "x", f.Shorthand)
	assert.Equal(Te, "Binding Energy", cmd.Flags().Lookup("criteria").DefValue)
	assert.Equal(Te, "growing_output", cmd.Flags().Lookup("resfold").DefValue)
}

func TestMissingArguments(Te *testing.T) {
	Te.Setenv("PELE_DIR", "")
	assert.Equal(Te, 1, Execute(context.Background(), []string{"--core_atom", "C1"}))
	assert.Equal(Te, 1, Execute(context.Background(), []string{"unexpected"}))
	assert.Equal(Te, 0, Execute(context.Background(), []string{"--version"}))
}

func TestRun(Te *testing.T) {
	if runtime.GOOS == "windows" {
		Te.Skip("shell scripts needed")
	}
	testdata, err := filepath.Abs(filepath.Join("..", "..", "growing", "testdata"))
	require.NoError(Te, err)
	work, bin := Te.TempDir(), Te.TempDir()
	exe := filepath.Join(bin, "Pele_serial")
	require.NoError(Te, os.WriteFile(exe, []byte(fakePELE), 0o755))
	plop := filepath.Join(bin, "PlopRotTemp.py")
	require.NoError(Te, os.WriteFile(plop, []byte(strings.Replace(fakePlop, "TESTDATA", testdata, 1)), 0o644))
	require.NoError(Te, os.WriteFile(filepath.Join(work, "control.conf"), []byte("INPUT=$COMPLEX\nOUTPUT=$RESULTS_FOLDER\n"), 0o644))

	args := []string{
		"--workdir", work,
		"--complex_pdb", filepath.Join(testdata, "complex.pdb"),
		"--fragment_pdb", filepath.Join(testdata, "fragment.pdb"),
		"--core_atom", "C1",
		"--fragment_atom", "F1",
		"-x", "2",
		"--pele_dir", exe,
		"--sch_python", "/bin/sh",
		"--plop_path", plop,
		"--contrl", "control.conf",
		"--ledger", "runs.db",
		"--metrics_file", "growing.prom",
		"--plot", "growing.png",
		"--growth", "quadratic",
		"--log-level", "error",
	}
	require.Equal(Te, 0, Execute(context.Background(), args))
	for i := 0; i <= 2; i++ {
		assert.DirExists(Te, filepath.Join(work, "growing_results", "growing_output_"+string(rune('0'+i))))
	}
	assert.FileExists(Te, filepath.Join(work, "growing.prom"))
	assert.FileExists(Te, filepath.Join(work, "growing.png"))

	L, err := ledger.Open(filepath.Join(work, "runs.db"))
	require.NoError(Te, err)
	defer L.Close()
	runs, err := L.Runs(context.Background())
	require.NoError(Te, err)
	require.Len(Te, runs, 1)
	assert.Equal(Te, "DONE", runs[0].State)
	assert.Equal(Te, 3, runs[0].Iterations)
	its, err := L.Iterations(context.Background(), runs[0].ID)
	require.NoError(Te, err)
	require.Len(Te, its, 3)
	for _, v := range its {
		assert.Equal(Te, 1, v.Frame)
		assert.Equal(Te, -2.0, v.Value)
	}
}
