/*
 * context.go, part of fraggrow.
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

//Package growing drives a fragment growing run: it prepares the structures and templates,
//then grows the fragment in N steps, running a PELE simulation after each one and
//seeding the next step with the best structure found.
package growing

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rmera/fraggrow/internal/logging"
)

//Directories of a growing run, relative to its work directory.
const (
	TemplatesDir        = "DataLocal/Templates/OPLS2005/HeteroAtoms"
	GrowingTemplatesDir = TemplatesDir + "/growing_templates"
	RotamersDir         = "DataLocal/LigandRotamerLibs"
	ResultsDir          = "growing_results"
	ControlDir          = "control_folder"
	PregrowDir          = "pregrow"
)

//InputName is the name of the structure each simulation starts from.
const InputName = "initialization_grow.pdb"

//RunContext holds what every step of a run shares. It is built once, when the run
//starts, and all paths of the run are taken from it.
type RunContext struct {
	WorkDir string
	Log     logging.Logger
	ID      string
	Start   time.Time
}

//NewRunContext returns a RunContext for a run in workdir, which is made absolute. The
//log, which can be nil, gets the run id as a field.
func NewRunContext(workdir string, log logging.Logger) (*RunContext, error) {
	if workdir == "" {
		workdir = "."
	}
	abs, err := filepath.Abs(workdir)
	if err != nil {
		return nil, fmt.Errorf("work directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("work directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("work directory %s is not a directory", abs)
	}
	if log == nil {
		log = logging.NewNop()
	}
	R := &RunContext{WorkDir: abs, ID: uuid.New().String(), Start: time.Now()}
	R.Log = log.With(logging.String("run_id", R.ID))
	return R, nil
}

//Path joins elem and returns it under the work directory, unless the result is already
//an absolute path.
func (R *RunContext) Path(elem ...string) string {
	p := filepath.Join(elem...)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(R.WorkDir, p)
}

//Elapsed returns the time since the run started.
func (R *RunContext) Elapsed() time.Duration {
	return time.Since(R.Start)
}

//Layout creates the directories of a run that don't depend on the iteration.
func (R *RunContext) Layout(pdbout string) error {
	for _, v := range []string{TemplatesDir, GrowingTemplatesDir, RotamersDir, ResultsDir, ControlDir, PregrowDir, pdbout} {
		if err := os.MkdirAll(R.Path(v), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", v, err)
		}
	}
	return nil
}

//copyFile copies src to dst, overwriting it.
func copyFile(src, dst string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, b, 0o644)
}
