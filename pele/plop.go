/*
 * plop.go, part of fraggrow.
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

package pele

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmera/fraggrow/internal/logging"
)

//PlopHandle runs PlopRotTemp, under Schrodinger's python, to build the IMPACT template
//and the rotamer library of a ligand.
type PlopHandle struct {
	python string
	script string
	log    logging.Logger
}

//NewPlopHandle returns a handle that runs script with the python interpreter given.
func NewPlopHandle(python, script string, log logging.Logger) *PlopHandle {
	if log == nil {
		log = logging.NewNop()
	}
	return &PlopHandle{python: python, script: script, log: log.Named("plop")}
}

//TemplateName returns the name of the template PlopRotTemp writes for the residue resname.
func TemplateName(resname string) string {
	return strings.ToLower(resname) + "z"
}

//RotamerName returns the name of the rotamer library PlopRotTemp writes for the residue resname.
func RotamerName(resname string) string {
	return strings.ToUpper(resname) + ".rot.assign"
}

//Run runs PlopRotTemp on the PDB file pdb, for the residue resname, in the directory dir,
//and returns the paths of the template and the rotamer library produced.
func (P *PlopHandle) Run(ctx context.Context, dir, pdb, resname string) (string, string, error) {
	tmpl := filepath.Join(dir, TemplateName(resname))
	rot := filepath.Join(dir, RotamerName(resname))
	proc := &Process{
		Name:    "PlopRotTemp",
		Path:    P.python,
		Args:    []string{P.script, pdb},
		Dir:     dir,
		LogFile: filepath.Join(dir, "plop_"+strings.ToLower(resname)+".log"),
		Outputs: []string{tmpl, rot},
	}
	P.log.Info("Running PlopRotTemp", logging.String("command", proc.CommandLine()), logging.String("dir", dir))
	if err := proc.Run(ctx); err != nil {
		return "", "", errDecorate(err, "PlopHandle.Run")
	}
	for _, v := range []string{tmpl, rot} {
		if _, err := os.Stat(v); err != nil {
			proc.cleanup()
			return "", "", Error{ErrNoOutput, "PlopRotTemp", pdb, err.Error(), []string{"os.Stat", "PlopHandle.Run"}, true}
		}
	}
	return tmpl, rot, nil
}
