/*
 * pele.go, part of fraggrow.
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
	"strconv"

	"github.com/rmera/fraggrow/internal/logging"
)

//Names of the PELE executables, under <PELE dir>/bin.
const (
	SerialExec = "Pele_serial"
	MPIExec    = "Pele_mpi"
)

//Handle runs PELE simulations.
type Handle struct {
	path    string //as given, either the installation or the executable
	command string //the PELE executable
	peledir string //the PELE installation
	mpirun  string
	nCPU    int
	log     logging.Logger
}

//NewHandle returns a Handle for the PELE in path, which can be either the installation
//directory or the executable itself. With more than 1 CPU, PELE is run through mpirun.
func NewHandle(path string, ncpu int, log logging.Logger) *Handle {
	H := new(Handle)
	H.SetDefaults()
	if log != nil {
		H.log = log.Named("pele")
	}
	H.SetnCPU(ncpu)
	H.SetPELE(path)
	return H
}

//SetDefaults sets a serial run, with the PELE installation given by the PELE_DIR
//environment variable.
func (H *Handle) SetDefaults() {
	H.nCPU = 1
	H.mpirun = "mpirun"
	H.log = logging.NewNop()
	H.SetPELE(os.Getenv("PELE_DIR"))
}

//SetnCPU sets the number of MPI processes. Values below 2 give a serial run.
func (H *Handle) SetnCPU(cpu int) {
	if cpu < 1 {
		cpu = 1
	}
	H.nCPU = cpu
	H.resolve()
}

//SetMPIRun sets the mpirun command used for parallel runs.
func (H *Handle) SetMPIRun(mpirun string) {
	if mpirun != "" {
		H.mpirun = mpirun
	}
}

//SetPELE sets the PELE installation directory, or the executable, to use.
func (H *Handle) SetPELE(path string) {
	if path == "" {
		return
	}
	H.path = path
	H.resolve()
}

func (H *Handle) resolve() {
	if H.path == "" {
		return
	}
	info, err := os.Stat(H.path)
	if err == nil && info.IsDir() {
		H.peledir = H.path
		exe := SerialExec
		if H.nCPU > 1 {
			exe = MPIExec
		}
		H.command = filepath.Join(H.path, "bin", exe)
		return
	}
	H.command = H.path
	H.peledir = filepath.Dir(filepath.Dir(H.path))
}

//Command returns the PELE executable.
func (H *Handle) Command() string { return H.command }

//Dir returns the PELE installation directory.
func (H *Handle) Dir() string { return H.peledir }

//Process returns the Process that runs PELE with the given control file. The outputs
//are removed if the run fails.
func (H *Handle) Process(control, logfile string, outputs ...string) *Process {
	P := &Process{Name: "PELE", LogFile: logfile, Outputs: outputs}
	if H.nCPU > 1 {
		P.Path = H.mpirun
		P.Args = []string{"-np", strconv.Itoa(H.nCPU), H.command, control}
	} else {
		P.Path = H.command
		P.Args = []string{control}
	}
	return P
}

//Run runs PELE with the given control file in the directory dir, and waits for it
//to finish. The standard output and error go to logfile.
func (H *Handle) Run(ctx context.Context, dir, control, logfile string, outputs ...string) error {
	P := H.Process(control, logfile, outputs...)
	P.Dir = dir
	H.log.Info("Running PELE", logging.String("command", P.CommandLine()), logging.Int("cpus", H.nCPU))
	if err := P.Run(ctx); err != nil {
		return errDecorate(err, "Handle.Run")
	}
	H.log.Info("PELE finished", logging.Duration("elapsed", P.Elapsed()))
	return nil
}
