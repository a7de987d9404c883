/*
 * process.go, part of fraggrow.
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

//Package pele runs the external programs of a growing run: PELE itself, and
//PlopRotTemp, which builds ligand templates and rotamer libraries. It also prepares
//the PELE control file of each growing step.
package pele

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

//Process is one run of an external program. Run always waits for the program,
//checks how it ended, and on failure removes the outputs it was told about,
//so a failed step never leaves half-written results behind.
type Process struct {
	Name string //used in errors and logs
	Path string
	Args []string
	Dir  string //working directory. The current one if empty.
	//LogFile collects the standard output and error of the program. If empty,
	//they are discarded.
	LogFile string
	//Outputs are files or directories created by the program, removed if it fails.
	Outputs []string
	//Env is added to the environment of the current process.
	Env []string

	elapsed time.Duration
}

//Elapsed returns how long the last run took.
func (P *Process) Elapsed() time.Duration { return P.elapsed }

//CommandLine returns the command run, for logging.
func (P *Process) CommandLine() string {
	return strings.Join(append([]string{P.Path}, P.Args...), " ")
}

//Run starts the program and waits for it to finish. There is no timeout: the wait
//only ends early if ctx is cancelled, in which case the program is killed.
func (P *Process) Run(ctx context.Context) (err error) {
	input := strings.Join(P.Args, " ")
	defer func() {
		if err != nil {
			P.cleanup()
		}
	}()
	command := exec.CommandContext(ctx, P.Path, P.Args...)
	command.Dir = P.Dir
	if len(P.Env) > 0 {
		command.Env = append(os.Environ(), P.Env...)
	}
	if P.LogFile != "" {
		out, err := os.OpenFile(P.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return Error{ErrNotRunning, P.Name, input, err.Error(), []string{"os.OpenFile", "Run"}, true}
		}
		defer out.Close()
		fmt.Fprintf(out, "#### %s: %s\n", time.Now().Format(time.RFC3339), P.CommandLine())
		command.Stdout = out
		command.Stderr = out
	}
	start := time.Now()
	err = command.Start()
	if err != nil {
		return Error{ErrNotRunning, P.Name, input, err.Error(), []string{"exec.Start", "Run"}, true}
	}
	err = command.Wait()
	P.elapsed = time.Since(start)
	if ctx.Err() != nil {
		return Error{ErrFailed, P.Name, input, "cancelled: " + ctx.Err().Error(), []string{"exec.Wait", "Run"}, true}
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return Error{ErrFailed, P.Name, input, fmt.Sprintf("exit status %d, see %s", exit.ExitCode(), P.logName()), []string{"exec.Wait", "Run"}, true}
	}
	if err != nil {
		return Error{ErrFailed, P.Name, input, err.Error(), []string{"exec.Wait", "Run"}, true}
	}
	return nil
}

func (P *Process) logName() string {
	if P.LogFile == "" {
		return "no log"
	}
	return P.LogFile
}

func (P *Process) cleanup() {
	for _, v := range P.Outputs {
		os.RemoveAll(v)
	}
}
