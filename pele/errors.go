/*
 * errors.go, part of fraggrow.
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
	"fmt"
	"strings"
)

//Error messages
const (
	ErrNotRunning = "The program couldn't be started"
	ErrFailed     = "The program exited with an error"
	ErrNoOutput   = "The program didn't produce the expected output"
	ErrControl    = "The control file couldn't be prepared"
)

//Error is the error type for the external programs run by this package.
type Error struct {
	message    string
	program    string //the name of the program
	input      string //the input given to the program
	additional string
	deco       []string
	critical   bool
}

func (err Error) Error() string {
	msg := fmt.Sprintf("%s (%s, input %s)", err.message, err.program, err.input)
	if err.additional != "" {
		msg += ": " + err.additional
	}
	if len(err.deco) > 0 {
		msg += " [" + strings.Join(err.deco, " > ") + "]"
	}
	return msg
}

//Program returns the name of the program that failed.
func (err Error) Program() string { return err.program }

//Input returns the input given to the program that failed.
func (err Error) Input() string { return err.input }

//Message returns the kind of failure, one of the Err constants of this package.
func (err Error) Message() string { return err.message }

//Decorate adds dec to the list of callers the error went through, and returns that list.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the failure should stop the run. Every failure of an
//external program does.
func (err Error) Critical() bool { return err.critical }

//errDecorate adds caller to the decoration of err if it is an Error from this package.
func errDecorate(err error, caller string) error {
	switch e := err.(type) {
	case Error:
		e.Decorate(caller)
		return e
	case *Error:
		e.Decorate(caller)
		return e
	}
	return err
}
