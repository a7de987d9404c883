/*
 * control.go, part of fraggrow.
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
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

//Control holds the values substituted in a control file template: $COMPLEX, $RESULTS_FOLDER,
//$ITERATION, $PELE_DIR and $TEMPLATE. Any other $NAME is left as it is.
type Control struct {
	Complex       string //the input structure
	ResultsFolder string
	Iteration     int
	PeleDir       string
	Template      string //the active ligand template
}

func (C Control) vars() map[string]string {
	return map[string]string{
		"COMPLEX":        C.Complex,
		"RESULTS_FOLDER": C.ResultsFolder,
		"ITERATION":      strconv.Itoa(C.Iteration),
		"PELE_DIR":       C.PeleDir,
		"TEMPLATE":       C.Template,
	}
}

var controlVar = regexp.MustCompile(`\$(\{[A-Za-z_][A-Za-z0-9_]*\}|[A-Za-z_][A-Za-z0-9_]*)`)

//Resolve returns the template text with the values of C substituted, for $NAME and ${NAME}.
//Unknown names are left untouched.
func (C Control) Resolve(text string) string {
	vars := C.vars()
	return controlVar.ReplaceAllStringFunc(text, func(m string) string {
		name := strings.Trim(m[1:], "{}")
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}

//Write reads the control file template in tmpl, substitutes the values of C and writes
//the result as <dir>/<iteration>_<template base name>, creating dir if needed. It returns
//the name of the written file.
func (C Control) Write(tmpl, dir string) (string, error) {
	text, err := os.ReadFile(tmpl)
	if err != nil {
		return "", Error{ErrControl, "control", tmpl, err.Error(), []string{"os.ReadFile", "Control.Write"}, true}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", Error{ErrControl, "control", tmpl, err.Error(), []string{"os.MkdirAll", "Control.Write"}, true}
	}
	name := filepath.Join(dir, fmt.Sprintf("%d_%s", C.Iteration, filepath.Base(tmpl)))
	if err := os.WriteFile(name, []byte(C.Resolve(string(text))), 0o644); err != nil {
		return "", Error{ErrControl, "control", tmpl, err.Error(), []string{"os.WriteFile", "Control.Write"}, true}
	}
	return name, nil
}
