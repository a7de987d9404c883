/*
 * root.go, part of fraggrow.
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

//Package cli is the fraggrow command line.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rmera/fraggrow/chemplot"
	"github.com/rmera/fraggrow/growing"
	"github.com/rmera/fraggrow/internal/archive"
	"github.com/rmera/fraggrow/internal/config"
	"github.com/rmera/fraggrow/internal/logging"
	"github.com/rmera/fraggrow/internal/metrics"
	"github.com/rmera/fraggrow/ledger"
	"github.com/rmera/fraggrow/pele"
)

//Version is set at build time.
var Version = "dev"

const long = `fraggrow grows a fragment onto the ligand of a protein-ligand complex in small steps.
After every step the complex is relaxed with a PELE simulation, and the best structure
found, according to a column of the PELE reports, starts the next step.`

//NewRootCommand returns the fraggrow command.
func NewRootCommand() *cobra.Command {
	v := config.NewViper()
	cmd := &cobra.Command{
		Use:           "fraggrow",
		Short:         "Grow a fragment onto a ligand with PELE",
		Long:          long,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.Load(v, file)
			if err != nil {
				return err
			}
			return Run(cmd.Context(), cfg)
		},
	}
	config.AddFlags(cmd.Flags())
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		panic(fmt.Sprintf("binding flags: %v", err))
	}
	return cmd
}

//program returns p as is if it is a bare name, to be looked up in the PATH, and
//under the work directory otherwise.
func program(rc *growing.RunContext, p string) string {
	if p == "" || filepath.Base(p) == p {
		return p
	}
	return rc.Path(p)
}

//Run performs the growing run cfg describes.
func Run(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.Logging())
	if err != nil {
		return err
	}
	defer log.Sync()
	rc, err := growing.NewRunContext(cfg.WorkDir, log)
	if err != nil {
		return err
	}
	gcfg, err := cfg.Growing()
	if err != nil {
		return err
	}
	peleh := pele.NewHandle(program(rc, cfg.PeleDir), cfg.CPUs, rc.Log)
	peleh.SetMPIRun(program(rc, cfg.MPIRun))
	plop := pele.NewPlopHandle(program(rc, cfg.SchPython), rc.Path(cfg.PlopPath), rc.Log)
	W, err := growing.New(rc, gcfg, peleh, plop)
	if err != nil {
		return err
	}
	if cfg.Ledger != "" {
		L, err := ledger.Open(rc.Path(cfg.Ledger))
		if err != nil {
			return err
		}
		defer L.Close()
		W.Observers = append(W.Observers, L)
	}
	if cfg.MetricsFile != "" {
		W.Observers = append(W.Observers, metrics.New(cfg.MetricsFile))
	}
	if cfg.Archive.Enabled() {
		A, err := archive.New(ctx, cfg.Archive, rc.Log)
		if err != nil {
			return err
		}
		W.Observers = append(W.Observers, A)
	}
	if cfg.Plot != "" {
		W.Observers = append(W.Observers, &chemplot.Plotter{Path: cfg.Plot, Criterion: cfg.Criteria})
	}
	rc.Log.Info("Starting fraggrow", logging.String("version", Version), logging.String("pele", peleh.Command()),
		logging.Int("cpus", cfg.CPUs))
	return W.Run(ctx)
}

//Execute runs the command line with ctx and returns the exit status.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "fraggrow:", err)
		return 1
	}
	return 0
}
