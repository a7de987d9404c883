/*
 * workflow.go, part of fraggrow.
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

package growing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rmera/fraggrow/chem"
	"github.com/rmera/fraggrow/frag"
	"github.com/rmera/fraggrow/internal/logging"
	"github.com/rmera/fraggrow/pele"
	"github.com/rmera/fraggrow/report"
	"github.com/rmera/fraggrow/template"
)

//State is the stage a Workflow is in.
type State int

const (
	PreGrowing State = iota
	Iterating
	Done
	Failed
)

var stateNames = [...]string{"PRE_GROWING", "ITERATING", "DONE", "FAILED"}

func (S State) String() string {
	if S < 0 || int(S) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(S))
	}
	return stateNames[S]
}

//Config defines a growing run. Relative paths are taken from the work directory of the run.
type Config struct {
	ComplexPDB   string
	FragmentPDB  string
	CoreAtom     string
	FragmentAtom string
	CoreH        string //the core hydrogen replaced, the first bonded to CoreAtom if empty
	FragH        string
	CoreChain    string
	FragChain    string
	Iterations   int
	Criteria     string
	Direction    report.Direction
	FrameColumn  string
	Control      string //control file template
	ResFold      string
	Report       string
	Traject      string
	PDBOut       string
	Growth       string
	DummyScale   float64
	//ContactResidue, as "chain:resnum", is a residue whose distance to the grown
	//ligand is reported after every iteration.
	ContactResidue string
	Strict         bool
}

//DefaultChain is the chain of the core ligand and of the fragment, unless given.
const DefaultChain = "L"

//defaults fills the optional fields of C left empty.
func (C *Config) defaults() {
	if C.CoreChain == "" {
		C.CoreChain = DefaultChain
	}
	if C.FragChain == "" {
		C.FragChain = DefaultChain
	}
	if C.Growth == "" {
		C.Growth = "linear"
	}
	if C.FrameColumn == "" {
		C.FrameColumn = report.DefaultFrameColumn
	}
}

//Validate returns an error if C can't define a run.
func (C *Config) Validate() error {
	required := []struct{ name, value string }{
		{"complex PDB", C.ComplexPDB},
		{"fragment PDB", C.FragmentPDB},
		{"core atom", C.CoreAtom},
		{"fragment atom", C.FragmentAtom},
		{"criteria", C.Criteria},
		{"control file template", C.Control},
		{"results folder", C.ResFold},
		{"report prefix", C.Report},
		{"trajectory prefix", C.Traject},
		{"output PDB folder", C.PDBOut},
	}
	for _, v := range required {
		if v.value == "" {
			return fmt.Errorf("no %s given", v.name)
		}
	}
	if C.Iterations < 1 {
		return fmt.Errorf("at least 1 iteration is needed, got %d", C.Iterations)
	}
	if _, err := template.Growth(C.Growth); err != nil {
		return err
	}
	if C.ContactResidue != "" {
		if _, _, err := chem.ParseResidue(C.ContactResidue); err != nil {
			return err
		}
	}
	return nil
}

//Iteration is the record of one growing step. All its paths are named after Index.
type Iteration struct {
	Index      int
	Template   string //snapshot of the template used
	Input      string //archived copy of the structure the simulation started from
	Results    string //directory with the simulation output
	Control    string //control file of the simulation
	Best       report.Best
	Summary    report.Summary //of the criterion, over all the simulation steps
	Contact    float64        //distance from the ligand to the contact residue, if HasContact
	HasContact bool
	Elapsed    time.Duration
}

//Observer is told about every finished iteration, and about the end of the run.
//Observer errors are logged, but don't stop the run.
type Observer interface {
	Observe(ctx context.Context, run *RunContext, it *Iteration) error
	Finish(ctx context.Context, run *RunContext, state State, its []*Iteration) error
}

//Workflow is a growing run.
type Workflow struct {
	PELE      *pele.Handle
	Plop      *pele.PlopHandle
	Extractor *frag.Extractor
	Observers []Observer

	rc         *RunContext
	cfg        Config
	growth     template.GrowthFunc
	state      State
	iterations []*Iteration
	grower     *template.Grower
	series     []*template.Template //the template of every step
	initial    string //template names
	final      string
}

//New returns a Workflow for the run described by cfg, using the PELE and PlopRotTemp
//handles given.
func New(rc *RunContext, cfg Config, peleh *pele.Handle, plop *pele.PlopHandle) (*Workflow, error) {
	if rc == nil {
		return nil, errors.New("no run context given")
	}
	if peleh == nil || plop == nil {
		return nil, errors.New("both the PELE and PlopRotTemp handles are needed")
	}
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := template.Growth(cfg.Growth)
	if err != nil {
		return nil, err
	}
	W := &Workflow{
		PELE:      peleh,
		Plop:      plop,
		Extractor: frag.NewExtractor(rc.Log, cfg.Strict),
		rc:        rc,
		cfg:       cfg,
		growth:    g,
		state:     PreGrowing,
	}
	return W, nil
}

//RunContext returns the context of the run.
func (W *Workflow) RunContext() *RunContext { return W.rc }

//State returns the current state of the run.
func (W *Workflow) State() State { return W.state }

//Iterations returns the records of the iterations finished so far.
func (W *Workflow) Iterations() []*Iteration { return W.iterations }

//active returns the path of the template PELE reads.
func (W *Workflow) active() string {
	return W.rc.Path(TemplatesDir, W.final)
}

//Run performs the whole growing: the preparation, and then the N+1 simulations. A failure
//stops the run, leaving on disk whatever was produced until then.
func (W *Workflow) Run(ctx context.Context) (err error) {
	log := W.rc.Log
	defer func() {
		if err != nil {
			W.state = Failed
			log.Error("Growing failed", logging.Int("iterations_done", len(W.iterations)), logging.Err(err))
		} else {
			W.state = Done
			log.Info("Growing finished", logging.Int("iterations", len(W.iterations)), logging.Duration("elapsed", W.rc.Elapsed()))
		}
		fctx := context.WithoutCancel(ctx)
		for _, o := range W.Observers {
			if oerr := o.Finish(fctx, W.rc, W.state, W.iterations); oerr != nil {
				log.Error("Observer failed at the end of the run", logging.Err(oerr))
			}
		}
	}()
	W.state = PreGrowing
	log.Info("Preparing the growing", logging.String("workdir", W.rc.WorkDir), logging.String("complex", W.cfg.ComplexPDB),
		logging.String("fragment", W.cfg.FragmentPDB), logging.Int("iterations", W.cfg.Iterations))
	if err := W.pregrow(ctx); err != nil {
		return fmt.Errorf("preparing the growing: %w", err)
	}
	W.state = Iterating
	for i := 0; i <= W.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
		it, err := W.iterate(ctx, i)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
		W.iterations = append(W.iterations, it)
		for _, o := range W.Observers {
			if oerr := o.Observe(ctx, W.rc, it); oerr != nil {
				log.Error("Observer failed", logging.Int("iteration", i), logging.Err(oerr))
			}
		}
	}
	return nil
}

//pregrow builds the grown ligand and the starting complex, gets the templates and rotamer
//libraries of the core and grown ligands, and writes the template for the first step.
func (W *Workflow) pregrow(ctx context.Context) error {
	rc, C := W.rc, W.cfg
	if err := rc.Layout(C.PDBOut); err != nil {
		return err
	}
	cmplx, err := chem.PDBFileRead(rc.Path(C.ComplexPDB))
	if err != nil {
		return fmt.Errorf("reading complex: %w", err)
	}
	fragment, err := chem.PDBFileRead(rc.Path(C.FragmentPDB))
	if err != nil {
		return fmt.Errorf("reading fragment: %w", err)
	}
	grown, err := W.Extractor.Build(cmplx, fragment, frag.Options{
		CoreChain:  C.CoreChain,
		FragChain:  C.FragChain,
		CoreAtom:   C.CoreAtom,
		FragAtom:   C.FragmentAtom,
		CoreH:      C.CoreH,
		FragH:      C.FragH,
		DummyScale: C.DummyScale,
	})
	if err != nil {
		return err
	}
	coreres, finalres := grown.Core.Atom(0).Molname, grown.Ligand.Atom(0).Molname
	if pele.TemplateName(coreres) == pele.TemplateName(finalres) {
		return fmt.Errorf("the core ligand can't be named %s, as the grown ligand", finalres)
	}
	W.initial, W.final = pele.TemplateName(coreres), pele.TemplateName(finalres)
	for _, v := range []struct {
		res string
		mol *chem.Molecule
	}{{coreres, grown.Core}, {finalres, grown.Ligand}} {
		pdb := rc.Path(PregrowDir, v.res+".pdb")
		if err := chem.PDBFileWrite(pdb, v.mol); err != nil {
			return fmt.Errorf("writing %s: %w", pdb, err)
		}
		tmpl, rot, err := W.Plop.Run(ctx, rc.Path(PregrowDir), pdb, v.res)
		if err != nil {
			return err
		}
		base := filepath.Base(tmpl)
		for src, dst := range map[string]string{
			tmpl: rc.Path(TemplatesDir, base),
			rot:  rc.Path(RotamersDir, filepath.Base(rot)),
		} {
			if err := copyFile(src, dst); err != nil {
				return fmt.Errorf("copying %s: %w", src, err)
			}
		}
		//the pristine templates, from which every step is built.
		if err := copyFile(tmpl, rc.Path(GrowingTemplatesDir, base)); err != nil {
			return fmt.Errorf("copying %s: %w", tmpl, err)
		}
	}
	initial, err := template.ReadFile(rc.Path(GrowingTemplatesDir, W.initial))
	if err != nil {
		return err
	}
	final, err := template.ReadFile(rc.Path(GrowingTemplatesDir, W.final))
	if err != nil {
		return err
	}
	W.grower = &template.Grower{Initial: initial, Final: final, Hydrogen: grown.CoreH, Anchor: grown.Anchor, Growth: W.growth}
	if W.series, err = W.grower.Series(W.cfg.Iterations); err != nil {
		return fmt.Errorf("growing templates: %w", err)
	}
	if err := W.series[0].WriteFile(W.active()); err != nil {
		return err
	}
	shared, err := W.grower.Shared()
	if err != nil {
		return err
	}
	isShared := make(map[string]bool, len(shared))
	for _, v := range shared {
		isShared[v] = true
	}
	grownAtoms := make([]string, 0, len(final.Atoms))
	for _, v := range final.Names() {
		if !isShared[v] {
			grownAtoms = append(grownAtoms, v)
		}
	}
	if err := chem.PDBFileWrite(rc.Path(InputName), grown.Complex); err != nil {
		return fmt.Errorf("writing starting complex: %w", err)
	}
	rc.Log.Info("Growing prepared", logging.String("initial_template", W.initial), logging.String("final_template", W.final),
		logging.String("replaced_h", grown.CoreH), logging.String("anchor", grown.Anchor),
		logging.Any("ligand_atoms", grown.Ligand.Names()), logging.Any("grown_atoms", grownAtoms))
	return nil
}

//archiveName is the name of the archived input of the iteration i.
func archiveName(i int) string {
	if i == 0 {
		return InputName
	}
	return fmt.Sprintf("%d_%s", i, InputName)
}

//iterate performs the step i of the growing.
func (W *Workflow) iterate(ctx context.Context, i int) (*Iteration, error) {
	rc, C := W.rc, W.cfg
	start := time.Now()
	resname := fmt.Sprintf("%s_%d", C.ResFold, i)
	it := &Iteration{
		Index:    i,
		Template: rc.Path(GrowingTemplatesDir, fmt.Sprintf("%s_%d", W.final, i)),
		Input:    rc.Path(C.PDBOut, archiveName(i)),
		Results:  rc.Path(ResultsDir, resname),
	}
	log := rc.Log.With(logging.Int("iteration", i))
	input := rc.Path(InputName)
	var err error
	control := pele.Control{Complex: input, ResultsFolder: it.Results, Iteration: i, PeleDir: W.PELE.Dir(), Template: W.active()}
	if it.Control, err = control.Write(rc.Path(C.Control), rc.Path(ControlDir)); err != nil {
		return nil, err
	}
	switch {
	case i == C.Iterations:
		if err := copyFile(rc.Path(GrowingTemplatesDir, W.final), W.active()); err != nil {
			return nil, fmt.Errorf("restoring final template: %w", err)
		}
	case i > 0:
		if err := W.series[i].WriteFile(W.active()); err != nil {
			return nil, err
		}
	}
	if err := copyFile(W.active(), it.Template); err != nil {
		return nil, fmt.Errorf("template snapshot: %w", err)
	}
	if err := os.MkdirAll(it.Results, 0o755); err != nil {
		return nil, fmt.Errorf("results directory: %w", err)
	}
	log.Info("Running simulation", logging.String("control", it.Control), logging.String("input", input), logging.String("results", it.Results))
	if err := W.PELE.Run(ctx, rc.WorkDir, it.Control, rc.Path(ResultsDir, resname+".log"), it.Results); err != nil {
		return nil, err
	}
	if err := copyFile(input, it.Input); err != nil {
		return nil, fmt.Errorf("archiving input: %w", err)
	}
	S := report.Selector{Criterion: C.Criteria, Direction: C.Direction, FrameColumn: C.FrameColumn}
	best, reports, err := S.SelectDir(it.Results, C.Report, C.Traject, input)
	if err != nil {
		return nil, err
	}
	it.Best = best
	if it.Summary, err = report.Summarize(reports, C.Criteria); err != nil {
		return nil, err
	}
	if C.ContactResidue != "" {
		if err := W.contact(it, input); err != nil {
			return nil, err
		}
	}
	it.Elapsed = time.Since(start)
	log.Info("Structure selected", logging.String("report", filepath.Base(best.Report)), logging.Int("frame", best.Frame),
		logging.Float64(C.Criteria, best.Value), logging.Float64("mean", it.Summary.Mean), logging.Float64("std", it.Summary.Std),
		logging.Int("steps", it.Summary.N), logging.Duration("elapsed", it.Elapsed))
	return it, nil
}

//contact fills the distance between the grown ligand in the structure input and the
//contact residue.
func (W *Workflow) contact(it *Iteration, input string) error {
	mol, err := chem.PDBFileRead(input)
	if err != nil {
		return err
	}
	lig, err := W.Extractor.Ligand(mol, W.cfg.CoreChain)
	if err != nil {
		return err
	}
	d, ok, err := W.Extractor.Contact(mol, lig, W.cfg.ContactResidue)
	if err != nil {
		return err
	}
	it.Contact, it.HasContact = d, ok
	if ok {
		W.rc.Log.Info("Contact distance", logging.Int("iteration", it.Index), logging.String("residue", W.cfg.ContactResidue), logging.Float64("distance", d))
	}
	return nil
}
