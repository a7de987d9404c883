/*
 * plot.go, part of fraggrow.
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

//Package chemplot draws plots of the progress of a growing run.
package chemplot

import (
	"context"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/rmera/fraggrow/growing"
)

//meanStd are points with vertical error bars.
type meanStd struct {
	plotter.XYs
	plotter.YErrors
}

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

//CriterionPlot plots, against the iteration, the value of the criterion for the structure
//selected (best) and its mean and standard deviation over all the simulation steps (mean, std).
//The plot is saved to plotname, in the format given by its extension. std can be nil.
func CriterionPlot(best, mean, std []float64, criterion, title, plotname string) error {
	if len(best) == 0 {
		return fmt.Errorf("nothing to plot")
	}
	if len(mean) != len(best) || (std != nil && len(std) != len(best)) {
		return fmt.Errorf("mismatched data: %d best values, %d means and %d standard deviations", len(best), len(mean), len(std))
	}
	p := basicPlot(title, "Iteration", criterion)
	bpts := make(plotter.XYs, len(best))
	mpts := meanStd{XYs: make(plotter.XYs, len(mean)), YErrors: make(plotter.YErrors, len(mean))}
	for i := range best {
		bpts[i].X, bpts[i].Y = float64(i), best[i]
		mpts.XYs[i].X, mpts.XYs[i].Y = float64(i), mean[i]
		if std != nil {
			mpts.YErrors[i].Low, mpts.YErrors[i].High = std[i], std[i]
		}
	}
	line, points, err := plotter.NewLinePoints(bpts)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	points.Color = plotutil.Color(0)
	points.Shape = plotutil.Shape(0)
	m, err := plotter.NewScatter(mpts)
	if err != nil {
		return err
	}
	m.GlyphStyle.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	m.GlyphStyle.Shape = plotutil.Shape(1)
	p.Add(line, points, m)
	p.Legend.Add("selected", line, points)
	p.Legend.Add("mean", m)
	if std != nil {
		bars, err := plotter.NewYErrorBars(mpts)
		if err != nil {
			return err
		}
		bars.Color = m.GlyphStyle.Color
		p.Add(bars)
	}
	//the iterations are integers.
	p.X.Tick.Marker = plot.TickerFunc(func(min, max float64) []plot.Tick {
		ticks := make([]plot.Tick, 0, len(best))
		for i := range best {
			ticks = append(ticks, plot.Tick{Value: float64(i), Label: fmt.Sprint(i)})
		}
		return ticks
	})
	return p.Save(6*vg.Inch, 4*vg.Inch, plotname)
}

//Plotter draws the CriterionPlot of a run when it ends.
type Plotter struct {
	Path      string
	Criterion string
}

func (P *Plotter) Observe(ctx context.Context, run *growing.RunContext, it *growing.Iteration) error {
	return nil
}

//Finish plots the iterations of the run, if there are any.
func (P *Plotter) Finish(ctx context.Context, run *growing.RunContext, state growing.State, its []*growing.Iteration) error {
	if len(its) == 0 {
		return nil
	}
	best := make([]float64, len(its))
	mean := make([]float64, len(its))
	std := make([]float64, len(its))
	for i, v := range its {
		best[i] = v.Best.Value
		mean[i] = v.Summary.Mean
		std[i] = v.Summary.Std
	}
	title := fmt.Sprintf("Growing %s (%s)", run.ID, state)
	return CriterionPlot(best, mean, std, P.Criterion, title, run.Path(P.Path))
}
