/*
 * metrics.go, part of fraggrow.
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

//Package metrics exports the progress of a growing run as Prometheus metrics, written to
//a textfile that the node_exporter textfile collector can pick up.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rmera/fraggrow/growing"
)

const namespace = "fraggrow"

//Recorder keeps the metrics of one run.
type Recorder struct {
	Path string //textfile written at the end of the run, none if empty

	reg        *prometheus.Registry
	iterations prometheus.Counter
	best       prometheus.Gauge
	mean       prometheus.Gauge
	contact    prometheus.Gauge
	current    prometheus.Gauge
	duration   prometheus.Histogram
	state      *prometheus.GaugeVec
}

//New returns a Recorder with its own registry, that writes to path when the run ends.
func New(path string) *Recorder {
	R := &Recorder{Path: path, reg: prometheus.NewRegistry()}
	R.iterations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "iterations_total", Help: "Growing iterations finished.",
	})
	R.best = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "selected_criterion", Help: "Criterion value of the structure selected in the last iteration.",
	})
	R.mean = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "criterion_mean", Help: "Mean criterion value over the steps of the last simulation.",
	})
	R.contact = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "contact_distance_angstrom", Help: "Distance from the ligand to the contact residue in the last selected structure.",
	})
	R.current = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "iteration", Help: "Index of the last finished iteration.",
	})
	R.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "iteration_duration_seconds", Help: "Wall time of the growing iterations.",
		Buckets: []float64{60, 300, 900, 1800, 3600, 7200, 14400, 28800, 86400},
	})
	R.state = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "run_state", Help: "1 for the state the run ended in.",
	}, []string{"run_id", "state"})
	R.reg.MustRegister(R.iterations, R.best, R.mean, R.contact, R.current, R.duration, R.state)
	return R
}

//Registry returns the registry with the metrics of R.
func (R *Recorder) Registry() *prometheus.Registry {
	return R.reg
}

//Observe updates the metrics with the iteration it.
func (R *Recorder) Observe(ctx context.Context, run *growing.RunContext, it *growing.Iteration) error {
	R.iterations.Inc()
	R.current.Set(float64(it.Index))
	R.best.Set(it.Best.Value)
	R.mean.Set(it.Summary.Mean)
	if it.HasContact {
		R.contact.Set(it.Contact)
	}
	R.duration.Observe(it.Elapsed.Seconds())
	return nil
}

//Finish sets the final state of the run and writes the textfile.
func (R *Recorder) Finish(ctx context.Context, run *growing.RunContext, state growing.State, its []*growing.Iteration) error {
	for _, s := range []growing.State{growing.Done, growing.Failed} {
		v := 0.0
		if s == state {
			v = 1
		}
		R.state.WithLabelValues(run.ID, s.String()).Set(v)
	}
	if R.Path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(run.Path(R.Path), R.reg); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
