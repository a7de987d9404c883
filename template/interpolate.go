/*
 * interpolate.go, part of fraggrow.
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

package template

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

//GrowthFunc maps the fraction of the run completed, in [0,1], to the fraction of
//their final parameters that the atoms and bonds only present in the final template
//have. It must be strictly increasing, with f(0)=0 and f(1)=1.
type GrowthFunc func(t float64) float64

var growths = map[string]GrowthFunc{
	"linear":    func(t float64) float64 { return t },
	"quadratic": func(t float64) float64 { return t * t },
	"sqrt":      math.Sqrt,
}

//Growth returns the growth function with the given name: linear, quadratic or sqrt.
func Growth(name string) (GrowthFunc, error) {
	g, ok := growths[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown growth function %q, use one of %s", name, strings.Join(GrowthNames(), ", "))
	}
	return g, nil
}

//GrowthNames returns the names of the available growth functions.
func GrowthNames() []string {
	ret := make([]string, 0, len(growths))
	for k := range growths {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//lerp returns a+(b-a)*t, exactly a for t<=0 and exactly b for t>=1.
func lerp(a, b, t float64) float64 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return a + (b-a)*t
}

func grow(b, t float64, g GrowthFunc) float64 {
	if t >= 1 {
		return b
	}
	if t <= 0 {
		return 0
	}
	return b * g(t)
}

//Grower builds the intermediate templates between an initial template, for the core
//ligand, and a final template, for the grown ligand.
type Grower struct {
	Initial *Template
	Final   *Template
	//Hydrogen is the name of the hydrogen of the initial template replaced by the fragment.
	Hydrogen string
	//Anchor is the name, in the final template, of the fragment atom bonded to the core.
	Anchor string
	Growth GrowthFunc //linear if nil
	match  map[string]*Atom
}

//matches returns, for each atom of the final template, the atom of the initial template
//it evolves from, or nil for atoms that are only in the final one.
func (G *Grower) matches() (map[string]*Atom, error) {
	if G.match != nil {
		return G.match, nil
	}
	if G.Initial == nil || G.Final == nil {
		return nil, fmt.Errorf("both the initial and final templates are needed")
	}
	h := G.Initial.Atom(G.Hydrogen)
	if h == nil {
		return nil, fmt.Errorf("growing hydrogen %q not in the initial template", G.Hydrogen)
	}
	if G.Final.Atom(G.Anchor) == nil {
		return nil, fmt.Errorf("fragment anchor %q not in the final template", G.Anchor)
	}
	anchor := CleanName(G.Anchor)
	m := make(map[string]*Atom, len(G.Final.Atoms))
	for _, v := range G.Final.Atoms {
		name := CleanName(v.Name)
		if name == anchor {
			m[name] = h
			continue
		}
		if CleanName(h.Name) == name {
			//the hydrogen is gone in the final ligand, so an atom with its name must be new.
			m[name] = nil
			continue
		}
		m[name] = G.Initial.Atom(name)
	}
	G.match = m
	return m, nil
}

//Shared returns the names of the final template's atoms that come from the initial one.
func (G *Grower) Shared() ([]string, error) {
	m, err := G.matches()
	if err != nil {
		return nil, err
	}
	ret := make([]string, 0, len(m))
	for _, v := range G.Final.Atoms {
		if m[CleanName(v.Name)] != nil {
			ret = append(ret, CleanName(v.Name))
		}
	}
	return ret, nil
}

//At returns the template for the fraction t of the growth. Atoms shared by both templates
//have every parameter interpolated linearly between the initial and final value, while
//atoms and bonds only present in the final template have their final values scaled by
//the growth function. At t=0 the shared atoms have their initial parameters and types;
//at t=1 all parameters are the final ones. Atom order, angles and torsions are
//always those of the final template.
func (G *Grower) At(t float64) (*Template, error) {
	if t < 0 || t > 1 {
		return nil, fmt.Errorf("growth fraction %f out of [0,1]", t)
	}
	m, err := G.matches()
	if err != nil {
		return nil, err
	}
	g := G.Growth
	if g == nil {
		g = growths["linear"]
	}
	ret := G.Final.Copy()
	for _, at := range ret.Atoms {
		ini := m[CleanName(at.Name)]
		fc := at.NBON.Channels()
		if ini == nil {
			for i := range fc {
				fc[i] = grow(fc[i], t, g)
			}
			at.NBON = nbonFromChannels(fc)
			at.Dist = grow(at.Dist, t, g)
			continue
		}
		ic := ini.NBON.Channels()
		for i := range fc {
			fc[i] = lerp(ic[i], fc[i], t)
		}
		at.NBON = nbonFromChannels(fc)
		if G.sameParent(ini, at) {
			at.Dist = lerp(ini.Dist, at.Dist, t)
		}
		if t <= 0 {
			at.Type = ini.Type
		}
	}
	for _, b := range ret.Bonds {
		ib := G.initialBond(b)
		if ib == nil {
			b.Spring = grow(b.Spring, t, g)
			b.Length = grow(b.Length, t, g)
			continue
		}
		b.Spring = lerp(ib.Spring, b.Spring, t)
		b.Length = lerp(ib.Length, b.Length, t)
	}
	return ret, nil
}

//sameParent returns whether the parent of the final atom fin evolves from the parent
//of the initial atom ini, so the distance to the parent means the same in both.
func (G *Grower) sameParent(ini, fin *Atom) bool {
	ip := G.Initial.AtomByIndex(ini.Parent)
	fp := G.Final.AtomByIndex(fin.Parent)
	if ip == nil || fp == nil {
		return false
	}
	return G.match[CleanName(fp.Name)] == ip
}

//initialBond returns the bond of the initial template that the final bond b evolves
//from, or nil if b is new.
func (G *Grower) initialBond(b *Bond) *Bond {
	a1, a2 := G.Final.AtomByIndex(b.I), G.Final.AtomByIndex(b.J)
	if a1 == nil || a2 == nil {
		return nil
	}
	i1, i2 := G.match[CleanName(a1.Name)], G.match[CleanName(a2.Name)]
	if i1 == nil || i2 == nil {
		return nil
	}
	return G.Initial.Bond(i1.Name, i2.Name)
}

//Series returns the n+1 templates for the steps 0..n of a growth in n steps. The
//last one is a copy of the final template.
func (G *Grower) Series(n int) ([]*Template, error) {
	if n < 1 {
		return nil, fmt.Errorf("at least 1 growing step is needed, got %d", n)
	}
	ret := make([]*Template, 0, n+1)
	for i := 0; i < n; i++ {
		T, err := G.At(float64(i) / float64(n))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		ret = append(ret, T)
	}
	return append(ret, G.Final.Copy()), nil
}
