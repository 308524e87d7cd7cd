/*
 * plot.go, part of quantic.
 *
 *
 * Copyright 2024 The quantic Authors
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
 */

package chemplot

import (
	"fmt"
	"image/color"
	"log"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	chem "github.com/amphiquantic/quantic"
	"github.com/amphiquantic/quantic/refdata"
)

//Used for atoms without properties.
var (
	defaultColor  = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	defaultRadius = 0.5
)

//BondLengthHistogram plots a histogram of the bond lengths given, with
//bins bins, and saves it to filename. The format is taken from the extension
//of filename (png, svg, pdf...).
func BondLengthHistogram(lengths []float64, bins int, title, filename string) error {
	if len(lengths) == 0 {
		return chem.NewError(chem.MalformedInput, "no bond lengths to plot", "BondLengthHistogram")
	}
	if bins < 1 {
		bins = 1
	}
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = "Bond length (A)"
	p.Y.Label.Text = "Count"
	h, err := plotter.NewHist(plotter.Values(lengths), bins)
	if err != nil {
		return chem.WrapError(chem.Unclassified, err, "can't build histogram", "BondLengthHistogram")
	}
	p.Add(h)
	p.Add(plotter.NewGrid())
	if err := p.Save(12*vg.Centimeter, 9*vg.Centimeter, filename); err != nil {
		return chem.WrapError(chem.Unclassified, err, "can't save "+filename, "BondLengthHistogram")
	}
	return nil
}

//Molecule draws the projection of the structure on the XY plane, bonds as
//black lines and atoms as circles with the color and size from atoms,
//and saves it to filename.
func Molecule(S *chem.Structure, atoms refdata.AtomProperties, title, filename string) error {
	if err := S.Corrupted(); err != nil {
		return chem.ErrDecorate(err, "Molecule")
	}
	if S.Len() == 0 {
		return chem.NewError(chem.MalformedInput, "no atoms to plot", "Molecule")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	for _, b := range S.Bonds {
		l, err := plotter.NewLine(plotter.XYs{xy(S.Coords[b.I]), xy(S.Coords[b.J])})
		if err != nil {
			return chem.WrapError(chem.Unclassified, err, fmt.Sprintf("can't draw bond %v", b), "Molecule")
		}
		l.LineStyle.Color = color.Black
		l.LineStyle.Width = vg.Points(1)
		p.Add(l)
	}
	pts := make(plotter.XYs, S.Len())
	styles := make([]draw.GlyphStyle, S.Len())
	warned := make(map[string]bool)
	for i, c := range S.Coords {
		pts[i] = xy(c)
		col, radius := color.Color(defaultColor), defaultRadius
		if at, ok := atoms.Lookup(S.Types[i]); ok {
			col = rgb(at.Color)
			radius = float64(at.Radius)
		} else if !warned[S.Types[i]] {
			warned[S.Types[i]] = true
			log.Printf("Color not found for atom type %s", S.Types[i])
		}
		styles[i] = draw.GlyphStyle{Color: col, Radius: vg.Points(4 * radius), Shape: draw.CircleGlyph{}}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return chem.WrapError(chem.Unclassified, err, "can't draw atoms", "Molecule")
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle { return styles[i] }
	p.Add(s)
	if err := p.Save(12*vg.Centimeter, 12*vg.Centimeter, filename); err != nil {
		return chem.WrapError(chem.Unclassified, err, "can't save "+filename, "Molecule")
	}
	return nil
}

func xy(c r3.Vec) plotter.XY {
	return plotter.XY{X: c.X, Y: c.Y}
}

func rgb(c [3]float32) color.RGBA {
	f := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{R: f(c[0]), G: f(c[1]), B: f(c[2]), A: 255}
}
