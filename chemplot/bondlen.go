/*
 * bondlen.go, part of molprep.
 *
 * Copyright 2026 The molprep authors
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

// Package chemplot summarizes and plots the X-H distances of the hydrogens
// placed by a build.
package chemplot

import (
	"errors"
	"image/color"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when there are no distances to plot.
var ErrNoData = errors.New("no data to plot")

// Summary returns the mean and the sample standard deviation of dists.
// Both are NaN for an empty slice, and the deviation is NaN for a single value.
func Summary(dists []float64) (mean, sd float64) {
	return stat.MeanStdDev(dists, nil)
}

func basicPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "X-H distance (A)"
	p.Y.Label.Text = "Hydrogens"
	p.Add(plotter.NewGrid())
	return p
}

// BondLengthHistogram draws a histogram of dists and saves it to path. The
// image format is given by the extension of path (png, svg, pdf...).
func BondLengthHistogram(dists []float64, title, path string) error {
	if len(dists) == 0 {
		return ErrNoData
	}
	p := basicPlot(title)
	bins := 16
	if len(dists) < bins {
		bins = len(dists)
	}
	h, err := plotter.NewHist(plotter.Values(dists), bins)
	if err != nil {
		return err
	}
	h.FillColor = color.RGBA{R: 70, G: 110, B: 200, A: 255}
	p.Add(h)
	return p.Save(5*vg.Inch, 4*vg.Inch, path)
}
