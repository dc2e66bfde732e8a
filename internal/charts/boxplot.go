// Package charts renders PNG charts for numeric columns of a Working Table.
package charts

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	apperrors "cleansheet/internal/errors"
	"cleansheet/internal/table"
)

// BoxPlotPNG renders a box plot for one numeric column and writes it to w as
// a PNG image. Missing cells are excluded before plotting.
func BoxPlotPNG(t *table.Table, column string, w io.Writer) error {
	values, err := t.ColumnFloats(column)
	if err != nil {
		return err
	}

	clean := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return apperrors.NewAppValidationError(fmt.Sprintf("column %q has no values to plot", column))
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Box plot of %s", column)
	p.Y.Label.Text = column

	box, err := plotter.NewBoxPlot(vg.Points(30), 0, clean)
	if err != nil {
		return fmt.Errorf("failed to build box plot: %w", err)
	}
	p.Add(box)
	p.NominalX(column)

	wt, err := p.WriterTo(4*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render box plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write box plot: %w", err)
	}
	return nil
}
