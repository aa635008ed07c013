package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/crossval/config"
	"github.com/YuminosukeSato/crossval/metrics"
	"github.com/YuminosukeSato/crossval/pkg/errors"
)

// countGrid adapts a confusion matrix to plotter.GridXYZ. Column c is the
// predicted label c; row r counts from the bottom so that the first actual
// label is drawn at the top.
type countGrid struct {
	counts [][]int
}

func (g countGrid) Dims() (c, r int) {
	return len(g.counts), len(g.counts)
}

func (g countGrid) Z(c, r int) float64 {
	return float64(g.counts[len(g.counts)-1-r][c])
}

func (g countGrid) X(c int) float64 {
	return float64(c)
}

func (g countGrid) Y(r int) float64 {
	return float64(r)
}

// Heatmap draws cm as a heat map annotated with the cell counts.
func Heatmap[L comparable](cm *metrics.ConfusionMatrix[L], title string) (*plot.Plot, error) {
	if cm == nil || cm.Len() == 0 {
		return nil, errors.NewValueError("Heatmap", "confusion matrix has no labels")
	}
	grid := countGrid{counts: cm.Matrix()}
	n := cm.Len()

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	if hm.Max == hm.Min {
		hm.Max = hm.Min + 1
	}

	labelPts := make(plotter.XYs, 0, n*n)
	texts := make([]string, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			labelPts = append(labelPts, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			texts = append(texts, fmt.Sprintf("%d", int(grid.Z(c, r))))
		}
	}
	cells, err := plotter.NewLabels(plotter.XYLabels{XYs: labelPts, Labels: texts})
	if err != nil {
		return nil, errors.Wrap(err, "heatmap labels")
	}

	names := make([]string, n)
	for i, l := range cm.Labels() {
		names[i] = fmt.Sprint(l)
	}
	reversed := make([]string, n)
	for i, s := range names {
		reversed[n-1-i] = s
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "predicted"
	p.Y.Label.Text = "actual"
	p.Add(hm, cells)
	p.NominalX(names...)
	p.NominalY(reversed...)
	return p, nil
}

// WriteHeatmap renders the heat map of cm to w in the given format
// ("png", "svg", "pdf", ...).
func WriteHeatmap[L comparable](w io.Writer, cm *metrics.ConfusionMatrix[L], cfg config.ReportConfig, format string) error {
	p, err := Heatmap(cm, cfg.Title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Length(cfg.WidthCm)*vg.Centimeter, vg.Length(cfg.HeightCm)*vg.Centimeter, format)
	if err != nil {
		return errors.Wrapf(err, "heatmap format %q", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// SaveHeatmap writes the heat map of cm to cfg.HeatmapPath; the file
// extension selects the format. It does nothing when the path is empty.
func SaveHeatmap[L comparable](cm *metrics.ConfusionMatrix[L], cfg config.ReportConfig) error {
	if cfg.HeatmapPath == "" {
		return nil
	}
	p, err := Heatmap(cm, cfg.Title)
	if err != nil {
		return err
	}
	if ext := strings.TrimPrefix(filepath.Ext(cfg.HeatmapPath), "."); ext == "" {
		return errors.NewValueError("SaveHeatmap", "heatmap path needs a file extension")
	}
	err = p.Save(vg.Length(cfg.WidthCm)*vg.Centimeter, vg.Length(cfg.HeightCm)*vg.Centimeter, cfg.HeatmapPath)
	return errors.Wrapf(err, "save heatmap %s", cfg.HeatmapPath)
}
