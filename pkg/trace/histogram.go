package trace

import (
	"fmt"
	"sort"

	"github.com/thelolagemann/chipcore/internal/cpu"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Histogram counts how often each instruction was executed.
type Histogram struct {
	counts map[string]int
	total  int
}

// Count is the number of executions of one instruction.
type Count struct {
	Name  string
	Count int
}

// NewHistogram returns an empty Histogram.
func NewHistogram() *Histogram {
	return &Histogram{counts: make(map[string]int)}
}

// Trace implements the cpu.Tracer interface. Halted idle Steps and
// interrupt services without an instruction are not counted.
func (h *Histogram) Trace(t cpu.Trace) {
	if t.Length == 0 {
		return
	}
	h.counts[t.Name]++
	h.total++
}

// Total returns the number of counted instructions.
func (h *Histogram) Total() int {
	return h.total
}

// Top returns the n most executed instructions, most executed first.
// Ties are ordered by name. A negative n returns every instruction.
func (h *Histogram) Top(n int) []Count {
	counts := make([]Count, 0, len(h.counts))
	for name, count := range h.counts {
		counts = append(counts, Count{Name: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	if n >= 0 && n < len(counts) {
		counts = counts[:n]
	}
	return counts
}

// SavePNG renders the n most executed instructions as a bar chart.
// The image format follows the extension of filename.
func (h *Histogram) SavePNG(filename string, n int) error {
	top := h.Top(n)
	if len(top) == 0 {
		return fmt.Errorf("trace: histogram is empty")
	}

	values := make(plotter.Values, len(top))
	names := make([]string, len(top))
	for i, c := range top {
		values[i] = float64(c.Count)
		names[i] = c.Name
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Instruction histogram (%d executed)", h.total)
	p.Y.Label.Text = "Executions"

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -1

	width := vg.Length(len(top))*vg.Points(18) + vg.Inch
	return p.Save(width, 4*vg.Inch, filename)
}
