package export

// Dataset defines tabular export content.
type Dataset struct {
	Title    string
	Subtitle string
	Headers  []string
	Rows     []map[string]string
	// Widths holds relative column weights; headers without one weigh 1.
	Widths map[string]float64
	// Emphasis marks row indexes rendered in bold, such as totals.
	Emphasis map[int]bool
}

func (d Dataset) weights() []float64 {
	out := make([]float64, len(d.Headers))
	for i, h := range d.Headers {
		out[i] = 1
		if w, ok := d.Widths[h]; ok && w > 0 {
			out[i] = w
		}
	}
	return out
}

func (d Dataset) record(row map[string]string) []string {
	out := make([]string, len(d.Headers))
	for i, h := range d.Headers {
		out[i] = row[h]
	}
	return out
}

// Page is a paper size in millimetres, used in landscape orientation.
type Page struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

// PageA4 is used when no page is given.
var PageA4 = Page{Name: "A4", WidthMM: 210, HeightMM: 297}

func (p Page) orDefault() Page {
	if p.WidthMM <= 0 || p.HeightMM <= 0 {
		return PageA4
	}
	return p
}
