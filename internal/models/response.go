package models

import "encoding/json"

type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartPie     ChartType = "pie"
	ChartScatter ChartType = "scatter"
	ChartLine    ChartType = "line"
)

// Content is the payload of a Response: either a projected Table or formatted
// Text. The interface is sealed so consumers have to switch on the concrete
// type instead of guessing.
type Content interface {
	isContent()
}

// Table is a column-projected result set. Row cells are positionally aligned
// with Columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Text is a formatted multi-line answer, e.g. the waste reduction suggestions.
type Text string

func (*Table) isContent() {}
func (Text) isContent()   {}

// ChartSpec tells the presentation layer how to draw the chart accompanying a
// response. The field bindings name columns of Data, which may carry columns
// the content table does not (the overlap scatter needs the request-local
// overlap scores).
type ChartSpec struct {
	Type  ChartType `json:"type"`
	X     string    `json:"x,omitempty"`
	Y     string    `json:"y,omitempty"`
	Label string    `json:"label,omitempty"`
	Value string    `json:"value,omitempty"`
	Size  string    `json:"size,omitempty"`
	Color string    `json:"color,omitempty"`
	Data  *Table    `json:"data,omitempty"`
}

// Response is what the assistant hands back for every query. Title may be
// empty (the unrecognized-query fallback has none), Chart is optional.
type Response struct {
	Title   string
	Content Content
	Chart   *ChartSpec
}

// MarshalJSON flattens the content union into separate "table"/"text" keys so
// exported reports stay consumable without knowing Go types.
func (r Response) MarshalJSON() ([]byte, error) {
	out := struct {
		Title string     `json:"title"`
		Table *Table     `json:"table,omitempty"`
		Text  string     `json:"text,omitempty"`
		Chart *ChartSpec `json:"chart,omitempty"`
	}{Title: r.Title, Chart: r.Chart}

	switch c := r.Content.(type) {
	case *Table:
		out.Table = c
	case Text:
		out.Text = string(c)
	}
	return json.Marshal(out)
}
