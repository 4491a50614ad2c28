package textrender

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sgostarter/libbarrace/race"
	"github.com/sgostarter/libbarrace/render"
)

const Name = "text"

func init() {
	render.Register(Name, func() (render.Renderer, bool) {
		return New(), true
	})
}

type Renderer struct {
	// MaxRows limits the printed steps, 0 prints all.
	MaxRows int
	// Precision is the number of decimals printed, -1 for the shortest exact form.
	Precision int
}

func New() *Renderer {
	return &Renderer{Precision: 2}
}

func (r *Renderer) Name() string {
	return Name
}

// Render writes one table row per step; each cell holds the value and,
// when ranks were computed, the rank in brackets.
func (r *Renderer) Render(w io.Writer, res *race.Result) error {
	if res == nil || res.Values == nil {
		return fmt.Errorf("%w: nothing to render", race.ErrDataShape)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := table.Row{"step", "label"}
	for _, category := range res.Values.Categories() {
		header = append(header, category)
	}

	tw.AppendHeader(header)

	rows := res.Values.Len()
	if r.MaxRows > 0 && r.MaxRows < rows {
		rows = r.MaxRows
	}

	for k := 0; k < rows; k++ {
		row := table.Row{k, res.Values.Label(k).String()}

		for c, v := range res.Values.Row(k) {
			cell := strconv.FormatFloat(v, 'f', r.Precision, 64)
			if res.Ranks != nil {
				cell = fmt.Sprintf("%s (#%d)", cell, res.Ranks.At(k, c))
			}

			row = append(row, cell)
		}

		tw.AppendRow(row)
	}

	if rows < res.Values.Len() {
		tw.AppendFooter(table.Row{"", fmt.Sprintf("%d more steps", res.Values.Len()-rows)})
	}

	_, err := io.WriteString(w, tw.Render()+"\n")

	return err
}
