package tui

import (
	"strings"

	"pvm/internal/catalog"
)

// ReleaseRow is one line of a release listing.
type ReleaseRow struct {
	Version  string          `json:"version"`
	Status   *catalog.Status `json:"-"`
	Label    string          `json:"status,omitempty"`
	Released string          `json:"released,omitempty"`
	Latest   string          `json:"latest,omitempty"`
	State    []string        `json:"state,omitempty"`
}

var releaseColumns = []string{"VERSION", "STATUS", "RELEASED", "LATEST", "STATE"}

// RenderReleaseTable lays rows out in padded columns. Empty cells show "-";
// the status column is coloured by support status.
func RenderReleaseTable(rows []ReleaseRow) string {
	cells := make([][]string, len(rows))
	widths := make([]int, len(releaseColumns))
	for i, h := range releaseColumns {
		widths[i] = len(h)
	}
	for r, row := range rows {
		cells[r] = []string{
			row.Version,
			NonEmptyOrDash(row.Label),
			NonEmptyOrDash(row.Released),
			NonEmptyOrDash(row.Latest),
			NonEmptyOrDash(strings.Join(row.State, ",")),
		}
		for i, c := range cells[r] {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	var b strings.Builder
	header := make([]string, len(releaseColumns))
	for i, h := range releaseColumns {
		header[i] = HeaderStyle.Render(pad(h, widths[i]))
	}
	b.WriteString(strings.TrimRight(strings.Join(header, "  "), " "))
	b.WriteByte('\n')

	for r, row := range rows {
		parts := make([]string, len(releaseColumns))
		for i, c := range cells[r] {
			cell := pad(c, widths[i])
			switch i {
			case 1:
				cell = StatusStyle(row.Status).Render(cell)
			case 4:
				if len(row.State) > 0 {
					cell = OKStyle.Render(cell)
				}
			}
			parts[i] = cell
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
