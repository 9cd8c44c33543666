package tui

import (
	"strconv"

	"github.com/FBakkensen/aw-viewer-tui/logging"
)

// columnLayout describes which grid headers are rendered at the current width.
// When ellipsis is set the caller appends a "(+N)" column for the hidden ones.
type columnLayout struct {
	visible     []string
	hiddenCount int
	truncated   bool
	ellipsis    bool
	dataCols    int
	colWidth    int
}

// computeColumnLayout fits headers into totalWidth at no less than minColWidth
// per column. When they do not all fit, one slot is given to the "(+N)" marker
// as long as a data column remains; with room for a single column only the
// first header is shown. totalWidth <= 0 defaults to 80.
func computeColumnLayout(headers []string, totalWidth, minColWidth int) columnLayout {
	if minColWidth <= 0 {
		minColWidth = 10
	}
	if totalWidth <= 0 {
		totalWidth = 80
	}
	if len(headers) == 0 {
		return columnLayout{}
	}

	slots := max(totalWidth/minColWidth, 1)
	switch {
	case len(headers) <= slots:
		return columnLayout{
			visible:  headers,
			dataCols: len(headers),
			colWidth: max(totalWidth/len(headers), minColWidth),
		}
	case slots == 1:
		logging.Info("Grid column layout severely constrained",
			"totalWidth", strconv.Itoa(totalWidth),
			"hidden", strconv.Itoa(len(headers)-1))
		return columnLayout{
			visible:     headers[:1],
			hiddenCount: len(headers) - 1,
			truncated:   true,
			dataCols:    1,
			colWidth:    totalWidth,
		}
	}

	dataCols := slots - 1
	return columnLayout{
		visible:     headers[:dataCols],
		hiddenCount: len(headers) - dataCols,
		truncated:   true,
		ellipsis:    true,
		dataCols:    dataCols,
		colWidth:    max(totalWidth/slots, minColWidth),
	}
}
