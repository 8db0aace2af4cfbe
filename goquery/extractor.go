// Package goquery implements table location and normalization on top of
// the goquery HTML library.
package goquery

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/koume-z/tablepick"
)

// maxSpan bounds rowspan/colspan values. Browsers clamp spans similarly,
// and an unbounded span attribute would let a one-cell table allocate an
// arbitrarily wide matrix.
const maxSpan = 1000

// Ensure Extractor implements tablepick.Extractor at compile time.
var _ tablepick.Extractor = (*Extractor)(nil)

// Extractor locates every <table> element in an HTML document and
// normalizes each one into a rectangular tablepick.Table. The parsed tree
// is only read, never mutated.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the HTML and returns one Table per <table> element in
// document order. Tables nested inside the cells of another table are
// returned as their own entries, once each. A document with no tables
// yields an empty result and no error.
func (e *Extractor) Extract(htmlText string) ([]*tablepick.Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, tablepick.WrapErrorf(err, tablepick.EPARSEFAILED, "failed to parse HTML")
	}

	var tables []*tablepick.Table
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		tables = append(tables, normalizeTable(sel))
	})
	return tables, nil
}

// gridKey addresses one position in the span-occupancy grid.
type gridKey struct {
	row, col int
}

// normalizeTable converts one <table> into a rectangular header+rows
// matrix. Rows belonging to nested sub-tables are skipped; rowspan cells
// carry their value into following rows through a sparse occupancy grid;
// colspan cells replicate their value across the covered columns. The
// first header-tagged row becomes the header, later header-tagged rows are
// treated as data. When a rowspan carry and an explicit cell collide at
// the same grid position, the explicit cell wins.
func normalizeTable(table *goquery.Selection) *tablepick.Table {
	tableNode := table.Get(0)

	rows := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		closest := tr.Closest("table")
		return closest.Length() > 0 && closest.Get(0) == tableNode
	})

	carry := make(map[gridKey]string)
	var header []string
	var data [][]string
	rowIdx := 0

	rows.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("th, td")
		if cells.Length() == 0 {
			return
		}

		var row []string
		col := 0

		// takeCarried fills columns claimed by earlier rowspan cells,
		// advancing the free-column cursor past them.
		takeCarried := func() {
			for {
				value, ok := carry[gridKey{rowIdx, col}]
				if !ok {
					return
				}
				delete(carry, gridKey{rowIdx, col})
				row = append(row, value)
				col++
			}
		}

		cells.Each(func(_ int, cell *goquery.Selection) {
			takeCarried()

			value := cellText(cell.Get(0))
			colspan := spanAttr(cell, "colspan")
			rowspan := spanAttr(cell, "rowspan")

			for c := 0; c < colspan; c++ {
				// A colspan may run over a column an earlier rowspan
				// claimed; the explicit cell wins, so discard the carry.
				delete(carry, gridKey{rowIdx, col})
				row = append(row, value)
				for r := 1; r < rowspan; r++ {
					carry[gridKey{rowIdx + r, col}] = value
				}
				col++
			}
		})

		// Carries can remain past the row's last explicit cell, possibly
		// beyond a gap; place each at its registered column and pad the
		// columns in between.
		for {
			next, ok := nextCarry(carry, rowIdx, col)
			if !ok {
				break
			}
			for col < next {
				row = append(row, "")
				col++
			}
			row = append(row, carry[gridKey{rowIdx, next}])
			delete(carry, gridKey{rowIdx, next})
			col++
		}

		if header == nil && isHeaderRow(tr) {
			header = row
		} else {
			data = append(data, row)
		}
		rowIdx++
	})

	// Widen the header to the widest row with synthesized names, then
	// right-pad every row to the header's width.
	width := len(header)
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}
	if header == nil {
		header = []string{}
	}
	for len(header) < width {
		header = append(header, fmt.Sprintf("column %d", len(header)+1))
	}
	for i, row := range data {
		for len(row) < width {
			row = append(row, "")
		}
		data[i] = row
	}

	return &tablepick.Table{Header: header, Rows: data}
}

// nextCarry returns the lowest carried column at or after col in the row.
func nextCarry(carry map[gridKey]string, row, col int) (int, bool) {
	next, found := 0, false
	for key := range carry {
		if key.row != row || key.col < col {
			continue
		}
		if !found || key.col < next {
			next = key.col
			found = true
		}
	}
	return next, found
}

// isHeaderRow reports whether the row contributes header cells: it holds
// at least one <th>, or sits inside a <thead>.
func isHeaderRow(tr *goquery.Selection) bool {
	if tr.ChildrenFiltered("th").Length() > 0 {
		return true
	}
	return tr.Parent().Is("thead")
}

// spanAttr returns the cell's rowspan/colspan value, defaulting to 1 when
// the attribute is absent, malformed, or out of range.
func spanAttr(cell *goquery.Selection, name string) int {
	raw, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxSpan {
		return maxSpan
	}
	return n
}

var (
	footnoteRef   = regexp.MustCompile(`\[\s*\d+\s*\]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// cellText flattens a cell's content into a single cleaned string:
// footnote markers (<sup> elements and bracketed numbers like [12]) and
// images are dropped, link text is kept, and whitespace runs collapse to
// single spaces. The node tree is not modified.
func cellText(cell *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "sup" || n.Data == "img") {
			return
		}
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := cell.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}

	text := strings.Join(parts, " ")
	text = footnoteRef.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
