package labeltext

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	pdfreader "github.com/ledongthuc/pdf"
)

// rowTolerance is the max baseline difference (points) for two text runs
// to count as the same visual line.
const rowTolerance = 2.0

// Extractor reads positioned text out of PDF bytes. Runs are reassembled
// into lines top-to-bottom so the identifier patterns see the same line
// structure a human does, and band extraction only keeps runs whose
// baseline falls inside the requested horizontal slice of the page.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Text(data []byte) (string, error) {
	reader, err := open(data)
	if err != nil {
		return "", err
	}

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		text, err := pageBandText(reader, i, 0, math.Inf(1))
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n"), nil
}

func (e *Extractor) PageText(data []byte, pageIndex int) (string, error) {
	reader, err := open(data)
	if err != nil {
		return "", err
	}
	return pageBandText(reader, pageIndex+1, 0, math.Inf(1))
}

func (e *Extractor) PageBandText(data []byte, pageIndex int, yMin, yMax float64) (string, error) {
	reader, err := open(data)
	if err != nil {
		return "", err
	}
	return pageBandText(reader, pageIndex+1, yMin, yMax)
}

func open(data []byte) (*pdfreader.Reader, error) {
	reader, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return reader, nil
}

func pageBandText(reader *pdfreader.Reader, pageNum int, yMin, yMax float64) (string, error) {
	if pageNum < 1 || pageNum > reader.NumPage() {
		return "", fmt.Errorf("page %d out of range 1..%d", pageNum, reader.NumPage())
	}
	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	var runs []pdfreader.Text
	for _, t := range page.Content().Text {
		if t.Y >= yMin && t.Y < yMax {
			runs = append(runs, t)
		}
	}
	return assembleLines(runs), nil
}

// assembleLines orders runs top-to-bottom, left-to-right and joins them
// into newline-separated lines, inserting spaces for word gaps the content
// stream encodes as positioning rather than space glyphs.
func assembleLines(runs []pdfreader.Text) string {
	if len(runs) == 0 {
		return ""
	}

	sort.SliceStable(runs, func(i, j int) bool {
		if math.Abs(runs[i].Y-runs[j].Y) > rowTolerance {
			return runs[i].Y > runs[j].Y
		}
		return runs[i].X < runs[j].X
	})

	var sb strings.Builder
	rowY := runs[0].Y
	prevEnd := math.Inf(-1)
	for _, t := range runs {
		if math.Abs(t.Y-rowY) > rowTolerance {
			sb.WriteByte('\n')
			rowY = t.Y
			prevEnd = math.Inf(-1)
		} else if needsSpace(t, prevEnd) {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	return sb.String()
}

func needsSpace(t pdfreader.Text, prevEnd float64) bool {
	if math.IsInf(prevEnd, -1) {
		return false
	}
	if strings.HasPrefix(t.S, " ") {
		return false
	}
	gap := t.X - prevEnd
	threshold := t.FontSize * 0.2
	if threshold <= 0 {
		threshold = 1
	}
	return gap > threshold
}
