package pdfcpu

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Engine implements the page toolkit on pdfcpu. Every operation reads the
// source buffer and writes a fresh document; sources are never mutated.
type Engine struct {
	conf *model.Configuration
}

func New() *Engine {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Engine{conf: conf}
}

func (e *Engine) PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), e.conf)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return count, nil
}

func (e *Engine) PageSize(data []byte, pageIndex int) (float64, float64, error) {
	dims, err := api.PageDims(bytes.NewReader(data), e.conf)
	if err != nil {
		return 0, 0, fmt.Errorf("page dims: %w", err)
	}
	if pageIndex < 0 || pageIndex >= len(dims) {
		return 0, 0, fmt.Errorf("page %d out of range 0..%d", pageIndex, len(dims)-1)
	}
	return dims[pageIndex].Width, dims[pageIndex].Height, nil
}

func (e *Engine) CollectPages(data []byte, pageIndices []int) ([]byte, error) {
	if len(pageIndices) == 0 {
		return nil, fmt.Errorf("collect pages: empty selection")
	}
	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(data), &buf, selection(pageIndices), e.conf); err != nil {
		return nil, fmt.Errorf("collect pages %v: %w", pageIndices, err)
	}
	return buf.Bytes(), nil
}

// SplitPageHorizontal cuts the page along its horizontal midline into two
// real half-height pages, then separates them into standalone documents.
func (e *Engine) SplitPageHorizontal(data []byte, pageIndex int) ([]byte, []byte, error) {
	cut := &model.Cut{Hor: []float64{0.5}}
	outDir, err := os.MkdirTemp("", "labelpress-cut-")
	if err != nil {
		return nil, nil, fmt.Errorf("cut page %d: %w", pageIndex, err)
	}
	defer os.RemoveAll(outDir)
	if err := api.Cut(bytes.NewReader(data), outDir, "piece", selection([]int{pageIndex}), cut, e.conf); err != nil {
		return nil, nil, fmt.Errorf("cut page %d: %w", pageIndex, err)
	}

	// The cut emits the top piece first, then the bottom piece.
	pieces, err := os.ReadFile(filepath.Join(outDir, fmt.Sprintf("piece_page_%d.pdf", pageIndex+1)))
	if err != nil {
		return nil, nil, fmt.Errorf("cut page %d: %w", pageIndex, err)
	}
	top, err := e.CollectPages(pieces, []int{0})
	if err != nil {
		return nil, nil, fmt.Errorf("isolate top half: %w", err)
	}
	bottom, err := e.CollectPages(pieces, []int{1})
	if err != nil {
		return nil, nil, fmt.Errorf("isolate bottom half: %w", err)
	}
	return top, bottom, nil
}

func (e *Engine) RotatePage(data []byte, pageIndex int, degrees int) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Rotate(bytes.NewReader(data), &buf, degrees, selection([]int{pageIndex}), e.conf); err != nil {
		return nil, fmt.Errorf("rotate page %d: %w", pageIndex, err)
	}
	return buf.Bytes(), nil
}

func (e *Engine) CropPage(data []byte, pageIndex int, x, y, width, height float64) ([]byte, error) {
	box := &model.Box{Rect: types.NewRectangle(x, y, x+width, y+height)}
	var buf bytes.Buffer
	if err := api.Crop(bytes.NewReader(data), &buf, selection([]int{pageIndex}), box, e.conf); err != nil {
		return nil, fmt.Errorf("crop page %d: %w", pageIndex, err)
	}
	return buf.Bytes(), nil
}

func (e *Engine) Merge(docs [][]byte) ([]byte, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("merge: no documents")
	}
	readers := make([]io.ReadSeeker, len(docs))
	for i, doc := range docs {
		readers[i] = bytes.NewReader(doc)
	}
	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, e.conf); err != nil {
		return nil, fmt.Errorf("merge %d documents: %w", len(docs), err)
	}
	return buf.Bytes(), nil
}

// selection renders 0-based page indices as pdfcpu's 1-based selection.
func selection(pageIndices []int) []string {
	pages := make([]string, len(pageIndices))
	for i, idx := range pageIndices {
		pages[i] = strconv.Itoa(idx + 1)
	}
	return pages
}
