package usecase

import (
	"fmt"
	"strings"
)

// fakePage models one PDF page: its geometry, its extractable text and the
// text that falls into the upper/lower halves.
type fakePage struct {
	width, height float64
	text          string
	topText       string
	botText       string
	rotation      int
	crop          *[4]float64
}

type fakeDoc struct {
	pages []fakePage
}

// fakePDF implements both ports.PageEngine and ports.TextExtractor over an
// in-memory document registry. Byte buffers are opaque handles into the
// registry, so every operation behaves like the real buffer-in/buffer-out
// toolkit without parsing anything.
type fakePDF struct {
	docs map[string]*fakeDoc
	seq  int
}

func newFakePDF() *fakePDF {
	return &fakePDF{docs: make(map[string]*fakeDoc)}
}

func (f *fakePDF) register(pages ...fakePage) []byte {
	f.seq++
	key := fmt.Sprintf("doc-%d", f.seq)
	f.docs[key] = &fakeDoc{pages: pages}
	return []byte(key)
}

func (f *fakePDF) doc(data []byte) (*fakeDoc, error) {
	d, ok := f.docs[string(data)]
	if !ok {
		return nil, fmt.Errorf("unknown document handle %q", data)
	}
	return d, nil
}

func (f *fakePDF) page(data []byte, i int) (*fakeDoc, *fakePage, error) {
	d, err := f.doc(data)
	if err != nil {
		return nil, nil, err
	}
	if i < 0 || i >= len(d.pages) {
		return nil, nil, fmt.Errorf("page %d out of range", i)
	}
	return d, &d.pages[i], nil
}

func (f *fakePDF) PageCount(data []byte) (int, error) {
	d, err := f.doc(data)
	if err != nil {
		return 0, err
	}
	return len(d.pages), nil
}

func (f *fakePDF) PageSize(data []byte, i int) (float64, float64, error) {
	_, p, err := f.page(data, i)
	if err != nil {
		return 0, 0, err
	}
	return p.width, p.height, nil
}

func (f *fakePDF) CollectPages(data []byte, indices []int) ([]byte, error) {
	d, err := f.doc(data)
	if err != nil {
		return nil, err
	}
	pages := make([]fakePage, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(d.pages) {
			return nil, fmt.Errorf("page %d out of range", i)
		}
		pages = append(pages, d.pages[i])
	}
	return f.register(pages...), nil
}

func (f *fakePDF) SplitPageHorizontal(data []byte, i int) ([]byte, []byte, error) {
	_, p, err := f.page(data, i)
	if err != nil {
		return nil, nil, err
	}
	top := fakePage{
		width: p.width, height: p.height / 2,
		text: p.topText, topText: p.topText, botText: p.topText,
	}
	bottom := fakePage{
		width: p.width, height: p.height / 2,
		text: p.botText, topText: p.botText, botText: p.botText,
	}
	return f.register(top), f.register(bottom), nil
}

func (f *fakePDF) RotatePage(data []byte, i, degrees int) ([]byte, error) {
	d, err := f.doc(data)
	if err != nil {
		return nil, err
	}
	pages := append([]fakePage(nil), d.pages...)
	if i < 0 || i >= len(pages) {
		return nil, fmt.Errorf("page %d out of range", i)
	}
	pages[i].rotation = (pages[i].rotation + degrees) % 360
	return f.register(pages...), nil
}

func (f *fakePDF) CropPage(data []byte, i int, x, y, w, h float64) ([]byte, error) {
	d, err := f.doc(data)
	if err != nil {
		return nil, err
	}
	pages := append([]fakePage(nil), d.pages...)
	if i < 0 || i >= len(pages) {
		return nil, fmt.Errorf("page %d out of range", i)
	}
	crop := [4]float64{x, y, w, h}
	pages[i].crop = &crop
	return f.register(pages...), nil
}

func (f *fakePDF) Merge(docs [][]byte) ([]byte, error) {
	var pages []fakePage
	for _, data := range docs {
		d, err := f.doc(data)
		if err != nil {
			return nil, err
		}
		pages = append(pages, d.pages...)
	}
	return f.register(pages...), nil
}

func (f *fakePDF) Text(data []byte) (string, error) {
	d, err := f.doc(data)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(d.pages))
	for _, p := range d.pages {
		parts = append(parts, p.text)
	}
	return strings.Join(parts, "\n"), nil
}

func (f *fakePDF) PageText(data []byte, i int) (string, error) {
	_, p, err := f.page(data, i)
	if err != nil {
		return "", err
	}
	return p.text, nil
}

func (f *fakePDF) PageBandText(data []byte, i int, yMin, _ float64) (string, error) {
	_, p, err := f.page(data, i)
	if err != nil {
		return "", err
	}
	if yMin >= p.height/2 {
		return p.topText, nil
	}
	return p.botText, nil
}
