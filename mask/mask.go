// Package mask provides bit masks for pixel perfect collision tests.
package mask

import (
	"image"
	"image/color"
	"math/bits"
)

// DefaultThreshold is the alpha threshold used when building masks from images.
const DefaultThreshold = 127

const wordBits = 64

// Mask is a w x h grid of bits stored row by row in 64-bit words. Bits past
// the width of a row are always zero.
type Mask struct {
	w, h   int
	stride int
	words  []uint64
}

// New returns an empty w x h mask.
func New(w, h int) *Mask {
	w, h = max(w, 0), max(h, 0)
	stride := (w + wordBits - 1) / wordBits
	return &Mask{w: w, h: h, stride: stride, words: make([]uint64, stride*h)}
}

// FromImage sets a bit for every pixel whose alpha is above threshold.
func FromImage(img image.Image, threshold uint8) *Mask {
	if img == nil {
		return New(0, 0)
	}
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if uint8(a>>8) > threshold {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// FromColorKey sets a bit for every pixel that is not the key colour.
func FromColorKey(img image.Image, key color.Color) *Mask {
	if img == nil {
		return New(0, 0)
	}
	kr, kg, kb, ka := key.RGBA()
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if r != kr || g != kg || bl != kb || a != ka {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// Size returns the width and height.
func (m *Mask) Size() (int, int) {
	if m == nil {
		return 0, 0
	}
	return m.w, m.h
}

func (m *Mask) in(x, y int) bool {
	return m != nil && x >= 0 && y >= 0 && x < m.w && y < m.h
}

// Get reports whether the bit at (x, y) is set. Out of range reads are false.
func (m *Mask) Get(x, y int) bool {
	if !m.in(x, y) {
		return false
	}
	return m.words[y*m.stride+x/wordBits]&(1<<uint(x%wordBits)) != 0
}

// Set changes one bit. Out of range writes are ignored.
func (m *Mask) Set(x, y int, on bool) {
	if !m.in(x, y) {
		return
	}
	i := y*m.stride + x/wordBits
	bit := uint64(1) << uint(x%wordBits)
	if on {
		m.words[i] |= bit
	} else {
		m.words[i] &^= bit
	}
}

// Fill sets every bit.
func (m *Mask) Fill() {
	if m == nil {
		return
	}
	for i := range m.words {
		m.words[i] = ^uint64(0)
	}
	m.trim()
}

// Clear unsets every bit.
func (m *Mask) Clear() {
	if m == nil {
		return
	}
	clear(m.words)
}

// Invert flips every bit.
func (m *Mask) Invert() {
	if m == nil {
		return
	}
	for i := range m.words {
		m.words[i] = ^m.words[i]
	}
	m.trim()
}

// trim zeroes the padding bits of the last word in each row.
func (m *Mask) trim() {
	rem := m.w % wordBits
	if rem == 0 || m.stride == 0 {
		return
	}
	keep := uint64(1)<<uint(rem) - 1
	for y := 0; y < m.h; y++ {
		m.words[y*m.stride+m.stride-1] &= keep
	}
}

// Count returns the number of set bits.
func (m *Mask) Count() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Centroid returns the mean position of the set bits, or (0, 0) for an empty mask.
func (m *Mask) Centroid() image.Point {
	if m == nil {
		return image.Point{}
	}
	var sx, sy, n int
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if m.Get(x, y) {
				sx += x
				sy += y
				n++
			}
		}
	}
	if n == 0 {
		return image.Point{}
	}
	return image.Pt(sx/n, sy/n)
}

// BoundingRect returns the smallest rectangle holding every set bit.
func (m *Mask) BoundingRect() image.Rectangle {
	if m == nil {
		return image.Rectangle{}
	}
	var r image.Rectangle
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if m.Get(x, y) {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

// window returns 64 bits of row y starting at column x. Bits past the row are zero.
func (m *Mask) window(y, x int) uint64 {
	row := m.words[y*m.stride : (y+1)*m.stride]
	i, shift := x/wordBits, uint(x%wordBits)
	if i >= len(row) {
		return 0
	}
	v := row[i] >> shift
	if shift != 0 && i+1 < len(row) {
		v |= row[i+1] << (wordBits - shift)
	}
	return v
}

// overlapRegion returns the shared area in m's coordinates when other is
// placed at offset.
func (m *Mask) overlapRegion(other *Mask, offset image.Point) image.Rectangle {
	if m == nil || other == nil {
		return image.Rectangle{}
	}
	a := image.Rect(0, 0, m.w, m.h)
	b := image.Rect(0, 0, other.w, other.h).Add(offset)
	return a.Intersect(b)
}

// scan calls fn with each 64-bit chunk of shared set bits, row by row. fn
// returns false to stop.
func (m *Mask) scan(other *Mask, offset image.Point, fn func(x, y int, bits uint64) bool) {
	r := m.overlapRegion(other, offset)
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x += wordBits {
			v := m.window(y, x) & other.window(y-offset.Y, x-offset.X)
			if n := r.Max.X - x; n < wordBits {
				v &= uint64(1)<<uint(n) - 1
			}
			if v != 0 && !fn(x, y, v) {
				return
			}
		}
	}
}

// Overlap returns the first bit set in both masks, scanning rows top to
// bottom and columns left to right. other is placed at offset relative to m
// and the point is in m's coordinates.
func (m *Mask) Overlap(other *Mask, offset image.Point) (image.Point, bool) {
	var hit image.Point
	found := false
	m.scan(other, offset, func(x, y int, v uint64) bool {
		hit = image.Pt(x+bits.TrailingZeros64(v), y)
		found = true
		return false
	})
	return hit, found
}

// OverlapArea returns the number of bits set in both masks.
func (m *Mask) OverlapArea(other *Mask, offset image.Point) int {
	n := 0
	m.scan(other, offset, func(_, _ int, v uint64) bool {
		n += bits.OnesCount64(v)
		return true
	})
	return n
}

// OverlapMask returns a mask the size of m holding the bits set in both masks.
func (m *Mask) OverlapMask(other *Mask, offset image.Point) *Mask {
	w, h := m.Size()
	out := New(w, h)
	m.scan(other, offset, func(x, y int, v uint64) bool {
		for v != 0 {
			tz := bits.TrailingZeros64(v)
			out.Set(x+tz, y, true)
			v &= v - 1
		}
		return true
	})
	return out
}
