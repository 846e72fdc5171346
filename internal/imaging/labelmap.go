package imaging

// LabelMap is an int32 grid with one cell per pixel. The meaning of the
// values depends on the pipeline stage that produced it: cluster indices in
// [0,K) after quantization, seed ids (0 = unknown) after marker construction,
// and region ids or the boundary sentinel after segmentation.
type LabelMap struct {
	W, H   int
	Labels []int32
}

// NewLabelMap allocates a zeroed w x h label map.
func NewLabelMap(w, h int) *LabelMap {
	return &LabelMap{W: w, H: h, Labels: make([]int32, w*h)}
}

// Index returns the flat index of pixel (x, y).
func (m *LabelMap) Index(x, y int) int {
	return y*m.W + x
}

// At returns the label at (x, y).
func (m *LabelMap) At(x, y int) int32 {
	return m.Labels[y*m.W+x]
}

// Set stores a label at (x, y).
func (m *LabelMap) Set(x, y int, v int32) {
	m.Labels[y*m.W+x] = v
}

// InBounds reports whether (x, y) lies inside the grid.
func (m *LabelMap) InBounds(x, y int) bool {
	return x >= 0 && x < m.W && y >= 0 && y < m.H
}

// Clone returns a deep copy of the map.
func (m *LabelMap) Clone() *LabelMap {
	out := &LabelMap{W: m.W, H: m.H, Labels: make([]int32, len(m.Labels))}
	copy(out.Labels, m.Labels)
	return out
}
