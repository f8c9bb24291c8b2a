package geometry

// Glyph is the layout metric of one character.
type Glyph struct {
	Rune rune

	// Advance is the horizontal advance in font units.
	Advance float64
}

// LabelOptions sizes an extruded label.
type LabelOptions struct {
	// Size is the cap height in scene units.
	Size float32

	// Depth is the extrusion depth.
	Depth float32

	// Resolution is the font units per em.
	Resolution float64

	// Spacing is the gap between glyph blocks as a fraction of each advance.
	Spacing float32
}

// Label lays glyphs out left to right from the origin as extruded blocks, one per
// glyph, each as wide as the glyph advance. Whitespace advances without a block.
//
// Parameters:
//   - glyphs: the glyph metrics in order
//   - opts: sizing options
//
// Returns:
//   - Mesh: the merged blocks
//   - float32: the total label width
func Label(glyphs []Glyph, opts LabelOptions) (Mesh, float32) {
	m := Mesh{Name: "label", Topology: TopologyTriangles}
	res := opts.Resolution
	if res <= 0 {
		res = 1000
	}

	var cursor float32
	for _, g := range glyphs {
		w := float32(g.Advance/res) * opts.Size
		if g.Rune != ' ' && w > 0 {
			bw := w * (1 - opts.Spacing)
			block := Box(bw, opts.Size, opts.Depth)
			block.Translate([3]float32{cursor + w/2, opts.Size / 2, opts.Depth / 2})
			m.Merge(block)
		}
		cursor += w
	}
	return m, cursor
}
