package grid

// Packer implements the left-to-right, top-to-bottom row packing used to turn
// a linear widget order into grid coordinates.
type Packer struct {
	Columns   int
	cursorCol int
	cursorRow int
}

// NewPacker creates a packer for the standard 3-column grid.
func NewPacker() *Packer {
	return &Packer{Columns: Columns}
}

// Reset rewinds the cursor to the top-left cell.
func (p *Packer) Reset() {
	p.cursorCol = 0
	p.cursorRow = 0
}

// Place reserves span columns and returns the (row, column) of the slot.
// A span that does not fit the rest of the current row wraps to a new row.
func (p *Packer) Place(span int) (int, int) {
	if p.cursorCol+span > p.Columns {
		p.cursorRow++
		p.cursorCol = 0
	}
	row := p.cursorRow
	col := p.cursorCol
	p.cursorCol += span
	return row, col
}
