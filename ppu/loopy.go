package ppu

// loopy stores the PPU's internal v/t scroll registers, named for
// Loopy, who documented their exact bit layout and increment rules:
// yyy NN YYYYY XXXXX
// ||| || ||||| +++++-- coarse X scroll
// ||| || +++++-------- coarse Y scroll
// ||| ++-------------- nametable select
// +++----------------- fine Y scroll
type loopy struct {
	data uint16 // only 15 bits used
}

func (l *loopy) coarseX() uint16 { return l.data & 0x001F }

func (l *loopy) setCoarseX(n uint16) { l.data = (l.data & 0xFFE0) | (n & 0x1F) }

// incrementCoarseX wraps at 31 and flips the horizontal nametable bit,
// exactly as the per-tile background fetch increments do on real
// hardware.
func (l *loopy) incrementCoarseX() {
	if l.coarseX() == 31 {
		l.data &^= 0x001F
		l.data ^= 0x0400
	} else {
		l.data++
	}
}

func (l *loopy) coarseY() uint16 { return (l.data & 0x03E0) >> 5 }

func (l *loopy) setCoarseY(n uint16) { l.data = (l.data & 0xFC1F) | ((n & 0x1F) << 5) }

// incrementY increments fine Y, carrying into coarse Y (with the
// documented 29/31 wrap quirk: row 29 wraps and flips the vertical
// nametable bit, but row 31 -- reachable only by writing coarse Y
// directly via $2006 -- just wraps without flipping it).
func (l *loopy) incrementY() {
	if l.fineY() < 7 {
		l.setFineYRaw(l.fineY() + 1)
		return
	}
	l.setFineYRaw(0)
	switch l.coarseY() {
	case 29:
		l.setCoarseY(0)
		l.data ^= 0x0800
	case 31:
		l.setCoarseY(0)
	default:
		l.setCoarseY(l.coarseY() + 1)
	}
}

func (l *loopy) nametableX() uint16 { return (l.data & 0x0400) >> 10 }
func (l *loopy) nametableY() uint16 { return (l.data & 0x0800) >> 11 }

func (l *loopy) fineY() uint16 { return (l.data & 0x7000) >> 12 }

func (l *loopy) setFineYRaw(n uint16) { l.data = (l.data & 0x8FFF) | ((n & 0x7) << 12) }

// copyHorizontal transfers coarse X and the horizontal nametable bit
// from src into l, as dot 257 of every visible/pre-render scanline
// does (t -> v).
func (l *loopy) copyHorizontal(src *loopy) {
	l.data = (l.data &^ 0x041F) | (src.data & 0x041F)
}

// copyVertical transfers fine Y, coarse Y and the vertical nametable
// bit, as dots 280-304 of the pre-render scanline do.
func (l *loopy) copyVertical(src *loopy) {
	l.data = (l.data &^ 0x7BE0) | (src.data & 0x7BE0)
}

// nametableAddr returns the $2000-range address the current v selects.
func (l *loopy) nametableAddr() uint16 {
	return 0x2000 | (l.data & 0x0FFF)
}

// attributeAddr returns the attribute-table byte address for v.
func (l *loopy) attributeAddr() uint16 {
	return 0x23C0 | (l.data & 0x0C00) | ((l.coarseY() >> 2) << 3) | (l.coarseX() >> 2)
}
