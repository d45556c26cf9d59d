package ppu

// Tick runs one PPU dot and reports whether this dot raised the NMI
// line (VBL set with NMI-enable on) and whether it is dot 0 of the
// post-render scanline 240, where the frame's visible picture is
// complete and a caller should present its pixels.
func (p *PPU) Tick() (nmi bool, frameReady bool) {
	last := p.tv.scanlinesPerFrame() - 1
	isPrerender := p.scanline == last
	isVisible := p.scanline < 240

	if isVisible || isPrerender {
		p.renderDot(isVisible, isPrerender)
	}

	if p.scanline == 241 && p.dot == 1 {
		p.status |= STATUS_VERTICAL_BLANK
		if p.ctrl&CTRL_GENERATE_NMI != 0 {
			nmi = true
		}
	}
	if isPrerender && p.dot == 1 {
		p.status &^= STATUS_VERTICAL_BLANK | STATUS_SPRITE_0_HIT | STATUS_SPRITE_OVERFLOW
	}
	if p.scanline == 240 && p.dot == 0 {
		frameReady = true
	}

	p.advanceDot(isPrerender)
	return nmi, frameReady
}

func (p *PPU) advanceDot(isPrerender bool) {
	p.dot++
	// NTSC odd-frame dot skip: the pre-render line is one dot short
	// when rendering is on, so the next tick rolls the scanline over
	// immediately instead of rendering dot 340.
	if isPrerender && p.dot == 340 && p.tv == NTSC && p.renderingEnabled() && p.frame%2 == 1 {
		p.dot = 341
	}
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > p.tv.scanlinesPerFrame()-1 {
			p.scanline = 0
			p.frame++
		}
	}
}

func (p *PPU) renderDot(isVisible, isPrerender bool) {
	if !p.renderingEnabled() {
		if isVisible && p.dot >= 1 && p.dot <= 256 {
			p.outputPixel()
		}
		return
	}

	if isVisible && p.dot == 0 {
		p.sp.current = p.sp.next
		p.sp.currentCount = p.sp.nextCount
	}

	fetching := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)
	if fetching {
		p.backgroundFetch()
	}

	if isVisible && p.dot >= 1 && p.dot <= 256 {
		p.outputPixel()
	}

	if fetching {
		p.shiftRegisters()
	}

	if p.dot == 256 {
		p.v.incrementY()
	}
	if p.dot == 257 {
		p.v.copyHorizontal(&p.t)
	}
	if isPrerender && p.dot >= 280 && p.dot <= 304 {
		p.v.copyVertical(&p.t)
	}

	if p.dot == 65 {
		p.evaluateSprites()
	}
	if p.dot == 257 {
		p.fetchSprites()
	}
}

// backgroundFetch runs the 8-dot nametable/attribute/pattern fetch
// group; each of the four steps is modeled as happening on a single
// dot rather than the two cycles real hardware spends per byte, since
// nothing on the bus can observe the difference.
func (p *PPU) backgroundFetch() {
	switch (p.dot - 1) % 8 {
	case 0:
		p.bg.ntByte = p.readVRAM(p.v.nametableAddr())
	case 2:
		raw := p.readVRAM(p.v.attributeAddr())
		shift := ((p.v.coarseY() & 2) << 1) | (p.v.coarseX() & 2)
		p.bg.atByte = (raw >> shift) & 0x03
	case 4:
		base := p.backgroundPatternBase()
		p.bg.patternLo = p.readVRAM(base | uint16(p.bg.ntByte)<<4 | p.v.fineY())
	case 6:
		base := p.backgroundPatternBase()
		p.bg.patternHi = p.readVRAM(base | uint16(p.bg.ntByte)<<4 | p.v.fineY() | 0x08)
	case 7:
		p.loadBackgroundShiftRegisters()
		p.v.incrementCoarseX()
	}
}

func (p *PPU) backgroundPatternBase() uint16 {
	if p.ctrl&CTRL_BACKROUND_PATTERN_ADDR != 0 {
		return 0x1000
	}
	return 0
}

func (p *PPU) loadBackgroundShiftRegisters() {
	p.bg.shiftPatternLo = (p.bg.shiftPatternLo &^ 0xFF) | uint16(p.bg.patternLo)
	p.bg.shiftPatternHi = (p.bg.shiftPatternHi &^ 0xFF) | uint16(p.bg.patternHi)
	var attrLo, attrHi uint16
	if p.bg.atByte&0x01 != 0 {
		attrLo = 0xFF
	}
	if p.bg.atByte&0x02 != 0 {
		attrHi = 0xFF
	}
	p.bg.shiftAttrLo = (p.bg.shiftAttrLo &^ 0xFF) | attrLo
	p.bg.shiftAttrHi = (p.bg.shiftAttrHi &^ 0xFF) | attrHi
}

func (p *PPU) shiftRegisters() {
	p.bg.shiftPatternLo <<= 1
	p.bg.shiftPatternHi <<= 1
	p.bg.shiftAttrLo <<= 1
	p.bg.shiftAttrHi <<= 1
}

func (p *PPU) spriteHeight() int {
	if p.ctrl&CTRL_SPRITE_SIZE != 0 {
		return 16
	}
	return 8
}

// evaluateSprites populates secondary OAM for the next scanline,
// reproducing the diagonal n/m scan that produces the hardware's
// overflow-flag false positives and negatives once 8 sprites are
// already found. It runs as one batch at dot 65 rather than spread
// across dots 65-256: the CPU cannot observe primary/secondary OAM
// mid-evaluation, only the final result and the overflow flag.
func (p *PPU) evaluateSprites() {
	for i := range p.secondaryOAM {
		p.secondaryOAM[i] = 0xFF
	}

	target := (p.scanline + 1) % p.tv.scanlinesPerFrame()
	height := p.spriteHeight()

	n, m := 0, 0
	copied := 0
	zeroSlot := -1
	overflow := false

	for n < 64 {
		y := int(p.oamData[n*4])
		if copied < 8 {
			if target-y >= 0 && target-y < height {
				copy(p.secondaryOAM[copied*4:copied*4+4], p.oamData[n*4:n*4+4])
				if n == 0 {
					zeroSlot = copied
				}
				copied++
			}
			n++
			continue
		}

		testY := int(p.oamData[n*4+m])
		if target-testY >= 0 && target-testY < height {
			overflow = true
		}
		n++
		m = (m + 1) % 4
	}

	if overflow {
		p.status |= STATUS_SPRITE_OVERFLOW
	}
	p.sp.nextCount = copied
	p.sp.nextZeroSlot = zeroSlot
}

// fetchSprites builds the pattern-shift state for each sprite secondary
// OAM found, ready to be swapped into "current" at the next scanline's
// dot 0.
func (p *PPU) fetchSprites() {
	target := uint16((p.scanline + 1) % p.tv.scanlinesPerFrame())
	height := uint16(p.spriteHeight())

	for s := 0; s < 8; s++ {
		if s >= p.sp.nextCount {
			p.sp.next[s] = spriteSlot{}
			continue
		}
		o := OAMFromBytes(p.secondaryOAM[s*4 : s*4+4])

		row := target - uint16(o.y)
		if o.flipV {
			row = height - 1 - row
		}

		var addr uint16
		if height == 16 {
			table := uint16(o.tileId&0x01) * 0x1000
			tile := uint16(o.tileId &^ 0x01)
			if row >= 8 {
				tile++
				row -= 8
			}
			addr = table | tile<<4 | row
		} else {
			table := uint16(0)
			if p.ctrl&CTRL_SPRITE_PATTERN_ADDR != 0 {
				table = 0x1000
			}
			addr = table | uint16(o.tileId)<<4 | row
		}

		lo := p.readVRAM(addr)
		hi := p.readVRAM(addr + 8)
		if o.flipH {
			lo, hi = reverseBits(lo), reverseBits(hi)
		}

		p.sp.next[s] = spriteSlot{
			patternLo: lo,
			patternHi: hi,
			x:         o.x,
			attr:      o.attributes(),
			isZero:    s == p.sp.nextZeroSlot,
		}
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// outputPixel composes the background and sprite pixels for the
// current (scanline, dot) and writes one framebuffer entry.
func (p *PPU) outputPixel() {
	x := p.dot - 1

	var bgPixel, bgPalette uint8
	if p.mask&MASK_SHOW_BACKGROUND != 0 && !(x < 8 && p.mask&MASK_SHOW_BACKGROUND_LEFT == 0) {
		bit := 15 - uint16(p.x)
		lo := uint8((p.bg.shiftPatternLo >> bit) & 1)
		hi := uint8((p.bg.shiftPatternHi >> bit) & 1)
		bgPixel = hi<<1 | lo
		al := uint8((p.bg.shiftAttrLo >> bit) & 1)
		ah := uint8((p.bg.shiftAttrHi >> bit) & 1)
		bgPalette = ah<<1 | al
	}

	var spritePixel, spritePalette uint8
	var spriteBehind, spriteFound, spriteZero bool
	if p.mask&MASK_SHOW_SPRITES != 0 && !(x < 8 && p.mask&MASK_SHOW_SPRITES_LEFT == 0) {
		for i := 0; i < p.sp.currentCount; i++ {
			s := &p.sp.current[i]
			shift := x - int(s.x)
			if shift < 0 || shift > 7 {
				continue
			}
			bitpos := uint(7 - shift)
			lo := (s.patternLo >> bitpos) & 1
			hi := (s.patternHi >> bitpos) & 1
			pat := hi<<1 | lo
			if pat == 0 {
				continue
			}
			spritePixel = pat
			spritePalette = s.attr & 0x03
			spriteBehind = s.attr&0x20 != 0
			spriteZero = s.isZero
			spriteFound = true
			break
		}
	}

	var idx uint8
	switch {
	case !spriteFound && bgPixel == 0:
		idx = p.paletteTable[0]
	case !spriteFound:
		idx = p.pixelColorIndex(false, bgPalette, bgPixel)
	case bgPixel == 0:
		idx = p.pixelColorIndex(true, spritePalette, spritePixel)
	case spriteBehind:
		idx = p.pixelColorIndex(false, bgPalette, bgPixel)
	default:
		idx = p.pixelColorIndex(true, spritePalette, spritePixel)
	}

	if spriteFound && spriteZero && bgPixel != 0 && x != 255 {
		p.status |= STATUS_SPRITE_0_HIT
	}

	p.pixels[p.scanline*NES_RES_WIDTH+x] = applyMaskEffects(idx, p.mask)
}

// pixelColorIndex resolves a pattern/palette pair to a 6-bit palette
// RAM index. Pattern index 0 always selects the universal backdrop,
// regardless of which palette would otherwise apply.
func (p *PPU) pixelColorIndex(isSprite bool, palette, pixel uint8) uint8 {
	if pixel == 0 {
		return p.paletteTable[0]
	}
	idx := uint16(palette&0x03)<<2 | uint16(pixel&0x03)
	if isSprite {
		idx |= 0x10
	}
	return p.paletteTable[paletteAddr(0x3F00+idx)]
}
