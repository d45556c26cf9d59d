package cartridge

// mapper0 implements NROM: no bank switching. PRG-ROM is 16KiB or
// 32KiB; a 16KiB image is mirrored so that both $8000-$BFFF and
// $C000-$FFFF read the same bank. CHR is either ROM or RAM, always a
// single 8KiB bank.
type mapper0 struct {
	prg       []byte
	chr       []byte
	mirror    bool // true if prg is 16KiB and needs mirroring
	mirroring Mirroring
	saveRAM   bool
}

func newMapper0(c *Cartridge) Mapper {
	return &mapper0{
		prg:       c.prg,
		chr:       c.chr,
		mirror:    len(c.prg) <= prgBlockSize,
		mirroring: c.h.mirroring(),
		saveRAM:   c.h.hasPrgRAM(),
	}
}

// MirroringMode and HasSaveRAM are header-fixed for NROM boards: mapper
// 0 has no mirroring-select or PRG-RAM-enable latch of its own, but the
// interface carries them so mappers that do control these aren't
// bypassed by the bus reading straight off the cartridge header.
func (m *mapper0) MirroringMode() Mirroring { return m.mirroring }
func (m *mapper0) HasSaveRAM() bool         { return m.saveRAM }

func (m *mapper0) prgIndex(addr uint16) uint16 {
	a := addr - 0x8000
	if m.mirror {
		a %= prgBlockSize
	}
	return a
}

func (m *mapper0) PrgRead(addr uint16) uint8 {
	return m.prg[m.prgIndex(addr)]
}

// PrgWrite is a no-op: NROM carries no PRG-RAM or bank-select latch,
// so the cartridge-space writes the memory controller forwards here are
// dropped.
func (m *mapper0) PrgWrite(addr uint16, val uint8) {}

func (m *mapper0) ChrRead(addr uint16) uint8 {
	return m.chr[addr]
}

func (m *mapper0) ChrWrite(addr uint16, val uint8) {
	m.chr[addr] = val
}
