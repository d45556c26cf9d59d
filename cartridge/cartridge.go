package cartridge

import (
	"fmt"
	"io"
	"os"
)

const (
	trainerSize  = 512
	prgBlockSize = 16384
	chrBlockSize = 8192
)

// Cartridge holds the PRG-ROM/CHR-ROM data and metadata parsed from an
// iNES 1.0 file, plus the active Mapper that translates CPU/PPU bus
// addresses onto that data.
type Cartridge struct {
	h       *header
	trainer []byte
	prg     []byte
	chr     []byte
	chrRAM  bool

	Mapper Mapper
}

// Load reads path as an iNES 1.0 ROM image. Parse failures (bad magic,
// truncated body) are returned here, before the core ever observes the
// cartridge; the core itself never re-validates its input.
func Load(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: open %q: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses an iNES 1.0 image from r.
func Read(r io.Reader) (*Cartridge, error) {
	hb := make([]byte, 16)
	if _, err := io.ReadFull(r, hb); err != nil {
		return nil, fmt.Errorf("cartridge: reading header: %w", err)
	}
	h, err := parseHeader(hb)
	if err != nil {
		return nil, err
	}

	c := &Cartridge{h: h}

	if h.hasTrainer() {
		c.trainer = make([]byte, trainerSize)
		if _, err := io.ReadFull(r, c.trainer); err != nil {
			return nil, fmt.Errorf("cartridge: reading trainer: %w", err)
		}
	}

	prgLen := int(h.prgSize) * prgBlockSize
	c.prg = make([]byte, prgLen)
	if _, err := io.ReadFull(r, c.prg); err != nil {
		return nil, fmt.Errorf("cartridge: reading PRG-ROM (want %d bytes): %w", prgLen, err)
	}

	chrLen := int(h.chrSize) * chrBlockSize
	if chrLen == 0 {
		// CHR RAM: 8KiB, as-is for mapper 0 boards.
		c.chr = make([]byte, chrBlockSize)
		c.chrRAM = true
	} else {
		c.chr = make([]byte, chrLen)
		if _, err := io.ReadFull(r, c.chr); err != nil {
			return nil, fmt.Errorf("cartridge: reading CHR-ROM (want %d bytes): %w", chrLen, err)
		}
	}

	m, err := newMapper(h.mapperNum(), c)
	if err != nil {
		return nil, err
	}
	c.Mapper = m

	return c, nil
}

func (c *Cartridge) Mirroring() Mirroring { return c.Mapper.MirroringMode() }
func (c *Cartridge) HasSaveRAM() bool     { return c.Mapper.HasSaveRAM() }
func (c *Cartridge) MapperNum() uint8     { return c.h.mapperNum() }

func (c *Cartridge) String() string {
	return fmt.Sprintf("%s mapper=%d mirroring=%s prg=%dKiB chr=%dKiB",
		c.h, c.h.mapperNum(), c.Mirroring(), len(c.prg)/1024, len(c.chr)/1024)
}
