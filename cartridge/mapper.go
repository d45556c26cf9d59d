package cartridge

import "fmt"

// Mapper is the interface the CPU and PPU bus use to reach cartridge
// memory. Only mapper 0 (NROM) is implemented and registered in core
// scope; a future mapper id would be registered the same way and only
// needs to provide this interface, never touch the bus or CPU/PPU.
type Mapper interface {
	PrgRead(addr uint16) uint8
	PrgWrite(addr uint16, val uint8)
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	MirroringMode() Mirroring
	HasSaveRAM() bool
}

type mapperFactory func(c *Cartridge) Mapper

var registry = map[uint8]mapperFactory{}

func registerMapper(id uint8, f mapperFactory) {
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("cartridge: mapper %d already registered", id))
	}
	registry[id] = f
}

func newMapper(id uint8, c *Cartridge) (Mapper, error) {
	f, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("cartridge: unsupported mapper %d", id)
	}
	return f(c), nil
}

func init() {
	registerMapper(0, newMapper0)
}
