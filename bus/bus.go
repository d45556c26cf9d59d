// Package bus wires the CPU, PPU, cartridge mapper, and controllers
// together into the NES memory map and drives the master clock that
// keeps them in lockstep.
package bus

import (
	"math"

	"nescore/cartridge"
	"nescore/cpu"
	"nescore/ppu"
)

const (
	ramSize = 0x0800 // 2KiB built-in RAM, mirrored through $1FFF

	maxRAMMirror = 0x1FFF
	maxPPUMirror = 0x3FFF
	joypad1      = 0x4016
	joypad2      = 0x4017
	oamDMA       = 0x4014
	maxIORegion  = 0x4020
	maxAddress   = math.MaxUint16
)

// Bus is the CPU's view of the address space and the orchestrator that
// advances the whole console one master tick at a time.
type Bus struct {
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	cart *cartridge.Cartridge

	ram [ramSize]uint8

	Pad1, Pad2 Controller

	openBus uint8

	dmaAlign    int // 0 or 1: the extra alignment cycle on an odd-cycle trigger
	dmaTransfer int // cycles left in the 512-cycle read/write transfer
	dmaPage     uint8
	dmaByte     int
	dmaLatch    uint8
}

// New builds a Bus for cart, rendering at the given TV timing.
func New(cart *cartridge.Cartridge, tv ppu.TVSystem, opts ...cpu.Option) *Bus {
	b := &Bus{cart: cart}
	b.ppu = ppu.New(cart.Mapper, cart.Mirroring(), tv)
	b.cpu = cpu.New(b, opts...)
	return b
}

// CPU exposes the wired CPU for introspection (debuggers, tests).
func (b *Bus) CPU() *cpu.CPU { return b.cpu }

// PPU exposes the wired PPU for introspection and frame presentation.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// Reset starts the CPU's power-on/reset sequence, which then runs over
// the next seven Steps, same as any other instruction.
func (b *Bus) Reset() { b.cpu.Reset() }

func (b *Bus) Read(addr uint16) uint8 {
	var v uint8
	switch {
	case addr <= maxRAMMirror:
		v = b.ram[addr&0x07FF]
	case addr <= maxPPUMirror:
		v = b.ppu.ReadReg(0x2000+(addr&0x0007), b.openBus)
	case addr == joypad1:
		v = (b.Pad1.read() & 0x01) | (b.openBus & 0xE0)
	case addr == joypad2:
		v = (b.Pad2.read() & 0x01) | (b.openBus & 0xE0)
	case addr < maxIORegion:
		// APU registers and unmapped I/O: open bus, no APU in scope.
		v = b.openBus
	case addr <= maxAddress:
		v = b.cart.Mapper.PrgRead(addr)
	}
	b.openBus = v
	return v
}

func (b *Bus) Write(addr uint16, val uint8) {
	b.openBus = val
	switch {
	case addr <= maxRAMMirror:
		b.ram[addr&0x07FF] = val
	case addr <= maxPPUMirror:
		b.ppu.WriteReg(0x2000+(addr&0x0007), val)
	case addr == oamDMA:
		b.triggerDMA(val)
	case addr == joypad1:
		// $4016 strobes both pads; $4017 is the APU frame counter
		// on real hardware and carries no joypad meaning here.
		b.Pad1.write(val)
		b.Pad2.write(val)
	case addr < maxIORegion:
		// APU writes: accepted, not modeled.
	case addr <= maxAddress:
		b.cart.Mapper.PrgWrite(addr, val)
	}
}

// triggerDMA schedules the $4014 OAM DMA transfer: one alternating
// read/write cycle per OAM byte (512 cycles for 256 bytes), preceded
// by a mandatory one-cycle sync with the CPU clock plus one more if
// OAMDMA was written on an odd CPU cycle (513 or 514 cycles total, the
// well-known DMA stall length). The transfer itself is spread one bus
// cycle per stepDMA call rather than performed up front, so a mid-transfer
// CPU/PPU state inspection (a debugger, a test) sees it actually in
// progress.
func (b *Bus) triggerDMA(page uint8) {
	b.dmaPage = page
	b.dmaByte = 0
	b.dmaTransfer = 512
	b.dmaAlign = 1 // mandatory cycle to synchronize with the CPU clock
	if b.cpu.TotalCycles()%2 == 1 {
		b.dmaAlign = 2 // one more if OAMDMA was written on an odd cycle
	}
}

func (b *Bus) dmaActive() bool {
	return b.dmaAlign > 0 || b.dmaTransfer > 0
}

// stepDMA consumes one stalled CPU cycle: the alignment cycle does
// nothing, then each pair of cycles reads one source byte and writes
// it to OAMDATA, same as the CPU's read/write bus cycles would.
func (b *Bus) stepDMA() {
	if b.dmaAlign > 0 {
		b.dmaAlign--
		return
	}
	base := uint16(b.dmaPage) << 8
	if b.dmaTransfer%2 == 0 {
		b.dmaLatch = b.Read(base + uint16(b.dmaByte))
	} else {
		b.ppu.WriteReg(ppu.OAMDATA, b.dmaLatch)
		b.dmaByte++
	}
	b.dmaTransfer--
}

// Step advances the console by one master tick: one CPU cycle (or one
// consumed DMA cycle) followed by three PPU dots, the 1:3 clock ratio
// the 2A03/2C02 pair runs at. It reports whether a PPU tick this step
// reached the post-render scanline (240, dot 0), i.e. a frame is
// complete and ready to present.
func (b *Bus) Step() bool {
	if b.dmaActive() {
		b.stepDMA()
	} else {
		b.cpu.Tick()
	}

	var frameReady bool
	for i := 0; i < 3; i++ {
		nmi, fr := b.ppu.Tick()
		if nmi {
			b.cpu.SetNMILine(true)
		}
		if fr {
			frameReady = true
		}
	}
	return frameReady
}
