package bus

import (
	"bytes"
	"testing"

	"nescore/cartridge"
	"nescore/ppu"
)

// newTestCartridge builds a minimal mapper-0 iNES image: 16KiB PRG, 8KiB
// CHR, horizontal mirroring, no trainer.
func newTestCartridge(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	header := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	body := make([]byte, 16384+8192)
	buf := append(append([]byte{}, header...), body...)

	c, err := cartridge.Read(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("building test cartridge: %v", err)
	}
	return c
}

func newTestBus(t *testing.T) *Bus {
	return New(newTestCartridge(t), ppu.NTSC)
}

func TestRAMMirroring(t *testing.T) {
	b := newTestBus(t)
	for i := 0; i < 10; i++ {
		b.Write(uint16(i), uint8(i+1))
	}

	for _, base := range []uint16{0, 0x0800, 0x1000, 0x1800} {
		for i := 0; i < 10; i++ {
			if got := b.Read(base + uint16(i)); got != uint8(i+1) {
				t.Errorf("mem[%04X] = %02X, want %02X", base+uint16(i), got, i+1)
			}
		}
	}
}

func TestPPURegisterMirroring(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x2000, 0x80) // PPUCTRL, via the base address
	b.Write(0x2006, 0x20) // PPUADDR hi, via the base address
	b.Write(0x200E, 0x00) // PPUADDR lo, via its mirror 8 bytes up
	if b.ppu.OAMAddr() != 0 {
		t.Fatal("unrelated mirrored write touched OAMADDR")
	}
}

func TestOAMDMACopiesPageAndStallsCPU(t *testing.T) {
	b := newTestBus(t)
	for i := 0; i < 256; i++ {
		b.ram[i] = uint8(i)
	}

	before := b.cpu.TotalCycles()
	b.Write(oamDMA, 0x00)
	total := b.dmaAlign + b.dmaTransfer
	if total != 513 && total != 514 {
		t.Fatalf("dma cycles = %d, want 513 or 514", total)
	}

	for i := 0; i < total; i++ {
		if !b.dmaActive() {
			t.Fatalf("dma transfer ended early, after %d of %d cycles", i, total)
		}
		b.Step()
	}
	if b.cpu.TotalCycles() != before {
		t.Errorf("CPU advanced during the DMA stall: %d -> %d", before, b.cpu.TotalCycles())
	}
	if b.dmaActive() {
		t.Error("dma transfer did not complete within its scheduled cycles")
	}
	if b.dmaByte != 256 {
		t.Errorf("dmaByte = %d, want 256 bytes transferred", b.dmaByte)
	}

	for i := 0; i < 256; i++ {
		b.ppu.WriteReg(0x2003, uint8(i)) // OAMADDR
		if got := b.ppu.ReadReg(0x2004, 0); got != uint8(i) { // OAMDATA
			t.Fatalf("OAM[%d] = %02X, want %02X", i, got, uint8(i))
		}
	}
}

func TestOAMDMAOddCycleAddsExtraStallCycle(t *testing.T) {
	b := newTestBus(t)
	// Burn one CPU cycle so the next OAMDMA write lands on an odd total.
	b.Step()
	if b.cpu.TotalCycles()%2 != 1 {
		t.Skip("CPU cycle count landed even after warmup; timing assumption not met")
	}
	b.Write(oamDMA, 0x00)
	if b.dmaAlign != 2 {
		t.Errorf("dmaAlign = %d, want 2 on an odd-cycle trigger", b.dmaAlign)
	}
	if total := b.dmaAlign + b.dmaTransfer; total != 514 {
		t.Errorf("total dma cycles = %d, want 514 on an odd-cycle trigger", total)
	}
}

func TestControllerShiftOutOrder(t *testing.T) {
	b := newTestBus(t)
	b.Pad1.SetButtons(0b0000_0101) // A and Select pressed

	b.Write(joypad1, 1) // strobe high
	b.Write(joypad1, 0) // strobe low, latch

	var got []uint8
	for i := 0; i < 8; i++ {
		got = append(got, b.Read(joypad1)&0x01)
	}
	want := []uint8{1, 0, 1, 0, 0, 0, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bit %d = %d, want %d", i, got[i], want[i])
		}
	}
	if b.Read(joypad1)&0x01 != 1 {
		t.Error("reads past bit 7 should return 1")
	}
}

func TestStepReachesFrameReady(t *testing.T) {
	b := newTestBus(t)
	var sawFrame bool
	for i := 0; i < 400000; i++ {
		if b.Step() {
			sawFrame = true
			break
		}
	}
	if !sawFrame {
		t.Fatal("Step never reported frame-ready")
	}
}
