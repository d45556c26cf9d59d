package cartridge

import (
	"bytes"
	"testing"
)

func makeROM(prgBlocks, chrBlocks int, flags6 byte) []byte {
	h := make([]byte, 16)
	copy(h, []byte("NES\x1A"))
	h[4] = byte(prgBlocks)
	h[5] = byte(chrBlocks)
	h[6] = flags6
	var buf bytes.Buffer
	buf.Write(h)
	buf.Write(make([]byte, prgBlocks*prgBlockSize))
	buf.Write(make([]byte, chrBlocks*chrBlockSize))
	return buf.Bytes()
}

func TestReadAndMirroring(t *testing.T) {
	data := makeROM(1, 1, 0x00)
	// mark a byte at the start of the single PRG bank so we can detect mirroring
	data[16] = 0x42
	c, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := c.Mapper.PrgRead(0x8000); got != 0x42 {
		t.Errorf("PrgRead(0x8000) = %02x, want 0x42", got)
	}
	if got := c.Mapper.PrgRead(0xC000); got != 0x42 {
		t.Errorf("PrgRead(0xC000) = %02x, want 0x42 (16KiB mirror)", got)
	}
}

func TestReadTruncated(t *testing.T) {
	data := makeROM(1, 1, 0)
	if _, err := Read(bytes.NewReader(data[:20])); err == nil {
		t.Error("expected error on truncated ROM, got nil")
	}
}

func TestUnknownMapper(t *testing.T) {
	data := makeROM(1, 1, 0xF0) // mapper 15, high nibble of flags6
	if _, err := Read(bytes.NewReader(data)); err == nil {
		t.Error("expected error for unsupported mapper")
	}
}

func TestChrRAMWhenZero(t *testing.T) {
	data := makeROM(1, 0, 0)
	c, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	c.Mapper.ChrWrite(0, 0x55)
	if got := c.Mapper.ChrRead(0); got != 0x55 {
		t.Errorf("CHR RAM round trip: got %02x, want 0x55", got)
	}
}
