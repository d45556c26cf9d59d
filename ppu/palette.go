package ppu

// color is an RGBA pixel, kept as a byte slice rather than a struct so
// the system palette table below can be built with the same literal
// shape the rest of the codebase uses for buffers.
type color []uint8

func newColor(r, g, b uint8) color {
	return []uint8{r, g, b, 0xff}
}

// SYSTEM_PALETTE is the canonical 2C02 64-entry RGB table. Index is the
// 6-bit palette byte (grayscale/emphasis bits already stripped).
var SYSTEM_PALETTE [64]color = [64]color{
	newColor(0x80, 0x80, 0x80), newColor(0x00, 0x3D, 0xA6), newColor(0x00, 0x12, 0xB0), newColor(0x44, 0x00, 0x96), newColor(0xA1, 0x00, 0x5E),
	newColor(0xC7, 0x00, 0x28), newColor(0xBA, 0x06, 0x00), newColor(0x8C, 0x17, 0x00), newColor(0x5C, 0x2F, 0x00), newColor(0x10, 0x45, 0x00),
	newColor(0x05, 0x4A, 0x00), newColor(0x00, 0x47, 0x2E), newColor(0x00, 0x41, 0x66), newColor(0x00, 0x00, 0x00), newColor(0x05, 0x05, 0x05),
	newColor(0x05, 0x05, 0x05), newColor(0xC7, 0xC7, 0xC7), newColor(0x00, 0x77, 0xFF), newColor(0x21, 0x55, 0xFF), newColor(0x82, 0x37, 0xFA),
	newColor(0xEB, 0x2F, 0xB5), newColor(0xFF, 0x29, 0x50), newColor(0xFF, 0x22, 0x00), newColor(0xD6, 0x32, 0x00), newColor(0xC4, 0x62, 0x00),
	newColor(0x35, 0x80, 0x00), newColor(0x05, 0x8F, 0x00), newColor(0x00, 0x8A, 0x55), newColor(0x00, 0x99, 0xCC), newColor(0x21, 0x21, 0x21),
	newColor(0x09, 0x09, 0x09), newColor(0x09, 0x09, 0x09), newColor(0xFF, 0xFF, 0xFF), newColor(0x0F, 0xD7, 0xFF), newColor(0x69, 0xA2, 0xFF),
	newColor(0xD4, 0x80, 0xFF), newColor(0xFF, 0x45, 0xF3), newColor(0xFF, 0x61, 0x8B), newColor(0xFF, 0x88, 0x33), newColor(0xFF, 0x9C, 0x12),
	newColor(0xFA, 0xBC, 0x20), newColor(0x9F, 0xE3, 0x0E), newColor(0x2B, 0xF0, 0x35), newColor(0x0C, 0xF0, 0xA4), newColor(0x05, 0xFB, 0xFF),
	newColor(0x5E, 0x5E, 0x5E), newColor(0x0D, 0x0D, 0x0D), newColor(0x0D, 0x0D, 0x0D), newColor(0xFF, 0xFF, 0xFF), newColor(0xA6, 0xFC, 0xFF),
	newColor(0xB3, 0xEC, 0xFF), newColor(0xDA, 0xAB, 0xEB), newColor(0xFF, 0xA8, 0xF9), newColor(0xFF, 0xAB, 0xB3), newColor(0xFF, 0xD2, 0xB0),
	newColor(0xFF, 0xEF, 0xA6), newColor(0xFF, 0xF7, 0x9C), newColor(0xD7, 0xE8, 0x95), newColor(0xA6, 0xED, 0xAF), newColor(0xA2, 0xF2, 0xDA),
	newColor(0x99, 0xFF, 0xFC), newColor(0xDD, 0xDD, 0xDD), newColor(0x11, 0x11, 0x11), newColor(0x11, 0x11, 0x11),
}

// emphasizeAttenuation is applied to a channel that PPUMASK's emphasis
// bits do NOT select, approximating the resistor-ladder darkening the
// 2C02 actually performs.
const emphasizeAttenuation = 0.75

// applyMaskEffects returns c with PPUMASK's grayscale/emphasis bits
// applied. idx is the raw 6-bit palette index before grayscale masking.
func applyMaskEffects(idx uint8, mask uint8) color {
	if mask&MASK_GRAYSCALE != 0 {
		idx &= 0x30
	}
	c := SYSTEM_PALETTE[idx&0x3F]

	emphR := mask&MASK_EMPHASIZE_RED != 0
	emphG := mask&MASK_EMPHASIZE_GREEN != 0
	emphB := mask&MASK_EMPHASIZE_BLUE != 0
	if !emphR && !emphG && !emphB {
		return c
	}

	out := color{c[0], c[1], c[2], c[3]}
	if !emphR {
		out[0] = uint8(float64(out[0]) * emphasizeAttenuation)
	}
	if !emphG {
		out[1] = uint8(float64(out[1]) * emphasizeAttenuation)
	}
	if !emphB {
		out[2] = uint8(float64(out[2]) * emphasizeAttenuation)
	}
	return out
}
