package cpu

// Undocumented opcodes. NES software (and test ROMs) rely on a fairly
// small, well-characterized subset of these; this covers the ones
// actually observed in the wild: combined read-modify-write ops built
// from two legal operations sharing one memory cycle, LAX/SAX, the
// NOP/DOP/TOP family of differently-sized no-ops, and JAM, which locks
// the bus up the way the real chip does.
// https://www.nesdev.org/wiki/CPU_unofficial_opcodes

func opLAX(c *CPU) { c.a = c.val; c.x = c.val; c.setZN(c.a) }
func opSAX(c *CPU) { c.val = c.a & c.x }

func opDCP(c *CPU) {
	c.val--
	c.setFlag(FLAG_CARRY, c.a >= c.val)
	c.setZN(c.a - c.val)
}

func opISB(c *CPU) {
	c.val++
	opSBC(c)
}

func opSLO(c *CPU) {
	c.setFlag(FLAG_CARRY, c.val&0x80 != 0)
	c.val <<= 1
	c.a |= c.val
	c.setZN(c.a)
}

func opSRE(c *CPU) {
	c.setFlag(FLAG_CARRY, c.val&0x01 != 0)
	c.val >>= 1
	c.a ^= c.val
	c.setZN(c.a)
}

func opRLA(c *CPU) {
	carryIn := uint8(0)
	if c.flag(FLAG_CARRY) {
		carryIn = 1
	}
	c.setFlag(FLAG_CARRY, c.val&0x80 != 0)
	c.val = (c.val << 1) | carryIn
	c.a &= c.val
	c.setZN(c.a)
}

func opRRA(c *CPU) {
	carryIn := uint8(0)
	if c.flag(FLAG_CARRY) {
		carryIn = 0x80
	}
	c.setFlag(FLAG_CARRY, c.val&0x01 != 0)
	c.val = (c.val >> 1) | carryIn
	opADC(c)
}

func opJAM(c *CPU) { c.halted = true }

var illegalEntries = []entry{
	{0xA7, "LAX", ZeroPage, catRead, opLAX}, {0xB7, "LAX", ZeroPageY, catRead, opLAX},
	{0xAF, "LAX", Absolute, catRead, opLAX}, {0xBF, "LAX", AbsoluteY, catRead, opLAX},
	{0xA3, "LAX", IndirectX, catRead, opLAX}, {0xB3, "LAX", IndirectY, catRead, opLAX},

	{0x87, "SAX", ZeroPage, catWrite, opSAX}, {0x97, "SAX", ZeroPageY, catWrite, opSAX},
	{0x8F, "SAX", Absolute, catWrite, opSAX}, {0x83, "SAX", IndirectX, catWrite, opSAX},

	{0xC7, "DCP", ZeroPage, catRMW, opDCP}, {0xD7, "DCP", ZeroPageX, catRMW, opDCP},
	{0xCF, "DCP", Absolute, catRMW, opDCP}, {0xDF, "DCP", AbsoluteX, catRMW, opDCP},
	{0xDB, "DCP", AbsoluteY, catRMW, opDCP}, {0xC3, "DCP", IndirectX, catRMW, opDCP},
	{0xD3, "DCP", IndirectY, catRMW, opDCP},

	{0xE7, "ISB", ZeroPage, catRMW, opISB}, {0xF7, "ISB", ZeroPageX, catRMW, opISB},
	{0xEF, "ISB", Absolute, catRMW, opISB}, {0xFF, "ISB", AbsoluteX, catRMW, opISB},
	{0xFB, "ISB", AbsoluteY, catRMW, opISB}, {0xE3, "ISB", IndirectX, catRMW, opISB},
	{0xF3, "ISB", IndirectY, catRMW, opISB},

	{0x07, "SLO", ZeroPage, catRMW, opSLO}, {0x17, "SLO", ZeroPageX, catRMW, opSLO},
	{0x0F, "SLO", Absolute, catRMW, opSLO}, {0x1F, "SLO", AbsoluteX, catRMW, opSLO},
	{0x1B, "SLO", AbsoluteY, catRMW, opSLO}, {0x03, "SLO", IndirectX, catRMW, opSLO},
	{0x13, "SLO", IndirectY, catRMW, opSLO},

	{0x47, "SRE", ZeroPage, catRMW, opSRE}, {0x57, "SRE", ZeroPageX, catRMW, opSRE},
	{0x4F, "SRE", Absolute, catRMW, opSRE}, {0x5F, "SRE", AbsoluteX, catRMW, opSRE},
	{0x5B, "SRE", AbsoluteY, catRMW, opSRE}, {0x43, "SRE", IndirectX, catRMW, opSRE},
	{0x53, "SRE", IndirectY, catRMW, opSRE},

	{0x27, "RLA", ZeroPage, catRMW, opRLA}, {0x37, "RLA", ZeroPageX, catRMW, opRLA},
	{0x2F, "RLA", Absolute, catRMW, opRLA}, {0x3F, "RLA", AbsoluteX, catRMW, opRLA},
	{0x3B, "RLA", AbsoluteY, catRMW, opRLA}, {0x23, "RLA", IndirectX, catRMW, opRLA},
	{0x33, "RLA", IndirectY, catRMW, opRLA},

	{0x67, "RRA", ZeroPage, catRMW, opRRA}, {0x77, "RRA", ZeroPageX, catRMW, opRRA},
	{0x6F, "RRA", Absolute, catRMW, opRRA}, {0x7F, "RRA", AbsoluteX, catRMW, opRRA},
	{0x7B, "RRA", AbsoluteY, catRMW, opRRA}, {0x63, "RRA", IndirectX, catRMW, opRRA},
	{0x73, "RRA", IndirectY, catRMW, opRRA},

	{0xEB, "SBC", Immediate, catRead, opSBC},

	// single-byte NOPs
	{0x1A, "NOP", Implied, catControl, opNOP}, {0x3A, "NOP", Implied, catControl, opNOP},
	{0x5A, "NOP", Implied, catControl, opNOP}, {0x7A, "NOP", Implied, catControl, opNOP},
	{0xDA, "NOP", Implied, catControl, opNOP}, {0xFA, "NOP", Implied, catControl, opNOP},

	// DOP: reads and discards an immediate or zero-page operand
	{0x80, "DOP", Immediate, catRead, opNOP}, {0x82, "DOP", Immediate, catRead, opNOP},
	{0x89, "DOP", Immediate, catRead, opNOP}, {0xC2, "DOP", Immediate, catRead, opNOP},
	{0xE2, "DOP", Immediate, catRead, opNOP},
	{0x04, "DOP", ZeroPage, catRead, opNOP}, {0x44, "DOP", ZeroPage, catRead, opNOP},
	{0x64, "DOP", ZeroPage, catRead, opNOP},
	{0x14, "DOP", ZeroPageX, catRead, opNOP}, {0x34, "DOP", ZeroPageX, catRead, opNOP},
	{0x54, "DOP", ZeroPageX, catRead, opNOP}, {0x74, "DOP", ZeroPageX, catRead, opNOP},
	{0xD4, "DOP", ZeroPageX, catRead, opNOP}, {0xF4, "DOP", ZeroPageX, catRead, opNOP},

	// TOP: reads and discards an absolute operand
	{0x0C, "TOP", Absolute, catRead, opNOP},
	{0x1C, "TOP", AbsoluteX, catRead, opNOP}, {0x3C, "TOP", AbsoluteX, catRead, opNOP},
	{0x5C, "TOP", AbsoluteX, catRead, opNOP}, {0x7C, "TOP", AbsoluteX, catRead, opNOP},
	{0xDC, "TOP", AbsoluteX, catRead, opNOP}, {0xFC, "TOP", AbsoluteX, catRead, opNOP},

	// JAM/KIL: locks the bus; only reset recovers
	{0x02, "JAM", Implied, catControl, opJAM}, {0x12, "JAM", Implied, catControl, opJAM},
	{0x22, "JAM", Implied, catControl, opJAM}, {0x32, "JAM", Implied, catControl, opJAM},
	{0x42, "JAM", Implied, catControl, opJAM}, {0x52, "JAM", Implied, catControl, opJAM},
	{0x62, "JAM", Implied, catControl, opJAM}, {0x72, "JAM", Implied, catControl, opJAM},
	{0x92, "JAM", Implied, catControl, opJAM}, {0xB2, "JAM", Implied, catControl, opJAM},
	{0xD2, "JAM", Implied, catControl, opJAM}, {0xF2, "JAM", Implied, catControl, opJAM},
}
