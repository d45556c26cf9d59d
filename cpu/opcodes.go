package cpu

// AddressingMode identifies how an instruction's operand is located.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
)

// category determines how the generic addressing-mode builder attaches
// data cycles once the effective address is resolved. Stack/control
// instructions (JSR, RTS, RTI, BRK, PHA/PHP/PLA/PLP and the branches)
// don't use the generic builder at all; decode special-cases them.
type category int

const (
	catRead category = iota
	catWrite
	catRMW
	catControl
)

// opFunc is an instruction's semantic action. Read ops consume c.val;
// write ops produce it; RMW ops do both (transform c.val in place).
// Register-only ops (INX, TAX, CLC, ...) ignore c.val entirely.
type opFunc func(c *CPU)

type opcode struct {
	mnemonic string
	mode     AddressingMode
	cat      category
	op       opFunc
	cond     func(c *CPU) bool // set only for conditional branches
	illegal  bool
}

var opcodeTable [256]opcode

type entry struct {
	b    uint8
	name string
	mode AddressingMode
	cat  category
	fn   opFunc
}

func addEntries(entries []entry, illegal bool) {
	for _, e := range entries {
		if opcodeTable[e.b].mnemonic != "" {
			panic("cpu: duplicate opcode registration for 0x" + hex8(e.b))
		}
		opcodeTable[e.b] = opcode{mnemonic: e.name, mode: e.mode, cat: e.cat, op: e.fn, illegal: illegal}
	}
}

func hex8(b uint8) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0xF]})
}

var legalEntries = []entry{
	// ADC
	{0x69, "ADC", Immediate, catRead, opADC}, {0x65, "ADC", ZeroPage, catRead, opADC},
	{0x75, "ADC", ZeroPageX, catRead, opADC}, {0x6D, "ADC", Absolute, catRead, opADC},
	{0x7D, "ADC", AbsoluteX, catRead, opADC}, {0x79, "ADC", AbsoluteY, catRead, opADC},
	{0x61, "ADC", IndirectX, catRead, opADC}, {0x71, "ADC", IndirectY, catRead, opADC},
	// AND
	{0x29, "AND", Immediate, catRead, opAND}, {0x25, "AND", ZeroPage, catRead, opAND},
	{0x35, "AND", ZeroPageX, catRead, opAND}, {0x2D, "AND", Absolute, catRead, opAND},
	{0x3D, "AND", AbsoluteX, catRead, opAND}, {0x39, "AND", AbsoluteY, catRead, opAND},
	{0x21, "AND", IndirectX, catRead, opAND}, {0x31, "AND", IndirectY, catRead, opAND},
	// ASL
	{0x0A, "ASL", Accumulator, catRMW, opASL}, {0x06, "ASL", ZeroPage, catRMW, opASL},
	{0x16, "ASL", ZeroPageX, catRMW, opASL}, {0x0E, "ASL", Absolute, catRMW, opASL},
	{0x1E, "ASL", AbsoluteX, catRMW, opASL},
	// branches
	{0x90, "BCC", Relative, catControl, nil}, {0xB0, "BCS", Relative, catControl, nil},
	{0xF0, "BEQ", Relative, catControl, nil}, {0x30, "BMI", Relative, catControl, nil},
	{0xD0, "BNE", Relative, catControl, nil}, {0x10, "BPL", Relative, catControl, nil},
	{0x50, "BVC", Relative, catControl, nil}, {0x70, "BVS", Relative, catControl, nil},
	// BIT
	{0x24, "BIT", ZeroPage, catRead, opBIT}, {0x2C, "BIT", Absolute, catRead, opBIT},
	// BRK
	{0x00, "BRK", Implied, catControl, nil},
	// clear/set flags
	{0x18, "CLC", Implied, catControl, opCLC}, {0xD8, "CLD", Implied, catControl, opCLD},
	{0x58, "CLI", Implied, catControl, opCLI}, {0xB8, "CLV", Implied, catControl, opCLV},
	{0x38, "SEC", Implied, catControl, opSEC}, {0xF8, "SED", Implied, catControl, opSED},
	{0x78, "SEI", Implied, catControl, opSEI},
	// CMP
	{0xC9, "CMP", Immediate, catRead, opCMP}, {0xC5, "CMP", ZeroPage, catRead, opCMP},
	{0xD5, "CMP", ZeroPageX, catRead, opCMP}, {0xCD, "CMP", Absolute, catRead, opCMP},
	{0xDD, "CMP", AbsoluteX, catRead, opCMP}, {0xD9, "CMP", AbsoluteY, catRead, opCMP},
	{0xC1, "CMP", IndirectX, catRead, opCMP}, {0xD1, "CMP", IndirectY, catRead, opCMP},
	// CPX/CPY
	{0xE0, "CPX", Immediate, catRead, opCPX}, {0xE4, "CPX", ZeroPage, catRead, opCPX},
	{0xEC, "CPX", Absolute, catRead, opCPX},
	{0xC0, "CPY", Immediate, catRead, opCPY}, {0xC4, "CPY", ZeroPage, catRead, opCPY},
	{0xCC, "CPY", Absolute, catRead, opCPY},
	// DEC
	{0xC6, "DEC", ZeroPage, catRMW, opDEC}, {0xD6, "DEC", ZeroPageX, catRMW, opDEC},
	{0xCE, "DEC", Absolute, catRMW, opDEC}, {0xDE, "DEC", AbsoluteX, catRMW, opDEC},
	// DEX/DEY/INX/INY
	{0xCA, "DEX", Implied, catControl, opDEX}, {0x88, "DEY", Implied, catControl, opDEY},
	{0xE8, "INX", Implied, catControl, opINX}, {0xC8, "INY", Implied, catControl, opINY},
	// EOR
	{0x49, "EOR", Immediate, catRead, opEOR}, {0x45, "EOR", ZeroPage, catRead, opEOR},
	{0x55, "EOR", ZeroPageX, catRead, opEOR}, {0x4D, "EOR", Absolute, catRead, opEOR},
	{0x5D, "EOR", AbsoluteX, catRead, opEOR}, {0x59, "EOR", AbsoluteY, catRead, opEOR},
	{0x41, "EOR", IndirectX, catRead, opEOR}, {0x51, "EOR", IndirectY, catRead, opEOR},
	// INC
	{0xE6, "INC", ZeroPage, catRMW, opINC}, {0xF6, "INC", ZeroPageX, catRMW, opINC},
	{0xEE, "INC", Absolute, catRMW, opINC}, {0xFE, "INC", AbsoluteX, catRMW, opINC},
	// JMP
	{0x4C, "JMP", Absolute, catControl, nil}, {0x6C, "JMP", Indirect, catControl, nil},
	// JSR
	{0x20, "JSR", Absolute, catControl, nil},
	// LDA
	{0xA9, "LDA", Immediate, catRead, opLDA}, {0xA5, "LDA", ZeroPage, catRead, opLDA},
	{0xB5, "LDA", ZeroPageX, catRead, opLDA}, {0xAD, "LDA", Absolute, catRead, opLDA},
	{0xBD, "LDA", AbsoluteX, catRead, opLDA}, {0xB9, "LDA", AbsoluteY, catRead, opLDA},
	{0xA1, "LDA", IndirectX, catRead, opLDA}, {0xB1, "LDA", IndirectY, catRead, opLDA},
	// LDX
	{0xA2, "LDX", Immediate, catRead, opLDX}, {0xA6, "LDX", ZeroPage, catRead, opLDX},
	{0xB6, "LDX", ZeroPageY, catRead, opLDX}, {0xAE, "LDX", Absolute, catRead, opLDX},
	{0xBE, "LDX", AbsoluteY, catRead, opLDX},
	// LDY
	{0xA0, "LDY", Immediate, catRead, opLDY}, {0xA4, "LDY", ZeroPage, catRead, opLDY},
	{0xB4, "LDY", ZeroPageX, catRead, opLDY}, {0xAC, "LDY", Absolute, catRead, opLDY},
	{0xBC, "LDY", AbsoluteX, catRead, opLDY},
	// LSR
	{0x4A, "LSR", Accumulator, catRMW, opLSR}, {0x46, "LSR", ZeroPage, catRMW, opLSR},
	{0x56, "LSR", ZeroPageX, catRMW, opLSR}, {0x4E, "LSR", Absolute, catRMW, opLSR},
	{0x5E, "LSR", AbsoluteX, catRMW, opLSR},
	// NOP
	{0xEA, "NOP", Implied, catControl, opNOP},
	// ORA
	{0x09, "ORA", Immediate, catRead, opORA}, {0x05, "ORA", ZeroPage, catRead, opORA},
	{0x15, "ORA", ZeroPageX, catRead, opORA}, {0x0D, "ORA", Absolute, catRead, opORA},
	{0x1D, "ORA", AbsoluteX, catRead, opORA}, {0x19, "ORA", AbsoluteY, catRead, opORA},
	{0x01, "ORA", IndirectX, catRead, opORA}, {0x11, "ORA", IndirectY, catRead, opORA},
	// stack
	{0x48, "PHA", Implied, catControl, nil}, {0x08, "PHP", Implied, catControl, nil},
	{0x68, "PLA", Implied, catControl, nil}, {0x28, "PLP", Implied, catControl, nil},
	// ROL/ROR
	{0x2A, "ROL", Accumulator, catRMW, opROL}, {0x26, "ROL", ZeroPage, catRMW, opROL},
	{0x36, "ROL", ZeroPageX, catRMW, opROL}, {0x2E, "ROL", Absolute, catRMW, opROL},
	{0x3E, "ROL", AbsoluteX, catRMW, opROL},
	{0x6A, "ROR", Accumulator, catRMW, opROR}, {0x66, "ROR", ZeroPage, catRMW, opROR},
	{0x76, "ROR", ZeroPageX, catRMW, opROR}, {0x6E, "ROR", Absolute, catRMW, opROR},
	{0x7E, "ROR", AbsoluteX, catRMW, opROR},
	// RTI/RTS
	{0x40, "RTI", Implied, catControl, nil}, {0x60, "RTS", Implied, catControl, nil},
	// SBC
	{0xE9, "SBC", Immediate, catRead, opSBC}, {0xE5, "SBC", ZeroPage, catRead, opSBC},
	{0xF5, "SBC", ZeroPageX, catRead, opSBC}, {0xED, "SBC", Absolute, catRead, opSBC},
	{0xFD, "SBC", AbsoluteX, catRead, opSBC}, {0xF9, "SBC", AbsoluteY, catRead, opSBC},
	{0xE1, "SBC", IndirectX, catRead, opSBC}, {0xF1, "SBC", IndirectY, catRead, opSBC},
	// STA
	{0x85, "STA", ZeroPage, catWrite, opSTA}, {0x95, "STA", ZeroPageX, catWrite, opSTA},
	{0x8D, "STA", Absolute, catWrite, opSTA}, {0x9D, "STA", AbsoluteX, catWrite, opSTA},
	{0x99, "STA", AbsoluteY, catWrite, opSTA}, {0x81, "STA", IndirectX, catWrite, opSTA},
	{0x91, "STA", IndirectY, catWrite, opSTA},
	// STX/STY
	{0x86, "STX", ZeroPage, catWrite, opSTX}, {0x96, "STX", ZeroPageY, catWrite, opSTX},
	{0x8E, "STX", Absolute, catWrite, opSTX},
	{0x84, "STY", ZeroPage, catWrite, opSTY}, {0x94, "STY", ZeroPageX, catWrite, opSTY},
	{0x8C, "STY", Absolute, catWrite, opSTY},
	// register transfers
	{0xAA, "TAX", Implied, catControl, opTAX}, {0xA8, "TAY", Implied, catControl, opTAY},
	{0xBA, "TSX", Implied, catControl, opTSX}, {0x8A, "TXA", Implied, catControl, opTXA},
	{0x9A, "TXS", Implied, catControl, opTXS}, {0x98, "TYA", Implied, catControl, opTYA},
}

var branchConds = map[string]func(c *CPU) bool{
	"BCC": func(c *CPU) bool { return !c.flag(FLAG_CARRY) },
	"BCS": func(c *CPU) bool { return c.flag(FLAG_CARRY) },
	"BEQ": func(c *CPU) bool { return c.flag(FLAG_ZERO) },
	"BMI": func(c *CPU) bool { return c.flag(FLAG_NEGATIVE) },
	"BNE": func(c *CPU) bool { return !c.flag(FLAG_ZERO) },
	"BPL": func(c *CPU) bool { return !c.flag(FLAG_NEGATIVE) },
	"BVC": func(c *CPU) bool { return !c.flag(FLAG_OVERFLOW) },
	"BVS": func(c *CPU) bool { return c.flag(FLAG_OVERFLOW) },
}

func init() {
	addEntries(legalEntries, false)
	addEntries(illegalEntries, true)
	for b, op := range opcodeTable {
		if cond, ok := branchConds[op.mnemonic]; ok {
			opcodeTable[b].cond = cond
		}
	}
}
