package cpu

// Stack and control-transfer instructions don't fit the generic
// read/write/RMW addressing machinery, so each gets a hand-built
// sequence here, matching the cycle-by-cycle breakdowns documented at
// https://www.nesdev.org/6502_cpu.txt.

func (c *CPU) buildPush(getVal func(cc *CPU) uint8) {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.read(cc.pc) }, // dummy read, PC not advanced
		func(cc *CPU) { cc.push(getVal(cc)) },
	)
}

func (c *CPU) buildPull(apply func(cc *CPU, v uint8)) {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.read(cc.pc) },
		func(cc *CPU) { cc.read(stackPage + uint16(cc.sp)) },
		func(cc *CPU) { apply(cc, cc.pop()) },
	)
}

func (c *CPU) buildJSR() {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.lo = cc.read(cc.pc); cc.pc++ },
		func(cc *CPU) { cc.read(stackPage + uint16(cc.sp)) }, // spurious internal stack peek
		func(cc *CPU) { cc.push(uint8(cc.pc >> 8)) },
		func(cc *CPU) { cc.push(uint8(cc.pc)) },
		func(cc *CPU) {
			cc.hi = cc.read(cc.pc)
			cc.pc = uint16(cc.hi)<<8 | uint16(cc.lo)
		},
	)
}

func (c *CPU) buildRTS() {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.read(cc.pc) },
		func(cc *CPU) { cc.read(stackPage + uint16(cc.sp)) },
		func(cc *CPU) { cc.lo = cc.pop() },
		func(cc *CPU) { cc.hi = cc.pop(); cc.pc = uint16(cc.hi)<<8 | uint16(cc.lo) },
		func(cc *CPU) { cc.read(cc.pc); cc.pc++ },
	)
}

func (c *CPU) buildRTI() {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.read(cc.pc) },
		func(cc *CPU) { cc.read(stackPage + uint16(cc.sp)) },
		func(cc *CPU) { cc.p = (cc.pop() &^ FLAG_BREAK) | FLAG_UNUSED },
		func(cc *CPU) { cc.lo = cc.pop() },
		func(cc *CPU) { cc.hi = cc.pop(); cc.pc = uint16(cc.hi)<<8 | uint16(cc.lo) },
	)
}

// buildBRK schedules BRK's 7-cycle software-interrupt sequence. If an
// NMI arrives after the status push but before the vector fetch, it
// hijacks the vector: the PC ends up at $FFFA/$FFFB instead of
// $FFFE/$FFFF, but the pushed status still has the B flag set.
func (c *CPU) buildBRK() {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.read(cc.pc); cc.pc++ }, // padding byte, discarded
		func(cc *CPU) { cc.push(uint8(cc.pc >> 8)) },
		func(cc *CPU) { cc.push(uint8(cc.pc)) },
		func(cc *CPU) { cc.push(cc.p | FLAG_BREAK | FLAG_UNUSED) },
		func(cc *CPU) {
			vec := uint16(irqVector)
			if cc.nmiPending {
				vec = nmiVector
				cc.nmiPending = false
			}
			cc.intVector = vec
			cc.lo = cc.read(vec)
		},
		func(cc *CPU) {
			cc.hi = cc.read(cc.intVector + 1)
			cc.setFlag(FLAG_INTERRUPT_DISABLE, true)
			cc.pc = uint16(cc.hi)<<8 | uint16(cc.lo)
		},
	)
}

// buildInterrupt schedules the hardware NMI/IRQ service sequence.
// Cycle 1 (the dummy opcode fetch) already ran in startNext; this
// schedules cycles 2-7. The vector fetch re-checks for a newly-latched
// NMI the same way BRK does, so an IRQ in flight can still be hijacked
// by an NMI that arrives mid-sequence.
func (c *CPU) buildInterrupt(vector uint16) {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.read(cc.pc) },
		func(cc *CPU) { cc.push(uint8(cc.pc >> 8)) },
		func(cc *CPU) { cc.push(uint8(cc.pc)) },
		func(cc *CPU) { cc.push((cc.p | FLAG_UNUSED) &^ FLAG_BREAK) },
		func(cc *CPU) {
			vec := vector
			if cc.nmiPending {
				vec = nmiVector
				cc.nmiPending = false
			}
			cc.intVector = vec
			cc.lo = cc.read(vec)
		},
		func(cc *CPU) {
			cc.hi = cc.read(cc.intVector + 1)
			cc.setFlag(FLAG_INTERRUPT_DISABLE, true)
			cc.pc = uint16(cc.hi)<<8 | uint16(cc.lo)
		},
	)
}

// buildReset schedules the 7-cycle power-on/reset sequence. The three
// stack "pushes" decrement SP without writing, matching the real chip
// with R/W held high throughout reset.
func (c *CPU) buildReset() {
	c.read(c.pc) // cycle 1
	c.queue = append(c.queue,
		func(cc *CPU) { cc.read(cc.pc) },
		func(cc *CPU) { cc.sp-- },
		func(cc *CPU) { cc.sp-- },
		func(cc *CPU) { cc.sp--; cc.setFlag(FLAG_INTERRUPT_DISABLE, true) },
		func(cc *CPU) { cc.lo = cc.read(resetVector) },
		func(cc *CPU) {
			cc.hi = cc.read(resetVector + 1)
			cc.pc = uint16(cc.hi)<<8 | uint16(cc.lo)
		},
	)
}
