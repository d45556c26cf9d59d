package cpu

// decode schedules the microp queue for a freshly fetched opcode. The
// opcode byte itself was cycle 1; everything scheduled here runs on
// subsequent Ticks.
func (c *CPU) decode(op opcode) {
	switch op.mnemonic {
	case "JSR":
		c.buildJSR()
		return
	case "RTS":
		c.buildRTS()
		return
	case "RTI":
		c.buildRTI()
		return
	case "BRK":
		c.buildBRK()
		return
	case "JMP":
		c.buildJMP(op.mode)
		return
	case "PHA":
		c.buildPush(func(cc *CPU) uint8 { return cc.a })
		return
	case "PHP":
		c.buildPush(func(cc *CPU) uint8 { return cc.p | FLAG_BREAK | FLAG_UNUSED })
		return
	case "PLA":
		c.buildPull(func(cc *CPU, v uint8) { cc.a = v; cc.setZN(v) })
		return
	case "PLP":
		c.buildPull(func(cc *CPU, v uint8) { cc.p = (v &^ FLAG_BREAK) | FLAG_UNUSED })
		return
	}

	if op.cond != nil {
		c.buildBranch(op.cond)
		return
	}

	if op.mode == Implied {
		fn := op.op
		c.queue = append(c.queue, func(cc *CPU) { fn(cc) })
		return
	}

	c.buildGeneric(op)
}

func (c *CPU) appendRead(fn opFunc) {
	c.queue = append(c.queue, func(cc *CPU) {
		cc.val = cc.read(cc.addr)
		fn(cc)
	})
}

func (c *CPU) appendWrite(fn opFunc) {
	c.queue = append(c.queue, func(cc *CPU) {
		fn(cc)
		cc.write(cc.addr, cc.val)
	})
}

func (c *CPU) appendRMW(fn opFunc) {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.val = cc.read(cc.addr) },
		func(cc *CPU) { cc.write(cc.addr, cc.val) }, // dummy write-back of the unmodified value
		func(cc *CPU) { fn(cc); cc.write(cc.addr, cc.val) },
	)
}

func (c *CPU) appendData(op opcode) {
	switch op.cat {
	case catRead:
		c.appendRead(op.op)
	case catWrite:
		c.appendWrite(op.op)
	case catRMW:
		c.appendRMW(op.op)
	}
}

func (c *CPU) buildGeneric(op opcode) {
	switch op.mode {
	case Accumulator:
		fn := op.op
		c.queue = append(c.queue, func(cc *CPU) {
			cc.val = cc.a
			fn(cc)
			cc.a = cc.val
		})
	case Immediate:
		fn := op.op
		c.queue = append(c.queue, func(cc *CPU) {
			cc.val = cc.read(cc.pc)
			cc.pc++
			fn(cc)
		})
	case ZeroPage:
		c.queue = append(c.queue, func(cc *CPU) {
			cc.addr = uint16(cc.read(cc.pc))
			cc.pc++
		})
		c.appendData(op)
	case ZeroPageX:
		c.buildZeroPageIndexed(op, func(cc *CPU) uint8 { return cc.x })
	case ZeroPageY:
		c.buildZeroPageIndexed(op, func(cc *CPU) uint8 { return cc.y })
	case Absolute:
		c.queue = append(c.queue,
			func(cc *CPU) { cc.lo = cc.read(cc.pc); cc.pc++ },
			func(cc *CPU) {
				cc.hi = cc.read(cc.pc)
				cc.pc++
				cc.addr = uint16(cc.hi)<<8 | uint16(cc.lo)
			},
		)
		c.appendData(op)
	case AbsoluteX:
		c.buildAbsoluteIndexed(op, func(cc *CPU) uint8 { return cc.x })
	case AbsoluteY:
		c.buildAbsoluteIndexed(op, func(cc *CPU) uint8 { return cc.y })
	case IndirectX:
		c.buildIndirectX(op)
	case IndirectY:
		c.buildIndirectY(op)
	}
}

func (c *CPU) buildZeroPageIndexed(op opcode, idx func(cc *CPU) uint8) {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.ptr = uint16(cc.read(cc.pc)); cc.pc++ },
		func(cc *CPU) {
			cc.read(uint16(uint8(cc.ptr))) // dummy read at the un-indexed base
			cc.addr = uint16(uint8(cc.ptr) + idx(cc))
		},
	)
	c.appendData(op)
}

// buildAbsoluteIndexed handles Absolute,X and Absolute,Y. The hardware
// always computes a "wrong" address by adding the index to the low
// byte without propagating carry, and reads it; for Read-category ops
// that speculative read IS the real one whenever no page boundary was
// crossed, saving a cycle. Write and RMW ops always pay the extra
// cycle regardless of crossing, since the real effective address must
// be known before a write is issued.
func (c *CPU) buildAbsoluteIndexed(op opcode, idx func(cc *CPU) uint8) {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.lo = cc.read(cc.pc); cc.pc++ },
		func(cc *CPU) {
			cc.hi = cc.read(cc.pc)
			cc.pc++
			base := uint16(cc.hi)<<8 | uint16(cc.lo)
			i := idx(cc)
			cc.addr = base + uint16(i)
			cc.ptr = (base & 0xFF00) | uint16(uint8(base)+i)
			cc.pageCrossed = (cc.addr & 0xFF00) != (base & 0xFF00)
		},
	)

	switch op.cat {
	case catRead:
		fn := op.op
		c.queue = append(c.queue, func(cc *CPU) {
			v := cc.read(cc.ptr)
			if !cc.pageCrossed {
				cc.val = v
				fn(cc)
				return
			}
			cc.queue = append(cc.queue, func(cc2 *CPU) {
				cc2.val = cc2.read(cc2.addr)
				fn(cc2)
			})
		})
	default:
		c.queue = append(c.queue, func(cc *CPU) { cc.read(cc.ptr) })
		c.appendData(op)
	}
}

func (c *CPU) buildIndirectX(op opcode) {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.ptr = uint16(cc.read(cc.pc)); cc.pc++ },
		func(cc *CPU) { cc.read(uint16(uint8(cc.ptr))) },
		func(cc *CPU) { cc.lo = cc.read(uint16(uint8(cc.ptr) + cc.x)) },
		func(cc *CPU) {
			cc.hi = cc.read(uint16(uint8(cc.ptr) + cc.x + 1))
			cc.addr = uint16(cc.hi)<<8 | uint16(cc.lo)
		},
	)
	c.appendData(op)
}

func (c *CPU) buildIndirectY(op opcode) {
	c.queue = append(c.queue,
		func(cc *CPU) { cc.ptr = uint16(cc.read(cc.pc)); cc.pc++ },
		func(cc *CPU) { cc.lo = cc.read(uint16(uint8(cc.ptr))) },
		func(cc *CPU) {
			cc.hi = cc.read(uint16(uint8(cc.ptr) + 1))
			base := uint16(cc.hi)<<8 | uint16(cc.lo)
			cc.addr = base + uint16(cc.y)
			cc.ptr = (base & 0xFF00) | uint16(uint8(base)+cc.y)
			cc.pageCrossed = (cc.addr & 0xFF00) != (base & 0xFF00)
		},
	)

	switch op.cat {
	case catRead:
		fn := op.op
		c.queue = append(c.queue, func(cc *CPU) {
			v := cc.read(cc.ptr)
			if !cc.pageCrossed {
				cc.val = v
				fn(cc)
				return
			}
			cc.queue = append(cc.queue, func(cc2 *CPU) {
				cc2.val = cc2.read(cc2.addr)
				fn(cc2)
			})
		})
	default:
		c.queue = append(c.queue, func(cc *CPU) { cc.read(cc.ptr) })
		c.appendData(op)
	}
}

func (c *CPU) buildJMP(mode AddressingMode) {
	switch mode {
	case Absolute:
		c.queue = append(c.queue,
			func(cc *CPU) { cc.lo = cc.read(cc.pc); cc.pc++ },
			func(cc *CPU) {
				cc.hi = cc.read(cc.pc)
				cc.pc = uint16(cc.hi)<<8 | uint16(cc.lo)
			},
		)
	case Indirect:
		c.queue = append(c.queue,
			func(cc *CPU) { cc.lo = cc.read(cc.pc); cc.pc++ },
			func(cc *CPU) {
				cc.hi = cc.read(cc.pc)
				cc.pc++
				cc.ptr = uint16(cc.hi)<<8 | uint16(cc.lo)
			},
			func(cc *CPU) { cc.val = cc.read(cc.ptr) },
			func(cc *CPU) {
				// hardware bug: the high byte is fetched from the same
				// page as the pointer, never carrying into the next page.
				hiAddr := (cc.ptr & 0xFF00) | uint16(uint8(cc.ptr)+1)
				hi := cc.read(hiAddr)
				cc.pc = uint16(hi)<<8 | uint16(cc.val)
			},
		)
	}
}

func (c *CPU) buildBranch(cond func(cc *CPU) bool) {
	c.queue = append(c.queue, func(cc *CPU) {
		offset := int8(cc.read(cc.pc))
		cc.pc++
		if !cond(cc) {
			return
		}
		target := uint16(int32(cc.pc) + int32(offset))
		cc.addr = target
		cc.pageCrossed = (target & 0xFF00) != (cc.pc & 0xFF00)
		cc.queue = append(cc.queue, func(cc2 *CPU) {
			cc2.pc = (cc2.pc & 0xFF00) | (cc2.addr & 0x00FF)
			if cc2.pageCrossed {
				cc2.queue = append(cc2.queue, func(cc3 *CPU) {
					cc3.pc = cc3.addr
				})
			}
		})
	})
}
