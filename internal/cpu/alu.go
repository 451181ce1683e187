package cpu

import "fmt"

// add adds n and the carry to the A Register.
//
//	ADD r, ADC r, ADI d8, ACI d8
//	r = B, C, D, E, H, L, M, A
//
// Flags affected:
//
//	S  - Set if bit 7 of the result is set.
//	Z  - Set if result is zero.
//	AC - Set if carry from bit 3.
//	P  - Set if the result has even parity.
//	CY - Set if carry from bit 7.
func (c *CPU) add(n, carry uint8) {
	result := c.A + n + carry
	c.setFlagTo(FlagAuxCarry, auxCarryAdd(c.A, n, carry))
	c.setFlagTo(FlagCarry, carryAdd(c.A, n, carry))
	c.setSZP(result)
	c.A = result
}

// subtract computes A - n - borrow and sets the flags. The result is
// returned rather than stored so compare can share it.
//
//	SUB r, SBB r, SUI d8, SBI d8, CMP r, CPI d8
//	r = B, C, D, E, H, L, M, A
//
// Flags affected:
//
//	S  - Set if bit 7 of the result is set.
//	Z  - Set if result is zero.
//	AC - Set if there is no borrow from bit 4.
//	P  - Set if the result has even parity.
//	CY - Set if borrow.
func (c *CPU) subtract(n, borrow uint8) uint8 {
	result := c.A - n - borrow
	c.setFlagTo(FlagAuxCarry, auxCarrySub(c.A, n, borrow))
	c.setFlagTo(FlagCarry, carrySub(c.A, n, borrow))
	c.setSZP(result)
	return result
}

// compare compares n to the A Register, leaving A unchanged.
func (c *CPU) compare(n uint8) {
	c.subtract(n, 0)
}

// and performs a bitwise AND operation on n and the A Register.
//
//	ANA r, ANI d8
//	r = B, C, D, E, H, L, M, A
//
// Flags affected:
//
//	S  - Set if bit 7 of the result is set.
//	Z  - Set if result is zero.
//	AC - Set to the OR of bit 3 of both operands.
//	P  - Set if the result has even parity.
//	CY - Reset.
func (c *CPU) and(n uint8) {
	c.setFlagTo(FlagAuxCarry, (c.A|n)&0x08 != 0)
	c.A &= n
	c.clearFlag(FlagCarry)
	c.setSZP(c.A)
}

// xor performs a bitwise XOR operation on n and the A Register.
//
//	XRA r, XRI d8
//	r = B, C, D, E, H, L, M, A
//
// Flags affected:
//
//	S  - Set if bit 7 of the result is set.
//	Z  - Set if result is zero.
//	AC - Reset.
//	P  - Set if the result has even parity.
//	CY - Reset.
func (c *CPU) xor(n uint8) {
	c.A ^= n
	c.clearFlag(FlagAuxCarry)
	c.clearFlag(FlagCarry)
	c.setSZP(c.A)
}

// or performs a bitwise OR operation on n and the A Register.
//
//	ORA r, ORI d8
//	r = B, C, D, E, H, L, M, A
//
// Flags affected:
//
//	S  - Set if bit 7 of the result is set.
//	Z  - Set if result is zero.
//	AC - Reset.
//	P  - Set if the result has even parity.
//	CY - Reset.
func (c *CPU) or(n uint8) {
	c.A |= n
	c.clearFlag(FlagAuxCarry)
	c.clearFlag(FlagCarry)
	c.setSZP(c.A)
}

// increment n by 1 and set the flags accordingly.
//
//	INR r
//	r = B, C, D, E, H, L, M, A
//
// Flags affected:
//
//	S  - Set if bit 7 of the result is set.
//	Z  - Set if result is zero.
//	AC - Set if carry from bit 3.
//	P  - Set if the result has even parity.
//	CY - Not affected.
func (c *CPU) increment(n uint8) uint8 {
	incremented := n + 1
	c.setFlagTo(FlagAuxCarry, auxCarryAdd(n, 1, 0))
	c.setSZP(incremented)
	return incremented
}

// decrement n by 1 and set the flags accordingly.
//
//	DCR r
//	r = B, C, D, E, H, L, M, A
//
// Flags affected:
//
//	S  - Set if bit 7 of the result is set.
//	Z  - Set if result is zero.
//	AC - Set if there is no borrow from bit 4.
//	P  - Set if the result has even parity.
//	CY - Not affected.
func (c *CPU) decrement(n uint8) uint8 {
	decremented := n - 1
	c.setFlagTo(FlagAuxCarry, auxCarrySub(n, 1, 0))
	c.setSZP(decremented)
	return decremented
}

// incrementNN increments the given RegisterPair by 1.
//
//	INX rp
//	rp = B, D, H
//
// Flags affected: none.
func (c *CPU) incrementNN(register *RegisterPair) {
	register.SetUint16(register.Uint16() + 1)
}

// decrementNN decrements the given RegisterPair by 1.
//
//	DCX rp
//	rp = B, D, H
//
// Flags affected: none.
func (c *CPU) decrementNN(register *RegisterPair) {
	register.SetUint16(register.Uint16() - 1)
}

// addHL adds value to the HL RegisterPair.
//
//	DAD rp
//	rp = B, D, H, SP
//
// Flags affected:
//
//	CY - Set if carry from bit 15.
func (c *CPU) addHL(value uint16) {
	result := uint32(c.HL.Uint16()) + uint32(value)
	c.setFlagTo(FlagCarry, result > 0xFFFF)
	c.HL.SetUint16(uint16(result))
}

// decimalAdjust adjusts the A Register to packed BCD after an addition.
//
//	DAA
//
// If the low nibble is greater than 9 or AC is set, 6 is added. If the
// high nibble is then greater than 9 or CY is set, 0x60 is added.
//
// Flags affected:
//
//	S  - Set if bit 7 of the result is set.
//	Z  - Set if result is zero.
//	AC - Set if the low nibble correction carries from bit 3.
//	P  - Set if the result has even parity.
//	CY - Set if the high nibble correction carries, otherwise unchanged.
func (c *CPU) decimalAdjust() {
	var correction uint8
	carry := c.isFlagSet(FlagCarry)

	lsb := c.A & 0x0F
	msb := c.A >> 4
	if c.isFlagSet(FlagAuxCarry) || lsb > 9 {
		correction += 0x06
	}
	if carry || msb > 9 || (msb >= 9 && lsb > 9) {
		correction += 0x60
		carry = true
	}

	c.add(correction, 0)
	c.setFlagTo(FlagCarry, carry)
}

// aluOps are the eight arithmetic/logic operations in opcode order.
var aluOps = [8]struct {
	name string
	fn   func(c *CPU, n uint8)
}{
	{"ADD", func(c *CPU, n uint8) { c.add(n, 0) }},
	{"ADC", func(c *CPU, n uint8) { c.add(n, c.carryBit()) }},
	{"SUB", func(c *CPU, n uint8) { c.A = c.subtract(n, 0) }},
	{"SBB", func(c *CPU, n uint8) { c.A = c.subtract(n, c.carryBit()) }},
	{"ANA", func(c *CPU, n uint8) { c.and(n) }},
	{"XRA", func(c *CPU, n uint8) { c.xor(n) }},
	{"ORA", func(c *CPU, n uint8) { c.or(n) }},
	{"CMP", func(c *CPU, n uint8) { c.compare(n) }},
}

// immediateNames are the immediate forms of aluOps.
var immediateNames = [8]string{"ADI", "ACI", "SUI", "SBI", "ANI", "XRI", "ORI", "CPI"}

func init() {
	// 0x80 - 0xBF: op r
	for op := uint8(0); op < 8; op++ {
		fn := aluOps[op].fn
		for r := uint8(0); r < 8; r++ {
			name := fmt.Sprintf("%s %s", aluOps[op].name, registerNameMap[r])
			if r == 6 {
				DefineInstruction(0x80+op*8+r, name, func(c *CPU) { fn(c, c.readByte(c.HL.Uint16())) })
				continue
			}
			index := r
			DefineInstruction(0x80+op*8+r, name, func(c *CPU) { fn(c, *c.registerIndex(index)) })
		}
		// 0xC6, 0xCE, ... 0xFE: op d8
		DefineInstruction(0xC6+op*8, immediateNames[op]+" d8", func(c *CPU) { fn(c, c.readOperand()) })
	}

	// INR r / DCR r
	for r := uint8(0); r < 8; r++ {
		name := registerNameMap[r]
		if r == 6 {
			DefineInstruction(0x34, "INR M", func(c *CPU) {
				c.writeByte(c.HL.Uint16(), c.increment(c.readByte(c.HL.Uint16())))
			})
			DefineInstruction(0x35, "DCR M", func(c *CPU) {
				c.writeByte(c.HL.Uint16(), c.decrement(c.readByte(c.HL.Uint16())))
			})
			continue
		}
		index := r
		DefineInstruction(0x04+r*8, "INR "+name, func(c *CPU) {
			reg := c.registerIndex(index)
			*reg = c.increment(*reg)
		})
		DefineInstruction(0x05+r*8, "DCR "+name, func(c *CPU) {
			reg := c.registerIndex(index)
			*reg = c.decrement(*reg)
		})
	}

	DefineInstruction(0x03, "INX B", func(c *CPU) { c.incrementNN(c.BC) })
	DefineInstruction(0x13, "INX D", func(c *CPU) { c.incrementNN(c.DE) })
	DefineInstruction(0x23, "INX H", func(c *CPU) { c.incrementNN(c.HL) })
	DefineInstruction(0x33, "INX SP", func(c *CPU) { c.SP++ })
	DefineInstruction(0x0B, "DCX B", func(c *CPU) { c.decrementNN(c.BC) })
	DefineInstruction(0x1B, "DCX D", func(c *CPU) { c.decrementNN(c.DE) })
	DefineInstruction(0x2B, "DCX H", func(c *CPU) { c.decrementNN(c.HL) })
	DefineInstruction(0x3B, "DCX SP", func(c *CPU) { c.SP-- })

	DefineInstruction(0x09, "DAD B", func(c *CPU) { c.addHL(c.BC.Uint16()) })
	DefineInstruction(0x19, "DAD D", func(c *CPU) { c.addHL(c.DE.Uint16()) })
	DefineInstruction(0x29, "DAD H", func(c *CPU) { c.addHL(c.HL.Uint16()) })
	DefineInstruction(0x39, "DAD SP", func(c *CPU) { c.addHL(c.SP) })

	DefineInstruction(0x27, "DAA", func(c *CPU) { c.decimalAdjust() })
	DefineInstruction(0x2F, "CMA", func(c *CPU) { c.A = ^c.A })
	DefineInstruction(0x37, "STC", func(c *CPU) { c.setFlag(FlagCarry) })
	DefineInstruction(0x3F, "CMC", func(c *CPU) { c.setFlagTo(FlagCarry, !c.isFlagSet(FlagCarry)) })
}
