package cpu

import "testing"

var allFlags = []Flag{FlagCarry, FlagParity, FlagAuxCarry, FlagZero, FlagSign}

func TestFlag(t *testing.T) {
	cpu = newTestCPU()
	t.Run("clear", func(t *testing.T) {
		for _, f := range allFlags {
			cpu.clearFlag(f)
			if cpu.isFlagSet(f) {
				t.Errorf("expected flag %d to be unset, got set", f)
			}
		}
		if cpu.F != 0x02 {
			t.Errorf("expected F to be 0x02, got 0x%02X", cpu.F)
		}
	})
	t.Run("set", func(t *testing.T) {
		for _, f := range allFlags {
			cpu.setFlag(f)
			if !cpu.isFlagSet(f) {
				t.Errorf("expected flag %d to be set, got unset", f)
			}
		}
		if cpu.F != 0xD7 {
			t.Errorf("expected F to be 0xD7, got 0x%02X", cpu.F)
		}
	})
}

func TestPackFlags(t *testing.T) {
	for v := 0; v < 256; v++ {
		packed := PackFlags(UnpackFlags(uint8(v)))
		expected := uint8(v)&0xD5 | 0x02
		if packed != expected {
			t.Errorf("0x%02X: expected 0x%02X, got 0x%02X", v, expected, packed)
		}
	}

	f := UnpackFlags(0x83)
	if !f.Sign || !f.Carry || f.Zero || f.AuxCarry || f.Parity {
		t.Errorf("unexpected flags %+v", f)
	}
}

func TestFlagEvaluators(t *testing.T) {
	t.Run("parity", func(t *testing.T) {
		cases := map[uint16]bool{0x00: true, 0x01: false, 0x03: true, 0xFF: true, 0x7F: false, 0x100: true}
		for v, want := range cases {
			if parity(v) != want {
				t.Errorf("parity(0x%02X): expected %v", v, want)
			}
		}
	})
	t.Run("zero", func(t *testing.T) {
		if !zero(0x100) || zero(0x01) {
			t.Errorf("zero should only look at the low byte")
		}
	})
	t.Run("sign", func(t *testing.T) {
		if !sign(0x80) || sign(0x7F) {
			t.Errorf("sign should follow bit 7")
		}
	})
	t.Run("aux carry", func(t *testing.T) {
		if !auxCarryAdd(0x0F, 0x01, 0) || auxCarryAdd(0x0E, 0x01, 0) || !auxCarryAdd(0x0E, 0x01, 1) {
			t.Errorf("auxCarryAdd")
		}
		// 0x10 - 0x01 borrows from bit 4, so AC is clear
		if auxCarrySub(0x10, 0x01, 0) {
			t.Errorf("auxCarrySub(0x10, 0x01) should be clear")
		}
		if !auxCarrySub(0x1F, 0x01, 0) {
			t.Errorf("auxCarrySub(0x1F, 0x01) should be set")
		}
	})
	t.Run("carry", func(t *testing.T) {
		if !carryAdd(0xFF, 0x00, 1) || carryAdd(0xFE, 0x00, 1) {
			t.Errorf("carryAdd")
		}
		if !carrySub(0x00, 0x00, 1) || carrySub(0x01, 0x01, 0) {
			t.Errorf("carrySub")
		}
	})
}
