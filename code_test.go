package huff

import (
	"testing"
)

func TestCode(t *testing.T) {
	type testRow struct {
		size   int
		bits   uint64
		expect string
	}

	testData := [...]testRow{
		{size: 0, bits: 0x0, expect: `""`},
		{size: 1, bits: 0x0, expect: `"0"`},
		{size: 1, bits: 0x1, expect: `"1"`},
		{size: 3, bits: 0x5, expect: `"101"`},
		{size: 4, bits: 0x1, expect: `"0001"`},
		{size: 8, bits: 0x61, expect: `"01100001"`},
	}
	for _, row := range testData {
		hc := MakeCode(row.size, row.bits)
		t.Run(row.expect, func(t *testing.T) {
			if actual := hc.String(); actual != row.expect {
				t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", row.expect, actual)
			}
			if parsed := ParseCode(row.expect[1 : len(row.expect)-1]); parsed != hc {
				t.Errorf("ParseCode disagrees with MakeCode:\n\texpect: %s\n\tactual: %s", hc, parsed)
			}
		})
	}
}

func TestCode_Reversed(t *testing.T) {
	hc := ParseCode("1100101")
	expect := ParseCode("1010011")
	if actual := hc.Reversed(); actual != expect {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expect, actual)
	}
}

func TestCode_Long(t *testing.T) {
	var hc Code
	for i := 0; i < 200; i++ {
		hc.Append(uint(i % 3 % 2))
	}
	if hc.Size != 200 {
		t.Fatalf("expected size 200, got %d", hc.Size)
	}
	rev := hc.Reversed()
	for i := 0; i < 200; i++ {
		if hc.Bit(i) != uint(i%3%2) {
			t.Errorf("bit %d: expected %d, got %d", i, i%3%2, hc.Bit(i))
		}
		if rev.Bit(199-i) != hc.Bit(i) {
			t.Errorf("reversed bit %d does not mirror bit %d", 199-i, i)
		}
	}
}

type bitRecorder []uint

func (br *bitRecorder) WriteBit(bit uint) {
	*br = append(*br, bit)
}

func TestCode_Emit(t *testing.T) {
	var rec bitRecorder
	ParseCode("0110").Emit(&rec)
	expect := []uint{0, 1, 1, 0}
	if len(rec) != len(expect) {
		t.Fatalf("expected %d bits, got %d", len(expect), len(rec))
	}
	for i := range expect {
		if rec[i] != expect[i] {
			t.Errorf("bit %d: expected %d, got %d", i, expect[i], rec[i])
		}
	}
}
