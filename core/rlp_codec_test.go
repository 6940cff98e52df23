package core_test

import (
	"testing"

	. "synnergy-network/core"
)

func TestEncodeRLPIntegerBoundaries(t *testing.T) {
	cases := []struct {
		in   uint64
		want []byte
	}{
		{0, []byte{0x80}},
		{127, []byte{0x7F}},
		{128, []byte{0x81, 0x80}},
	}
	for _, c := range cases {
		got, err := EncodeRLP(c.in)
		if err != nil {
			t.Fatalf("EncodeRLP(%d): %v", c.in, err)
		}
		if string(got) != string(c.want) {
			t.Fatalf("EncodeRLP(%d) = % x, want % x", c.in, got, c.want)
		}
	}
}

func TestRLPRoundTripInteger(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 55, 56, 1 << 40} {
		enc, err := EncodeRLP(v)
		if err != nil {
			t.Fatalf("encode %d: %v", v, err)
		}
		var out uint64
		if err := DecodeRLP(enc, &out); err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if out != v {
			t.Fatalf("round-trip mismatch: got %d, want %d", out, v)
		}
	}
}

func TestRLPRoundTripBytesAndList(t *testing.T) {
	payload := []byte("a byte string longer than fifty five bytes to force the long-form prefix path")
	enc, err := EncodeRLP(payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var out []byte
	if err := DecodeRLP(enc, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(out) != string(payload) {
		t.Fatalf("round-trip mismatch for byte string")
	}

	list := [][]byte{[]byte("a"), []byte("bb"), []byte("ccc")}
	enc, err = EncodeRLP(list)
	if err != nil {
		t.Fatalf("encode list: %v", err)
	}
	var outList [][]byte
	if err := DecodeRLP(enc, &outList); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(outList) != len(list) {
		t.Fatalf("list length mismatch: got %d, want %d", len(outList), len(list))
	}
}

func TestDecodeRLPMalformedFails(t *testing.T) {
	if err := DecodeRLP([]byte{0xFF}, new(uint64)); err == nil {
		t.Fatal("expected ErrCodec for truncated/invalid input")
	}
}

func TestEncodeTxIndexKeyMinimalEncoding(t *testing.T) {
	// tx_index is encoded as its integer value, not a hex string; leading
	// zeros are stripped per the canonical remote-ledger rule.
	zero := EncodeTxIndexKey(0)
	if string(zero) != string([]byte{0x80}) {
		t.Fatalf("tx_index 0 should encode to empty string (0x80), got % x", zero)
	}
	one := EncodeTxIndexKey(1)
	if string(one) != string([]byte{0x01}) {
		t.Fatalf("tx_index 1 should encode to 0x01, got % x", one)
	}
}
