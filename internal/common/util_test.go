package common

import (
	"encoding/base64"
	"testing"
)

func TestMakeURLSafeToken_Decodes(t *testing.T) {
	s, err := MakeURLSafeToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("token is not url-safe base64: %v", err)
	}
	if len(b) != 32 {
		t.Fatalf("expected 32 decoded bytes, got %d", len(b))
	}
}

func TestMakeURLSafeToken_EntropyHint(t *testing.T) {
	a, _ := MakeURLSafeToken(32)
	b, _ := MakeURLSafeToken(32)
	if a == b {
		t.Logf("warning: two tokens are identical; extremely unlikely")
	}
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}
