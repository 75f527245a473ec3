package crypto

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	digest, err := HashPassword("abcdef", 4)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !CheckPassword("abcdef", digest) {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword("wrong", digest) {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestNewOTPShape(t *testing.T) {
	code, err := NewOTP(false)
	if err != nil {
		t.Fatalf("otp generation failed: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Fatalf("expected numeric code, got %q", code)
		}
	}
}

func TestNewOTPTestMode(t *testing.T) {
	code, err := NewOTP(true)
	if err != nil {
		t.Fatalf("otp generation failed: %v", err)
	}
	if code != TestModeOTP {
		t.Fatalf("expected fixed test-mode code, got %q", code)
	}
}

func TestHashOTPStable(t *testing.T) {
	if HashOTP("123456") != HashOTP("123456") {
		t.Fatal("expected deterministic digest")
	}
	if HashOTP("123456") == HashOTP("654321") {
		t.Fatal("expected distinct digests for distinct codes")
	}
}

func TestHashTokenStable(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Fatal("expected deterministic digest")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Fatal("expected distinct digests for distinct tokens")
	}
}
