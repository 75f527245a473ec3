package auth

import (
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestUserTokenRoundTrip(t *testing.T) {
	token, err := NewUserToken(testSecret, "panelhub", time.Hour, UserClaims{
		UserID: "u-1",
		Email:  "a@x.com",
		Role:   "panelist",
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	claims, err := ParseUserToken(testSecret, token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "a@x.com" || claims.Role != "panelist" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := NewUserToken(testSecret, "panelhub", -time.Minute, UserClaims{
		UserID: "u-1",
		Email:  "a@x.com",
		Role:   "panelist",
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := ParseUserToken(testSecret, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := NewUserToken(testSecret, "panelhub", time.Hour, UserClaims{
		UserID: "u-1",
		Email:  "a@x.com",
		Role:   "panelist",
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := ParseUserToken("other-secret", token); err == nil {
		t.Fatal("expected bad signature to be rejected")
	}
}

func TestNamespacesAreDisjoint(t *testing.T) {
	userToken, err := NewUserToken(testSecret, "panelhub", time.Hour, UserClaims{
		UserID: "u-1",
		Email:  "a@x.com",
		Role:   "panelist",
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	vendorToken, err := NewVendorToken(testSecret, "panelhub", time.Hour, VendorClaims{
		VendorID: "v-1",
		Email:    "v@x.com",
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseVendorToken(testSecret, userToken); err == nil {
		t.Fatal("expected user token to fail vendor parse")
	}
	if _, err := ParseUserToken(testSecret, vendorToken); err == nil {
		t.Fatal("expected vendor token to fail user parse")
	}

	claims, err := ParseVendorToken(testSecret, vendorToken)
	if err != nil {
		t.Fatalf("vendor parse failed: %v", err)
	}
	if claims.VendorID != "v-1" {
		t.Fatalf("unexpected vendor claims: %+v", claims)
	}
}
