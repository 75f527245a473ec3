package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User tokens and vendor tokens are independent namespaces with
// disjoint claim shapes. Parsing a token in the wrong namespace fails.

type UserClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type VendorClaims struct {
	VendorID string `json:"vendorId"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

var ErrWrongNamespace = errors.New("token issued for a different principal type")

func NewUserToken(secret, issuer string, ttl time.Duration, claims UserClaims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseUserToken(secret, tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, ErrWrongNamespace
	}
	return claims, nil
}

func NewVendorToken(secret, issuer string, ttl time.Duration, claims VendorClaims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.VendorID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseVendorToken(secret, tokenString string) (*VendorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &VendorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*VendorClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.VendorID == "" {
		return nil, ErrWrongNamespace
	}
	return claims, nil
}
