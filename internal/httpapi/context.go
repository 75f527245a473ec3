package httpapi

import (
	"context"

	"panelhub/server/internal/auth"
)

func contextWithUser(ctx context.Context, claims *auth.UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey{}, claims)
}

func userFromContext(ctx context.Context) *auth.UserClaims {
	claims, _ := ctx.Value(userClaimsKey{}).(*auth.UserClaims)
	return claims
}

func contextWithVendor(ctx context.Context, claims *auth.VendorClaims) context.Context {
	return context.WithValue(ctx, vendorClaimsKey{}, claims)
}

func vendorFromContext(ctx context.Context) *auth.VendorClaims {
	claims, _ := ctx.Value(vendorClaimsKey{}).(*auth.VendorClaims)
	return claims
}
