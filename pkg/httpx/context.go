package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyOrgID  ctxKey = "org_id"
	CtxKeyScopes ctxKey = "scopes"
	CtxKeyClaims ctxKey = "claims" // full jwtx.Claims when handlers need more
)

// UserIDFromCtx returns the authenticated admin's user id, or "".
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// OrgIDFromCtx returns the caller's organization (tenant) id, or "".
func OrgIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyOrgID).(string); ok {
		return v
	}
	return ""
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
