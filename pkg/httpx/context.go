package httpx

type ctxKey string

// CtxKeyUserID carries the resolved principal's id once authentication
// middleware has run. Rate limiting keys off it for per-user limits.
const CtxKeyUserID ctxKey = "user_id"
