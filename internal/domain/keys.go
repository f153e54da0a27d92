package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserRole  CtxKey = "Role"
	KeyTokenID   CtxKey = "TokenID"
	KeyRequestID CtxKey = "RequestID"
)
