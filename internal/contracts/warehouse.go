package contracts

import "context"

// Session is a single statement-execution handle on the warehouse.
// The opener owns the close; every open session must be closed exactly once.
// ⭐ SSOT: 웨어하우스 세션 인터페이스는 여기서만 정의
type Session interface {
	Exec(ctx context.Context, query string, args ...interface{}) error
	Close() error
}

// SessionPool opens warehouse sessions
type SessionPool interface {
	OpenSession(ctx context.Context) (Session, error)
}
