package connection

import (
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a handle whose statements execute on tx instead of the
// pool, the same way gorm binds its own Begin. Repositories use it to join
// a transaction the service opened on the raw *sql.DB.
func BindTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}

	// Session with a context clones the statement, so the pool handle is
	// never mutated.
	bound := db.Session(&gorm.Session{Context: db.Statement.Context, NewDB: true})
	bound.Statement.ConnPool = tx
	return bound
}
