package database

import (
	"database/sql"
	"fmt"

	sqliteGo "github.com/mattn/go-sqlite3"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const CustomDriverName = "sqlite3_secureshare"

const DefaultFile = "secureshare.db"

// busyTimeoutMs lets a second secureshare process wait for the lock
// instead of failing with SQLITE_BUSY.
const busyTimeoutMs = 5000

func init() {
	sql.Register(CustomDriverName,
		&sqliteGo.SQLiteDriver{
			ConnectHook: func(conn *sqliteGo.SQLiteConn) error {
				_, err := conn.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMs), nil)
				return err
			},
		},
	)
}

// NewDb opens the SQLite file and migrates the records table.
// verbose turns on gorm's SQL logging.
func NewDb(file string, verbose bool) (*gorm.DB, error) {

	conn, err := sql.Open(CustomDriverName, file)
	if err != nil {
		return nil, err
	}

	level := logger.Silent
	if verbose {
		level = logger.Info
	}
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: CustomDriverName,
		DSN:        file,
		Conn:       conn,
	}, &gorm.Config{
		Logger:                   logger.Default.LogMode(level),
		SkipDefaultTransaction:   true,
		DisableNestedTransaction: true,
	})
	if err != nil {
		return nil, err
	}
	return db, db.AutoMigrate(&Record{})
}
