package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open открывает файл базы. _txlock=immediate заставляет каждую транзакцию
// сразу брать блокировку на запись, так что чтение+обновление в CloseOpenShift
// не пересекается с другой записью.
func Open(path string, busyTimeout time.Duration) (*sql.DB, error) {
	params := url.Values{}
	params.Set("_busy_timeout", fmt.Sprint(busyTimeout.Milliseconds()))
	params.Set("_journal_mode", "WAL")
	params.Set("_foreign_keys", "on")
	params.Set("_txlock", "immediate")

	db, err := sql.Open("sqlite3", "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("открытие %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("подключение к %s: %w", path, err)
	}
	return db, nil
}
