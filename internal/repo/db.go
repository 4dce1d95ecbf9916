package repo

import (
	"NoteKeeper/internal/model"
	"strings"

	gormpg "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// InitDB открывает подключение к БД и выполняет миграции моделей.
// DSN вида postgres://... — боевой Postgres, иначе путь к файлу SQLite
// (для локальной разработки используется драйвер modernc без cgo).
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dial = gormpg.Open(dsn)
	} else {
		if dsn == "" {
			dsn = "notekeeper.db"
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.User{}, &model.Note{}, &model.NoteVersion{}); err != nil {
		return nil, err
	}
	return db, nil
}
