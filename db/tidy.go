package db

import (
	"database/sql"
	"time"

	sb "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Tidy removes source rows older than retentionDays from the database
// and reports the number of rows removed per table.
func Tidy(database string, retentionDays int) (map[string]int64, error) {
	db, err := connection(database)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return tidy(db, retentionDays)
}

func tidy(db *sql.DB, retentionDays int) (map[string]int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays).Unix()
	removed := make(map[string]int64, 3)

	for _, table := range []string{"posts", "news", "reels"} {
		deleteRows := sb.NewDeleteBuilder()
		sqlStr, args := deleteRows.
			DeleteFrom(table).
			Where(deleteRows.LessThan("created_at", cutoff)).
			BuildWithFlavor(sb.SQLite)

		log.WithFields(log.Fields{
			"sql":  sqlStr,
			"args": args,
		}).Info("Tidying database")

		result, err := db.Exec(sqlStr, args...)
		if err != nil {
			return nil, err
		}
		count, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		removed[table] = count
	}

	return removed, nil
}
