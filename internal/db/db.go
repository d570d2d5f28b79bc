package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	// database/sql driver used by the gorm dialector below
	_ "github.com/lib/pq"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        dsn,
	}), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

// AutoMigrateAndIndexes migrates the given models and then applies the
// raw index statements in order.
func AutoMigrateAndIndexes(gdb *gorm.DB, models []any, indexes []string) error {
	if err := gdb.AutoMigrate(models...); err != nil {
		return err
	}

	for _, s := range indexes {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
