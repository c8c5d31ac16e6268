package db

import (
	"context"
	"fmt"
	"time"

	"github.com/dadas-io/dadas/pkg/model"
	"github.com/dadas-io/dadas/pkg/store"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type database struct {
	db  *gorm.DB
	now func() time.Time
}

// New creates a new database connection
func New(ctx context.Context, dialect string, dsn string, config *gorm.Config) (Database, error) {
	if config == nil {
		config = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	}

	var db *gorm.DB
	var err error

	switch dialect {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(dsn), config)
	case "mysql":
		db, err = gorm.Open(mysql.Open(dsn), config)
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
	if err != nil {
		return nil, err
	}

	db = db.WithContext(ctx)

	if err := db.AutoMigrate(&VPS{}); err != nil {
		return nil, err
	}

	logrus.Debugf("connected to %s database, table %q migrated", dialect, store.Collection)

	d := &database{
		db:  db,
		now: time.Now,
	}
	return d, nil
}

func (d *database) List(ctx context.Context) ([]model.VPS, error) {
	var rows []VPS
	sql := d.db.WithContext(ctx).Order("created_at desc").Find(&rows)
	if sql.Error != nil {
		return nil, store.Wrap("list", "", sql.Error)
	}

	records := make([]model.VPS, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toModel())
	}
	return records, nil
}

func (d *database) Insert(ctx context.Context, fields model.VPSFields) error {
	now := d.now()
	row := &VPS{
		ID:           uuid.NewString(),
		Name:         fields.Name,
		CPU:          fields.CPU,
		RAM:          fields.RAM,
		Storage:      fields.Storage,
		Applications: DenormalizeApplications(fields.Applications),
		Unit:         fields.Unit,
		Status:       string(fields.Status),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	sql := d.db.WithContext(ctx).Create(row)
	if sql.Error != nil {
		return store.Wrap("insert", "", sql.Error)
	}

	logrus.Debugf("inserted vps %s (%s)", row.ID, row.Name)
	return nil
}

func (d *database) Update(ctx context.Context, id string, fields model.VPSFields) error {
	// A map is used so that every column is written, empty values included.
	// updated_at always changes, so MySQL reports the row as affected even when
	// nothing else did.
	sql := d.db.WithContext(ctx).Model(&VPS{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":         fields.Name,
		"cpu":          fields.CPU,
		"ram":          fields.RAM,
		"storage":      fields.Storage,
		"applications": DenormalizeApplications(fields.Applications),
		"unit":         fields.Unit,
		"status":       string(fields.Status),
		"updated_at":   d.now(),
	})
	if sql.Error != nil {
		return store.Wrap("update", id, sql.Error)
	}
	if sql.RowsAffected == 0 {
		return store.Wrap("update", id, store.ErrNotFound)
	}
	return nil
}

func (d *database) Delete(ctx context.Context, id string) error {
	sql := d.db.WithContext(ctx).Where("id = ?", id).Delete(&VPS{})
	if sql.Error != nil {
		return store.Wrap("delete", id, sql.Error)
	}
	if sql.RowsAffected == 0 {
		return store.Wrap("delete", id, store.ErrNotFound)
	}
	return nil
}

func (d *database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
