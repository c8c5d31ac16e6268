package db

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogger sends gorm's output through logrus so database logs share the
// process' format and level.
type gormLogger struct {
	level logger.LogLevel
	log   *logrus.Entry
}

// NewLogger maps the process log level onto gorm's. SQL statements are only
// traced at trace level.
func NewLogger(logLevel string) logger.Interface {
	l := &gormLogger{
		log: logrus.WithField("component", "gorm"),
	}

	switch logLevel {
	case "trace":
		l.level = logger.Info
	case "debug", "info", "warn":
		l.level = logger.Warn
	default:
		l.level = logger.Error
	}

	return l
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	n := *l
	n.level = level
	return &n
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		l.log.Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		l.log.Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		l.log.Errorf(msg, args...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		l.log.WithError(err).WithFields(logrus.Fields{
			"duration": elapsed,
			"rows":     rows,
		}).Error(sql)
	case elapsed > slowQueryThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.log.WithFields(logrus.Fields{
			"duration": elapsed,
			"rows":     rows,
		}).Warnf("slow query: %s", sql)
	case l.level >= logger.Info:
		sql, rows := fc()
		l.log.WithFields(logrus.Fields{
			"duration": elapsed,
			"rows":     rows,
		}).Trace(sql)
	}
}
