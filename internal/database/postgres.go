package database

import (
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/config"
)

func Open(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// Pool lazily opens a single shared *gorm.DB. The first caller pays the
// connection cost; concurrent first use is safe.
type Pool struct {
	once sync.Once
	open func() (*gorm.DB, error)
	db   *gorm.DB
	err  error
}

func NewPool(cfg *config.Config) *Pool {
	return &Pool{open: func() (*gorm.DB, error) { return Open(cfg) }}
}

func NewPoolWithOpener(open func() (*gorm.DB, error)) *Pool {
	return &Pool{open: open}
}

func (p *Pool) Get() (*gorm.DB, error) {
	p.once.Do(func() {
		p.db, p.err = p.open()
	})
	return p.db, p.err
}
