package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/service"
)

// Repository owns the gorm connection and hands out the per-table stores
// the services depend on.
type Repository struct {
	db *gorm.DB
}

// New opens the postgres connection.
func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Jobs() *JobRepository           { return &JobRepository{db: r.db} }
func (r *Repository) Shipments() *ShipmentRepository { return &ShipmentRepository{db: r.db} }
func (r *Repository) Views() *JobViewRepository      { return &JobViewRepository{db: r.db} }
func (r *Repository) Favorites() *FavoriteRepository { return &FavoriteRepository{db: r.db} }
func (r *Repository) FavoriteViews() *FavoriteViewRepository {
	return &FavoriteViewRepository{db: r.db}
}

// InTx runs fn inside one transaction; the closure's stores are bound to
// the transaction connection.
func (r *Repository) InTx(fn func(s service.TxStores) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(service.TxStores{
			Jobs:      &JobRepository{db: tx},
			Shipments: &ShipmentRepository{db: tx},
			Views:     &JobViewRepository{db: tx},
		})
	})
}
