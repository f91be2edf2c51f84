package repository

import (
	"github.com/apexearn/apexearn/utils"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *utils.Logger
}

func NewRepository(db *gorm.DB, logger *utils.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// handle returns the transaction when one is in flight, the pooled
// connection otherwise. Mutating methods accept an optional tx so the
// service can compose them into one atomic unit.
func (r *Repository) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
