package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Transaction executes the given function within a database transaction.
// If the function returns an error the transaction is rolled back, otherwise
// it is committed.
func (p *Postgres) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.Client.WithContext(ctx).Transaction(fn)
}
