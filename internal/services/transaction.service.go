package services

import (
	"context"
	"errors"
	"fmt"

	"cleanops/internal/database"

	contextutil "cleanops/internal/context"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

var errPreviewRollback = errors.New("preview rollback")

// TransactionService handles database transactions using context injection
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside a transaction, committing when it returns nil and
// rolling back otherwise. Panics are converted to errors unless the rollback
// itself fails. A ctx that already carries a transaction joins it, leaving
// commit and rollback to the outermost caller.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.TraceFromContext(ctx).Function("Execute")

	if outer, ok := contextutil.GetTransaction(ctx); ok {
		return fn(ctx, outer)
	}

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := log.ErrMsg("panic during transaction: " + fmt.Sprintf("%v", r))

			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				log.Er("CRITICAL: failed to rollback after panic", rollbackErr, "panic", r)
				panic(
					fmt.Sprintf(
						"transaction rollback failed: %v (original panic: %v)",
						rollbackErr,
						r,
					),
				)
			}

			log.Info("transaction rolled back successfully after panic")
			err = panicErr
		}
	}()

	if err = fn(contextutil.WithTransaction(ctx, tx), tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("CRITICAL: failed to rollback after function error", rollbackErr, "originalError", err)
			return log.Error("transaction rollback failed", "rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}

// ExecuteAndRollback runs fn inside a transaction that is always rolled back,
// so fn observes its own writes without persisting them.
func (ts *TransactionService) ExecuteAndRollback(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) error {
	if outer, ok := contextutil.GetTransaction(ctx); ok {
		return ts.rollbackToSavepoint(ctx, outer, fn)
	}

	err := ts.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return errPreviewRollback
	})
	if errors.Is(err, errPreviewRollback) {
		return nil
	}
	return err
}

const previewSavepoint = "preview"

func (ts *TransactionService) rollbackToSavepoint(
	ctx context.Context,
	tx *gorm.DB,
	fn func(context.Context, *gorm.DB) error,
) error {
	log := ts.log.TraceFromContext(ctx).Function("rollbackToSavepoint")

	if err := tx.SavePoint(previewSavepoint).Error; err != nil {
		return log.Err("failed to create savepoint", err)
	}

	fnErr := fn(ctx, tx)

	if err := tx.RollbackTo(previewSavepoint).Error; err != nil {
		return log.Err("failed to roll back to savepoint", err, "originalError", fnErr)
	}

	return fnErr
}
