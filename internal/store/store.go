// Package store holds the persistence primitives every entity shares:
// ownership-scoped writes and reads, a per-call deadline, error
// classification and the single self-healing retry on missing schema.
package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/logger"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/schema"
)

// Store executes entity operations against the shared connection pool.
type Store struct {
	db       *gorm.DB
	migrator *schema.Migrator
	timeout  time.Duration
	log      *zap.SugaredLogger
}

// New creates a Store. timeout bounds each round-trip including the wait for
// a pooled connection; zero disables the deadline.
func New(db *gorm.DB, migrator *schema.Migrator, timeout time.Duration) *Store {
	return &Store{
		db:       db,
		migrator: migrator,
		timeout:  timeout,
		log:      logger.Named("store"),
	}
}

// DB returns the underlying GORM handle.
func (s *Store) DB() *gorm.DB { return s.db }

// Migrator returns the schema migrator the store heals with.
func (s *Store) Migrator() *schema.Migrator { return s.migrator }

// Run executes fn with a deadline-bound handle. A failure caused by a missing
// table or column triggers one migrator pass and one retry; every error
// returned is an *AppError.
func (s *Store) Run(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := s.attempt(ctx, fn)
	if err == nil {
		return nil
	}

	if schema.IsMissing(err) {
		s.log.Warnw("schema missing, running migrator", "op", op, "error", err)
		if merr := s.migrator.EnsureAll(ctx); merr != nil {
			s.log.Errorw("migrator pass failed", "op", op, "error", merr)
			return apperrors.Wrap(apperrors.ErrStore, merr)
		}
		err = s.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if schema.IsMissing(err) {
			return apperrors.Wrap(apperrors.ErrSchemaMissing, err)
		}
	}

	return s.classify(op, err)
}

func (s *Store) attempt(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return fn(s.db.WithContext(ctx))
}

func (s *Store) classify(op string, err error) error {
	var appErr *apperrors.AppError
	switch {
	case stderrors.As(err, &appErr):
		return appErr
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case schema.IsUniqueViolation(err):
		return apperrors.Wrap(apperrors.ErrDuplicateID, err)
	default:
		s.log.Errorw("store operation failed", "op", op, "error", err)
		return apperrors.Wrap(apperrors.ErrStore, err)
	}
}

// Create inserts value.
func (s *Store) Create(ctx context.Context, value any) error {
	return s.Run(ctx, "create", func(tx *gorm.DB) error {
		return tx.Create(value).Error
	})
}

// UpdateScoped applies fields to the row of model's table matching id,
// userID and every extra condition. An empty field set is a successful
// no-op. updated_at is always refreshed. Zero affected rows is not an error.
func (s *Store) UpdateScoped(ctx context.Context, model any, id, userID string, fields map[string]any, extra ...Cond) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["updated_at"] = time.Now().UTC()

	var affected int64
	err := s.Run(ctx, "update", func(tx *gorm.DB) error {
		res := where(tx.Model(model).Where("id = ? AND user_id = ?", id, userID), extra).Updates(values)
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// DeleteScoped hard-deletes the row matching id, userID and every extra
// condition. Zero affected rows is not an error.
func (s *Store) DeleteScoped(ctx context.Context, model any, id, userID string, extra ...Cond) (int64, error) {
	var affected int64
	err := s.Run(ctx, "delete", func(tx *gorm.DB) error {
		res := where(tx.Where("id = ? AND user_id = ?", id, userID), extra).Delete(model)
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// FindScoped loads the row matching id and userID into dest.
func (s *Store) FindScoped(ctx context.Context, dest any, id, userID string) error {
	return s.Run(ctx, "find", func(tx *gorm.DB) error {
		return tx.Where("id = ? AND user_id = ?", id, userID).First(dest).Error
	})
}

// List loads every row of userID matching f into dest, newest first.
func (s *Store) List(ctx context.Context, dest any, userID string, f Filter) error {
	return s.Run(ctx, "list", func(tx *gorm.DB) error {
		return f.apply(tx.Where("user_id = ?", userID)).
			Order("date DESC").
			Order("created_at DESC").
			Find(dest).Error
	})
}

// RequireUser fails with ErrUserNotFound unless userID exists. Financial
// writes call it first so a dangling identity yields a clear diagnostic
// instead of a foreign-key violation.
func (s *Store) RequireUser(ctx context.Context, userID string) error {
	var count int64
	err := s.Run(ctx, "require user", func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error
	})
	if err != nil {
		return err
	}
	if count == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// RequireUnusedID fails with ErrDuplicateID when id is already a primary key
// in any of tables, whoever owns the row. Entries and ledger rows share ids,
// so a new one must be free in every table its mirror will land in.
func (s *Store) RequireUnusedID(ctx context.Context, id string, tables ...string) error {
	for _, table := range tables {
		var count int64
		err := s.Run(ctx, "check id", func(tx *gorm.DB) error {
			return tx.Table(table).Where("id = ?", id).Count(&count).Error
		})
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrDuplicateID
		}
	}
	return nil
}
