package postgres

import (
	"context"

	domainerrors "posledger/internal/domain/errors"
	"posledger/internal/domain/repository"
	"posledger/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sequenceRepository implements the domain.SequenceRepository interface using GORM.
type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository is the constructor for sequenceRepository.
func NewSequenceRepository(db *gorm.DB) repository.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next increments and returns the next value of the named sequence. The row
// is locked FOR UPDATE so concurrent generators line up instead of handing
// out the same value. First use creates the row at 1.
func (repo *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	var seq model.SequenceModel

	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = model.SequenceModel{Name: name, Value: 1}
		if createErr := repo.db.WithContext(ctx).Create(&seq).Error; createErr != nil {
			// A concurrent transaction created the row first; let the caller retry.
			if isUniqueConstraintViolation(createErr) {
				return 0, domainerrors.NewConcurrencyConflictError("sequence")
			}

			return 0, domainerrors.NewDatabaseExecuteError(createErr, "failed to create sequence")
		}

		return seq.Value, nil
	}
	if err != nil {
		if isConcurrencyConflict(err) {
			return 0, domainerrors.NewConcurrencyConflictError("sequence")
		}

		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to lock sequence")
	}

	seq.Value++
	err = repo.db.WithContext(ctx).
		Model(&model.SequenceModel{}).
		Where("name = ?", name).
		Update("value", seq.Value).Error
	if err != nil {
		if isConcurrencyConflict(err) {
			return 0, domainerrors.NewConcurrencyConflictError("sequence")
		}

		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to increment sequence")
	}

	return seq.Value, nil
}
