package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sahidx/saroyar-sub004/internal/models"
)

// BonusRepository is the bonus provider.
type BonusRepository struct {
	db *sqlx.DB
}

// NewBonusRepository constructs the repository.
func NewBonusRepository(db *sqlx.DB) *BonusRepository {
	return &BonusRepository{db: db}
}

// Upsert stores the bonus for a student and period.
func (r *BonusRepository) Upsert(ctx context.Context, bonus *models.MonthlyBonus) error {
	bonus.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO monthly_bonuses (student_id, batch_id, year, month, bonus_percent, updated_at)
        VALUES (:student_id, :batch_id, :year, :month, :bonus_percent, :updated_at)
        ON CONFLICT (student_id, batch_id, year, month)
        DO UPDATE SET bonus_percent = EXCLUDED.bonus_percent, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, bonus); err != nil {
		return fmt.Errorf("upsert bonus: %w", err)
	}
	return nil
}

// Get returns the bonus percent, or 0 when none was entered.
func (r *BonusRepository) Get(ctx context.Context, studentID, batchID string, year, month int) (float64, error) {
	var bonus float64
	query := r.db.Rebind(`SELECT bonus_percent FROM monthly_bonuses
        WHERE student_id = ? AND batch_id = ? AND year = ? AND month = ?`)
	if err := r.db.GetContext(ctx, &bonus, query, studentID, batchID, year, month); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get bonus: %w", err)
	}
	return bonus, nil
}
