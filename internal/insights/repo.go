package insights

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adscope/adscope-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an insights repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Transaction runs fn against a repository bound to a single database
// transaction, rolling back when fn returns an error.
func (r *repository) Transaction(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func (r *repository) UpsertDailyMetrics(ctx context.Context, rows []models.AdMetricDaily) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "account_id"},
			{Name: "ad_id"},
			{Name: "date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"ad_name",
			"impressions",
			"clicks",
			"inline_link_clicks",
			"spend",
			"lpv",
			"plays",
			"hook",
			"hold_rate",
			"ctr",
			"website_ctr",
			"connect_rate",
			"cpm",
			"conversions",
			"updated_at",
		}),
	}).Create(&rows).Error
}

// ReplaceLeadscores rewrites an ad's full score sequence. Snapshots always
// carry the complete ordered list, so replacement keeps replays idempotent.
func (r *repository) ReplaceLeadscores(ctx context.Context, accountID, adID string, scores []float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ? AND ad_id = ?", accountID, adID).
			Delete(&models.AdLeadscore{}).Error; err != nil {
			return err
		}
		if len(scores) == 0 {
			return nil
		}
		rows := make([]models.AdLeadscore, 0, len(scores))
		for i, score := range scores {
			rows = append(rows, models.AdLeadscore{
				AccountID: accountID,
				AdID:      adID,
				Position:  i,
				Score:     score,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (r *repository) ListDailyMetrics(ctx context.Context, accountID, from, to string) ([]models.AdMetricDaily, error) {
	var rows []models.AdMetricDaily
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND date BETWEEN ? AND ?", accountID, from, to).
		Order("date ASC, ad_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListLeadscores(ctx context.Context, accountID string) ([]models.AdLeadscore, error) {
	var rows []models.AdLeadscore
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("ad_id ASC, position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
