package models

import (
	"encoding/json"
	"time"
)

// AdMetricDaily is one ad's performance counters for one calendar day, as
// delivered by the metrics backend snapshots. The (account_id, ad_id, date)
// triple is unique; replays upsert in place.
type AdMetricDaily struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	AccountID string `gorm:"column:account_id;not null;uniqueIndex:ad_metrics_daily_unique,priority:1"`
	AdID      string `gorm:"column:ad_id;not null;uniqueIndex:ad_metrics_daily_unique,priority:2"`
	AdName    string `gorm:"column:ad_name;not null;default:''"`
	Date      string `gorm:"column:date;type:date;not null;uniqueIndex:ad_metrics_daily_unique,priority:3"`

	Impressions      int64   `gorm:"column:impressions;not null;default:0"`
	Clicks           int64   `gorm:"column:clicks;not null;default:0"`
	InlineLinkClicks int64   `gorm:"column:inline_link_clicks;not null;default:0"`
	Spend            float64 `gorm:"column:spend;not null;default:0"`
	LPV              int64   `gorm:"column:lpv;not null;default:0"`
	Plays            int64   `gorm:"column:plays;not null;default:0"`

	Hook        *float64 `gorm:"column:hook"`
	HoldRate    *float64 `gorm:"column:hold_rate"`
	CTR         *float64 `gorm:"column:ctr"`
	WebsiteCTR  *float64 `gorm:"column:website_ctr"`
	ConnectRate *float64 `gorm:"column:connect_rate"`
	CPM         *float64 `gorm:"column:cpm"`

	Conversions json.RawMessage `gorm:"column:conversions;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the gorm default.
func (AdMetricDaily) TableName() string {
	return "ad_metrics_daily"
}

// AdLeadscore is one matched lead's quality score for an ad. Position keeps
// the backend's original ordering so score sequences replay deterministically.
type AdLeadscore struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement"`
	AccountID string  `gorm:"column:account_id;not null;uniqueIndex:ad_leadscores_unique,priority:1"`
	AdID      string  `gorm:"column:ad_id;not null;uniqueIndex:ad_leadscores_unique,priority:2"`
	Position  int     `gorm:"column:position;not null;uniqueIndex:ad_leadscores_unique,priority:3"`
	Score     float64 `gorm:"column:score;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the gorm default.
func (AdLeadscore) TableName() string {
	return "ad_leadscores"
}
