package persistence

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryModel represents the entries table
type EntryModel struct {
	ID          string          `gorm:"column:id;primaryKey;type:uuid"`
	Title       string          `gorm:"column:title;type:varchar(50);not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric;not null"`
	Description *string         `gorm:"column:description;type:varchar(500)"` // NULL when empty
	Date        time.Time       `gorm:"column:date;not null;default:CURRENT_TIMESTAMP;index"`
}

func (EntryModel) TableName() string {
	return "entries"
}

// AllModels lists every model for AutoMigrate
func AllModels() []any {
	return []any{
		&EntryModel{},
	}
}
