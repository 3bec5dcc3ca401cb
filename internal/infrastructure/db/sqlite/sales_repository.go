package sqlite

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

type SalesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

type salesRow struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"index;not null"`
	Product   string
	Region    string
	UnitsSold int64
	// Revenue is stored as its exact decimal string, not a float column.
	Revenue string
	Extra    extraJSON `gorm:"type:text"`
}

func (salesRow) TableName() string { return "sales_records" }

// extraJSON serializes the ordered extra columns as a JSON array so column
// order survives a round trip through the store.
type extraJSON domain.ExtraColumns

func (e extraJSON) Value() (driver.Value, error) {
	if len(e) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]domain.ExtraColumn(e))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (e *extraJSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*e = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]domain.ExtraColumn)(e))
	case string:
		return json.Unmarshal([]byte(v), (*[]domain.ExtraColumn)(e))
	default:
		return fmt.Errorf("extra columns: unsupported source type %T", src)
	}
}

// AppendBatch inserts the whole batch in a single transaction: all rows
// become visible together or not at all.
func (r *SalesRepository) AppendBatch(ctx context.Context, records []domain.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]salesRow, len(records))
	for i, rec := range records {
		rows[i] = salesRow{
			Date:      rec.Date,
			Product:   rec.Product,
			Region:    rec.Region,
			UnitsSold: rec.UnitsSold,
			Revenue:   rec.Revenue.String(),
			Extra:     extraJSON(rec.Extra),
		}
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("append sales batch: %w", err)
	}
	return nil
}

func (r *SalesRepository) LoadAll(ctx context.Context) ([]domain.SalesRecord, error) {
	var rows []salesRow
	if err := r.db.WithContext(ctx).Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}

	records := make([]domain.SalesRecord, len(rows))
	for i, row := range rows {
		revenue, err := decimal.NewFromString(row.Revenue)
		if err != nil {
			revenue = decimal.Zero
		}
		records[i] = domain.SalesRecord{
			ID:        row.ID,
			Date:      row.Date.UTC(),
			Product:   row.Product,
			Region:    row.Region,
			UnitsSold: row.UnitsSold,
			Revenue:   revenue,
			Extra:     domain.ExtraColumns(row.Extra),
		}
	}
	return records, nil
}

func (r *SalesRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&salesRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

func (r *SalesRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("DELETE FROM sales_records").Error; err != nil {
		return fmt.Errorf("clear sales: %w", err)
	}
	return nil
}
