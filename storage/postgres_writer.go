package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"ev-value-index/models"
)

// scoredColumnCount is the number of bound parameters per inserted row.
const scoredColumnCount = 19

// PostgresWriter mirrors the scored snapshot into the ev_scores table.
// Each write replaces the previous snapshot.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS ev_scores (
			id                  SERIAL PRIMARY KEY,
			brand               TEXT             NOT NULL,
			model               TEXT             NOT NULL,
			battery_kwh         DOUBLE PRECISION NOT NULL,
			range_km            DOUBLE PRECISION NOT NULL,
			charging_time_hr    DOUBLE PRECISION NOT NULL,
			price_inr           DOUBLE PRECISION NOT NULL,
			source_url          TEXT             NOT NULL DEFAULT '',
			km_per_kwh          DOUBLE PRECISION NOT NULL,
			price_per_km        DOUBLE PRECISION NOT NULL,
			price_per_kwh       DOUBLE PRECISION NOT NULL,
			km_per_hr_charge    DOUBLE PRECISION NOT NULL,
			cost_per_km         DOUBLE PRECISION NOT NULL,
			full_charge_cost    DOUBLE PRECISION NOT NULL,
			price_segment       VARCHAR(16)      NOT NULL,
			range_segment       VARCHAR(16)      NOT NULL,
			range_score         DOUBLE PRECISION NOT NULL,
			efficiency_score    DOUBLE PRECISION NOT NULL,
			affordability_score DOUBLE PRECISION NOT NULL,
			ev_value_index      DOUBLE PRECISION NOT NULL,
			created_at          TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			UNIQUE (brand, model)
		);

		CREATE INDEX IF NOT EXISTS idx_ev_scores_index         ON ev_scores(ev_value_index DESC);
		CREATE INDEX IF NOT EXISTS idx_ev_scores_price_segment ON ev_scores(price_segment);
		CREATE INDEX IF NOT EXISTS idx_ev_scores_range_segment ON ev_scores(range_segment);
	`)
	return err
}

// WriteScored replaces the stored snapshot with records in one transaction.
// An empty slice clears the table.
func (pw *PostgresWriter) WriteScored(records []models.ScoredRecord) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM ev_scores"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := insertBatch(tx, records[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(tx *sql.Tx, batch []models.ScoredRecord) error {
	args := make([]interface{}, 0, len(batch)*scoredColumnCount)
	for _, r := range batch {
		args = append(args, scoredArgs(r)...)
	}
	if _, err := tx.Exec(insertQuery(len(batch)), args...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// insertQuery builds a multi-row INSERT for n records over ScoredColumns.
func insertQuery(n int) string {
	valueStrings := make([]string, 0, n)
	for idx := 0; idx < n; idx++ {
		placeholders := make([]string, scoredColumnCount)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", idx*scoredColumnCount+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
	}

	return fmt.Sprintf(`
		INSERT INTO ev_scores (%s)
		VALUES %s
		ON CONFLICT (brand, model) DO NOTHING
	`, strings.Join(ScoredColumns, ", "), strings.Join(valueStrings, ","))
}

// scoredArgs returns the bound values of r in ScoredColumns order.
func scoredArgs(r models.ScoredRecord) []interface{} {
	return []interface{}{
		r.Brand, r.Model, r.BatteryKWh, r.RangeKm, r.ChargingTimeHr, r.PriceINR, r.SourceURL,
		r.KmPerKWh, r.PricePerKm, r.PricePerKWh, r.KmPerHrCharge, r.CostPerKm, r.FullChargeCost,
		string(r.PriceSegment), string(r.RangeSegment),
		r.RangeScore, r.EfficiencyScore, r.AffordabilityScore, r.EVValueIndex,
	}
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves the stored snapshot ordered by value index, best first.
func (pw *PostgresWriter) FetchAll() ([]models.ScoredRecord, error) {
	rows, err := pw.db.Query(fmt.Sprintf(`
		SELECT %s
		FROM ev_scores
		ORDER BY ev_value_index DESC, brand, model
	`, strings.Join(ScoredColumns, ", ")))
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var records []models.ScoredRecord
	for rows.Next() {
		var r models.ScoredRecord
		var priceSeg, rangeSeg string
		if err := rows.Scan(
			&r.Brand, &r.Model, &r.BatteryKWh, &r.RangeKm, &r.ChargingTimeHr, &r.PriceINR, &r.SourceURL,
			&r.KmPerKWh, &r.PricePerKm, &r.PricePerKWh, &r.KmPerHrCharge, &r.CostPerKm, &r.FullChargeCost,
			&priceSeg, &rangeSeg,
			&r.RangeScore, &r.EfficiencyScore, &r.AffordabilityScore, &r.EVValueIndex,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		r.PriceSegment = models.PriceSegment(priceSeg)
		r.RangeSegment = models.RangeSegment(rangeSeg)
		records = append(records, r)
	}
	return records, rows.Err()
}
