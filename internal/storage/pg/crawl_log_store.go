package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kusinaph/recipe-hunter/internal/domain"
	"github.com/kusinaph/recipe-hunter/internal/storage"
)

type CrawlLogStore struct {
	db *pgxpool.Pool
}

func NewCrawlLogStore(pool *ConnectionPool) *CrawlLogStore {
	return &CrawlLogStore{db: pool.conn}
}

var _ storage.CrawlLogStorer = (*CrawlLogStore)(nil)

func (s *CrawlLogStore) Insert(ctx context.Context, log *domain.CrawlLog) error {
	errorsJSON, err := json.Marshal(log.Errors)
	if err != nil {
		return fmt.Errorf("failed to marshal crawl errors: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO crawl_logs (
			id, site_url, status, recipes_found, recipes_new, recipes_updated,
			errors, start_time, end_time, duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`,
		log.ID,
		log.SiteURL,
		log.Status,
		log.RecipesFound,
		log.RecipesNew,
		log.RecipesUpdated,
		errorsJSON,
		log.StartTime,
		log.EndTime,
		log.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert crawl log: %w", err)
	}
	return nil
}

// List returns crawl logs newest first, with the total row count for paging.
func (s *CrawlLogStore) List(ctx context.Context, page, size int) ([]domain.CrawlLog, int64, error) {
	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM crawl_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count crawl logs: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, site_url, status, recipes_found, recipes_new, recipes_updated,
		       errors, start_time, end_time, duration_ms
		FROM crawl_logs
		ORDER BY start_time DESC
		LIMIT $1 OFFSET $2;
	`, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list crawl logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.CrawlLog
	for rows.Next() {
		var (
			log        domain.CrawlLog
			errorsJSON []byte
		)
		err := rows.Scan(
			&log.ID,
			&log.SiteURL,
			&log.Status,
			&log.RecipesFound,
			&log.RecipesNew,
			&log.RecipesUpdated,
			&errorsJSON,
			&log.StartTime,
			&log.EndTime,
			&log.DurationMs,
		)
		if err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(errorsJSON, &log.Errors); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal crawl errors: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, total, rows.Err()
}

// Summary aggregates total runs plus the success/failure split since the
// given time, for the ops stats endpoint.
func (s *CrawlLogStore) Summary(ctx context.Context, since time.Time) (domain.CrawlLogSummary, error) {
	var summary domain.CrawlLogSummary
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM crawl_logs),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'success'),
			COUNT(*) FILTER (WHERE status = 'error')
		FROM crawl_logs
		WHERE start_time > $1;
	`, since).Scan(&summary.TotalRuns, &summary.RecentRuns, &summary.Successful, &summary.Failed)
	if err != nil {
		return domain.CrawlLogSummary{}, fmt.Errorf("failed to read crawl summary: %w", err)
	}
	return summary, nil
}
