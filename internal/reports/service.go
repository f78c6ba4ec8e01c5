package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/autopark-suite/autopark/internal/shared"
)

const cacheTTL = time.Minute

// Result is a generic tabular report payload.
type Result struct {
	Code    string   `json:"code"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type Service struct {
	db     *pgxpool.Pool
	cache  *redis.Client
	group  singleflight.Group
	logger *slog.Logger
}

func NewService(db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{db: db, cache: cache, logger: logger}
}

// Run executes the named report over [from, to]. Results are cached for a
// minute and concurrent identical requests share a single execution.
func (s *Service) Run(ctx context.Context, code string, from, to time.Time) (Result, error) {
	def, ok := Lookup(code)
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown report %q", shared.ErrNotFound, code)
	}

	key := fmt.Sprintf("report:%s:%s:%s", code, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if cached, err := s.cache.Get(ctx, key).Bytes(); err == nil {
		var result Result
		if err := json.Unmarshal(cached, &result); err == nil {
			return result, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		result, err := s.execute(ctx, def, from, to)
		if err != nil {
			return Result{}, err
		}
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, data, cacheTTL).Err(); err != nil {
				s.logger.Warn("cache report", slog.String("code", code), slog.Any("error", err))
			}
		}
		return result, nil
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (s *Service) execute(ctx context.Context, def Definition, from, to time.Time) (Result, error) {
	rows, err := s.db.Query(ctx, def.SQL, from, to)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	out := Result{Code: def.Code, Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return Result{}, err
		}
		out.Rows = append(out.Rows, values)
	}
	return out, rows.Err()
}
