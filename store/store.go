package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dopeeycode/brandfuse-api/config"
	"github.com/dopeeycode/brandfuse-api/model"
	"github.com/dopeeycode/brandfuse-api/utils"

	"github.com/dgraph-io/ristretto"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const (
	reportKeyPrefix = "report:"
	tokenIndexKey   = "token_index" // Redis hash mapping accessToken -> report id
	maxTxRetries    = 5
)

var (
	// ErrAlreadyPaid signals the idempotency short-circuit: the report was
	// paid before this call, nothing was mutated.
	ErrAlreadyPaid = errors.New("report already paid")

	// ErrReportExists is returned when creating a report whose id is taken
	ErrReportExists = errors.New("report id already exists")

	errTxRetriesExceeded = errors.New("conditional update failed after maximum retries")
)

// ReportStore persists reports in Redis as JSON values keyed by id, with a
// hash index for access-token lookups. Paid reports are immutable, so token
// lookups are additionally served from an in-process cache.
type ReportStore struct {
	redis *redis.Client
	cache *ristretto.Cache
	ttl   time.Duration
}

// New creates a report store. cacheCfg may be disabled, in which case all
// token lookups go to Redis.
func New(rdb *redis.Client, cacheCfg config.CacheConfig) (*ReportStore, error) {
	s := &ReportStore{redis: rdb}

	if cacheCfg.Enabled {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: int64(cacheCfg.CounterSize),
			MaxCost:     int64(cacheCfg.MaxSizeMB) * 1024 * 1024,
			BufferItems: 64,
		})
		if err != nil {
			return nil, err
		}
		s.cache = cache
		s.ttl = time.Duration(cacheCfg.TTLSeconds) * time.Second

		log.Info().
			Int("max_size_mb", cacheCfg.MaxSizeMB).
			Int("ttl_seconds", cacheCfg.TTLSeconds).
			Msg("Report cache initialized")
	}

	return s, nil
}

func reportKey(id string) string {
	return reportKeyPrefix + id
}

// Create stores a new report. The write is guarded with SETNX so a duplicate
// id can never overwrite an existing record.
func (s *ReportStore) Create(ctx context.Context, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	ok, err := s.redis.SetNX(ctx, reportKey(report.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrReportExists
	}

	log.Info().
		Str("report_id", report.ID).
		Str("brand_name", report.BrandName).
		Msg("Report created")
	return nil
}

// FindByID fetches a report by its primary id
func (s *ReportStore) FindByID(ctx context.Context, id string) (*model.Report, error) {
	data, err := s.redis.Get(ctx, reportKey(id)).Bytes()
	if err == redis.Nil {
		return nil, utils.ErrReportNotFound
	} else if err != nil {
		return nil, err
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// FindByToken fetches a report through the access-token index. This is the
// only lookup path exposed to report retrieval; ids are not secrets and must
// never gate full-report access.
func (s *ReportStore) FindByToken(ctx context.Context, token string) (*model.Report, error) {
	if s.cache != nil {
		if cached, found := s.cache.Get(token); found {
			if report, ok := cached.(*model.Report); ok {
				log.Debug().Str("report_id", report.ID).Msg("Token cache hit")
				return report, nil
			}
		}
	}

	id, err := s.redis.HGet(ctx, tokenIndexKey, token).Result()
	if err == redis.Nil {
		return nil, utils.ErrReportNotFound
	} else if err != nil {
		return nil, err
	}

	report, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only paid reports are safe to cache: they never change again
	if s.cache != nil && report.Status == model.StatusPaid {
		s.cache.SetWithTTL(token, report, 1024, s.ttl)
	}

	return report, nil
}

// MarkPaid performs the single PENDING->PAID transition: it sets status,
// access token, and full report in one atomic write, and registers the token
// in the lookup index. The record is WATCHed, so a concurrent duplicate
// delivery either loses the race (and retries into the ErrAlreadyPaid path)
// or observes the report already paid. Exactly one caller ever wins.
func (s *ReportStore) MarkPaid(ctx context.Context, id, token string, fullReport *model.FullReport) error {
	key := reportKey(id)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return utils.ErrReportNotFound
		} else if err != nil {
			return err
		}

		var report model.Report
		if err := json.Unmarshal(data, &report); err != nil {
			return err
		}

		if report.Status == model.StatusPaid {
			return ErrAlreadyPaid
		}

		now := time.Now()
		report.Status = model.StatusPaid
		report.AccessToken = token
		report.FullReport = fullReport
		report.PaidAt = &now

		updated, err := json.Marshal(&report)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			pipe.HSet(ctx, tokenIndexKey, token, report.ID)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.redis.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			log.Warn().
				Str("report_id", id).
				Int("attempt", attempt+1).
				Msg("Concurrent report update detected, retrying transition")
			continue
		}
		return err
	}

	return errTxRetriesExceeded
}

// Ping checks Redis connectivity
func (s *ReportStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// Close shuts down the in-process cache
func (s *ReportStore) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}
