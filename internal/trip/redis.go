package trip

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	errx "github.com/yatrika/server/internal/core/error"
	logx "github.com/yatrika/server/pkg/logger"
)

const (
	TripNotFoundMessage  = "trip not found"
	ShareNotFoundMessage = "shared trip not found"
)

// RedisRepository stores trips and shares as JSON documents with per-user
// index lists and a dedicated INCR counter per share.
type RedisRepository struct {
	rdb redis.Cmdable
}

func NewRedisRepository(rdb redis.Cmdable) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func tripKey(tripID string) string        { return fmt.Sprintf("trip:%s", tripID) }
func userTripsKey(userID string) string   { return fmt.Sprintf("user:%s:trips", userID) }
func shareKey(shareID string) string      { return fmt.Sprintf("share:%s", shareID) }
func shareViewsKey(shareID string) string { return fmt.Sprintf("share:%s:views", shareID) }
func userSharesKey(userID string) string  { return fmt.Sprintf("user:%s:shares", userID) }

func (r *RedisRepository) Save(ctx context.Context, userID string, doc PlanDocument) (*Record, error) {
	record := &Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    StatusPlanned,
		CreatedAt: time.Now().UTC(),
		Content:   doc,
	}

	if err := r.putTrip(ctx, record); err != nil {
		return nil, err
	}
	if err := r.rdb.RPush(ctx, userTripsKey(userID), record.ID).Err(); err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to index trip for user")
		return nil, errx.WrapRedis(err)
	}

	logx.Debug().Str("trip_id", record.ID).Str("user_id", userID).Msg("Trip saved")
	return record, nil
}

func (r *RedisRepository) Get(ctx context.Context, tripID string) (*Record, error) {
	raw, err := r.rdb.Get(ctx, tripKey(tripID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errx.NotFound(err, TripNotFoundMessage)
		}
		logx.Error().Err(err).Str("trip_id", tripID).Msg("failed to load trip")
		return nil, errx.WrapRedis(err)
	}

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("unmarshal trip %s: %w", tripID, err)
	}
	return &record, nil
}

func (r *RedisRepository) ListByUser(ctx context.Context, userID string) ([]*Record, error) {
	ids, err := r.rdb.LRange(ctx, userTripsKey(userID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []*Record{}, nil
		}
		return nil, errx.WrapRedis(err)
	}

	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		record, err := r.Get(ctx, id)
		if err != nil {
			if errx.KindOf(err) == errx.KindNotFound {
				// Index entries can outlive trips; skip the hole.
				continue
			}
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *RedisRepository) Book(ctx context.Context, tripID string) (*Booking, error) {
	record, err := r.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if record.Status != StatusBooked {
		record.Status = StatusBooked
		record.BookingID = newBookingID()
		if err := r.putTrip(ctx, record); err != nil {
			return nil, err
		}
	}

	return &Booking{
		BookingID:     record.BookingID,
		Status:        "confirmed",
		TotalINR:      record.Content.Itinerary.CostBreakdown.TotalINR,
		PaymentMethod: "Credit Card",
		BookingDate:   time.Now().UTC().Format("2006-01-02"),
	}, nil
}

func (r *RedisRepository) CreateShare(ctx context.Context, tripID, userID string) (*Share, error) {
	share := &Share{
		ID:        uuid.NewString(),
		TripID:    tripID,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
		IsPublic:  true,
	}

	b, err := json.Marshal(share)
	if err != nil {
		return nil, fmt.Errorf("marshal share: %w", err)
	}
	if err := r.rdb.Set(ctx, shareKey(share.ID), b, 0).Err(); err != nil {
		return nil, errx.WrapRedis(err)
	}
	if err := r.rdb.RPush(ctx, userSharesKey(userID), share.ID).Err(); err != nil {
		return nil, errx.WrapRedis(err)
	}

	logx.Debug().Str("share_id", share.ID).Str("trip_id", tripID).Msg("Share link created")
	return share, nil
}

func (r *RedisRepository) GetShare(ctx context.Context, shareID string) (*Share, error) {
	raw, err := r.rdb.Get(ctx, shareKey(shareID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errx.NotFound(err, ShareNotFoundMessage)
		}
		return nil, errx.WrapRedis(err)
	}

	var share Share
	if err := json.Unmarshal([]byte(raw), &share); err != nil {
		return nil, fmt.Errorf("unmarshal share %s: %w", shareID, err)
	}

	views, err := r.rdb.Get(ctx, shareViewsKey(shareID)).Int64()
	if err != nil && err != redis.Nil {
		return nil, errx.WrapRedis(err)
	}
	share.ViewCount = views
	return &share, nil
}

func (r *RedisRepository) ViewShare(ctx context.Context, shareID string) (*Share, error) {
	share, err := r.GetShare(ctx, shareID)
	if err != nil {
		return nil, err
	}

	views, err := r.rdb.Incr(ctx, shareViewsKey(shareID)).Result()
	if err != nil {
		return nil, errx.WrapRedis(err)
	}
	share.ViewCount = views
	return share, nil
}

func (r *RedisRepository) DeleteShare(ctx context.Context, shareID string) error {
	share, err := r.GetShare(ctx, shareID)
	if err != nil {
		return err
	}

	if err := r.rdb.Del(ctx, shareKey(shareID), shareViewsKey(shareID)).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	if err := r.rdb.LRem(ctx, userSharesKey(share.CreatedBy), 0, shareID).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisRepository) ListShares(ctx context.Context, userID string) ([]*Share, error) {
	ids, err := r.rdb.LRange(ctx, userSharesKey(userID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []*Share{}, nil
		}
		return nil, errx.WrapRedis(err)
	}

	shares := make([]*Share, 0, len(ids))
	for _, id := range ids {
		share, err := r.GetShare(ctx, id)
		if err != nil {
			if errx.KindOf(err) == errx.KindNotFound {
				continue
			}
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, nil
}

func (r *RedisRepository) putTrip(ctx context.Context, record *Record) error {
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal trip: %w", err)
	}
	if err := r.rdb.Set(ctx, tripKey(record.ID), b, 0).Err(); err != nil {
		logx.Error().Err(err).Str("trip_id", record.ID).Msg("failed to store trip")
		return errx.WrapRedis(err)
	}
	return nil
}

// newBookingID derives a short confirmation code of the form ATP-XXXXXX.
func newBookingID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ATP-" + strings.ToUpper(raw[:6])
}

var _ Repository = (*RedisRepository)(nil)
