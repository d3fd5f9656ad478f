package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCapacityFull is returned when the doctor's daily patient cap is reached
var ErrCapacityFull = errors.New("doctor is fully booked for this date")

// reserveScript seeds the counter when it is missing, then takes one unit.
//
// KEYS[1] capacity key
// ARGV[1] remaining units to seed with (max_patients - booked in DB)
// ARGV[2] TTL in milliseconds
//
// Returns remaining units after the reservation, or -1 when none are left.
// The script runs atomically inside Redis, so no application lock is held.
var reserveScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
	end
	local remaining = redis.call('DECR', KEYS[1])
	if remaining < 0 then
		redis.call('INCR', KEYS[1])
		return -1
	end
	return remaining
`)

// releaseScript gives one unit back only if the counter still exists. An
// expired or reset counter is reseeded from the database on next use.
var releaseScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 1 then
		return redis.call('INCR', KEYS[1])
	end
	return -1
`)

const (
	// CapacityKeyPrefix namespaces the per-doctor per-day counters
	CapacityKeyPrefix = "capacity:"

	scanBatchSize = 100
)

// CapacityService keeps a Redis counter of remaining bookings per doctor and
// calendar date. The database remains the source of truth: counters are
// lazily seeded from it and expire the day after the date they track.
type CapacityService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	now         func() time.Time
}

func NewCapacityService(redisClient *redis.Client, log *logrus.Logger) *CapacityService {
	return &CapacityService{
		redisClient: redisClient,
		log:         log,
		now:         time.Now,
	}
}

// Reserve takes one unit of the doctor's capacity on date. booked is the
// current number of non-cancelled appointments, used only when the counter
// has to be seeded.
func (s *CapacityService) Reserve(ctx context.Context, doctorID uuid.UUID, date time.Time, maxPatients int, booked int64) error {
	key := CapacityKey(doctorID, date)

	seed := int64(maxPatients) - booked
	if seed < 0 {
		seed = 0
	}

	result, err := reserveScript.Run(ctx, s.redisClient, []string{key}, seed, s.ttl(date).Milliseconds()).Int64()
	if err != nil {
		s.log.Warnf("Failed to reserve capacity for %s: %+v", key, err)
		return fmt.Errorf("reserve capacity %s: %w", key, err)
	}

	if result < 0 {
		return ErrCapacityFull
	}

	s.log.Debugf("Reserved capacity for %s: remaining=%d", key, result)
	return nil
}

// Release gives back a unit taken by Reserve, after a cancellation or a
// failed insert.
func (s *CapacityService) Release(ctx context.Context, doctorID uuid.UUID, date time.Time) error {
	key := CapacityKey(doctorID, date)

	if err := releaseScript.Run(ctx, s.redisClient, []string{key}).Err(); err != nil {
		s.log.Warnf("Failed to release capacity for %s: %+v", key, err)
		return fmt.Errorf("release capacity %s: %w", key, err)
	}

	s.log.Debugf("Released capacity for %s", key)
	return nil
}

// ResetDoctor drops every counter of the doctor so a changed schedule takes
// effect on the next booking.
func (s *CapacityService) ResetDoctor(ctx context.Context, doctorID uuid.UUID) error {
	pattern := fmt.Sprintf("%s%s:*", CapacityKeyPrefix, doctorID)

	var cursor uint64
	deleted := 0
	for {
		keys, next, err := s.redisClient.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			s.log.Warnf("Failed to scan capacity keys for doctor %s: %+v", doctorID, err)
			return fmt.Errorf("scan capacity keys: %w", err)
		}

		if len(keys) > 0 {
			if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
				s.log.Warnf("Failed to delete capacity keys for doctor %s: %+v", doctorID, err)
				return fmt.Errorf("delete capacity keys: %w", err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	s.log.Debugf("Reset %d capacity keys for doctor %s", deleted, doctorID)
	return nil
}

// CapacityKey returns capacity:<doctor>:<YYYY-MM-DD>
func CapacityKey(doctorID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s%s:%s", CapacityKeyPrefix, doctorID, date.Format(entity.DateLayout))
}

// ttl keeps the counter until the end of the day after date
func (s *CapacityService) ttl(date time.Time) time.Duration {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	ttl := day.AddDate(0, 0, 2).Sub(s.now())

	if ttl <= 0 {
		return time.Minute
	}

	return ttl
}
