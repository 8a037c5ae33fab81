package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Keys written when a websocket verification session reaches SUCCESS.
// The exam flow checks this flag before letting a user start a session.
const verifiedKeyPrefix = "user_verified_"

type IRedis interface {
	SetVerificationPassed(ctx context.Context, userID string, expiration time.Duration) error
	IsVerificationPassed(ctx context.Context, userID string) (bool, error)
	ClearVerificationPassed(ctx context.Context, userID string) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) SetVerificationPassed(ctx context.Context, userID string, expiration time.Duration) error {
	key := verifiedKeyPrefix + userID
	logrus.Debug(fmt.Sprintf("Setting verification flag for %s with expiration %v", key, expiration))
	if err := r.client.Set(ctx, key, "true", expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error setting verification flag for %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) IsVerificationPassed(ctx context.Context, userID string) (bool, error) {
	key := verifiedKeyPrefix + userID
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting verification flag for %s: %v", key, err))
		return false, err
	}
	return val == "true", nil
}

func (r *redisClient) ClearVerificationPassed(ctx context.Context, userID string) error {
	key := verifiedKeyPrefix + userID
	result, err := r.client.Del(ctx, key).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting verification flag for %s: %v", key, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("Verification flag %s not found for deletion", key))
	}

	return nil
}
