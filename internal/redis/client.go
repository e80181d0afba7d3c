package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"marketplace/internal/models"

	"github.com/go-redis/redis/v8"
)

const availableDeliveriesPrefix = "available_deliveries:"

// Client caches the driver-facing delivery feed. Entries are keyed per city
// so drivers in different cities never see each other's cached feed.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func Initialize(redisURL string, cacheTTL int) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: time.Duration(cacheTTL) * time.Second}, nil
}

func (c *Client) GetAvailableDeliveries(city string) ([]models.Delivery, bool) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, availableDeliveriesPrefix+city).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Failed to read delivery cache: %v", err)
		}
		return nil, false
	}

	var deliveries []models.Delivery
	if err := json.Unmarshal([]byte(val), &deliveries); err != nil {
		log.Printf("Failed to unmarshal cached deliveries: %v", err)
		return nil, false
	}
	return deliveries, true
}

func (c *Client) SetAvailableDeliveries(city string, deliveries []models.Delivery) {
	ctx := context.Background()
	jsonData, err := json.Marshal(deliveries)
	if err != nil {
		log.Printf("Failed to marshal deliveries for cache: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, availableDeliveriesPrefix+city, jsonData, c.ttl).Err(); err != nil {
		log.Printf("Failed to write delivery cache: %v", err)
	}
}

// InvalidateAvailableDeliveries drops every per-city feed entry. Any change
// to a delivery can move it in or out of any city's feed.
func (c *Client) InvalidateAvailableDeliveries() {
	ctx := context.Background()
	iter := c.rdb.Scan(ctx, 0, availableDeliveriesPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("Failed to delete cache key %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("Failed to scan delivery cache keys: %v", err)
	}
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
