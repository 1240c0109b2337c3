package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"eprofos_admin_backend/platform/logger"
)

type testSchedulerConfig struct {
	url string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.url }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "default" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestRedisClientOptParsesURL(t *testing.T) {
	cfg := testSchedulerConfig{url: "redis://:s3cret@redis.internal:6380/2"}

	opt, err := redisClientOpt(cfg)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.Addr != "redis.internal:6380" {
		t.Fatalf("addr = %q, want %q", opt.Addr, "redis.internal:6380")
	}
	if opt.Password != "s3cret" {
		t.Fatalf("password = %q, want %q", opt.Password, "s3cret")
	}
	if opt.DB != 2 {
		t.Fatalf("db = %d, want 2", opt.DB)
	}
}

func TestRedisClientOptRejectsBadURL(t *testing.T) {
	if _, err := redisClientOpt(testSchedulerConfig{url: "not-a-url"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestScheduleFollowUpReminderEnqueues(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{url: "redis://" + srv.Addr()}, logger.New("test"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	dueAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	if err := client.ScheduleFollowUpReminder(context.Background(), uuid.New(), dueAt); err != nil {
		t.Fatalf("ScheduleFollowUpReminder: %v", err)
	}

	found := false
	for _, key := range srv.Keys() {
		if len(key) >= 5 && key[:5] == "asynq" {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected asynq keys in redis after enqueue")
	}
}
