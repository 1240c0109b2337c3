package scheduler

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"eprofos_admin_backend/platform/config"
	"eprofos_admin_backend/platform/logger"
)

// Client enqueues follow-up reminder tasks. It implements
// management.ReminderScheduler.
type Client struct {
	client *asynq.Client
	queue  string
	log    *logger.Logger
}

// NewClient connects an asynq producer to the configured Redis.
func NewClient(cfg config.SchedulerConfig, log *logger.Logger) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  cfg.GetAsynqQueueName(),
		log:    log,
	}, nil
}

// ScheduleFollowUpReminder enqueues a reminder to fire at the due date. A due
// date in the past fires immediately.
func (c *Client) ScheduleFollowUpReminder(ctx context.Context, prospectID uuid.UUID, dueAt time.Time) error {
	task, err := NewFollowUpTask(prospectID, dueAt)
	if err != nil {
		return err
	}

	opts := []asynq.Option{asynq.Queue(c.queue)}
	if dueAt.After(time.Now()) {
		opts = append(opts, asynq.ProcessAt(dueAt))
	}

	info, err := c.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return err
	}

	c.log.Info("follow-up reminder scheduled", "prospectId", prospectID, "taskId", info.ID, "dueAt", dueAt)
	return nil
}

// Close releases the underlying Redis connections.
func (c *Client) Close() error {
	return c.client.Close()
}

// redisClientOpt parses the Redis URL into asynq connection options.
func redisClientOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	parsed, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	opt := asynq.RedisClientOpt{
		Addr:     parsed.Addr,
		Username: parsed.Username,
		Password: parsed.Password,
		DB:       parsed.DB,
	}
	if parsed.TLSConfig != nil {
		opt.TLSConfig = parsed.TLSConfig
		if cfg.GetRedisTLSInsecure() {
			opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}
	return opt, nil
}
