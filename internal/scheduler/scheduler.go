package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsbrief/internal/domain"

	"github.com/robfig/cron/v3"
)

const (
	DefaultDigestSpec     = "0 8 * * *"
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
	digestTimeout         = 30 * time.Minute
)

type Runner interface {
	Run(ctx context.Context, topic string) (domain.Digest, error)
}

type DigestSender interface {
	SendDigest(ctx context.Context, chatID int64, topic string, digest domain.Digest) error
}

type Config struct {
	Spec    string
	Topics  []string
	ChatIDs []int64
}

// Scheduler periodically runs the pipeline for fixed topics and broadcasts the digests.
// Runs are independent: nothing carries over between them.
type Scheduler struct {
	ctx     context.Context
	cron    *cron.Cron
	runner  Runner
	sender  DigestSender
	spec    string
	topics  []string
	chatIDs []int64
	log     *slog.Logger
}

func New(
	ctx context.Context,
	runner Runner,
	sender DigestSender,
	cfg Config,
	log *slog.Logger,
) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	spec := cfg.Spec
	if spec == "" {
		spec = DefaultDigestSpec
	}

	return &Scheduler{
		ctx:     ctx,
		cron:    c,
		runner:  runner,
		sender:  sender,
		spec:    spec,
		topics:  cfg.Topics,
		chatIDs: cfg.ChatIDs,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.sendDigests); err != nil {
		return fmt.Errorf("add cron func: %w", err)
	}

	s.cron.Start()

	return nil
}

// Stop waits for a running digest round to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDigests() {
	ctx, cancel := context.WithTimeout(s.ctx, digestTimeout)
	defer cancel()

	for _, topic := range s.topics {
		if ctx.Err() != nil {
			s.log.InfoContext(ctx, "Scheduler context is done",
				"error", ctx.Err())
			return
		}

		start := time.Now()

		digest, err := s.runner.Run(ctx, topic)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to build scheduled digest",
				"error", err,
				"topic", topic,
				"elapsed", time.Since(start))

			continue
		}

		for _, chatID := range s.chatIDs {
			if err = s.sender.SendDigest(ctx, chatID, topic, digest); err != nil {
				s.log.ErrorContext(ctx, "Failed to send scheduled digest",
					"error", err,
					"topic", topic,
					"chatID", chatID)
			}
		}

		s.log.InfoContext(ctx, "Scheduled digest is sent",
			"topic", topic,
			"chatCount", len(s.chatIDs),
			"articleCount", len(digest.Articles),
			"elapsed", time.Since(start))
	}
}
