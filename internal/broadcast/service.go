// Package broadcast fans a single operator message out to every user in the
// directory.
//
// Delivery is best-effort: each destination is sent independently, failures
// are logged and counted but never abort the other sends or surface to the
// caller. The only error a broadcast returns is a validation error or a
// failed directory read, both of which happen before anything is sent.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pinkpulsehealth/broadcast/internal/phone"
	"github.com/pinkpulsehealth/broadcast/internal/user"
)

var (
	ErrMessageRequired        = errors.New("message content is required")
	ErrSubjectAndTextRequired = errors.New("subject and message content are required")
	ErrDirectoryUnavailable   = errors.New("user directory unavailable")
)

const DefaultConcurrency = 10

type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Directory is the read side of the user store.
type Directory interface {
	List(ctx context.Context) ([]user.User, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text string) error
}

// Result summarises one broadcast once every send has settled.
type Result struct {
	ID        string
	Channel   Channel
	Attempted int
	Failed    int
}

type Service struct {
	users       Directory
	sms         SMSSender
	email       EmailSender
	concurrency int
	log         *zap.Logger
}

// NewService wires the dispatcher. concurrency caps the number of sends in
// flight per broadcast; values below 1 fall back to DefaultConcurrency.
func NewService(users Directory, sms SMSSender, email EmailSender, concurrency int, log *zap.Logger) *Service {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		users:       users,
		sms:         sms,
		email:       email,
		concurrency: concurrency,
		log:         log,
	}
}

func (s *Service) BroadcastSMS(ctx context.Context, message string) (Result, error) {
	if message == "" {
		return Result{}, ErrMessageRequired
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	res := Result{ID: uuid.NewString(), Channel: ChannelSMS}
	s.fanOut(ctx, &res, len(users), smsDestinations(users), func(ctx context.Context, to string) error {
		return s.sms.SendSMS(ctx, to, message)
	})
	return res, nil
}

func (s *Service) BroadcastEmail(ctx context.Context, subject, text string) (Result, error) {
	if subject == "" || text == "" {
		return Result{}, ErrSubjectAndTextRequired
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	res := Result{ID: uuid.NewString(), Channel: ChannelEmail}
	s.fanOut(ctx, &res, len(users), emailDestinations(users), func(ctx context.Context, to string) error {
		return s.email.SendEmail(ctx, to, subject, text)
	})
	return res, nil
}

func smsDestinations(users []user.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		if to, ok := phone.Normalize(u.WhatsAppNumber); ok {
			out = append(out, to)
		}
	}
	return out
}

func emailDestinations(users []user.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email != "" {
			out = append(out, u.Email)
		}
	}
	return out
}

// fanOut runs send once per destination and waits for all of them. Tasks
// always return nil so the group never short-circuits.
func (s *Service) fanOut(ctx context.Context, res *Result, userCount int, destinations []string, send func(context.Context, string) error) {
	start := time.Now()
	log := s.log.With(zap.String("broadcast_id", res.ID), zap.String("channel", string(res.Channel)))
	log.Info("broadcast started", zap.Int("users", userCount), zap.Int("destinations", len(destinations)))

	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, to := range destinations {
		g.Go(func() error {
			if err := safeSend(ctx, to, send); err != nil {
				failed.Add(1)
				log.Error("delivery failed", zap.String("to", to), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	res.Attempted = len(destinations)
	res.Failed = int(failed.Load())

	fields := []zap.Field{
		zap.Int("attempted", res.Attempted),
		zap.Int("failed", res.Failed),
		zap.Duration("dur", time.Since(start)),
	}
	if res.Failed > 0 {
		log.Warn("broadcast finished with failures", fields...)
		return
	}
	log.Info("broadcast finished", fields...)
}

func safeSend(ctx context.Context, to string, send func(context.Context, string) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panic: %v", r)
		}
	}()
	return send(ctx, to)
}
