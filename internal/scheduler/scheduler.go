package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-bot/internal/bot"
	"github.com/i474232898/weather-bot/internal/store"
)

// Subscriptions lists due chats and their default cities.
type Subscriptions interface {
	Subscriptions(ctx context.Context) ([]store.Subscription, error)
	DefaultCity(ctx context.Context, chatID int64) (string, error)
}

// Digester builds the daily message for a city.
type Digester interface {
	Digest(ctx context.Context, city string) bot.Reply
}

// Sender delivers a message to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, reply bot.Reply) error
}

// digestWorkers bounds how many city digests are built at once, keeping the
// shared provider rate limit within each delivery deadline.
const digestWorkers = 4

// Scheduler delivers the daily forecast to every subscription whose time matches
// the current minute.
type Scheduler struct {
	scheduler *gocron.Scheduler
	location  *time.Location
	subs      Subscriptions
	digester  Digester
	sender    Sender
	timeout   time.Duration
}

// New creates a new Scheduler evaluating subscription times in loc.
func New(loc *time.Location, subs Subscriptions, digester Digester, sender Sender, timeout time.Duration) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		location:  loc,
		subs:      subs,
		digester:  digester,
		sender:    sender,
		timeout:   timeout,
	}
}

// Start schedules the per-minute job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Cron("* * * * *").SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		s.RunOnce(ctx, time.Now())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RunOnce delivers the digest to every subscription due at now's minute and
// returns how many deliveries succeeded. Each city's digest is built once per
// run and shared by all chats due for it. A failed delivery is logged and never
// retried within the same run.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) int {
	hhmm := now.In(s.location).Format("15:04")

	subs, err := s.subs.Subscriptions(ctx)
	if err != nil {
		log.Printf("scheduler: list subscriptions failed: %v", err)
		return 0
	}

	byCity := s.dueByCity(ctx, subs, hhmm)
	if len(byCity) == 0 {
		return 0
	}

	var (
		wg        sync.WaitGroup
		delivered atomic.Int32
		cities    = make(chan string)
	)
	for i := 0; i < min(digestWorkers, len(byCity)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for city := range cities {
				delivered.Add(int32(s.deliverCity(ctx, city, byCity[city])))
			}
		}()
	}
	for city := range byCity {
		cities <- city
	}
	close(cities)
	wg.Wait()

	if n := delivered.Load(); n > 0 {
		log.Printf("scheduler: delivered %d digest(s) for %s", n, hhmm)
	}
	return int(delivered.Load())
}

// dueByCity groups the chats due at hhmm by their default city. Chats without
// a default city are skipped.
func (s *Scheduler) dueByCity(ctx context.Context, subs []store.Subscription, hhmm string) map[string][]int64 {
	byCity := make(map[string][]int64)
	for _, sub := range subs {
		if sub.Time != hhmm {
			continue
		}
		city, err := s.subs.DefaultCity(ctx, sub.ChatID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Printf("scheduler: default city for chat %d: %v", sub.ChatID, err)
			}
			continue
		}
		byCity[city] = append(byCity[city], sub.ChatID)
	}
	return byCity
}

func (s *Scheduler) deliverCity(ctx context.Context, city string, chatIDs []int64) int {
	reply, ok := s.digest(ctx, city)
	if !ok {
		return 0
	}

	var (
		wg   sync.WaitGroup
		sent atomic.Int32
	)
	for _, chatID := range chatIDs {
		chatID := chatID
		wg.Add(1)
		go func() {
			defer wg.Done()

			if s.send(ctx, chatID, reply) {
				sent.Add(1)
			}
		}()
	}
	wg.Wait()
	return int(sent.Load())
}

func (s *Scheduler) digest(ctx context.Context, city string) (reply bot.Reply, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("scheduler: digest for %s panicked: %v", city, r)
			ok = false
		}
	}()

	return s.digester.Digest(ctx, city), true
}

func (s *Scheduler) send(ctx context.Context, chatID int64, reply bot.Reply) (ok bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("scheduler: delivery to chat %d panicked: %v", chatID, r)
			ok = false
		}
	}()

	if err := s.sender.Send(ctx, chatID, reply); err != nil {
		log.Printf("scheduler: send to chat %d failed: %v", chatID, err)
		return false
	}
	return true
}
