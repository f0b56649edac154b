package broadcast

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pinkpulsehealth/broadcast/internal/user"
)

type fakeDirectory struct {
	users []user.User
	err   error
	calls atomic.Int32
}

func (f *fakeDirectory) List(ctx context.Context) ([]user.User, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

// fakeSink records every destination and fails the ones listed in failFor.
type fakeSink struct {
	mu      sync.Mutex
	sent    []string
	subject string
	body    string
	failFor map[string]error
	panicOn string
	delay   time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeSink) SendSMS(ctx context.Context, to, body string) error {
	return f.record(to, "", body)
}

func (f *fakeSink) SendEmail(ctx context.Context, to, subject, text string) error {
	return f.record(to, subject, text)
}

func (f *fakeSink) record(to, subject, body string) error {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.sent = append(f.sent, to)
	f.subject = subject
	f.body = body
	f.mu.Unlock()

	if to == f.panicOn {
		panic("sink exploded")
	}
	if err, ok := f.failFor[to]; ok {
		return err
	}
	return nil
}

func (f *fakeSink) destinations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	sort.Strings(out)
	return out
}
