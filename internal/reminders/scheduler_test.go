package reminders

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"labreport-backend/internal/users"
)

type fakeMailer struct {
	mu    sync.Mutex
	sent  []string
	err   error
	addrs []string
}

func (f *fakeMailer) Send(_ context.Context, to, _, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.addrs = append(f.addrs, to)
	f.sent = append(f.sent, body)
	return nil
}

func seedUser(t *testing.T, repo *users.MemoryRepo) users.User {
	t.Helper()
	user := users.User{
		ID:        uuid.NewString(),
		Email:     "eve@example.com",
		Name:      "Eve",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestDispatchDueSendsAndMarks(t *testing.T) {
	repo := NewMemoryRepo()
	userRepo := users.NewMemoryRepo()
	user := seedUser(t, userRepo)
	mailer := &fakeMailer{}
	sched := NewScheduler(repo, userRepo, mailer, time.Minute)

	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)
	dueID := uuid.NewString()
	for _, rem := range []Reminder{
		{ID: dueID, UserID: user.ID, Message: "take medication", DueAt: past, CreatedAt: past},
		{ID: uuid.NewString(), UserID: user.ID, Message: "later", DueAt: future, CreatedAt: past},
	} {
		if err := repo.Create(context.Background(), rem); err != nil {
			t.Fatalf("seed reminder: %v", err)
		}
	}

	if sent := sched.dispatchDue(context.Background()); sent != 1 {
		t.Fatalf("expected 1 dispatched, got %d", sent)
	}
	if len(mailer.addrs) != 1 || mailer.addrs[0] != user.Email {
		t.Fatalf("unexpected recipients %v", mailer.addrs)
	}
	if body := mailer.sent[0]; !strings.Contains(body, "Hello Eve") || !strings.Contains(body, "take medication") {
		t.Fatalf("unexpected body %q", body)
	}

	// second pass finds nothing: the reminder is claimed
	if sent := sched.dispatchDue(context.Background()); sent != 0 {
		t.Fatalf("expected 0 on second pass, got %d", sent)
	}
	if len(mailer.addrs) != 1 {
		t.Fatalf("expected exactly one delivery, got %d", len(mailer.addrs))
	}
}

func TestDispatchDueClaimsEvenWhenSendFails(t *testing.T) {
	repo := NewMemoryRepo()
	userRepo := users.NewMemoryRepo()
	user := seedUser(t, userRepo)
	mailer := &fakeMailer{err: errors.New("relay down")}
	sched := NewScheduler(repo, userRepo, mailer, time.Minute)

	id := uuid.NewString()
	past := time.Now().UTC().Add(-time.Minute)
	if err := repo.Create(context.Background(), Reminder{ID: id, UserID: user.ID, Message: "m", DueAt: past, CreatedAt: past}); err != nil {
		t.Fatalf("seed reminder: %v", err)
	}

	if sent := sched.dispatchDue(context.Background()); sent != 0 {
		t.Fatalf("expected 0 sent, got %d", sent)
	}

	// no retry: the reminder stays claimed
	due, err := repo.ListDue(context.Background(), time.Now().UTC(), 10)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected claimed reminder off the due list, got %d", len(due))
	}
}

func TestSchedulerDefaultsInterval(t *testing.T) {
	sched := NewScheduler(NewMemoryRepo(), users.NewMemoryRepo(), &fakeMailer{}, 0)
	if sched.Interval != defaultPollInterval {
		t.Fatalf("expected default interval, got %v", sched.Interval)
	}
}
