package file

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

func tempRepo(t *testing.T) *SessionRepository {
	t.Helper()
	return NewSessionRepository(filepath.Join(t.TempDir(), "session.json"), zerolog.Nop())
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	repo := tempRepo(t)
	ctx := context.Background()

	want := &domain.Session{
		UserID:          "u1",
		Username:        "alice",
		Email:           "alice@example.com",
		Roles:           domain.RoleSet{domain.RoleSubmitter, domain.RoleReviewer},
		Token:           "tok-1",
		TotalPoints:     12,
		SubmissionCount: 3,
		CreatedAt:       time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
	}

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSessionRepository_MissingFile(t *testing.T) {
	repo := tempRepo(t)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil session for missing file, got %+v", got)
	}
}

func TestSessionRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	repo := NewSessionRepository(path, zerolog.Nop())
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("corrupt data must not surface an error, got %v", err)
	}
	if got != nil {
		t.Fatalf("corrupt data must mean logged out, got %+v", got)
	}
}

func TestSessionRepository_TokenlessSnapshotIgnored(t *testing.T) {
	repo := tempRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, &domain.Session{Username: "alice"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("snapshot without a token should be discarded, got %+v", got)
	}
}

func TestSessionRepository_ClearIdempotent(t *testing.T) {
	repo := tempRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, &domain.Session{Username: "alice", Token: "tok"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("second Clear must be a no-op, got %v", err)
	}
	if got, _ := repo.Load(ctx); got != nil {
		t.Fatalf("session survived Clear: %+v", got)
	}
}
