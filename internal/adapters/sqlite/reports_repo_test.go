package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
	"github.com/Guilhem-Bonnet/tv-programm/internal/ports"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestReportsRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewReportsRepository(openTestDB(t).SQL)

	want := domain.ExtractionReport{
		ID:        "r1",
		Kind:      domain.ReportSchedule,
		Source:    "tvspielfilm",
		Target:    "https://www.tvspielfilm.de/tv-programm/sendungen/abends.html",
		Entries:   42,
		Skipped:   2,
		Duration:  1500 * time.Millisecond,
		CreatedAt: time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC),
	}
	got, err := repo.Create(ctx, want)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("CreatedAt: want %v, got %v", want.CreatedAt, got.CreatedAt)
	}
	got.CreatedAt = want.CreatedAt
	if got != want {
		t.Fatalf("roundtrip mismatch:\nwant %+v\ngot  %+v", want, got)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReportsRepository_ListNewestFirstByKind(t *testing.T) {
	ctx := context.Background()
	repo := NewReportsRepository(openTestDB(t).SQL)

	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	reports := []domain.ExtractionReport{
		{ID: "a", Kind: domain.ReportSchedule, Source: "tvspielfilm", CreatedAt: base},
		{ID: "b", Kind: domain.ReportDetail, Source: "tvspielfilm", ErrorCode: "detail_structure", CreatedAt: base.Add(time.Minute)},
		{ID: "c", Kind: domain.ReportSchedule, Source: "tvspielfilm", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range reports {
		if _, err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create(%s): %v", r.ID, err)
		}
	}

	all, err := repo.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", all)
	}

	schedules, err := repo.List(ctx, domain.ReportSchedule, 1)
	if err != nil {
		t.Fatalf("List(schedule): %v", err)
	}
	if len(schedules) != 1 || schedules[0].ID != "c" {
		t.Fatalf("unexpected schedules: %+v", schedules)
	}

	details, err := repo.List(ctx, domain.ReportDetail, 10)
	if err != nil {
		t.Fatalf("List(detail): %v", err)
	}
	if len(details) != 1 || !details[0].Failed() {
		t.Fatalf("unexpected details: %+v", details)
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestReportsRepository_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := NewReportsRepository(openTestDB(t).SQL)

	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new"} {
		r := domain.ExtractionReport{ID: id, Kind: domain.ReportDetail, Source: "tvspielfilm", CreatedAt: base.Add(time.Duration(i) * 48 * time.Hour)}
		if _, err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	n, err := repo.DeleteOlderThan(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted: want 1, got %d", n)
	}
	if _, err := repo.Get(ctx, "old"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("old report should be gone, got %v", err)
	}
	if _, err := repo.Get(ctx, "new"); err != nil {
		t.Fatalf("new report: %v", err)
	}
}
