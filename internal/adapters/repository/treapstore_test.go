package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"testing"
)

func vote(t *testing.T, s *TreapStore, id string, times int) int64 {
	t.Helper()
	var votes int64
	for i := 0; i < times; i++ {
		v, err := s.Increment(context.Background(), Streamer{ID: id, Name: "name-" + id, Game: "Celeste", URL: "https://twitch.tv/" + id})
		if err != nil {
			t.Fatalf("increment %s: %v", id, err)
		}
		votes = v
	}
	return votes
}

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	if v := vote(t, store, "s1", 1); v != 1 {
		t.Errorf("expected 1 vote, got %d", v)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	entry, err := store.Rank(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 || entry.Votes != 1 {
		t.Errorf("expected rank 1 with 1 vote, got %+v", entry)
	}
	if entry.Name != "name-s1" || entry.Game != "Celeste" || entry.URL != "https://twitch.tv/s1" {
		t.Errorf("display fields not stored: %+v", entry)
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].StreamerID != "s1" {
		t.Errorf("unexpected top entries: %+v", entries)
	}
}

func TestTreapStore_IncrementAccumulates(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if v := vote(t, store, "s1", 5); v != 5 {
		t.Fatalf("expected 5 votes, got %d", v)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("repeated votes must not add rows, got %d", count)
	}

	_, _ = store.Increment(ctx, Streamer{ID: "s1", Name: "Renamed", Game: "Art", URL: "u"})
	entry, err := store.Rank(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Votes != 6 || entry.Name != "Renamed" || entry.Game != "Art" {
		t.Errorf("expected refreshed row with 6 votes, got %+v", entry)
	}
}

func TestTreapStore_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	tallies := map[string]int{"s1": 3, "s2": 7, "s3": 1, "s4": 9, "s5": 4}
	for id, n := range tallies {
		vote(t, store, id, n)
	}

	entries, err := store.TopN(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"s4", "s2", "s5", "s1", "s3"}
	for i, id := range want {
		if entries[i].StreamerID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, entries[i].StreamerID)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, entries[i].Rank)
		}
	}

	top2, err := store.TopN(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top2) != 2 || top2[0].StreamerID != "s4" || top2[1].StreamerID != "s2" {
		t.Errorf("unexpected top2: %+v", top2)
	}
}

func TestTreapStore_TieBreaking(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	vote(t, store, "charlie", 2)
	vote(t, store, "alpha", 2)
	vote(t, store, "bravo", 2)
	vote(t, store, "delta", 1)

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		id   string
		rank int
	}{{"alpha", 1}, {"bravo", 1}, {"charlie", 1}, {"delta", 2}}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].StreamerID != w.id || entries[i].Rank != w.rank {
			t.Errorf("position %d: expected %s rank %d, got %s rank %d", i, w.id, w.rank, entries[i].StreamerID, entries[i].Rank)
		}
	}

	for _, w := range want {
		e, err := store.Rank(ctx, w.id)
		if err != nil {
			t.Fatalf("rank %s: %v", w.id, err)
		}
		if e.Rank != w.rank {
			t.Errorf("Rank(%s): expected %d, got %d", w.id, w.rank, e.Rank)
		}
	}
}

func TestTreapStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if _, err := store.Rank(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	for _, n := range []int{0, -1} {
		if _, err := store.TopN(ctx, n); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("TopN(%d): expected ErrInvalidLimit, got %v", n, err)
		}
	}
	if _, err := store.Increment(ctx, Streamer{}); !errors.Is(err, ErrInvalidStreamer) {
		t.Errorf("expected ErrInvalidStreamer, got %v", err)
	}
	if count := store.Count(ctx); count != 0 {
		t.Errorf("failed increment must not add a row, got %d", count)
	}

	entries, err := store.TopN(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty leaderboard, got %+v", entries)
	}
}

func TestTreapStore_RankMatchesSortUnderStress(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()
	r := rand.New(rand.NewPCG(1, 2))

	tallies := map[string]int64{}
	for i := 0; i < 2000; i++ {
		id := fmt.Sprintf("s%03d", r.IntN(200))
		vote(t, store, id, 1)
		tallies[id]++
	}

	type row struct {
		id    string
		votes int64
	}
	rows := make([]row, 0, len(tallies))
	for id, v := range tallies {
		rows = append(rows, row{id, v})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].votes != rows[j].votes {
			return rows[i].votes > rows[j].votes
		}
		return rows[i].id < rows[j].id
	})

	all, err := store.TopN(ctx, len(rows))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(all))
	}
	for i := range rows {
		if all[i].StreamerID != rows[i].id || all[i].Votes != rows[i].votes {
			t.Fatalf("position %d: expected %+v, got %+v", i, rows[i], all[i])
		}
		e, err := store.Rank(ctx, rows[i].id)
		if err != nil {
			t.Fatalf("rank %s: %v", rows[i].id, err)
		}
		if e.Rank != all[i].Rank {
			t.Fatalf("Rank(%s)=%d disagrees with TopN rank %d", rows[i].id, e.Rank, all[i].Rank)
		}
	}
	if nsize(store.root) != len(rows) {
		t.Errorf("subtree size %d does not match row count %d", nsize(store.root), len(rows))
	}
}

func TestTreapStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	const workers, perWorker = 8, 250
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("s%d", i%10)
				if _, err := store.Increment(ctx, Streamer{ID: id}); err != nil {
					t.Errorf("increment: %v", err)
				}
				if i%25 == 0 {
					if _, err := store.TopN(ctx, 5); err != nil {
						t.Errorf("topN: %v", err)
					}
				}
			}
		}(w)
	}
	wg.Wait()

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var total int64
	for _, e := range entries {
		total += e.Votes
	}
	if total != workers*perWorker {
		t.Errorf("expected %d total votes, got %d", workers*perWorker, total)
	}
	if store.Count(ctx) != 10 {
		t.Errorf("expected 10 rows, got %d", store.Count(ctx))
	}
}

func TestAssignRanksWithTies(t *testing.T) {
	entries := []Entry{{Votes: 5}, {Votes: 5}, {Votes: 3}, {Votes: 1}, {Votes: 1}}
	assignRanksWithTies(entries)
	want := []int{1, 1, 2, 3, 3}
	for i, r := range want {
		if entries[i].Rank != r {
			t.Errorf("position %d: expected rank %d, got %d", i, r, entries[i].Rank)
		}
	}
	assignRanksWithTies(nil)
}
