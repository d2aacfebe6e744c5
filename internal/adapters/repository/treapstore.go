package repository

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/streamgem/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: votes DESC, then streamerID ASC (deterministic).
// "less" means ranks earlier, so in-order traversal yields the leaderboard
// from most to least voted. Subtree sizes give the position of a key in
// O(log n) expected time.

// record stores the tally plus display fields for a streamer.
type record struct {
	votes int64
	name  string
	game  string
	url   string
}

// treap node
type node struct {
	id    string
	votes int64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aVotes, aID) should appear before (bVotes, bID).
func less(aVotes int64, aID string, bVotes int64, bID string) bool {
	if aVotes != bVotes {
		return aVotes > bVotes
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, votes int64, prio uint64) *node {
	if n == nil {
		return &node{id: id, votes: votes, prio: prio, size: 1}
	}
	if less(votes, id, n.votes, n.id) {
		n.left = insert(n.left, id, votes, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, votes, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, votes int64) *node {
	if n == nil {
		return nil
	}
	switch {
	case votes == n.votes && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, votes)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, votes)
		}
	case less(votes, id, n.votes, n.id):
		n.left = deleteNode(n.left, id, votes)
	default:
		n.right = deleteNode(n.right, id, votes)
	}
	fix(n)
	return n
}

// position returns the zero-based in-order index of (votes, id).
func position(n *node, id string, votes int64) int {
	pos := 0
	for n != nil {
		switch {
		case votes == n.votes && id == n.id:
			return pos + nsize(n.left)
		case less(votes, id, n.votes, n.id):
			n = n.left
		default:
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return -1
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, records, out)
	if len(*out) < limit {
		if rec, ok := records[n.id]; ok {
			*out = append(*out, Entry{
				StreamerID: n.id,
				Name:       rec.name,
				Game:       rec.game,
				URL:        rec.url,
				Votes:      rec.votes,
			})
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// TreapStore is a Store safe for concurrent use.
type TreapStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]record
	rnd  func() uint64
}

// NewTreapStore constructs an empty store.
func NewTreapStore() *TreapStore {
	return &TreapStore{
		byID: make(map[string]record),
		rnd:  rand.Uint64,
	}
}

// Increment implements Store.Increment in O(log n) expected time.
func (s *TreapStore) Increment(_ context.Context, st Streamer) (int64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if st.ID == "" {
		metrics.RecordErrorByComponent("repository", "invalid_streamer")
		return 0, ErrInvalidStreamer
	}

	s.mu.Lock()
	rec, ok := s.byID[st.ID]
	if ok {
		s.root = deleteNode(s.root, st.ID, rec.votes)
	}
	rec.votes++
	rec.name, rec.game, rec.url = st.Name, st.Game, st.URL
	s.byID[st.ID] = rec
	s.root = insert(s.root, st.ID, rec.votes, s.rnd())
	count := len(s.byID)
	s.mu.Unlock()

	if !ok {
		metrics.UpdateLeaderboardSize(count)
	}
	return rec.votes, nil
}

// Rank returns the rank and tally for a streamer. Rows with equal votes
// share a rank and ranks are consecutive.
func (s *TreapStore) Rank(_ context.Context, streamerID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[streamerID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	pos := position(s.root, streamerID, rec.votes)
	if pos < 0 {
		return Entry{}, ErrNotFound
	}

	prefix := make([]Entry, 0, pos+1)
	collectTopN(s.root, pos+1, s.byID, &prefix)
	assignRanksWithTies(prefix)
	return prefix[len(prefix)-1], nil
}

// TopN returns the top N entries ordered by votes desc.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byID)))
	collectTopN(s.root, n, s.byID, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the number of streamers with votes.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// assignRanksWithTies assigns ranks in order. Entries with the same vote
// count share a rank and the next distinct count takes the next rank.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Votes != entries[i-1].Votes {
			rank++
		}
		entries[i].Rank = rank
	}
}
