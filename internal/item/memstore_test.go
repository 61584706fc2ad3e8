package item_test

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/item"
)

// memStore is an in-memory Repository whose LockItem blocks like SELECT ... FOR UPDATE.
// Writes made inside a transaction become visible only on Commit.
type memStore struct {
	mu         sync.Mutex
	items      map[uuid.UUID]*item.Item
	votes      map[uuid.UUID]map[uuid.UUID]item.VoteValue
	electorate map[uuid.UUID]int
	rowLocks   map[uuid.UUID]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		items:      make(map[uuid.UUID]*item.Item),
		votes:      make(map[uuid.UUID]map[uuid.UUID]item.VoteValue),
		electorate: make(map[uuid.UUID]int),
		rowLocks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

func (m *memStore) setElectorate(tripID uuid.UUID, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.electorate[tripID] = n
}

func (m *memStore) seed(it *item.Item, votes map[uuid.UUID]item.VoteValue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *it
	m.items[it.ID] = &cp
	m.votes[it.ID] = make(map[uuid.UUID]item.VoteValue, len(votes))

	for u, v := range votes {
		m.votes[it.ID][u] = v
	}
}

func (m *memStore) status(id uuid.UUID) item.Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.items[id].Status
}

func (m *memStore) voteCount(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.votes[id])
}

func (m *memStore) GetItem(_ context.Context, id uuid.UUID) (*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}

	cp := *it

	return &cp, nil
}

func (m *memStore) ListByTrip(_ context.Context, tripID, viewerID uuid.UUID) ([]*item.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*item.Summary

	for id, it := range m.items {
		if it.TripID != tripID {
			continue
		}

		s := &item.Summary{Item: *it}

		for u, v := range m.votes[id] {
			if v == item.VoteApprove {
				s.Approvals++
			} else {
				s.Rejections++
			}

			if u == viewerID {
				s.MyVote = new(v)
			}
		}

		out = append(out, s)
	}

	return out, nil
}

func (m *memStore) HasRecentDuplicate(_ context.Context, createdBy uuid.UUID, title string, category item.Category, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, it := range m.items {
		if it.CreatedBy == createdBy && it.Category == category &&
			strings.EqualFold(it.Title, title) && !it.CreatedAt.Before(since) {
			return true, nil
		}
	}

	return false, nil
}

func (m *memStore) DeleteItem(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, id)
	delete(m.votes, id)

	return nil
}

func (m *memStore) UpsertCheck(_ context.Context, check *item.Check) (bool, error) {
	check.ID = uuid.New()
	return true, nil
}

func (m *memStore) Begin(_ context.Context) (item.Tx, error) {
	return &memTx{
		store:    m,
		votes:    make(map[uuid.UUID]map[uuid.UUID]item.VoteValue),
		statuses: make(map[uuid.UUID]item.Status),
	}, nil
}

func (m *memStore) rowLock(id uuid.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		m.rowLocks[id] = l
	}

	return l
}

type memTx struct {
	store    *memStore
	held     []*sync.Mutex
	created  []*item.Item
	votes    map[uuid.UUID]map[uuid.UUID]item.VoteValue
	statuses map[uuid.UUID]item.Status
	done     bool
}

func (tx *memTx) LockItem(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	l := tx.store.rowLock(id)
	l.Lock()
	tx.held = append(tx.held, l)

	it, err := tx.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if s, ok := tx.statuses[id]; ok {
		it.Status = s
	}

	return it, nil
}

func (tx *memTx) CreateItem(_ context.Context, it *item.Item) error {
	it.ID = uuid.New()
	it.CreatedAt = time.Now()
	tx.created = append(tx.created, it)

	return nil
}

func (tx *memTx) UpsertVote(_ context.Context, vote item.Vote) error {
	if tx.votes[vote.ItemID] == nil {
		tx.votes[vote.ItemID] = make(map[uuid.UUID]item.VoteValue)
	}

	tx.votes[vote.ItemID][vote.UserID] = vote.Value

	return nil
}

// mergedVotes is the committed votes for an item overlaid with this transaction's writes.
func (tx *memTx) mergedVotes(itemID uuid.UUID) map[uuid.UUID]item.VoteValue {
	tx.store.mu.Lock()
	merged := make(map[uuid.UUID]item.VoteValue)

	for u, v := range tx.store.votes[itemID] {
		merged[u] = v
	}
	tx.store.mu.Unlock()

	for u, v := range tx.votes[itemID] {
		merged[u] = v
	}

	return merged
}

func (tx *memTx) CountVotes(_ context.Context, itemID uuid.UUID) (item.VoteCount, error) {
	var c item.VoteCount

	for _, v := range tx.mergedVotes(itemID) {
		if v == item.VoteApprove {
			c.Approvals++
		} else {
			c.Rejections++
		}
	}

	return c, nil
}

func (tx *memTx) CountEligible(_ context.Context, tripID uuid.UUID) (int, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	return tx.store.electorate[tripID], nil
}

func (tx *memTx) UpdateStatus(_ context.Context, id uuid.UUID, status item.Status) error {
	for _, it := range tx.created {
		if it.ID == id {
			it.Status = status
			return nil
		}
	}

	tx.statuses[id] = status

	return nil
}

func (tx *memTx) ListPending(_ context.Context) ([]item.PendingItem, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	var out []item.PendingItem

	for _, it := range tx.store.items {
		if it.Status == item.StatusPending {
			out = append(out, item.PendingItem{ID: it.ID, TripID: it.TripID})
		}
	}

	slices.SortFunc(out, func(a, b item.PendingItem) int { return strings.Compare(a.ID.String(), b.ID.String()) })

	return out, nil
}

func (tx *memTx) CountEligibleByTrip(_ context.Context, tripIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	out := make(map[uuid.UUID]int, len(tripIDs))
	for _, id := range tripIDs {
		if n := tx.store.electorate[id]; n > 0 {
			out[id] = n
		}
	}

	return out, nil
}

func (tx *memTx) TallyVotes(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]item.VoteCount, error) {
	out := make(map[uuid.UUID]item.VoteCount, len(itemIDs))

	for _, id := range itemIDs {
		c, _ := tx.CountVotes(ctx, id)
		if c.Approvals+c.Rejections > 0 {
			out[id] = c
		}
	}

	return out, nil
}

func (tx *memTx) UpdateStatuses(_ context.Context, ids []uuid.UUID, status item.Status) (int, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	n := 0

	for _, id := range ids {
		if it, ok := tx.store.items[id]; ok && it.Status == item.StatusPending {
			if _, staged := tx.statuses[id]; !staged {
				tx.statuses[id] = status
				n++
			}
		}
	}

	return n, nil
}

func (tx *memTx) Commit() error {
	tx.store.mu.Lock()

	for _, it := range tx.created {
		cp := *it
		tx.store.items[it.ID] = &cp
	}

	for id, vs := range tx.votes {
		if tx.store.votes[id] == nil {
			tx.store.votes[id] = make(map[uuid.UUID]item.VoteValue)
		}

		for u, v := range vs {
			tx.store.votes[id][u] = v
		}
	}

	for id, s := range tx.statuses {
		if it, ok := tx.store.items[id]; ok {
			it.Status = s
		}
	}

	tx.store.mu.Unlock()

	tx.release()

	return nil
}

func (tx *memTx) Rollback() error {
	tx.release()
	return nil
}

func (tx *memTx) release() {
	if tx.done {
		return
	}

	tx.done = true

	for _, l := range tx.held {
		l.Unlock()
	}
}
