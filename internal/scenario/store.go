package scenario

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrNotFound indicates a scenario or line-item ID absent from the store.
var ErrNotFound = errors.New("scenario not found")

// ItemList names one of the two custom line-item lists on a scenario.
type ItemList string

const (
	// SavingsItems is the custom annual savings list.
	SavingsItems ItemList = "savings"
	// CostsItems is the custom ongoing costs list.
	CostsItems ItemList = "costs"
)

// Valid reports whether l names a known line-item list.
func (l ItemList) Valid() bool {
	return l == SavingsItems || l == CostsItems
}

// Saver persists one serialized collection blob to durable storage.
type Saver func(blob []byte) error

// Store owns the authoritative ordered collection of scenarios and the
// currently selected scenario ID. Every mutation snapshots the collection
// and hands it to the injected saver on a detached goroutine; persistence
// failures are logged and never surface to the caller.
type Store struct {
	mu       sync.RWMutex
	records  []*Scenario
	selected string
	persist  Saver

	// Snapshot sequencing. A stale snapshot that loses the goroutine race
	// must never overwrite a newer one in storage.
	persistMu   sync.Mutex
	persistSeq  uint64
	persistDone uint64
}

// NewStore creates an empty store. A nil saver disables persistence, which
// is the configuration tests use.
func NewStore(persist Saver) *Store {
	return &Store{persist: persist}
}

// Seed replaces the whole collection and selects its first record.
func (st *Store) Seed(collection []*Scenario) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.records = st.records[:0]
	st.selected = ""
	for _, sc := range collection {
		if sc == nil {
			continue
		}
		sc.normalize()
		st.records = append(st.records, sc)
	}
	if len(st.records) > 0 {
		st.selected = st.records[0].ID
	}
	st.persistLocked()
}

// Create appends a new scenario with default values and selects it.
func (st *Store) Create(name string) *Scenario {
	st.mu.Lock()
	defer st.mu.Unlock()

	sc := New(name)
	st.records = append(st.records, sc)
	st.selected = sc.ID
	st.persistLocked()

	log.Info().Str("id", sc.ID).Str("name", sc.Name).Msg("Scenario created")
	return sc.Clone()
}

// Duplicate deep-copies an existing scenario under a fresh identity, appends
// the copy, and selects it.
func (st *Store) Duplicate(id string) (*Scenario, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	src := st.findLocked(id)
	if src == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	cp := src.Clone()
	cp.ID = newID()
	cp.Name = src.Name + " (copy)"
	st.records = append(st.records, cp)
	st.selected = cp.ID
	st.persistLocked()

	log.Info().Str("source", id).Str("id", cp.ID).Msg("Scenario duplicated")
	return cp.Clone(), nil
}

// Update merges a partial patch into the scenario and returns the updated copy.
func (st *Store) Update(id string, p Patch) (*Scenario, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sc := st.findLocked(id)
	if sc == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	sc.Apply(p)
	st.persistLocked()
	return sc.Clone(), nil
}

// Remove deletes a scenario. If it was selected, selection moves to the first
// remaining record, or clears when the collection becomes empty.
func (st *Store) Remove(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	idx := -1
	for i, sc := range st.records {
		if sc.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	st.records = append(st.records[:idx], st.records[idx+1:]...)
	if st.selected == id {
		st.selected = ""
		if len(st.records) > 0 {
			st.selected = st.records[0].ID
		}
	}
	st.persistLocked()

	log.Info().Str("id", id).Int("remaining", len(st.records)).Msg("Scenario removed")
	return nil
}

// Select makes the given scenario the current one.
func (st *Store) Select(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.findLocked(id) == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	st.selected = id
	return nil
}

// Selected returns a copy of the currently selected scenario, or false when
// the collection is empty.
func (st *Store) Selected() (*Scenario, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	sc := st.findLocked(st.selected)
	if sc == nil {
		return nil, false
	}
	return sc.Clone(), true
}

// SelectedID returns the ID of the currently selected scenario, or "".
func (st *Store) SelectedID() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.selected
}

// Get returns a copy of the scenario with the given ID.
func (st *Store) Get(id string) (*Scenario, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	sc := st.findLocked(id)
	if sc == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sc.Clone(), nil
}

// List returns copies of all scenarios in display order.
func (st *Store) List() []*Scenario {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]*Scenario, len(st.records))
	for i, sc := range st.records {
		out[i] = sc.Clone()
	}
	return out
}

// Len returns the number of scenarios in the collection.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.records)
}

// AddLineItem appends a custom line item to the named list and returns the
// updated scenario. Item IDs are monotonic within their list.
func (st *Store) AddLineItem(id string, list ItemList, label string, amount float64) (*Scenario, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sc := st.findLocked(id)
	if sc == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	switch list {
	case SavingsItems:
		sc.CustomSavings = append(sc.CustomSavings, LineItem{ID: sc.nextSavingID(), Label: label, Amount: amount})
	case CostsItems:
		sc.CustomCosts = append(sc.CustomCosts, LineItem{ID: sc.nextCostID(), Label: label, Amount: amount})
	default:
		return nil, fmt.Errorf("unknown line-item list %q", list)
	}

	st.persistLocked()
	return sc.Clone(), nil
}

// UpdateLineItem patches one line item in the named list.
func (st *Store) UpdateLineItem(id string, list ItemList, itemID int64, p LineItemPatch) (*Scenario, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sc := st.findLocked(id)
	if sc == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	items, err := sc.itemsFor(list)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			items[i].Apply(p)
			st.persistLocked()
			return sc.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: item %d in %s", ErrNotFound, itemID, list)
}

// RemoveLineItem deletes one line item from the named list.
func (st *Store) RemoveLineItem(id string, list ItemList, itemID int64) (*Scenario, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sc := st.findLocked(id)
	if sc == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	items, err := sc.itemsFor(list)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			trimmed := append(items[:i], items[i+1:]...)
			if list == SavingsItems {
				sc.CustomSavings = trimmed
			} else {
				sc.CustomCosts = trimmed
			}
			st.persistLocked()
			return sc.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: item %d in %s", ErrNotFound, itemID, list)
}

// Serialize encodes the current collection as one blob.
func (st *Store) Serialize() ([]byte, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return Serialize(st.records)
}

func (s *Scenario) itemsFor(list ItemList) ([]LineItem, error) {
	switch list {
	case SavingsItems:
		return s.CustomSavings, nil
	case CostsItems:
		return s.CustomCosts, nil
	}
	return nil, fmt.Errorf("unknown line-item list %q", list)
}

// findLocked returns the live record for id, or nil. Callers hold st.mu.
func (st *Store) findLocked(id string) *Scenario {
	if id == "" {
		return nil
	}
	for _, sc := range st.records {
		if sc.ID == id {
			return sc
		}
	}
	return nil
}

// persistLocked snapshots the collection under the held lock and writes it
// out on a detached goroutine. The in-memory edit never waits on storage.
// Writers serialize on persistMu and drop their snapshot when a newer one
// has already been written.
func (st *Store) persistLocked() {
	if st.persist == nil {
		return
	}
	blob, err := Serialize(st.records)
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize scenario collection")
		return
	}
	st.persistSeq++
	seq := st.persistSeq

	go func() {
		st.persistMu.Lock()
		defer st.persistMu.Unlock()

		if seq <= st.persistDone {
			return
		}
		if err := st.persist(blob); err != nil {
			log.Error().Err(err).Msg("Failed to persist scenario collection")
			return
		}
		st.persistDone = seq
	}()
}
