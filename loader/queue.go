package loader

import "github.com/status-im/asset-loader/asset"

// entry is one unit of pending work: either a concrete item to start,
// or a barrier callback that must wait for in-flight work to drain
type entry struct {
	item     *asset.Item
	barrier  func()
	identity string
}

// requestQueue is the ordered pending work. The identity list runs in
// parallel with the entries, always the same length, and backs the
// de-duplication and cancellation lookups.
type requestQueue struct {
	entries    []entry
	identities []string
}

func (q *requestQueue) push(e entry) {
	q.entries = append(q.entries, e)
	q.identities = append(q.identities, e.identity)
}

func (q *requestQueue) pushFront(e entry) {
	q.entries = append([]entry{e}, q.entries...)
	q.identities = append([]string{e.identity}, q.identities...)
}

func (q *requestQueue) len() int { return len(q.entries) }

func (q *requestQueue) peek() *entry {
	if len(q.entries) == 0 {
		return nil
	}
	return &q.entries[0]
}

func (q *requestQueue) pop() entry {
	e := q.entries[0]
	q.entries = q.entries[1:]
	q.identities = q.identities[1:]
	return e
}

func (q *requestQueue) removeAt(i int) entry {
	e := q.entries[i]
	q.entries = append(q.entries[:i], q.entries[i+1:]...)
	q.identities = append(q.identities[:i], q.identities[i+1:]...)
	return e
}

// removeFirst removes the first entry with the given identity
func (q *requestQueue) removeFirst(identity string) (entry, bool) {
	for i, id := range q.identities {
		if id == identity {
			return q.removeAt(i), true
		}
	}
	return entry{}, false
}

// removeItem removes the first concrete entry addressed by (group, key)
func (q *requestQueue) removeItem(group, key string) (*asset.Item, bool) {
	for i, e := range q.entries {
		if e.item != nil && e.item.Group() == group && e.item.Key() == key {
			q.removeAt(i)
			return e.item, true
		}
	}
	return nil, false
}

// removeGroup removes every concrete entry belonging to the group
func (q *requestQueue) removeGroup(group string) []*asset.Item {
	var removed []*asset.Item
	for i := 0; i < len(q.entries); {
		e := q.entries[i]
		if e.item != nil && e.item.Group() == group {
			q.removeAt(i)
			removed = append(removed, e.item)
			continue
		}
		i++
	}
	return removed
}

// drain empties the queue and returns the concrete items it held
func (q *requestQueue) drain() []*asset.Item {
	var items []*asset.Item
	for _, e := range q.entries {
		if e.item != nil {
			items = append(items, e.item)
		}
	}
	q.entries = nil
	q.identities = nil
	return items
}

// findDataItem returns the first pending generic-data item whose
// primary address matches, for query coalescing. Only the queue is
// scanned; items already in flight are never merged into.
func (q *requestQueue) findDataItem(address string) *asset.Item {
	for _, e := range q.entries {
		if e.item != nil && e.item.Kind().IsData() && e.item.PrimaryAddress() == address {
			return e.item
		}
	}
	return nil
}
