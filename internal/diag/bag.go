package diag

import (
	"fmt"
	"sort"
)

// Bag accumulates Records with a hard cap on size.
type Bag struct {
	items []Record
	max   uint16
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Record, 0, max),
		max:   uint16(max),
	}
}

// Add добавляет запись, учитывая лимит.
// Возвращает false, если запись не добавлена (достигнут лимит).
func (b *Bag) Add(r Record) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, r)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна запись с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна запись с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice записей.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Record {
	return b.items
}

// Merge объединяет записи из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if uint16(newTotal) > b.max {
		b.max = uint16(newTotal)
	}
	b.items = append(b.items, other.items...)
}

// Sort сортирует записи по: document, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Document != dj.Document {
			return di.Document.String() < dj.Document.String()
		}
		if di.Span.Start != dj.Span.Start {
			return di.Span.Start < dj.Span.Start
		}
		if di.Span.End != dj.Span.End {
			return di.Span.End < dj.Span.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops duplicate records (same document, code, span).
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Record, 0, len(b.items))
	for _, r := range b.items {
		key := fmt.Sprintf("%s:%s:%s", r.Document, r.Code.ID(), r.Span)
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, r)
	}
	b.items = newitems
}
