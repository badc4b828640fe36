package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
)

// ErrForeignKey is returned when a write would leave a node whose parent
// or law does not exist.
var ErrForeignKey = errors.New("foreign key constraint failed")

// Ensure Store implements the interface.
var _ driven.Store = (*Store)(nil)

// Store is an in-memory implementation of driven.Store for testing.
//
// Transactions are serialised and run against the live maps; a snapshot
// taken at the start is restored when the transaction fails. Parent and
// law references are checked the way a relational store with foreign keys
// would check them.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

type dataset struct {
	laws       map[int64]domain.Law
	nodes      map[int64]domain.Node
	runs       []domain.ImportRun
	nextLawID  int64
	nextNodeID int64
}

// NewStore creates a new empty in-memory store.
func NewStore() *Store {
	return &Store{data: &dataset{
		laws:  make(map[int64]domain.Law),
		nodes: make(map[int64]domain.Node),
	}}
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// WithinTx runs fn with exclusive access to the store. Any error or panic
// from fn restores the state from before the call.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx driven.IngestTx) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
		if err != nil {
			s.data = snapshot
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, &tx{d: s.data})
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		laws:       make(map[int64]domain.Law, len(d.laws)),
		nodes:      make(map[int64]domain.Node, len(d.nodes)),
		runs:       append([]domain.ImportRun(nil), d.runs...),
		nextLawID:  d.nextLawID,
		nextNodeID: d.nextNodeID,
	}
	for k, v := range d.laws {
		c.laws[k] = v
	}
	for k, v := range d.nodes {
		c.nodes[k] = v
	}
	return c
}

// ==== Read side ====

// GetLawByCode returns the law with the given code.
func (s *Store) GetLawByCode(_ context.Context, code string) (*domain.Law, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.lawByCode(code)
}

// GetLaw returns the law with the given id.
func (s *Store) GetLaw(_ context.Context, id int64) (*domain.Law, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	law, ok := s.data.laws[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &law, nil
}

// ListLaws returns every law ordered by code.
func (s *Store) ListLaws(_ context.Context) ([]domain.Law, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	laws := make([]domain.Law, 0, len(s.data.laws))
	for _, l := range s.data.laws {
		laws = append(laws, l)
	}
	sort.Slice(laws, func(i, j int) bool { return laws[i].Code < laws[j].Code })
	return laws, nil
}

// GetNode returns a node by id.
func (s *Store) GetNode(_ context.Context, id int64) (*domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.data.nodes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &n, nil
}

// ListNodesByLaw returns the nodes of a law ordered by sort key.
func (s *Store) ListNodesByLaw(_ context.Context, lawID int64) ([]domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var nodes []domain.Node
	for _, n := range s.data.nodes {
		if n.LawID == lawID {
			nodes = append(nodes, n)
		}
	}
	sortNodes(nodes)
	return nodes, nil
}

// SearchNodes returns nodes whose content contains query, ignoring case.
func (s *Store) SearchNodes(_ context.Context, query string, limit int) ([]domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	var nodes []domain.Node
	for _, n := range s.data.nodes {
		if strings.Contains(strings.ToLower(n.ContentText), q) {
			nodes = append(nodes, n)
		}
	}
	sortNodes(nodes)
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes, nil
}

// ListImportRuns returns the runs of a law, newest first.
func (s *Store) ListImportRuns(_ context.Context, lawID int64) ([]domain.ImportRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var runs []domain.ImportRun
	for i := len(s.data.runs) - 1; i >= 0; i-- {
		if s.data.runs[i].LawID == lawID {
			runs = append(runs, s.data.runs[i])
		}
	}
	return runs, nil
}

func sortNodes(nodes []domain.Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].LawID != nodes[j].LawID {
			return nodes[i].LawID < nodes[j].LawID
		}
		return nodes[i].SortKey < nodes[j].SortKey
	})
}

func (d *dataset) lawByCode(code string) (*domain.Law, error) {
	for _, l := range d.laws {
		if l.Code == code {
			law := l
			return &law, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ==== Transaction ====

// tx operates on the dataset while the store lock is held.
type tx struct {
	d *dataset
}

var _ driven.IngestTx = (*tx)(nil)

func (t *tx) FindLawByCode(_ context.Context, code string) (*domain.Law, error) {
	return t.d.lawByCode(code)
}

func (t *tx) CreateLaw(_ context.Context, law *domain.Law) (int64, error) {
	if _, err := t.d.lawByCode(law.Code); err == nil {
		return 0, fmt.Errorf("law %s: %w", law.Code, domain.ErrAlreadyExists)
	}
	if law.RelatedLawID != nil {
		if _, ok := t.d.laws[*law.RelatedLawID]; !ok {
			return 0, fmt.Errorf("related law %d: %w", *law.RelatedLawID, ErrForeignKey)
		}
	}
	t.d.nextLawID++
	stored := *law
	stored.ID = t.d.nextLawID
	t.d.laws[stored.ID] = stored
	return stored.ID, nil
}

func (t *tx) UpdateLaw(_ context.Context, law *domain.Law) error {
	if _, ok := t.d.laws[law.ID]; !ok {
		return domain.ErrNotFound
	}
	t.d.laws[law.ID] = *law
	return nil
}

func (t *tx) InsertNode(_ context.Context, node *domain.Node) (int64, error) {
	if _, ok := t.d.laws[node.LawID]; !ok {
		return 0, fmt.Errorf("law %d: %w", node.LawID, ErrForeignKey)
	}
	stored := *node
	if node.ParentID != nil {
		parent, ok := t.d.nodes[*node.ParentID]
		if !ok || parent.LawID != node.LawID {
			return 0, fmt.Errorf("parent %d: %w", *node.ParentID, ErrForeignKey)
		}
		pid := *node.ParentID
		stored.ParentID = &pid
	}
	t.d.nextNodeID++
	stored.ID = t.d.nextNodeID
	t.d.nodes[stored.ID] = stored
	return stored.ID, nil
}

func (t *tx) DeleteNodesByLevel(_ context.Context, lawID int64, level domain.Level) (int64, error) {
	return t.deleteWhere(func(n domain.Node) bool {
		return n.LawID == lawID && n.Level == level
	})
}

func (t *tx) DeleteNodesByParentPresence(_ context.Context, lawID int64, hasParent bool) (int64, error) {
	return t.deleteWhere(func(n domain.Node) bool {
		return n.LawID == lawID && (n.ParentID != nil) == hasParent
	})
}

// deleteWhere removes the matching nodes as one statement: it fails without
// removing anything if a surviving node references a removed one.
func (t *tx) deleteWhere(match func(domain.Node) bool) (int64, error) {
	doomed := make(map[int64]bool)
	for id, n := range t.d.nodes {
		if match(n) {
			doomed[id] = true
		}
	}
	for id, n := range t.d.nodes {
		if doomed[id] || n.ParentID == nil {
			continue
		}
		if doomed[*n.ParentID] {
			return 0, fmt.Errorf("node %d references %d: %w", id, *n.ParentID, ErrForeignKey)
		}
	}
	for id := range doomed {
		delete(t.d.nodes, id)
	}
	return int64(len(doomed)), nil
}

func (t *tx) CountNodes(_ context.Context, lawID int64) (int, error) {
	count := 0
	for _, n := range t.d.nodes {
		if n.LawID == lawID {
			count++
		}
	}
	return count, nil
}

func (t *tx) RecordImportRun(_ context.Context, run *domain.ImportRun) error {
	if _, ok := t.d.laws[run.LawID]; !ok {
		return fmt.Errorf("law %d: %w", run.LawID, ErrForeignKey)
	}
	t.d.runs = append(t.d.runs, *run)
	return nil
}
