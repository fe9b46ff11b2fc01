// Package parser provides pooled tree-sitter parsers for the tsx and jsx
// dialects emitted by the generator.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/uigen/pkg/util"
)

// Manager hands out tree-sitter parsers for each dialect.
//
// Memory Management:
// - One pool per dialect, created on first use
// - Manager owns the pools and must be closed via Close()
// - Callers own returned trees and must call tree.Close()
//
// Thread Safety:
// - Parse is safe for concurrent use; goroutines parsing the same dialect
//   draw separate parsers from its pool
//
// Example:
//
//	m := NewManager(logger, 0)
//	defer m.Close()
//
//	tree, err := m.Parse([]byte(`<Button variant="primary" />`), DialectTSX)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type Manager struct {
	pools    map[Dialect]*parserPool
	poolSize int
	mutex    sync.RWMutex
	logger   *slog.Logger

	parses int
}

// NewManager creates a parser manager. A poolSize of 0 sizes pools from
// the CPU count.
func NewManager(logger *slog.Logger, poolSize int) *Manager {
	if logger == nil {
		logger = util.NopLogger()
	}
	return &Manager{
		pools:    make(map[Dialect]*parserPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(poolSize),
		logger:   logger,
	}
}

// Parse parses source with the dialect's grammar. Trees with syntax errors
// are still returned; callers inspect RootNode().HasError().
func (m *Manager) Parse(source []byte, dialect Dialect) (*ts.Tree, error) {
	m.mutex.Lock()
	m.parses++
	m.mutex.Unlock()

	pool, err := m.getOrCreatePool(dialect)
	if err != nil {
		return nil, err
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s parser: %w", dialect, err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("%s parser returned no tree", dialect)
	}
	return tree, nil
}

// Close releases every pool. The manager cannot be used afterwards.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.logger.Debug("closing parser manager", "parses", m.parses)
	for _, pool := range m.pools {
		pool.close()
	}
	m.pools = make(map[Dialect]*parserPool)
	return nil
}

// getOrCreatePool uses double-checked locking so the common path only
// takes the read lock.
func (m *Manager) getOrCreatePool(dialect Dialect) (*parserPool, error) {
	m.mutex.RLock()
	pool, ok := m.pools[dialect]
	m.mutex.RUnlock()
	if ok {
		return pool, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if pool, ok = m.pools[dialect]; ok {
		return pool, nil
	}

	lang, err := languagePointer(dialect)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(dialect, lang, m.poolSize, m.logger)
	m.pools[dialect] = pool
	m.logger.Debug("created parser pool", "dialect", dialect.String(), "max_size", m.poolSize)
	return pool, nil
}

func languagePointer(dialect Dialect) (unsafe.Pointer, error) {
	switch dialect {
	case DialectTSX:
		return ts_typescript.LanguageTSX(), nil
	case DialectJSX:
		return ts_javascript.Language(), nil
	}
	return nil, fmt.Errorf("unsupported dialect: %s", dialect)
}

// Stats reports parser usage.
type Stats struct {
	ParsersCreated int
	Parses         int
}

// Stats returns usage counters.
func (m *Manager) Stats() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	created := 0
	for _, pool := range m.pools {
		created += pool.createdCount()
	}
	return Stats{ParsersCreated: created, Parses: m.parses}
}
