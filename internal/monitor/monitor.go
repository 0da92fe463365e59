// Package monitor provides a cron-scheduled logger of tree statistics. It
// is read-only instrumentation: it never rebalances, compacts, or evicts
// anything, and its absence changes nothing about the engine's behavior.
package monitor

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// treeStats is the subset of pager.Tree[K, V] the monitor depends on. Kept
// as an interface (rather than importing the generic Tree directly) so one
// Monitor type serves every instantiation of the tree.
type treeStats interface {
	PageCount() int
	Height() (int, error)
}

// Monitor periodically logs page-allocation and tree-height statistics.
// Grounded in tinySQL's Scheduler: same cron.New(cron.WithSeconds())
// construction and the same start/stop lifecycle, reduced from a
// job-executing scheduler to a single recurring stats report.
type Monitor struct {
	tree treeStats
	cron *cron.Cron
	mu   sync.Mutex
}

// New creates a Monitor that logs stats for tree on the given cron
// schedule (standard 5-field cron plus seconds, e.g. "*/30 * * * * *" for
// every 30 seconds).
func New(tree treeStats, schedule string) (*Monitor, error) {
	m := &Monitor{
		tree: tree,
		cron: cron.New(cron.WithSeconds()),
	}
	if _, err := m.cron.AddFunc(schedule, m.report); err != nil {
		return nil, fmt.Errorf("monitor: invalid schedule %q: %w", schedule, err)
	}
	return m, nil
}

// Start begins the background reporting loop.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cron.Start()
}

// Stop halts the reporting loop and waits for any in-flight report to
// finish.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *Monitor) report() {
	pages := m.tree.PageCount()
	height, err := m.tree.Height()
	if err != nil {
		log.Printf("monitor: height check failed: %v", err)
		return
	}
	log.Printf("bptree stats: pages=%d height=%d", pages, height)
}
