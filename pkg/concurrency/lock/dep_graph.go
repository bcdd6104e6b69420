package lock

import (
	"sync"

	"heapdb/pkg/concurrency/transaction"
)

// DependencyGraph tracks waits-for relationships between transactions for
// deadlock detection: an edge from A to B means A is waiting for a lock held
// by B. A cycle in the graph is a deadlock; one transaction in the cycle must
// be aborted to break it.
type DependencyGraph struct {
	edges      map[*transaction.TransactionID]map[*transaction.TransactionID]bool
	mutex      sync.RWMutex
	cacheValid bool
	lastResult bool
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		edges: make(map[*transaction.TransactionID]map[*transaction.TransactionID]bool),
	}
}

// AddEdge records that waiter is blocked on a lock held by holder.
func (dg *DependencyGraph) AddEdge(waiter, holder *transaction.TransactionID) {
	dg.mutex.Lock()
	defer dg.mutex.Unlock()

	if dg.edges[waiter] == nil {
		dg.edges[waiter] = make(map[*transaction.TransactionID]bool)
	}
	dg.edges[waiter][holder] = true
	dg.cacheValid = false
}

// RemoveTransaction removes every edge where tid appears as waiter or holder.
func (dg *DependencyGraph) RemoveTransaction(tid *transaction.TransactionID) {
	dg.mutex.Lock()
	defer dg.mutex.Unlock()

	delete(dg.edges, tid)
	for waiter, holders := range dg.edges {
		delete(holders, tid)
		if len(holders) == 0 {
			delete(dg.edges, waiter)
		}
	}
	dg.cacheValid = false
}

// HasCycle reports whether the graph contains a waits-for cycle. The result
// is cached until the next edge mutation.
func (dg *DependencyGraph) HasCycle() bool {
	dg.mutex.Lock()
	defer dg.mutex.Unlock()

	if dg.cacheValid {
		return dg.lastResult
	}

	visited := make(map[*transaction.TransactionID]bool)
	recStack := make(map[*transaction.TransactionID]bool)

	dg.lastResult = false
	for tid := range dg.edges {
		if !visited[tid] && dg.hasCycleDFS(tid, visited, recStack) {
			dg.lastResult = true
			break
		}
	}

	dg.cacheValid = true
	return dg.lastResult
}

// hasCycleDFS walks the graph depth-first; a back edge into the current
// recursion stack is a cycle.
func (dg *DependencyGraph) hasCycleDFS(tid *transaction.TransactionID, visited, recStack map[*transaction.TransactionID]bool) bool {
	visited[tid] = true
	recStack[tid] = true

	for neighbor := range dg.edges[tid] {
		if !visited[neighbor] {
			if dg.hasCycleDFS(neighbor, visited, recStack) {
				return true
			}
		} else if recStack[neighbor] {
			return true
		}
	}

	recStack[tid] = false
	return false
}
