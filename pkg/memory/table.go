package memory

import (
	"maps"
	"slices"
	"sync"

	"heapdb/pkg/dberr"
	"heapdb/pkg/primitives"
	"heapdb/pkg/storage/page"
)

// TableManager is the registry the page store uses to resolve a table ID to
// its backing file. Registration is explicit: a table file must be added here
// before any of its pages can be fetched.
type TableManager struct {
	idToFile map[primitives.TableID]page.DbFile
	mutex    sync.RWMutex
}

func NewTableManager() *TableManager {
	return &TableManager{
		idToFile: make(map[primitives.TableID]page.DbFile),
	}
}

// AddTable registers a table file under its own ID. Re-registering an ID
// replaces the previous file.
func (tm *TableManager) AddTable(f page.DbFile) error {
	if f == nil {
		return dberr.New(dberr.KindInvalidArgument, "table file cannot be nil")
	}

	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	tm.idToFile[f.GetID()] = f
	return nil
}

// GetDbFile resolves a table ID to its registered file.
func (tm *TableManager) GetDbFile(tableID primitives.TableID) (page.DbFile, error) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	f, exists := tm.idToFile[tableID]
	if !exists {
		return nil, dberr.New(dberr.KindNotFound, "table with ID %d not found", tableID)
	}
	return f, nil
}

// TableExists reports whether a table ID is registered.
func (tm *TableManager) TableExists(tableID primitives.TableID) bool {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	_, exists := tm.idToFile[tableID]
	return exists
}

// RemoveTable unregisters a table.
func (tm *TableManager) RemoveTable(tableID primitives.TableID) error {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if _, exists := tm.idToFile[tableID]; !exists {
		return dberr.New(dberr.KindNotFound, "table with ID %d not found", tableID)
	}
	delete(tm.idToFile, tableID)
	return nil
}

// TableIDs returns the registered table IDs.
func (tm *TableManager) TableIDs() []primitives.TableID {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	return slices.Collect(maps.Keys(tm.idToFile))
}

// Clear unregisters all tables.
func (tm *TableManager) Clear() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	clear(tm.idToFile)
}
