package state

import (
	"fmt"

	"cosmossdk.io/store/dbadapter"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"
)

// Supported database backends.
const (
	BackendMemory  = "memdb"
	BackendLevelDB = "goleveldb"
)

// OpenDB opens the backing database. An empty backend selects GoLevelDB
// under dir; BackendMemory is for tests and throwaway runs.
func OpenDB(name, backend, dir string) (dbm.DB, error) {
	switch backend {
	case BackendMemory:
		return dbm.NewMemDB(), nil
	case BackendLevelDB, "":
		return dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	default:
		return nil, fmt.Errorf("unsupported db backend %q", backend)
	}
}

// StoreFromDB adapts a raw database into the KVStore contexts carry.
func StoreFromDB(db dbm.DB) storetypes.KVStore {
	return dbadapter.Store{DB: db}
}
