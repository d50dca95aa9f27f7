package database

import (
	"context"
	"fmt"
	"time"

	"cleanops/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey database index layout
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous cache entries
	GENERAL_CACHE_INDEX = iota

	// AVAILABILITY_CACHE_INDEX (DB 1) - staff month calendars read by the scorer
	AVAILABILITY_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 2) - pub/sub for sync alerts and live updates
	EVENTS_CACHE_INDEX

	// LOCKS_CACHE_INDEX (DB 3) - short lived batch locks
	LOCKS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	newClient := func(index int) (valkey.Client, error) {
		return valkey.NewClient(
			valkey.ClientOption{
				InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
				SelectDB:    index,
			},
		)
	}

	var cacheDB Cache

	var err error
	cacheDB.General, err = newClient(GENERAL_CACHE_INDEX)
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	cacheDB.Availability, err = newClient(AVAILABILITY_CACHE_INDEX)
	if err != nil {
		return log.Err("failed to create availability valkey client", err)
	}

	cacheDB.Events, err = newClient(EVENTS_CACHE_INDEX)
	if err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	cacheDB.Locks, err = newClient(LOCKS_CACHE_INDEX)
	if err != nil {
		return log.Err("failed to create locks valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clients := cacheDB.clients()
	if index < 0 || index >= len(clients) {
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	target := clients[index]
	if err := target.client.Do(ctx, target.client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", target.name)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", target.name)
}
