package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/matst80/preset-finder/pkg/browser"
	"github.com/matst80/preset-finder/pkg/common"
	"github.com/matst80/preset-finder/pkg/komplete"
	"github.com/matst80/preset-finder/pkg/library"
	"github.com/matst80/preset-finder/pkg/playback"
	"github.com/matst80/preset-finder/pkg/server"
	"github.com/matst80/preset-finder/pkg/storage"
	"github.com/matst80/preset-finder/pkg/tracking"
)

var listenAddress = flag.String("listen", ":8080", "http listen address")
var snapshotFile = flag.String("snapshot", "data/library.gob.gz", "library snapshot file")

var dbPath = os.Getenv("KOMPLETE_DB")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var amqpUrl = os.Getenv("AMQP_URL")

func loadLibrary(lib *library.Library, path string, snapshot *storage.SnapshotStore, dbFound bool) {
	if dbFound {
		db, err := komplete.Open(path)
		if err == nil {
			defer db.Close()
			content, err := komplete.Load(context.Background(), db)
			if err != nil {
				log.Printf("failed to load %s: %v", path, err)
				return
			}
			lib.Replace(content)
			presets, products := lib.Counts()
			log.Printf("loaded %d presets from %d products", presets, products)
			if err := snapshot.Save(content); err != nil {
				log.Printf("could not save snapshot: %v", err)
			}
			return
		}
		log.Printf("failed to open %s: %v", path, err)
	}
	content, err := snapshot.Load()
	if err != nil {
		log.Printf("no browser database and no snapshot, staying empty: %v", err)
		return
	}
	lib.Replace(content)
	presets, _ := lib.Counts()
	log.Printf("loaded %d presets from snapshot", presets)
}

func main() {
	flag.Parse()

	if dbPath == "" {
		dbPath = komplete.DefaultDatabasePath()
	}
	snapshot := &storage.SnapshotStore{Path: *snapshotFile}

	dbFound := false
	if info, err := os.Stat(dbPath); err == nil && !info.IsDir() {
		dbFound = true
	}

	lib := library.New()
	go loadLibrary(lib, dbPath, snapshot, dbFound)

	sinks := []playback.Sink{playback.LogSink{}}
	var rabbit *tracking.RabbitTracking
	if amqpUrl != "" {
		var err error
		rabbit, err = tracking.NewRabbitTracking(amqpUrl, "presetfinder")
		if err != nil {
			log.Printf("activation tracking disabled: %v", err)
		} else {
			sinks = append(sinks, rabbit)
		}
	}
	queue := playback.NewQueue(sinks...)

	var cache *server.Cache
	if redisUrl != "" {
		cache = server.NewCache(redisUrl, redisPassword, 0)
	}

	srv := &server.WebServer{
		Library:  lib,
		Cache:    cache,
		Queue:    queue,
		Sessions: server.NewSessionStore(lib, queue, browser.DefaultPageSize),
		DbFound:  dbFound,
	}

	httpServer := &http.Server{
		Addr:              *listenAddress,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	common.RunServerWithShutdown(httpServer, "preset-finder", 15*time.Second,
		func(ctx context.Context) error {
			queue.Close()
			if rabbit != nil {
				return rabbit.Close()
			}
			return nil
		},
		func(ctx context.Context) error {
			if cache != nil {
				return cache.Close()
			}
			return nil
		},
	)
}
