package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/kaspanet/chaintracker/domain/chaintracker"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/processes/changebroadcaster"
	"github.com/kaspanet/chaintracker/infrastructure/config"
	"github.com/kaspanet/chaintracker/infrastructure/db/database/ldb"
	"github.com/kaspanet/chaintracker/infrastructure/db/dbaccess"
	"github.com/kaspanet/chaintracker/infrastructure/logger"
	"github.com/kaspanet/chaintracker/infrastructure/metrics"
	"github.com/kaspanet/chaintracker/util/panics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const (
	replayBatchSize        = 64
	metricsShutdownTimeout = 5 * time.Second
)

func run(ctx context.Context, cfg *config.Config) error {
	db, err := ldb.NewLevelDB(cfg.DataDir, cfg.DBCacheSizeMiB)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close()
		if closeErr != nil {
			log.Errorf("Error closing the database: %s", closeErr)
		}
	}()

	store := dbaccess.NewLockedBlockStore(db)
	lockedChain, err := store.LockedChain()
	if err != nil {
		return err
	}
	tracker, err := chaintracker.New(&chaintracker.Config{
		Anchor:           cfg.AnchorHash,
		FinalizationHook: store.StoreLockedBlocks,
		LockedChain:      lockedChain,
	})
	if err != nil {
		return err
	}
	log.Infof("Loaded %d locked blocks, tip %s", tracker.LockedLength(), tracker.TipHash())

	registry := prometheus.NewRegistry()
	trackerMetrics, err := metrics.New(registry)
	if err != nil {
		return err
	}
	subscriber := tracker.Subscribe()
	err = metrics.RegisterBacklog(registry, "log", subscriber.Len)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	replayDone := make(chan struct{})
	group.Go(func() error {
		defer panics.HandlePanic(log, "replay", nil)
		defer close(replayDone)
		defer tracker.Unsubscribe(subscriber)
		return replay(groupCtx, cfg, tracker, trackerMetrics)
	})
	group.Go(func() error {
		defer panics.HandlePanic(log, "logChanges", nil)
		return logChanges(groupCtx, subscriber)
	})
	if cfg.MetricsListen != "" {
		group.Go(func() error {
			return serveMetrics(groupCtx, cfg.MetricsListen, registry, replayDone)
		})
	}
	err = group.Wait()
	if err != nil {
		return err
	}

	log.Infof("Replay done: length %d, locked length %d, tip %s",
		tracker.Length(), tracker.LockedLength(), tracker.TipHash())
	return nil
}

// replay feeds the headers file to tracker in batches, locking every block
// that is buried under the configured number of confirmations
func replay(ctx context.Context, cfg *config.Config, tracker chaintracker.ChainTracker,
	trackerMetrics *metrics.Metrics) error {

	input, err := openHeaders(cfg.HeadersFile)
	if err != nil {
		return err
	}
	defer input.Close()

	onEnd := logger.LogAndMeasureExecutionTime(log, "replay")
	defer onEnd()

	reader := newRecordReader(input, cfg.Labels)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		records, err := reader.readBatch(replayBatchSize)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		changes, err := tracker.AddNodes(records)
		if err != nil {
			return err
		}
		trackerMetrics.ObserveIngestion(len(records), changes)

		length := tracker.Length()
		if length > cfg.Confirmations {
			err = tracker.LockToIndex(length - cfg.Confirmations)
			if err != nil {
				return err
			}
		}
		trackerMetrics.SetLengths(tracker.Length(), tracker.LockedLength())
	}
}

func openHeaders(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return file, nil
}

func logChanges(ctx context.Context, subscriber model.ChangeQueue) error {
	for {
		change, err := subscriber.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, changebroadcaster.ErrUnsubscribed) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		log.Infof("%s %s at %d", change.Kind, change.Hash, change.Index)
	}
}

// serveMetrics serves registry over HTTP until the replay is done or ctx is
// cancelled
func serveMetrics(ctx context.Context, listen string, registry *prometheus.Registry,
	replayDone <-chan struct{}) error {

	server := &http.Server{
		Addr:              listen,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: metricsShutdownTimeout,
	}

	serveErr := make(chan error, 1)
	spawn("serveMetrics", func() {
		log.Infof("Serving metrics on %s", listen)
		serveErr <- server.ListenAndServe()
	})

	select {
	case err := <-serveErr:
		return errors.Wrapf(err, "failed serving metrics on %s", listen)
	case <-ctx.Done():
	case <-replayDone:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}
