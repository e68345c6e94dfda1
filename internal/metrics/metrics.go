// Package metrics implements HushNode's operational HTTP surface:
// Prometheus gauges/counters for block height, pending transactions, and
// indexing errors, served over chi alongside a liveness endpoint. Grounded
// on Synnergy's core/system_health_logging.go (HealthLogger): the same
// registry-of-gauges-plus-counter shape, generalised from a bare
// http.ServeMux to chi (the teacher's own ops-surface router dependency)
// and re-targeted at HushNode's metrics instead of peer count/coin supply.
package metrics

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/chain"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/indexer"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/mempool"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
)

var log = logrus.WithField("component", "metrics")

// Registry owns HushNode's Prometheus gauges/counters and the HTTP mux that
// serves them.
type Registry struct {
	store   *storage.MemStore
	mempool *mempool.Mempool

	registry *prometheus.Registry

	blockHeightGauge     prometheus.Gauge
	pendingTxGauge       prometheus.Gauge
	memAllocGauge        prometheus.Gauge
	goroutinesGauge      prometheus.Gauge
	blocksAssembledTotal prometheus.Counter
	indexingErrorsTotal  prometheus.Counter
	reactionVotesTotal   prometheus.Counter
}

// New builds a Registry and subscribes it to the events that move its
// counters: BlockCreated bumps blocks_assembled_total, IndexingErrorOccurred
// bumps indexing_errors_total (spec §7 "Indexing errors are logged ... and
// do not abort block processing" — the counter makes that rate observable),
// and ReactionVoteIndexed bumps reaction_votes_total.
func New(store *storage.MemStore, mp *mempool.Mempool, bus *eventbus.Bus) *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		store:    store,
		mempool:  mp,
		registry: reg,
		blockHeightGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hushnode_block_height",
			Help: "Current block index of the node",
		}),
		pendingTxGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hushnode_pending_transactions",
			Help: "Number of transactions currently in the mempool",
		}),
		memAllocGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hushnode_mem_alloc_bytes",
			Help: "Current memory allocation in bytes",
		}),
		goroutinesGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hushnode_goroutines",
			Help: "Number of running goroutines",
		}),
		blocksAssembledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hushnode_blocks_assembled_total",
			Help: "Total number of blocks assembled",
		}),
		indexingErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hushnode_indexing_errors_total",
			Help: "Total number of strategy failures recorded during indexing",
		}),
		reactionVotesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hushnode_reaction_votes_total",
			Help: "Total number of reaction votes indexed",
		}),
	}
	reg.MustRegister(
		r.blockHeightGauge,
		r.pendingTxGauge,
		r.memAllocGauge,
		r.goroutinesGauge,
		r.blocksAssembledTotal,
		r.indexingErrorsTotal,
		r.reactionVotesTotal,
	)

	bus.Subscribe(chain.BlockCreated{}.Kind(), r.onBlockCreated)
	bus.Subscribe(indexer.BlockIndexingCompleted{}.Kind(), r.onBlockIndexingCompleted)
	bus.Subscribe(indexer.IndexingErrorOccurred{}.Kind(), r.onIndexingErrorOccurred)
	bus.Subscribe(indexer.ReactionVoteIndexed{}.Kind(), r.onReactionVoteIndexed)
	return r
}

func (r *Registry) onBlockCreated(ctx context.Context, ev eventbus.Event) error {
	r.blocksAssembledTotal.Inc()
	return nil
}

func (r *Registry) onBlockIndexingCompleted(ctx context.Context, ev eventbus.Event) error {
	r.refresh()
	return nil
}

func (r *Registry) onIndexingErrorOccurred(ctx context.Context, ev eventbus.Event) error {
	r.indexingErrorsTotal.Inc()
	return nil
}

func (r *Registry) onReactionVoteIndexed(ctx context.Context, ev eventbus.Event) error {
	r.reactionVotesTotal.Inc()
	return nil
}

func (r *Registry) refresh() {
	if state, ok := r.store.Read().ChainState(); ok {
		r.blockHeightGauge.Set(float64(state.BlockIndex))
	}
	if r.mempool != nil {
		r.pendingTxGauge.Set(float64(r.mempool.Len()))
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	r.memAllocGauge.Set(float64(mem.Alloc))
	r.goroutinesGauge.Set(float64(runtime.NumGoroutine()))
}

// Router returns a chi router exposing /healthz and /metrics.
func (r *Registry) Router() chi.Router {
	router := chi.NewRouter()
	router.Get("/healthz", r.handleHealthz)
	router.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	return router
}

func (r *Registry) handleHealthz(w http.ResponseWriter, req *http.Request) {
	r.refresh()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Serve runs the metrics HTTP server until ctx is cancelled.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: r.Router()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("metrics server shutdown")
			return err
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server stopped unexpectedly")
			return err
		}
		return nil
	}
}
