// cmd/trainer/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"job-recommender/internal/common/config"
	"job-recommender/internal/common/database"
	"job-recommender/internal/common/logger"
	"job-recommender/internal/common/observability"
	"job-recommender/internal/repository"
	"job-recommender/internal/training/artifacts"
	"job-recommender/internal/training/dataset"
	"job-recommender/internal/training/evaluator"
	"job-recommender/internal/training/profile"
	"job-recommender/internal/training/sampling"
	"job-recommender/internal/training/trainer"
)

func main() {
	trainCmd := flag.NewFlagSet("train", flag.ExitOnError)
	epochs := trainCmd.Int("epochs", 0, "number of training epochs (0 = config default)")
	batchSize := trainCmd.Int("batch-size", 0, "mini-batch size (0 = config default)")
	learningRate := trainCmd.Float64("learning-rate", 0, "optimizer learning rate (0 = config default)")
	seed := trainCmd.Int64("seed", 0, "random seed (0 = time-based)")

	evaluateCmd := flag.NewFlagSet("evaluate", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: trainer <train|evaluate> [flags]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("trainer")
	defer obs.Shutdown()

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := pg.Ping(pingCtx); err != nil {
		cancel()
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}
	cancel()

	var status trainer.StatusStore = trainer.NopStatusStore{}
	if cfg.Database.Redis.Address != "" {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis init failed", zap.Error(err))
		}
		defer rdb.Close()
		status = trainer.NewRedisStatusStore(rdb.GetClient())
	}

	store, err := artifacts.NewFSStore(cfg.Artifacts.Dir)
	if err != nil {
		zapLog.Fatal("artifact store init failed", zap.Error(err))
	}

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Address, log)
	}

	source := repository.NewPostgresDataSource(pg.GetDB(), log)
	extractor := profile.NewExtractor(cfg.Training.DegreeLevels)
	sampler := sampling.New(time.Now().UnixNano())
	collector := dataset.NewCollector(source, extractor, sampler, log,
		cfg.Training.NegativeRatio, cfg.Training.SamplePoolSize)

	switch os.Args[1] {
	case "train":
		trainCmd.Parse(os.Args[2:])

		trainingCfg := cfg.Training
		if *epochs > 0 {
			trainingCfg.Epochs = *epochs
		}
		if *batchSize > 0 {
			trainingCfg.BatchSize = *batchSize
		}
		if *learningRate > 0 {
			trainingCfg.LearningRate = *learningRate
		}
		if *seed != 0 {
			trainingCfg.Seed = *seed
		}

		tr := trainer.New(collector, store, status, log, obs)
		report, err := tr.Train(ctx, trainingCfg)
		if err != nil {
			os.Exit(1)
		}
		printJSON(report)

	case "evaluate":
		evaluateCmd.Parse(os.Args[2:])

		// The evaluator collects interaction data only; no negatives.
		evalCollector := dataset.NewCollector(source, extractor, sampler, log, 0, 0)
		ev := evaluator.New(evalCollector, store, log)
		result, err := ev.Evaluate(ctx)
		if err != nil {
			log.WithError(err).Error("evaluation failed", nil)
			os.Exit(1)
		}
		printJSON(result)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		os.Exit(2)
	}
}

func serveMetrics(addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Warn("metrics listener stopped", nil)
	}
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	fmt.Println(string(data))
}
