package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/mclog"
)

var stressOpts struct {
	workers      int
	bursts       int
	perBurst     int
	maxMsgSize   int
	metricsAddr  string
	shutdownWait time.Duration
}

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Flood the logger from many goroutines and report queue statistics",
	RunE:  runStress,
}

func init() {
	f := stressCmd.Flags()
	f.IntVar(&stressOpts.workers, "workers", 50, "Concurrent producer goroutines")
	f.IntVar(&stressOpts.bursts, "bursts", 100, "Bursts to submit")
	f.IntVar(&stressOpts.perBurst, "per-burst", 500, "Records per burst")
	f.IntVar(&stressOpts.maxMsgSize, "max-message-size", 200, "Upper bound of random message length")
	f.StringVar(&stressOpts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	f.DurationVar(&stressOpts.shutdownWait, "shutdown-timeout", 10*time.Second, "Time allowed for the worker to drain")
}

var stressCategories = []mclog.Category{
	mclog.CategoryGeneral,
	mclog.CategoryRecord,
	mclog.CategoryPlayback,
	mclog.CategoryNetwork,
	mclog.CategoryUPnP,
}

var stressLevels = []mclog.Severity{
	mclog.SeverityDebug,
	mclog.SeverityInfo,
	mclog.SeverityNotice,
	mclog.SeverityWarning,
	mclog.SeverityErr,
}

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.IntN(len(chars))])
	}
	return sb.String()
}

func logBurst(logger *mclog.Logger, burstID int) {
	for i := 0; i < stressOpts.perBurst; i++ {
		mask := stressCategories[rand.IntN(len(stressCategories))]
		level := stressLevels[rand.IntN(len(stressLevels))]
		msg := generateRandomMessage(rand.IntN(stressOpts.maxMsgSize) + 10)
		logger.Logf(mask, level, "burst=%d seq=%d %s", burstID, i, msg)
	}
}

func stressWorker(logger *mclog.Logger, id int, bursts <-chan int, wg *sync.WaitGroup, completed *atomic.Int64) {
	defer wg.Done()
	logger.RegisterThreadName(fmt.Sprintf("stress-%d", id))
	defer logger.DeregisterThreadName()

	for burstID := range bursts {
		logBurst(logger, burstID)
		if n := completed.Add(1); n%10 == 0 || n == int64(stressOpts.bursts) {
			logger.PrintLine(fmt.Sprintf("Progress: %d/%d bursts completed\n", n, stressOpts.bursts), true)
		}
	}
}

func runStress(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := mclog.NewLogger()
	if err := logger.ApplyConfig(cfg); err != nil {
		return err
	}

	if stressOpts.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(mclog.NewCollector(logger))
		srv := &http.Server{
			Addr:              stressOpts.metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bursts := make(chan int, stressOpts.workers)
	var wg sync.WaitGroup
	var completed atomic.Int64
	for i := 0; i < stressOpts.workers; i++ {
		wg.Add(1)
		go stressWorker(logger, i, bursts, &wg, &completed)
	}

	start := time.Now()
submit:
	for i := 1; i <= stressOpts.bursts; i++ {
		select {
		case bursts <- i:
		case <-ctx.Done():
			break submit
		}
	}
	close(bursts)
	wg.Wait()
	elapsed := time.Since(start)

	if err := logger.Shutdown(stressOpts.shutdownWait); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}

	st := logger.Stats()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "completed %d/%d bursts in %v\n", completed.Load(), stressOpts.bursts, elapsed.Round(time.Millisecond))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(out, "records/sec: %.2f\n", float64(st.Enqueued)/secs)
	}
	fmt.Fprintf(out, "enqueued=%d dropped=%d dispatched=%d filtered=%d prints=%d\n",
		st.Enqueued, st.Dropped, st.DispatchedLogs, st.Filtered, st.DispatchedPrints)
	return nil
}
