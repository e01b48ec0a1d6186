package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/kstaniek/go-aimms30-server/internal/decoder"
	"github.com/kstaniek/go-aimms30-server/internal/httpapi"
	"github.com/kstaniek/go-aimms30-server/internal/queue"
	"github.com/kstaniek/go-aimms30-server/internal/recorder"
	"github.com/kstaniek/go-aimms30-server/internal/streambuf"
	"github.com/kstaniek/go-aimms30-server/internal/telemetry/metrics"
)

func main() {
	cfg, showVersion := parseFlags()
	if cfg == nil {
		os.Exit(1)
	}
	if showVersion {
		fmt.Printf("aimms-server %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	l := setupLogger(cfg.logFormat, cfg.logLevel)
	l.Info("build_info", "version", version, "commit", commit, "date", date)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup

	startMetricsLogger(ctx, cfg.logMetricsEvery, l, &wg)

	buf := streambuf.New()
	out := queue.New()
	state := httpapi.NewState()

	cleanupSerial, err := initSerialProducer(ctx, cfg, buf, l, &wg)
	if err != nil {
		l.Error("serial_init_error", "error", err)
		return
	}
	defer cleanupSerial()

	dec := decoder.New(buf, out,
		decoder.WithWatermark(cfg.watermark),
		decoder.WithLoopPeriod(cfg.loopPeriod),
		decoder.WithLogger(l),
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		dec.Loop(ctx)
	}()

	var rec *recorder.Recorder
	if cfg.logFile != "" {
		var err error
		rec, err = recorder.New(cfg.logFile)
		if err != nil {
			l.Error("recorder_open_error", "error", err)
			return
		}
		defer rec.Close()
	}

	// Single consumer of the packet queue: every record is popped exactly
	// once and fanned out to both the HTTP status state and the recorder,
	// so enabling --log-file never starves the /status snapshot.
	wg.Add(1)
	go func() {
		defer wg.Done()
		runDispatcher(ctx, out, state, rec, cfg.loopPeriod, l)
	}()

	httpSrv := &http.Server{Handler: httpapi.NewRouter(state, l)}
	ln, err := net.Listen("tcp", cfg.listenAddr)
	if err != nil {
		l.Error("http_listen_error", "error", err)
		return
	}
	l.Info("http_listen", "addr", ln.Addr().String())
	go func() {
		if err := httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			l.Error("http_server_error", "error", err)
		}
	}()

	if cfg.mdnsEnable {
		go func() {
			_, portStr, err := net.SplitHostPort(ln.Addr().String())
			var port int
			if err == nil {
				if p, perr := strconv.Atoi(portStr); perr == nil {
					port = p
				}
			}
			if port == 0 {
				addr := ln.Addr().String()
				if i := strings.LastIndex(addr, ":"); i >= 0 {
					if p, perr := strconv.Atoi(addr[i+1:]); perr == nil {
						port = p
					}
				}
			}
			cleanupMDNS, err := startMDNS(ctx, cfg, port)
			if err != nil {
				l.Warn("mdns_start_failed", "error", err)
				return
			}
			l.Info("mdns_started", "service", mdnsServiceType, "name", cfg.mdnsName, "port", port)
			go func() { <-ctx.Done(); cleanupMDNS() }()
		}()
	}

	if cfg.metricsAddr != "" {
		metrics.InitBuildInfo(version, commit, date)
		metricsSrv := metrics.StartHTTP(cfg.metricsAddr)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	l.Info("shutdown_signal", "signal", s.String())
	cancel()
	_ = httpSrv.Close()
	wg.Wait()
}
