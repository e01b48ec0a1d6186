package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kstaniek/go-aimms30-server/internal/serialio"
	"github.com/kstaniek/go-aimms30-server/internal/streambuf"
)

// openSerialPort is a hook for tests.
var openSerialPort = serialio.Open

// initSerialProducer opens the serial link and launches the RX loop that
// appends received bytes to buf. Returns a cleanup function.
func initSerialProducer(ctx context.Context, cfg *appConfig, buf *streambuf.ByteBuffer, l *slog.Logger, wg *sync.WaitGroup) (func(), error) {
	sp, err := openSerialPort(cfg.serialDev, cfg.baud, cfg.serialReadTO)
	if err != nil {
		return func() {}, fmt.Errorf("open serial: %w", err)
	}
	l.Info("serial_open", "device", cfg.serialDev, "baud", cfg.baud)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer l.Info("serial_rx_end")
		serialio.Run(ctx, sp, buf, l)
	}()
	return func() { _ = sp.Close() }, nil
}
