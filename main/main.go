package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jd3nn1s/sipper"
	"github.com/jd3nn1s/sipper/forwarder"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var configFile = flag.String("config", "", "TOML configuration file")
var udpConfigFile = flag.String("udp-config", "", "UDP forwarder configuration file")
var testMode = flag.Bool("testmode", false, "generate test data")

// The physical ECU transport is linked in by the deployment build; the
// engine only needs something satisfying sipper.Source.
var ecuConnect = func(port string) (sipper.Source, error) {
	return nil, errors.Errorf("no ECU transport built in for %s, use -testmode", port)
}

func main() {
	log.SetLevel(log.InfoLevel)
	flag.Parse()

	cfg := sipper.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = sipper.LoadConfig(*configFile)
		if err != nil {
			log.Fatal("unable to load configuration: ", err)
		}
	}

	// a watchdog restart carries the active log file in the environment so
	// the new process appends to it instead of starting a new file
	logPath := os.Getenv(sipper.LogFileEnv)
	if logPath == "" {
		logPath = cfg.LogFile
	}
	if logPath == "" {
		logPath = sipper.DefaultLogName(time.Now())
	}
	if err := os.Setenv(sipper.LogFileEnv, logPath); err != nil {
		log.Fatal("unable to set log file environment: ", err)
	}

	sink, err := sipper.NewCSVSink(logPath)
	if err != nil {
		log.Fatal("unable to open log file: ", err)
	}

	var source sipper.Source
	if *testMode {
		source = sipper.NewSimulator()
	} else {
		source = sipper.NewReconnecting("ecu", func() (sipper.Source, error) {
			return ecuConnect(cfg.Port)
		})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engine := sipper.NewEngine(source, sink, cfg)

	if *udpConfigFile != "" {
		fwder, err := forwarder.NewUDPForwarder(*udpConfigFile)
		if err != nil {
			log.Fatal("unable to load UDP forwarder: ", err)
		}
		go func() {
			_ = fwder.Start(ctx)
		}()
		engine.AddForwarder(fwder)
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Error("metrics listener: ", err)
			}
		}()
	}

	// the watchdog only reports staleness; it stops the engine and the
	// terminal restart happens below, on this goroutine, once the engine
	// is no longer appending to the log
	staleChan := make(chan struct{}, 1)
	watchdog := sipper.NewWatchdog(engine.Store(), cfg.StaleThreshold(), func() {
		select {
		case staleChan <- struct{}{}:
		default:
		}
		cancel()
	})
	go watchdog.Run(ctx)

	err = engine.Run(ctx)
	if err := sink.Close(); err != nil {
		log.Warn("unable to flush log: ", err)
	}

	select {
	case <-staleChan:
		log.Error("fast data stalled, restarting")
		if err := sipper.Reexec(); err != nil {
			log.Fatal("unable to restart: ", err)
		}
	default:
	}

	if err != nil && err != context.Canceled {
		log.Fatal("engine stopped: ", err)
	}
}
