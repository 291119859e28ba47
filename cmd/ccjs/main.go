// Command ccjs is the engine's CLI: run a script file, evaluate an
// inline expression, or drop into a REPL, with an optional debug HTTP
// server and periodic heap snapshots running alongside it.
package main

import (
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/scriptrt/ccjs/internal/debugserver"
	"github.com/scriptrt/ccjs/internal/engineconfig"
	"github.com/scriptrt/ccjs/internal/snapshot"
	"github.com/scriptrt/ccjs/internal/telemetry"
	"github.com/scriptrt/ccjs/pkg/ccjs"
	"github.com/scriptrt/ccjs/pkg/rtlog"
)

func main() {
	var flagGops bool
	var flagConfigFile, flagEnvFile, flagEval, flagDebugAddr string
	flag.BoolVar(&flagGops, "gops", false, "Listen via github.com/google/gops/agent (for debugging)")
	flag.StringVar(&flagConfigFile, "config", "./ccjs.json", "Engine config file (optional)")
	flag.StringVar(&flagEnvFile, "env", "./.env", "dotenv file to load before reading the config (optional)")
	flag.StringVar(&flagEval, "eval", "", "Evaluate `source` and print the result instead of starting a REPL")
	flag.StringVar(&flagDebugAddr, "debug-addr", "", "Bind address for the debug HTTP server (disabled if empty)")
	flag.Parse()

	// See https://github.com/google/gops (runtime overhead is almost zero)
	if flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			rtlog.Default.Critf("gops/agent.Listen failed: %s", err.Error())
			os.Exit(1)
		}
	}

	cfg, err := engineconfig.Load(flagConfigFile, flagEnvFile)
	if err != nil {
		rtlog.Default.Critf("loading config failed: %s", err.Error())
		os.Exit(1)
	}

	level, err := rtlog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = rtlog.LevelInfo
	}
	log := rtlog.New(os.Stderr, level)

	rt := ccjs.NewRuntime(cfg, log)
	cx, err := rt.NewContext()
	if err != nil {
		log.Critf("creating context failed: %s", err.Error())
		os.Exit(1)
	}

	var wg sync.WaitGroup
	var dbgServer *debugserver.Server
	var sched *snapshot.Scheduler
	var store *snapshot.Store

	bus, err := telemetry.Connect(cfg.Events, log)
	if err != nil {
		log.Errorf("telemetry: %s", err.Error())
		bus, _ = telemetry.Connect(engineconfig.EventsConfig{}, log)
	}
	rt.Heap().OnCollect(bus.PublishCollectionFinished)

	if cfg.DebugServer.Enabled && flagDebugAddr == "" {
		flagDebugAddr = cfg.DebugServer.BindAddr
	}
	if flagDebugAddr != "" {
		reg := prometheus.NewRegistry()
		var sampler *telemetry.Sampler
		metrics, err := telemetry.NewMetrics(reg, "ccjs")
		if err != nil {
			log.Errorf("telemetry: registering metrics failed: %s", err.Error())
		} else {
			sampler = telemetry.NewSampler(metrics)
		}
		dbgServer = debugserver.New(flagDebugAddr, rt, reg, sampler, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := dbgServer.ListenAndServe(); err != nil {
				log.Errorf("debug server: %s", err.Error())
			}
		}()
	}

	if cfg.Snapshot.Enabled {
		var err error
		store, err = snapshot.Open(cfg.Snapshot.DatabasePath)
		if err != nil {
			log.Errorf("snapshot: %s", err.Error())
		} else {
			sched, err = snapshot.NewScheduler(log)
			if err != nil {
				log.Errorf("snapshot: creating scheduler failed: %s", err.Error())
			} else {
				interval := time.Duration(cfg.Snapshot.IntervalSeconds) * time.Second
				if interval <= 0 {
					interval = time.Minute
				}
				if err := sched.RegisterPeriodicSnapshot(store, rt, interval); err != nil {
					log.Errorf("snapshot: registering periodic job failed: %s", err.Error())
				} else {
					sched.Start()
				}
			}
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		if dbgServer != nil {
			dbgServer.Shutdown()
		}
		if sched != nil {
			sched.Shutdown()
		}
		if store != nil {
			store.Close()
		}
		bus.Close()
		os.Exit(0)
	}()

	args := flag.Args()
	switch {
	case flagEval != "":
		runEval(cx, flagEval, "<eval>")
	case len(args) > 0:
		runFile(cx, args[0])
	default:
		runREPL(cx)
	}

	wg.Wait()
}
