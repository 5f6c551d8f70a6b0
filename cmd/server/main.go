// Command server runs one authoritative game-server process: either
// R-Type-style wave shooter matches or Bagario-style cell-eating
// matches, selected by the loaded configuration's server.mode.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/arcade-server/internal/assets"
	"github.com/l1jgo/arcade-server/internal/config"
	"github.com/l1jgo/arcade-server/internal/metrics"
	"github.com/l1jgo/arcade-server/internal/netio"
	"github.com/l1jgo/arcade-server/internal/persist"
	"github.com/l1jgo/arcade-server/internal/session"
)

// roomCapacity bounds how many players share one session before a new
// one is opened (spec §4.9: independent worlds, embarrassingly
// parallel across the pool).
const roomCapacity = 8

// Bagario world defaults, used when no level asset overrides them.
const (
	bagarioMapWidth  = 4000.0
	bagarioMapHeight = 4000.0
	bagarioFoodCount = 300
	bagarioVirusCount = 15
	// bagarioStartMass mirrors internal/session's own spawn constant;
	// duplicated here only for the SERVER_ACCEPT.StartingValue field.
	bagarioStartMass = 20.0
	// rtypePlayerMaxHealth mirrors internal/session's own constant, for
	// the same reason.
	rtypePlayerMaxHealth = 100.0
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	tcpPort, udpPort, bindAll, err := parseArgs(os.Args[1:])
	if err != nil {
		return err
	}

	cfgPath := "config/server.toml"
	explicit := false
	if p := os.Getenv("ARCADE_SERVER_CONFIG"); p != "" {
		cfgPath, explicit = p, true
	}
	if !explicit {
		if _, statErr := os.Stat(cfgPath); statErr != nil {
			cfgPath = "" // no default file shipped: fall back to built-in defaults
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyFlags(tcpPort, udpPort, bindAll)

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.Mode)

	// Optional leaderboard persistence (spec Non-goals: never session/
	// world state — this is purely additive historical stats).
	var leaderboardRepo *persist.LeaderboardRepo
	if cfg.Persist.Enabled {
		printSection("persistence")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Persist, log)
		cancel()
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("connected to postgres")

		if err := persist.RunMigrations(context.Background(), db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		leaderboardRepo = persist.NewLeaderboardRepo(db)
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsSrv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		defer metricsSrv.Close()
	}

	printSection("world")
	var (
		manager    *session.Manager
		mapWidth   float32
		mapHeight  float32
		startValue float32
	)
	switch cfg.Server.Mode {
	case "bagario":
		mapWidth, mapHeight = bagarioMapWidth, bagarioMapHeight
		startValue = bagarioStartMass
		manager = session.NewManager(roomCapacity, func() session.GameSession {
			return session.NewBagarioSession(mapWidth, mapHeight, bagarioFoodCount, bagarioVirusCount)
		})
		printStat("food pellets per room", bagarioFoodCount)
		printStat("viruses per room", bagarioVirusCount)
	default:
		cfg.Server.Mode = "rtype"
		dir := assets.NewDirectory(cfg.Assets.Directory)
		level, err := dir.LoadLevel("1")
		if err != nil {
			return fmt.Errorf("load level: %w", err)
		}
		mapWidth, mapHeight = level.Map.Width, level.Map.Height
		startValue = rtypePlayerMaxHealth
		manager = session.NewManager(roomCapacity, func() session.GameSession {
			return session.NewRTypeSession(level)
		})
		printStat("waves configured", len(level.Waves))
	}
	printStat("room capacity", roomCapacity)
	fmt.Println()

	pool := session.NewSessionPool(cfg.Pool.Workers, log)
	defer pool.Shutdown()

	handler := newGameHandler(manager, log, cfg.Server.Mode, mapWidth, mapHeight, startValue, cfg.Server.TickRate, cfg.Server.MaxPlayers)

	control, err := netio.NewControlServer(cfg.Network.TCPAddr(), handler, log)
	if err != nil {
		return fmt.Errorf("tcp control server: %w", err)
	}
	defer control.Shutdown()
	go control.AcceptLoop()

	data, err := netio.NewDataServer(cfg.Network.UDPAddr(), handler, log)
	if err != nil {
		return fmt.Errorf("udp data server: %w", err)
	}
	defer data.Shutdown()
	handler.data = data
	go data.ReadLoop()

	printSection("ready")
	printReady(fmt.Sprintf("tcp control listening on %s", control.Addr()))
	printReady(fmt.Sprintf("udp data listening on %s", data.Addr()))
	printReady(fmt.Sprintf("tick rate %d Hz, %d workers", cfg.Server.TickRate, cfg.Pool.Workers))
	fmt.Println()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Server.TickPeriod)
	defer ticker.Stop()
	dt := float32(cfg.Server.TickPeriod.Seconds())

	for {
		select {
		case <-ticker.C:
			runTick(manager, pool, data, dt)

		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if leaderboardRepo != nil {
				recordFinalStandings(manager, leaderboardRepo, cfg.Server.Mode, log)
			}
			log.Info("server stopped")
			return nil
		}
	}
}

// runTick advances every active room one tick via the pool barrier,
// then serially drains and transmits each room's outbound frames — the
// only part of the pipeline that touches the network (spec §4.9's
// "main builds the batch, schedules, waits, then serially drains").
func runTick(manager *session.Manager, pool *session.SessionPool, data *netio.DataServer, dt float32) {
	start := time.Now()
	pool.ScheduleBatch(manager.Tickables(), dt)
	pool.WaitForCompletion()
	metrics.PoolBatchDuration.Observe(time.Since(start).Seconds())
	metrics.TickDuration.Observe(time.Since(start).Seconds())

	rooms := manager.Rooms()
	var queued int
	for _, room := range rooms {
		frames := room.Session.DrainOutbound()
		queued += len(frames)
		for _, playerID := range room.Players() {
			for _, f := range frames {
				seq := room.Session.NextSequence(playerID)
				data.Send(playerID, f.Type, seq, f.Payload)
				if f.Type == 0xA0 { // SERVER_SNAPSHOT
					metrics.SnapshotsSent.Inc()
				}
			}
		}
	}
	metrics.OutboundQueueDepth.Set(float64(queued))
}

// recordFinalStandings persists each active Bagario room's leaderboard
// on shutdown; a no-op for R-Type sessions, which don't expose mass-
// based standings.
func recordFinalStandings(manager *session.Manager, repo *persist.LeaderboardRepo, mode string, log *zap.Logger) {
	if mode != "bagario" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, room := range manager.Rooms() {
		bs, ok := room.Session.(*session.BagarioSession)
		if !ok {
			continue
		}
		for _, st := range bs.Standings() {
			err := repo.Record(ctx, persist.LeaderboardEntry{
				MatchID: room.ID, PlayerName: st.Name, GameMode: mode, Value: st.Mass,
			})
			if err != nil {
				log.Warn("record leaderboard entry failed", zap.Error(err), zap.String("room", room.ID))
			}
		}
	}
}

// parseArgs implements spec §6's CLI surface: `[tcp_port] [udp_port]
// [--network]`, with `-h`/`--help` printing usage and exiting 0, and
// any malformed argument exiting 1.
func parseArgs(args []string) (tcpPort, udpPort int, bindAll bool, err error) {
	var positional []string
	for _, a := range args {
		switch {
		case a == "-h" || a == "--help":
			printUsage()
			os.Exit(0)
		case a == "--network":
			bindAll = true
		case strings.HasPrefix(a, "-"):
			return 0, 0, false, fmt.Errorf("unrecognized argument: %s", a)
		default:
			positional = append(positional, a)
		}
	}
	if len(positional) > 2 {
		return 0, 0, false, fmt.Errorf("too many positional arguments")
	}
	if len(positional) >= 1 {
		if tcpPort, err = strconv.Atoi(positional[0]); err != nil {
			return 0, 0, false, fmt.Errorf("invalid tcp_port: %w", err)
		}
	}
	if len(positional) >= 2 {
		if udpPort, err = strconv.Atoi(positional[1]); err != nil {
			return 0, 0, false, fmt.Errorf("invalid udp_port: %w", err)
		}
	}
	return tcpPort, udpPort, bindAll, nil
}

func printUsage() {
	fmt.Println("usage: server [tcp_port] [udp_port] [--network]")
	fmt.Println()
	fmt.Println("  tcp_port    TCP control port (default from config/server.toml)")
	fmt.Println("  udp_port    UDP data port (default from config/server.toml)")
	fmt.Println("  --network   bind 0.0.0.0 instead of 127.0.0.1")
	fmt.Println("  -h, --help  print this message and exit")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

// ── Startup display helpers, grounded on the teacher's same-named
// helpers (color codes, dotted stat rows) ──────────────────────────

func printBanner(serverName, mode string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           arcade-server  v0.1.0            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(mode: %s)\033[0m\n\n", serverName, mode)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := strconv.Itoa(count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}
