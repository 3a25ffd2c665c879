package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/adapter"
	"main/internal/adapter/enum"
	"main/internal/bus"
	"main/internal/executions"
	"main/internal/fallback"
	"main/internal/journal"
	"main/internal/market"
	"main/internal/news"
	"main/internal/ops"
	"main/internal/order"
	"main/internal/portfolio"
	"main/internal/session"
	"main/internal/venue"
	"main/internal/view"
	"main/pkg/conn"
	"main/pkg/schedule"
)

const _statusLogInterval = time.Minute

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		logs.Errorf("load config, err: %+v", err)
		os.Exit(1)
	}

	if cfg.Profiler.Enabled {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "trading/terminal",
			ServerAddress:   cfg.Profiler.ServerAddress,
			Tags: map[string]string{
				"env": "local",
			},
			Logger: emptyLogger{},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			logs.Errorf("pyroscope start failed, err: %+v", err)
			os.Exit(1)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	hub := bus.NewHub()
	guard := session.NewGuard(session.NewFileKeyring(cfg.Auth.TokenPath), hub)
	client := venue.NewClient(venue.Config{
		BaseURL:     cfg.Venue.BaseURL,
		NewsBaseURL: cfg.Venue.NewsBaseURL,
		Depth:       cfg.Venue.Depth,
		PageSize:    cfg.Venue.PageSize,
		CallTimeout: cfg.Venue.CallTimeout,
	}, nil, guard)

	if !guard.Authenticated() {
		if err := client.Login(ctx, cfg.Auth.Username, cfg.Auth.Password); err != nil {
			logs.Warnf("initial login failed, continuing degraded, err: %+v", err)
		}
	}

	var recorder *journal.Journal
	if cfg.Journal.Enabled {
		db, err := conn.Open(cfg.Journal.ConnOption())
		if err != nil {
			logs.Errorf("open journal database, err: %+v", err)
			os.Exit(1)
		}
		defer func() {
			_ = conn.Close(db)
		}()

		recorder, err = journal.New(db)
		if err != nil {
			logs.Errorf("init journal, err: %+v", err)
			os.Exit(1)
		}
	}

	store := market.NewStore()
	fb := fallback.NewController()
	cache := executions.NewCache(cfg.Venue.PageSize)
	poller := market.NewPoller(client, store, fb, cfg.Venue.Depth, cfg.Poll.BookInterval)
	refresher := executions.NewRefresher(client, cache, fb, cfg.Poll.ExecutionsInterval)
	pipeline := order.NewPipeline(client, cache, fb, recorder, refresher.Refresh)
	positions := portfolio.NewService(client)
	feed := news.NewService(client, cfg.Poll.NewsTTL)

	screen := view.NewScreen(store, cache, fb, refresher, poller, hub)
	go screen.Run(ctx)
	defer screen.Close()

	if cfg.Features.AllMarket {
		screen.SwitchTab(view.TabAllMarket)
		screen.SwitchTab(view.TabBoard)
	}

	go watchSession(ctx, hub, client, cfg)

	stopStatus := schedule.Every(ctx, _statusLogInterval, false, func(ctx context.Context) {
		logStatus(ctx, screen, positions)
	})
	defer stopStatus()

	go prompt(ctx, stop, screen, pipeline, positions, feed, guard, recorder)

	select {
	case <-ctx.Done():
	case <-sys.Shutdown():
	}
	logs.Info("terminal shutting down")
}

// watchSession re-establishes the session after an expiry broadcast.
func watchSession(ctx context.Context, hub *bus.Hub, client *venue.Client, cfg ops.Loaded) {
	notices, cancel := hub.Subscribe(bus.TopicSessionExpired)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-notices:
			if !cfg.Features.AutoRelogin {
				logs.Warn("session expired, re-login disabled")
				continue
			}
			if err := client.Login(ctx, cfg.Auth.Username, cfg.Auth.Password); err != nil {
				logs.Warnf("re-login failed, err: %+v", err)
				continue
			}
			logs.Info("session re-established")
		}
	}
}

func logStatus(ctx context.Context, screen *view.Screen, positions *portfolio.Service) {
	state := screen.Book()
	banner := screen.Banner()

	bid, _ := state.Book.BestBid()
	ask, _ := state.Book.BestAsk()
	logs.Infof("symbol: %s, bid: %s, ask: %s, synthetic: %t",
		screen.Selected(), bid.Price, ask.Price, banner.Synthetic)

	summary, synthetic := positions.Summary(ctx)
	logs.Infof("pnl: %d, trades: %d, synthetic: %t",
		summary.TotalPnL, summary.TotalTradeCount, synthetic)
}

// prompt reads interactive commands from stdin until EOF or quit.
func prompt(ctx context.Context, stop func(), screen *view.Screen, pipeline *order.Pipeline, positions *portfolio.Service, feed *news.Service, guard *session.Guard, recorder *journal.Journal) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "select":
			if len(fields) != 2 {
				fmt.Println("usage: select <symbol>")
				continue
			}
			symbol := adapter.ParseSymbol(fields[1])
			if !symbol.IsAvailable() {
				fmt.Println("unknown symbol:", fields[1])
				continue
			}
			screen.Select(symbol)

		case "tab":
			if len(fields) != 2 {
				fmt.Println("usage: tab <board|all|positions|news>")
				continue
			}
			switchTab(ctx, screen, positions, feed, fields[1])

		case "buy", "sell":
			submit(ctx, screen, pipeline, fields)

		case "force-real":
			screen.ForceRealData()

		case "audit":
			rows, err := recorder.Recent(ctx, 20)
			if err != nil {
				fmt.Println("journal unavailable:", err)
				continue
			}
			for _, row := range rows {
				fmt.Printf("%s %s %s qty=%d px=%d origin=%s\n",
					row.ExecID, row.Symbol, row.Side, row.LastQty, row.LastPx, row.Origin)
			}

		case "logout":
			guard.Logout()

		case "quit", "exit":
			stop()
			return

		default:
			fmt.Println("commands: select, tab, buy, sell, audit, force-real, logout, quit")
		}
	}
}

func switchTab(ctx context.Context, screen *view.Screen, positions *portfolio.Service, feed *news.Service, name string) {
	switch name {
	case "board":
		screen.SwitchTab(view.TabBoard)
	case "all":
		screen.SwitchTab(view.TabAllMarket)
	case "positions":
		screen.SwitchTab(view.TabPositions)
		summary, synthetic := positions.Summary(ctx)
		fmt.Printf("pnl: %d, trades: %d, synthetic: %t\n",
			summary.TotalPnL, summary.TotalTradeCount, synthetic)
	case "news":
		screen.SwitchTab(view.TabNews)
		items, synthetic := feed.Summaries(ctx)
		for _, item := range items {
			fmt.Printf("[%s] %s (synthetic: %t)\n", item.Source, item.Title, synthetic)
		}
	default:
		fmt.Println("unknown tab:", name)
	}
}

func submit(ctx context.Context, screen *view.Screen, pipeline *order.Pipeline, fields []string) {
	if len(fields) != 3 {
		fmt.Println("usage: buy|sell <price> <quantity>")
		return
	}

	price, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Println("bad price:", fields[1])
		return
	}
	quantity, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		fmt.Println("bad quantity:", fields[2])
		return
	}

	side := enum.OrderSideBuy
	if fields[0] == "sell" {
		side = enum.OrderSideSell
	}

	ack, err := pipeline.Submit(ctx, adapter.OrderTicket{
		Symbol:      screen.Selected(),
		Side:        side,
		Type:        enum.OrderTypeLimit,
		TimeInForce: enum.OrderTimeInForceGTC,
		Price:       adapter.Price(price),
		Quantity:    adapter.Quantity(quantity),
	})
	if err != nil {
		fmt.Println("order rejected:", err)
		return
	}
	fmt.Printf("order %s: %s %s\n", ack.OrderID, ack.Status, ack.Message)
}

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}
