package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/go-telegram/bot"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "github.com/urfave/cli/v2"

	"github.com/chatwarden/warden/automod/avatar"
	"github.com/chatwarden/warden/automod/cachestore"
	"github.com/chatwarden/warden/automod/engine"
	"github.com/chatwarden/warden/automod/keyword"
	"github.com/chatwarden/warden/automod/rules"
	"github.com/chatwarden/warden/automod/rulestore"
	"github.com/chatwarden/warden/telegram"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    "warden",
		Usage:   "chat moderation daemon (keeps the group clean)",
		Version: versioninfo.Short(),
	}
	app.Commands = []*cli.Command{
		runCmd,
	}
	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the bot",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "bot-token",
			Usage:    "Telegram bot API token",
			Required: true,
			EnvVars:  []string{"BOT_TOKEN"},
		},
		&cli.Int64Flag{
			Name:    "admin-chat-id",
			Usage:   "chat which receives ban/warn notifications",
			EnvVars: []string{"ADMIN_CHAT_ID"},
		},
		&cli.StringFlag{
			Name:    "rules-file",
			Usage:   "path to a JSON rule list file",
			Value:   "config.json",
			EnvVars: []string{"WARDEN_RULES_FILE"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "rule database (sqlite:// or postgresql://); overrides rules-file when set",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis URL for the avatar risk cache; in-memory when empty",
			EnvVars: []string{"WARDEN_REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "nsfw-classifier-url",
			Usage:   "endpoint of an NSFW image classifier service",
			EnvVars: []string{"WARDEN_NSFW_CLASSIFIER_URL"},
		},
		&cli.StringSliceFlag{
			Name:    "known-bad-phash",
			Usage:   "perceptual hashes of known-bad avatars (used when no classifier URL is set)",
			EnvVars: []string{"WARDEN_KNOWN_BAD_PHASH"},
		},
		&cli.Float64Flag{
			Name:    "avatar-soft-threshold",
			Value:   0.6,
			EnvVars: []string{"WARDEN_AVATAR_SOFT_THRESHOLD"},
		},
		&cli.Float64Flag{
			Name:    "avatar-hard-threshold",
			Value:   0.9,
			EnvVars: []string{"WARDEN_AVATAR_HARD_THRESHOLD"},
		},
		&cli.DurationFlag{
			Name:    "avatar-cache-ttl",
			Value:   24 * time.Hour,
			EnvVars: []string{"WARDEN_AVATAR_CACHE_TTL"},
		},
		&cli.IntFlag{
			Name:    "avatar-cache-size",
			Usage:   "max entries in the in-memory avatar risk cache",
			Value:   50_000,
			EnvVars: []string{"WARDEN_AVATAR_CACHE_SIZE"},
		},
		&cli.DurationFlag{
			Name:    "avatar-timeout",
			Usage:   "per-event budget for avatar fetch and scoring",
			Value:   10 * time.Second,
			EnvVars: []string{"WARDEN_AVATAR_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "ban-marker",
			Usage:   "display-name symbol which bans on sight",
			Value:   engine.DefaultBanMarker,
			EnvVars: []string{"WARDEN_BAN_MARKER"},
		},
		&cli.DurationFlag{
			Name:    "new-member-mute",
			Usage:   "how long new members are muted after joining (0 disables)",
			Value:   5 * time.Minute,
			EnvVars: []string{"WARDEN_NEW_MEMBER_MUTE"},
		},
		&cli.IntFlag{
			Name:    "report-tz-offset",
			Usage:   "UTC offset in hours for notification timestamps",
			Value:   5,
			EnvVars: []string{"WARDEN_REPORT_TZ_OFFSET"},
		},
		&cli.StringFlag{
			Name:    "slack-webhook-url",
			Usage:   "mirror verdicts to a slack incoming webhook",
			EnvVars: []string{"SLACK_WEBHOOK_URL"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics",
			Value:   ":3989",
			EnvVars: []string{"WARDEN_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "webhook-url",
			Usage:   "public URL Telegram delivers updates to; long-polling when empty",
			EnvVars: []string{"WARDEN_WEBHOOK_URL"},
		},
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on in webhook mode",
			Value:   ":8443",
			EnvVars: []string{"WARDEN_BIND", "PORT"},
		},
	},
	Action: runAction,
}

func runAction(cctx *cli.Context) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	lem := keyword.NewSnowballLemmatizer()

	var store rulestore.Store
	if dbURL := cctx.String("database-url"); dbURL != "" {
		gs, err := rulestore.NewGormStore(dbURL, logger)
		if err != nil {
			return err
		}
		store = gs
	} else {
		store = rulestore.NewFileStore(cctx.String("rules-file"))
	}

	ttl := cctx.Duration("avatar-cache-ttl")
	var cache cachestore.CacheStore
	if redisURL := cctx.String("redis-url"); redisURL != "" {
		rc, err := cachestore.NewRedisCacheStore(redisURL, ttl)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		cache = rc
	} else {
		cache = cachestore.NewMemCacheStore(cctx.Int("avatar-cache-size"), ttl)
	}

	var classifier avatar.Classifier
	switch {
	case cctx.String("nsfw-classifier-url") != "":
		classifier = avatar.NewNSFWClassifier(cctx.String("nsfw-classifier-url"))
	case len(cctx.StringSlice("known-bad-phash")) > 0:
		pc, err := avatar.NewPHashClassifier(cctx.StringSlice("known-bad-phash"), 0)
		if err != nil {
			return err
		}
		classifier = pc
	default:
		classifier = &avatar.SkinClassifier{}
	}

	b, handler, err := setupBot(cctx, logger)
	if err != nil {
		return err
	}
	client := telegram.NewClient(logger, b, cctx.Int64("admin-chat-id"))

	scorer := avatar.NewCachedScorer(logger, cache, &avatar.Scorer{
		Logger:     logger,
		Fetcher:    client,
		Classifier: classifier,
		Thresholds: avatar.Thresholds{
			Soft: cctx.Float64("avatar-soft-threshold"),
			Hard: cctx.Float64("avatar-hard-threshold"),
		},
		Timeout: cctx.Duration("avatar-timeout"),
	}, ttl)

	notifiers := []engine.Notifier{}
	if cctx.Int64("admin-chat-id") != 0 {
		notifiers = append(notifiers, client)
	}
	if hook := cctx.String("slack-webhook-url"); hook != "" {
		notifiers = append(notifiers, &engine.SlackNotifier{SlackWebhookURL: hook})
	}

	eng := &engine.Engine{
		Logger:         logger,
		Rules:          rules.DefaultRules(),
		Store:          store,
		Compiler:       rulestore.NewCompiler(lem),
		Lemmatizer:     lem,
		Avatar:         scorer,
		Executor:       client,
		Notifiers:      notifiers,
		BanMarker:      cctx.String("ban-marker"),
		ReportLocation: time.FixedZone("report", cctx.Int("report-tz-offset")*3600),
	}

	handler.Engine = eng
	handler.Client = client
	handler.NewMemberMute = cctx.Duration("new-member-mute")

	go func() {
		listen := cctx.String("metrics-listen")
		logger.Info("metrics listening", "addr", listen)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(listen, mux); err != nil {
			logger.Error("metrics listener failed", "err", err)
		}
	}()

	me, err := b.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("verifying bot token: %w", err)
	}
	logger.Info("bot starting", "username", me.Username, "version", versioninfo.Short())

	if hookURL := cctx.String("webhook-url"); hookURL != "" {
		return serveWebhook(ctx, cctx, logger, b, hookURL)
	}
	b.Start(ctx)
	return nil
}

func serveWebhook(ctx context.Context, cctx *cli.Context, logger *slog.Logger, b *bot.Bot, hookURL string) error {
	if _, err := b.SetWebhook(ctx, &bot.SetWebhookParams{URL: hookURL}); err != nil {
		return fmt.Errorf("registering webhook: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/webhook", b.WebhookHandler())

	srv := &http.Server{Addr: cctx.String("bind"), Handler: mux}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	go b.StartWebhook(ctx)
	logger.Info("webhook listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// setupBot builds the bot with a handler whose engine is wired afterwards;
// the bot and the engine's transport client need each other.
func setupBot(cctx *cli.Context, logger *slog.Logger) (*bot.Bot, *telegram.Handler, error) {
	handler := &telegram.Handler{Logger: logger}
	b, err := bot.New(cctx.String("bot-token"), bot.WithDefaultHandler(handler.HandleUpdate))
	if err != nil {
		return nil, nil, fmt.Errorf("creating bot: %w", err)
	}
	return b, handler, nil
}
