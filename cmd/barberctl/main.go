// Command barberctl is the operator tool for a running BarberBook server:
// it resolves gateway addresses offline, previews message chunking, applies
// migrations, and drives the SMS endpoints over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/carrier"
	"github.com/barberbook/barberbook/internal/db"
	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/message"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(logger).RunContext(ctx, os.Args); err != nil {
		logger.Fatal("barberctl failed", zap.Error(err))
	}
}

func newApp(logger *zap.Logger) *cli.App {
	serverFlag := &cli.StringFlag{
		Name:    "server",
		Usage:   "base URL of the BarberBook API",
		EnvVars: []string{"BARBERBOOK_URL"},
		Value:   "http://localhost:3001",
	}
	tokenFlag := &cli.StringFlag{
		Name:    "token",
		Usage:   "bearer token from barberctl login",
		EnvVars: []string{"BARBERBOOK_TOKEN"},
	}

	return &cli.App{
		Name:  "barberctl",
		Usage: "operate a BarberBook SMS server",
		Commands: []*cli.Command{
			{
				Name:  "resolve",
				Usage: "print the gateway email address for a phone number",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "phone", Required: true},
					&cli.StringFlag{Name: "carrier", Required: true},
				},
				Action: func(c *cli.Context) error {
					addr, err := carrier.NewDirectory(nil).ResolveGatewayAddress(c.String("phone"), c.String("carrier"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					fmt.Fprintln(c.App.Writer, addr)
					return nil
				},
			},
			{
				Name:  "carriers",
				Usage: "list supported carriers and their gateway domains",
				Action: func(c *cli.Context) error {
					for _, e := range carrier.NewDirectory(nil).Entries() {
						fmt.Fprintf(c.App.Writer, "%-12s %s\n", e.Key, e.Domain)
					}
					return nil
				},
			},
			{
				Name:      "preview",
				Usage:     "show how a digest would be chunked, without sending",
				ArgsUsage: "[\"Name HH:MM\" ...]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "max-length", Value: message.DefaultMaxLength},
				},
				Action: func(c *cli.Context) error {
					entries, err := parseEntries(c.Args().Slice())
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					text, err := message.DailyDigest(len(entries), entries)
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					chunks := message.NewChunker(c.Int("max-length")).Split(text)
					for i, chunk := range chunks {
						fmt.Fprintf(c.App.Writer, "--- part %d/%d (%d chars)\n%s\n", i+1, len(chunks), len(chunk), chunk)
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "database-url", EnvVars: []string{"DATABASE_URL"}, Required: true},
					&cli.StringFlag{Name: "path", EnvVars: []string{"MIGRATIONS_PATH"}, Value: "file://migrations"},
				},
				Action: func(c *cli.Context) error {
					if err := db.Migrate(c.String("path"), c.String("database-url")); err != nil {
						return err
					}
					logger.Info("migrations applied")
					return nil
				},
			},
			{
				Name:  "login",
				Usage: "sign in and print a bearer token",
				Flags: []cli.Flag{
					serverFlag,
					&cli.StringFlag{Name: "username", EnvVars: []string{"AUTH_USERNAME"}, Value: "owner"},
					&cli.StringFlag{Name: "password", EnvVars: []string{"AUTH_PASSWORD"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					var res struct {
						Token     string    `json:"token"`
						ExpiresAt time.Time `json:"expiresAt"`
					}
					err := newClient(c.String("server"), "").post(c.Context, "/api/auth/login", map[string]string{
						"username": c.String("username"),
						"password": c.String("password"),
					}, &res)
					if err != nil {
						return err
					}
					logger.Info("signed in", zap.Time("expires_at", res.ExpiresAt))
					fmt.Fprintln(c.App.Writer, res.Token)
					return nil
				},
			},
			{
				Name:  "test-sms",
				Usage: "send a test message through the server",
				Flags: []cli.Flag{
					serverFlag, tokenFlag,
					&cli.StringFlag{Name: "phone", Usage: "defaults to the configured barber"},
					&cli.StringFlag{Name: "carrier", Usage: "defaults to the configured barber's carrier"},
					&cli.StringFlag{Name: "message"},
				},
				Action: func(c *cli.Context) error {
					var res struct {
						Message string            `json:"message"`
						Details map[string]string `json:"details"`
					}
					err := newClient(c.String("server"), c.String("token")).post(c.Context, "/api/test-sms", map[string]string{
						"phoneNumber": c.String("phone"),
						"carrier":     c.String("carrier"),
						"message":     c.String("message"),
					}, &res)
					if err != nil {
						return err
					}
					logger.Info(res.Message, zap.String("to", res.Details["email"]))
					return nil
				},
			},
			{
				Name:  "digest",
				Usage: "send today's digest now; blocks while parts are paced",
				Flags: []cli.Flag{serverFlag, tokenFlag},
				Action: func(c *cli.Context) error {
					var res struct {
						Message string `json:"message"`
						Parts   int    `json:"parts"`
					}
					// The server paces parts minutes apart.
					cl := newClient(c.String("server"), c.String("token"))
					cl.http.Timeout = 15 * time.Minute
					if err := cl.post(c.Context, "/api/send-daily-reminder", nil, &res); err != nil {
						return err
					}
					logger.Info(res.Message, zap.Int("parts", res.Parts))
					return nil
				},
			},
			{
				Name:  "keepalive",
				Usage: "ping the server periodically so an idling host keeps it warm",
				Flags: []cli.Flag{
					serverFlag,
					&cli.DurationFlag{Name: "interval", Value: 14 * time.Minute},
				},
				Action: func(c *cli.Context) error {
					return keepalive(c.Context, newClient(c.String("server"), ""), c.Duration("interval"), logger)
				},
			},
		},
	}
}

// parseEntries reads "Name HH:MM" arguments; the time is the last field.
func parseEntries(args []string) ([]domain.DigestEntry, error) {
	entries := make([]domain.DigestEntry, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndexByte(strings.TrimSpace(arg), ' ')
		if i < 0 {
			return nil, fmt.Errorf("%q: want \"Name HH:MM\"", arg)
		}
		name, clock := strings.TrimSpace(arg[:i]), strings.TrimSpace(arg[i+1:])
		if err := domain.ValidateTime(clock); err != nil {
			return nil, fmt.Errorf("%q: %w", arg, err)
		}
		entries = append(entries, domain.DigestEntry{ClientName: name, Time: clock})
	}
	return entries, nil
}

func keepalive(ctx context.Context, cl *client, interval time.Duration, logger *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		var res struct {
			Uptime float64 `json:"uptime"`
		}
		if err := cl.get(ctx, "/api/keepalive", &res); err != nil {
			logger.Warn("keepalive failed", zap.Error(err))
		} else {
			logger.Info("server alive", zap.Duration("uptime", time.Duration(res.Uptime*float64(time.Second))))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
