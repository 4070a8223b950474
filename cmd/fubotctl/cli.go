package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fubot-be/internal/config"
	"fubot-be/internal/export"
	"fubot-be/internal/pkg/logger"
	"fubot-be/internal/repository/unitofwork"
	"fubot-be/internal/service"
	"fubot-be/pkg/events"
	pktNats "fubot-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

var (
	success = color.New(color.FgGreen)
	notice  = color.New(color.FgYellow)
	info    = color.New(color.FgCyan)
)

// newCLIApp creates the admin CLI with all commands.
func newCLIApp(db *gorm.DB, cfg *config.Config, out io.Writer) *cli.App {
	uowFactory := unitofwork.NewRepositoryFactory(db)

	app := &cli.App{
		Name:      "fubotctl",
		Usage:     "Manage FuBot passcodes and data",
		Version:   Version,
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			passcodeCmd(uowFactory, cfg, out),
			exportCmd(uowFactory, out),
			eventsCmd(cfg, out),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// passcodeService publishes to NATS only when a URL is configured.
func passcodeService(uowFactory unitofwork.RepositoryFactory, cfg *config.Config) (service.IPasscodeService, func()) {
	log := logger.NewNopLogger()
	var publisher events.Publisher = events.Nop{}
	closeFn := func() {}

	if cfg.App.NatsURL != "" {
		if p, err := pktNats.NewPublisher(cfg.App.NatsURL, log); err == nil {
			publisher = p
			closeFn = p.Close
		}
	}
	return service.NewPasscodeService(uowFactory, publisher, cfg.Memory.RetainHistoryOnDelete, log), closeFn
}

func passcodeCmd(uowFactory unitofwork.RepositoryFactory, cfg *config.Config, out io.Writer) *cli.Command {
	requireArg := func(c *cli.Context) (string, error) {
		passcode := strings.TrimSpace(c.Args().First())
		if passcode == "" {
			return "", cli.Exit("passcode argument is required", 1)
		}
		return passcode, nil
	}

	return &cli.Command{
		Name:  "passcode",
		Usage: "Add, list or delete passcodes",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Register a passcode (idempotent)",
				ArgsUsage: "<passcode>",
				Action: func(c *cli.Context) error {
					passcode, err := requireArg(c)
					if err != nil {
						return err
					}
					svc, done := passcodeService(uowFactory, cfg)
					defer done()

					res, err := svc.Register(c.Context, passcode)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					if res.Created {
						success.Fprintf(out, "Passcode '%s' added\n", passcode)
					} else {
						notice.Fprintf(out, "Passcode '%s' already exists; last login updated\n", passcode)
					}
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List registered passcodes",
				Action: func(c *cli.Context) error {
					svc, done := passcodeService(uowFactory, cfg)
					defer done()

					passcodes, err := svc.List(c.Context)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					for _, p := range passcodes {
						fmt.Fprintln(out, p)
					}
					info.Fprintf(out, "%d passcode(s)\n", len(passcodes))
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a passcode and, unless retention is on, its chat history",
				ArgsUsage: "<passcode>",
				Action: func(c *cli.Context) error {
					passcode, err := requireArg(c)
					if err != nil {
						return err
					}
					svc, done := passcodeService(uowFactory, cfg)
					defer done()

					if err := svc.Remove(c.Context, passcode); err != nil {
						if errors.Is(err, service.ErrPasscodeNotFound) {
							return cli.Exit(fmt.Sprintf("passcode '%s' not found", passcode), 1)
						}
						return cli.Exit(err.Error(), 1)
					}
					success.Fprintf(out, "Passcode '%s' deleted\n", passcode)
					return nil
				},
			},
		},
	}
}

func exportCmd(uowFactory unitofwork.RepositoryFactory, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export users and chat history to an .xlsx workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "bot_data.xlsx", Usage: "Output file"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("out")
			stats, err := export.SaveAs(c.Context, uowFactory, path)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			success.Fprintf(out, "Exported %d users and %d chat turns to %s\n", stats.Users, stats.Turns, path)
			return nil
		},
	}
}

func eventsCmd(cfg *config.Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Inspect domain events on NATS",
		Subcommands: []*cli.Command{
			{
				Name:  "watch",
				Usage: "Print events as they are published (Ctrl+C to stop)",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "type", Aliases: []string{"t"}, Usage: "Only these event types"},
				},
				Action: func(c *cli.Context) error {
					if cfg.App.NatsURL == "" {
						return cli.Exit("NATS_URL is not set", 1)
					}
					sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					defer sub.Close()

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					return sub.Watch(ctx, c.StringSlice("type"), func(_ context.Context, evt events.Event) error {
						info.Fprintf(out, "%s ", evt.Timestamp().Format("15:04:05"))
						fmt.Fprintf(out, "%s %v\n", evt.EventType(), evt.Payload())
						return nil
					})
				},
			},
		},
	}
}
