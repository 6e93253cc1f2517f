package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hawky-ai/hawkd/internal/errors"
	"github.com/hawky-ai/hawkd/internal/feed"
	"github.com/hawky-ai/hawkd/internal/router"
	"github.com/hawky-ai/hawkd/internal/screenshot"
	"github.com/hawky-ai/hawkd/internal/web"
	"github.com/hawky-ai/hawkd/internal/ws"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(st *appState) *cli.App {
	app := &cli.App{
		Name:    "hawkd",
		Usage:   "Local capture host for the Hawky extension",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(st),
			listCmd(st),
			deleteCmd(st),
			exportCmd(st),
			statusCmd(st),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command: the extension-facing WebSocket/HTTP
// server plus the local feed pages.
func serveCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the extension-facing server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (overrides config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (overrides config)"},
			&cli.DurationFlag{Name: "ideas-interval", Value: 5 * time.Minute, Usage: "Refresh interval for the ideas cache"},
		},
		Action: func(c *cli.Context) error {
			bind := st.cfg.Bind
			if v := c.String("bind"); v != "" {
				bind = v
			}
			port := st.cfg.Port
			if v := c.Int("port"); v != 0 {
				port = v
			}

			cooldown := time.Duration(st.cfg.DownloadCooldownMs) * time.Millisecond
			rt := router.New(router.Deps{
				Store:           st.store,
				Processor:       st.proc,
				Ideas:           st.ideas,
				Cropper:         screenshot.PNGCropper{},
				Downloader:      screenshot.NewDownloader(filepath.Join(st.baseDir, "screenshots"), screenshot.NewCooldown(cooldown), st.log),
				CaptureCooldown: screenshot.NewCooldown(cooldown),
				SavedPostsURL:   "https://" + st.cfg.SessionDomain + "/saved-posts",
			}, st.cfg, st.log)

			mux := http.NewServeMux()
			ws.NewServer(rt, st.log).Register(mux)
			web.NewServer(st.store, Version, st.log).Register(mux)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if st.cfg.IdeasURL != "" {
				go st.ideas.Run(ctx, c.Duration("ideas-interval"))
			}

			addr := net.JoinHostPort(bind, strconv.Itoa(port))
			srv := &http.Server{
				Addr:         addr,
				Handler:      web.SecurityHeaders(mux),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 0, // WebSocket connections stay open
			}

			errCh := make(chan error, 1)
			go func() {
				st.log.Info().Str("addr", addr).Msg("hawkd listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return cli.Exit(err.Error(), 1)
			case <-ctx.Done():
			}

			st.log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// listCmd creates the list command.
func listCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List feed items, newest first",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "saved", Aliases: []string{"s"}, Usage: "List the saved collection instead of the transient feed"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum number of items (0 = all)"},
		},
		Action: func(c *cli.Context) error {
			target := feed.Transient
			if c.Bool("saved") {
				target = feed.Saved
			}

			items := st.store.List(target)
			if limit := c.Int("limit"); limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			return outputJSON(items)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a saved post by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}
			id := c.Args().First()

			if !st.store.DeleteByID(id) {
				return outputError(errors.NewNotFound(id))
			}

			return outputJSON(map[string]any{"status": "success", "id": id})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the saved collection as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"o"}, Usage: "Write to file instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			items := st.store.List(feed.Saved)

			if path := c.String("path"); path != "" {
				data, err := json.MarshalIndent(items, "", "  ")
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if err := os.WriteFile(path, data, 0600); err != nil {
					return outputError(errors.NewInternal(err))
				}
				return outputJSON(map[string]any{
					"status": "success",
					"path":   path,
					"count":  len(items),
				})
			}

			return outputJSON(items)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Report feed occupancy and storage location",
		Action: func(c *cli.Context) error {
			loggedIn := false
			if st.ideas != nil {
				loggedIn, _ = st.ideas.LoginStatus()
			}

			return outputJSON(map[string]any{
				"baseDir":       st.baseDir,
				"feedItems":     st.store.Len(feed.Transient),
				"feedCapacity":  st.cfg.FeedCapacity,
				"savedPosts":    st.store.Len(feed.Saved),
				"savedCapacity": st.cfg.SavedCapacity,
				"isLoggedIn":    loggedIn,
			})
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if hErr, ok := err.(*errors.HawkError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", hErr.Code, hErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
