package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hansvb/planboard/internal/config"
	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/ops"
	"github.com/hansvb/planboard/internal/plan"
	"github.com/hansvb/planboard/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, src ops.RemoteSource) *cli.App {
	app := &cli.App{
		Name:    "planboard",
		Usage:   "Business planning dashboard core",
		Version: Version,
		Commands: []*cli.Command{
			ideaCmd(db, cfg, src),
			featureCmd(db, cfg),
			experimentCmd(db, cfg, src),
			tokensCmd(db, cfg, src),
			marketingCmd(db, src),
			classifyCmd(),
			intakeCmd(db),
			feedbackCmd(src),
			summaryCmd(db, cfg, src),
			syncCmd(src),
			serveCmd(db, cfg, src),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// listFlags are the shared list controls.
func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "Sort key: score|tokens|date|title|category"},
		&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category/type"},
		&cli.StringFlag{Name: "status", Usage: "Filter by status"},
		&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Substring filter on title and description"},
	}
}

func listQuery(c *cli.Context) ops.ListQuery {
	return ops.ListQuery{
		Sort:     c.String("sort"),
		Category: c.String("category"),
		Status:   c.String("status"),
		Query:    c.String("query"),
	}
}

// iceFlags are the shared Impact/Confidence/Ease score inputs.
func iceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "impact", Aliases: []string{"i"}, Required: true, Usage: "Impact score 1-10"},
		&cli.IntFlag{Name: "confidence", Aliases: []string{"C"}, Required: true, Usage: "Confidence score 1-10"},
		&cli.IntFlag{Name: "ease", Aliases: []string{"e"}, Required: true, Usage: "Ease score 1-10"},
	}
}

// requireID reads the positional id argument shared by status/delete
// style subcommands.
func requireID(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", outputError(errors.NewInvalidRequest("id argument is required"))
	}
	return c.Args().First(), nil
}

// ideaCmd creates the idea command group.
func ideaCmd(db *sql.DB, cfg *config.Config, src ops.RemoteSource) *cli.Command {
	return &cli.Command{
		Name:  "idea",
		Usage: "Manage scored business ideas",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Score and store a new idea",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Idea title"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Longer description (markdown)"},
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Required: true, Usage: "Idea category"},
				}, iceFlags()...),
				Action: func(c *cli.Context) error {
					output, err := ops.AddIdea(c.Context, db, ops.AddIdeaInput{
						Title:       c.String("title"),
						Description: c.String("description"),
						Category:    plan.IdeaCategory(c.String("category")),
						Impact:      c.Int("impact"),
						Confidence:  c.Int("confidence"),
						Ease:        c.Int("ease"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List ideas (local merged with remote)",
				Flags: listFlags(),
				Action: func(c *cli.Context) error {
					output, err := ops.ListIdeas(c.Context, db, cfg, src, listQuery(c))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "status",
				Usage:     "Update an idea's status",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Required: true, Usage: "New status: new|in-progress|completed"},
				},
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					output, err := ops.SetIdeaStatus(c.Context, db, src, id, plan.IdeaStatus(c.String("status")))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "promote",
				Usage:     "Mark an idea as promoted to an experiment",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "undo", Usage: "Clear the promoted flag instead"},
				},
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					output, err := ops.PromoteIdea(c.Context, db, src, id, !c.Bool("undo"))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a local idea",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					if err := ops.DeleteIdea(c.Context, db, src, id); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"deleted": true, "id": id})
				},
			},
		},
	}
}

// featureCmd creates the feature command group.
func featureCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "feature",
		Usage: "Manage the prioritized feature queue",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Score and store a new feature",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Feature title"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Longer description"},
					&cli.StringFlag{Name: "type", Required: true, Usage: "Feature type"},
					&cli.IntFlag{Name: "complexity", Required: true, Usage: "Complexity 1-10"},
					&cli.Float64Flag{Name: "urgency", Usage: "Urgency 0-10 (weighs into priority)"},
				}, iceFlags()...),
				Action: func(c *cli.Context) error {
					output, err := ops.AddFeature(c.Context, db, ops.AddFeatureInput{
						Title:       c.String("title"),
						Description: c.String("description"),
						Type:        plan.FeatureType(c.String("type")),
						Impact:      c.Int("impact"),
						Confidence:  c.Int("confidence"),
						Ease:        c.Int("ease"),
						Complexity:  c.Int("complexity"),
						Urgency:     c.Float64("urgency"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List the feature queue",
				Flags: listFlags(),
				Action: func(c *cli.Context) error {
					output, err := ops.ListFeatures(c.Context, db, cfg, listQuery(c))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "status",
				Usage:     "Update a feature's status",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Required: true, Usage: "New status: new|in-progress|blocked|completed"},
				},
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					output, err := ops.SetFeatureStatus(c.Context, db, id, plan.FeatureStatus(c.String("status")))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "progress",
				Usage:     "Update a feature's completion percentage",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "progress", Aliases: []string{"p"}, Required: true, Usage: "Progress 0-100"},
				},
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					output, err := ops.SetFeatureProgress(c.Context, db, id, c.Int("progress"))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a feature",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					if err := ops.DeleteFeature(c.Context, db, id); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"deleted": true, "id": id})
				},
			},
		},
	}
}

// experimentCmd creates the experiment command group.
func experimentCmd(db *sql.DB, cfg *config.Config, src ops.RemoteSource) *cli.Command {
	return &cli.Command{
		Name:  "experiment",
		Usage: "Manage the growth experiment board",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Score and store a new experiment",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Experiment title"},
					&cli.StringFlag{Name: "hypothesis", Usage: "What the experiment should prove"},
					&cli.StringFlag{Name: "type", Required: true, Usage: "Experiment type"},
					&cli.IntFlag{Name: "duration", Aliases: []string{"D"}, Usage: "Duration in days (default 7)"},
				}, iceFlags()...),
				Action: func(c *cli.Context) error {
					output, err := ops.AddExperiment(c.Context, db, ops.AddExperimentInput{
						Title:        c.String("title"),
						Hypothesis:   c.String("hypothesis"),
						Type:         plan.ExperimentType(c.String("type")),
						Impact:       c.Int("impact"),
						Confidence:   c.Int("confidence"),
						Ease:         c.Int("ease"),
						DurationDays: c.Int("duration"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List experiments (local merged with remote)",
				Flags: listFlags(),
				Action: func(c *cli.Context) error {
					output, err := ops.ListExperiments(c.Context, db, cfg, src, listQuery(c))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "status",
				Usage:     "Update an experiment's status",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Required: true, Usage: "New status: draft|queued|running|completed|failed|paused"},
				},
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					output, err := ops.SetExperimentStatus(c.Context, db, src, id, plan.ExperimentStatus(c.String("status")))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "result",
				Usage:     "Record a measured result and complete the experiment",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "lift", Required: true, Usage: "Measured lift percentage"},
					&cli.IntFlag{Name: "sample-size", Usage: "Sample size (optional)"},
				},
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					input := ops.RecordResultInput{ID: id, Lift: c.Float64("lift")}
					if c.IsSet("sample-size") {
						size := c.Int("sample-size")
						input.SampleSize = &size
					}
					output, err := ops.RecordExperimentResult(c.Context, db, src, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a local experiment",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					if err := ops.DeleteExperiment(c.Context, db, src, id); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"deleted": true, "id": id})
				},
			},
		},
	}
}

// tokensCmd creates the tokens command group.
func tokensCmd(db *sql.DB, cfg *config.Config, src ops.RemoteSource) *cli.Command {
	return &cli.Command{
		Name:  "tokens",
		Usage: "Track AI token usage and spend",
		Subcommands: []*cli.Command{
			{
				Name:  "log",
				Usage: "Log one work session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "Session date YYYY-MM-DD (default today)"},
					&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Required: true, Usage: "Model name"},
					&cli.IntFlag{Name: "input", Required: true, Usage: "Input token count"},
					&cli.IntFlag{Name: "output", Required: true, Usage: "Output token count"},
					&cli.StringFlag{Name: "tasks", Usage: "What the session worked on"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.LogTokenSession(c.Context, db, cfg, ops.LogSessionInput{
						Date:         c.String("date"),
						Model:        c.String("model"),
						InputTokens:  c.Int("input"),
						OutputTokens: c.Int("output"),
						Tasks:        c.String("tasks"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List sessions with totals",
				Flags: listFlags(),
				Action: func(c *cli.Context) error {
					output, err := ops.ListTokenSessions(c.Context, db, src, listQuery(c))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a local session",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					if err := ops.DeleteTokenSession(c.Context, db, src, id); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"deleted": true, "id": id})
				},
			},
		},
	}
}

// marketingCmd creates the marketing command group.
func marketingCmd(db *sql.DB, src ops.RemoteSource) *cli.Command {
	return &cli.Command{
		Name:  "marketing",
		Usage: "Track daily marketing KPIs",
		Subcommands: []*cli.Command{
			{
				Name:  "log",
				Usage: "Log one day of KPIs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "Day YYYY-MM-DD (default today)"},
					&cli.Float64Flag{Name: "spend", Usage: "Ad spend"},
					&cli.Float64Flag{Name: "revenue", Usage: "Revenue"},
					&cli.IntFlag{Name: "orders", Usage: "Order count"},
					&cli.IntFlag{Name: "sessions", Usage: "Site sessions"},
					&cli.Float64Flag{Name: "ctr", Usage: "Click-through rate percentage"},
					&cli.Float64Flag{Name: "cpa", Usage: "Cost per acquisition"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.LogMarketingDay(c.Context, db, ops.LogMarketingDayInput{
						Date:     c.String("date"),
						Spend:    c.Float64("spend"),
						Revenue:  c.Float64("revenue"),
						Orders:   c.Int("orders"),
						Sessions: c.Int("sessions"),
						CTR:      c.Float64("ctr"),
						CPA:      c.Float64("cpa"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "overview",
				Usage: "Show the merged KPI log with totals and remote notes",
				Flags: listFlags(),
				Action: func(c *cli.Context) error {
					output, err := ops.MarketingOverview(c.Context, db, src, listQuery(c))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a local KPI row",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireID(c)
					if err != nil {
						return err
					}
					if err := ops.DeleteMarketingDay(c.Context, db, src, id); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"deleted": true, "id": id})
				},
			},
		},
	}
}

// classifyCmd creates the classify command (dry-run intake).
func classifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Classify a message without storing anything (reads stdin if no argument)",
		ArgsUsage: "[text]",
		Action: func(c *cli.Context) error {
			text, err := messageText(c)
			if err != nil {
				return err
			}
			output, err := ops.ClassifyMessage(text)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// intakeCmd creates the intake command.
func intakeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "intake",
		Usage:     "Classify a message and store the draft feature or experiment (reads stdin if no argument)",
		ArgsUsage: "[text]",
		Action: func(c *cli.Context) error {
			text, err := messageText(c)
			if err != nil {
				return err
			}
			output, err := ops.IntakeMessage(c.Context, db, text)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// feedbackCmd creates the feedback command.
func feedbackCmd(src ops.RemoteSource) *cli.Command {
	return &cli.Command{
		Name:  "feedback",
		Usage: "Classify remote feedback notes into draft entities",
		Action: func(c *cli.Context) error {
			drafts, err := ops.ReviewFeedback(c.Context, src)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"drafts": drafts})
		},
	}
}

// summaryCmd creates the summary command.
func summaryCmd(db *sql.DB, cfg *config.Config, src ops.RemoteSource) *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Show aggregate statistics across all boards",
		Action: func(c *cli.Context) error {
			output, err := ops.BoardSummary(c.Context, db, cfg, src)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// syncCmd creates the sync command.
func syncCmd(src ops.RemoteSource) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Fetch the remote snapshot immediately and report counts",
		Action: func(c *cli.Context) error {
			return outputJSON(ops.Sync(c.Context, src))
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config, src ops.RemoteSource) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8173, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, src, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// messageText reads the intake text from the first argument, falling
// back to stdin when piped.
func messageText(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}
	if stdinHasData() {
		text, err := readStdin()
		if err != nil {
			return "", outputError(errors.NewInternal(err))
		}
		return text, nil
	}
	return "", outputError(errors.NewInvalidRequest("text is required (argument or stdin)"))
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if boardErr, ok := err.(*errors.BoardError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", boardErr.Code, boardErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
