package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/llmclean/internal/archive"
	"github.com/suykerbuyk/llmclean/internal/check"
	"github.com/suykerbuyk/llmclean/internal/clean"
	"github.com/suykerbuyk/llmclean/internal/completion"
	"github.com/suykerbuyk/llmclean/internal/config"
	"github.com/suykerbuyk/llmclean/internal/index"
	"github.com/suykerbuyk/llmclean/internal/process"
	"github.com/suykerbuyk/llmclean/internal/render"
	"github.com/suykerbuyk/llmclean/internal/stats"
	"github.com/suykerbuyk/llmclean/internal/watch"
)

// outputFlags are shared by the commands that print a cleaned result.
type outputFlags struct {
	noComments bool
	format     string
	output     string
	raw        bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noComments, "no-comments", false, "Strip comments from the extracted code")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: text, json, yaml, markdown (default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "Include the raw input in json and yaml output")
}

// openHistory returns nil when history is disabled.
func (a *app) openHistory() (*index.Index, error) {
	if !a.cfg.History.Enabled {
		return nil, nil
	}
	idx, err := index.Open(a.cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return idx, nil
}

func (a *app) newProcessor(idx *index.Index, f *outputFlags, opts ...process.Option) (*process.Processor, error) {
	cfg := a.cfg
	opts = append(opts, process.WithLogger(a.logger))
	if idx != nil {
		opts = append(opts, process.WithIndex(idx))
	}
	if f != nil {
		if f.noComments {
			cfg.PreserveComments = false
		}
		if f.format != "" {
			format, err := render.ParseFormat(f.format)
			if err != nil {
				return nil, err
			}
			opts = append(opts, process.WithFormat(format))
		}
		opts = append(opts, process.WithRaw(f.raw))
	}
	return process.New(cfg, opts...)
}

// readInput reads a completion from path, or stdin for "" and "-".
func readInput(cmd *cobra.Command, args []string) (data []byte, name string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "stdin-" + uuid.NewString()[:8] + ".txt", nil
	}
	data, err = archive.ReadInput(args[0])
	if err != nil {
		return nil, "", err
	}
	return data, archive.BaseName(args[0]), nil
}

func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (a *app) cleanCmd() *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "clean [file|-]",
		Short: "Clean one completion from a file or stdin",
		Long: `Reads a raw model completion (plain or .zst), extracts the primary code
payload and prints it. Reasoning, analysis and thinking tags are reported
in the json, yaml and markdown formats.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			idx, err := a.openHistory()
			if err != nil {
				a.logger.Warn("history unavailable", zap.Error(err))
			}
			if idx != nil {
				defer idx.Close()
			}

			p, err := a.newProcessor(idx, &f)
			if err != nil {
				return err
			}

			res, err := p.Reply(cmd.Context(), string(data), name)
			if err != nil {
				return err
			}

			out, err := p.Render(res.Result)
			if err != nil {
				return err
			}
			return writeOutput(cmd, f.output, out)
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file|-]",
		Short: "Print the detected content type and the rule that decided it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(string(data)) == "" {
				return clean.ErrEmptyInput
			}
			ct, rule := clean.ClassifyRule(string(data))
			if rule == "" {
				rule = "none"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ct, rule)
			return nil
		},
	}
}

func (a *app) batchCmd() *cobra.Command {
	var (
		f     outputFlags
		jobs  int
		force bool
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Clean every completion file under a directory",
		Long: `Discovers .txt, .md, .out and .llm files (optionally .zst compressed)
under dir and writes <name>.clean<ext> next to each one, or into the
configured output dir. Inputs already in the history are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.openHistory()
			if err != nil {
				return err
			}
			if idx != nil {
				defer idx.Close()
			}

			p, err := a.newProcessor(idx, &f, process.WithForce(force))
			if err != nil {
				return err
			}

			results, err := p.Dir(cmd.Context(), args[0], jobs)
			out := cmd.OutOrStdout()
			var failed int
			for _, r := range results {
				switch {
				case r.Err != nil:
					failed++
					fmt.Fprintf(out, "failed: %v\n", r.Err)
				case r.Skipped:
					fmt.Fprintf(out, "skipped: %s (%s)\n", r.Source, r.Reason)
				default:
					fmt.Fprintf(out, "wrote: %s (%s)\n", r.OutputPath, r.Result.ContentType)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return err
		},
	}
	f.register(cmd)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "Files processed concurrently")
	cmd.Flags().BoolVar(&force, "force", false, "Reprocess files already in the history")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Clean completion files as they appear or change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			idx, err := a.openHistory()
			if err != nil {
				return err
			}
			if idx != nil {
				defer idx.Close()
			}

			p, err := a.newProcessor(idx, &f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			handle := func(ctx context.Context, path string) {
				res, err := p.File(ctx, path)
				switch {
				case errors.Is(err, clean.ErrEmptyInput):
					a.logger.Debug("empty completion", zap.String("path", path))
				case err != nil:
					a.logger.Warn("process failed", zap.String("path", path), zap.Error(err))
				case !res.Skipped:
					fmt.Fprintf(out, "wrote: %s (%s)\n", res.OutputPath, res.Result.ContentType)
				}
			}

			debounce := time.Duration(a.cfg.Watch.DebounceMS) * time.Millisecond
			w, err := watch.New(args[0], debounce, handle, a.logger)
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()

			select {
			case <-ctx.Done():
			case <-w.Done():
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) askCmd() *cobra.Command {
	var f outputFlags
	cmd := &cobra.Command{
		Use:   "ask <prompt...>",
		Short: "Ask the configured model and print the cleaned reply",
		Long: `Sends the prompt to the OpenAI-compatible endpoint in the [completion]
config section, then cleans the reply like the clean command. The API key
is read from the environment variable named by completion.api_key_env.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := completion.Complete(cmd.Context(), a.cfg.Completion, strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.logger.Debug("completion received",
				zap.String("model", reply.Model),
				zap.Int("prompt_tokens", reply.PromptTokens),
				zap.Int("output_tokens", reply.OutputTokens),
			)

			idx, err := a.openHistory()
			if err != nil {
				a.logger.Warn("history unavailable", zap.Error(err))
			}
			if idx != nil {
				defer idx.Close()
			}

			p, err := a.newProcessor(idx, &f)
			if err != nil {
				return err
			}
			res, err := p.Reply(cmd.Context(), reply.Text, "ask-"+uuid.NewString()+".txt")
			if err != nil {
				return fmt.Errorf("model reply: %w", err)
			}

			out, err := p.Render(res.Result)
			if err != nil {
				return err
			}
			return writeOutput(cmd, f.output, out)
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently processed completions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.History.Enabled {
				return errors.New("history is disabled in config")
			}
			idx, err := a.openHistory()
			if err != nil {
				return err
			}
			defer idx.Close()

			entries, err := idx.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no history")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tTYPE\tTAGS\tSOURCE\tOUTPUT")
			for _, e := range entries {
				tags := strings.Join(e.AuxTags, ",")
				if tags == "" {
					tags = "-"
				}
				outPath := e.OutputPath
				if outPath == "" {
					outPath = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					e.ContentType, tags,
					config.CompressHome(e.Source), config.CompressHome(outPath))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries (0 for all)")
	return cmd
}

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file (at --config when given)",
		Args:  cobra.NoArgs,
		// The config may not exist yet.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				path    string
				created bool
				err     error
			)
			if a.cfgPath != "" {
				path, created, err = config.WriteDefaultTo(a.cfgPath)
			} else {
				path, created, err = config.WriteDefault()
			}
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created: %s\n", config.CompressHome(path))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "exists: %s\n", config.CompressHome(path))
			}
			return nil
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	var contentType string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the completion history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.History.Enabled {
				return errors.New("history is disabled in config")
			}
			idx, err := a.openHistory()
			if err != nil {
				return err
			}
			defer idx.Close()

			entries, err := idx.Recent(cmd.Context(), 0)
			if err != nil {
				return err
			}
			s := stats.Compute(entries, contentType)
			fmt.Fprint(cmd.OutOrStdout(), stats.Format(s, contentType))
			return nil
		},
	}
	cmd.Flags().StringVarP(&contentType, "type", "t", "", "Only count completions of this content type")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Diagnose config, state and history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := check.Run(cmd.Context(), a.cfg, a.cfgPath)
			fmt.Fprint(cmd.OutOrStdout(), report.Format())
			if report.HasFailures() {
				return errors.New("check found failures")
			}
			return nil
		},
	}
}
