// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/bookshelf-qa/internal/corpus"
	"github.com/pdiddy/bookshelf-qa/internal/index"
	"github.com/pdiddy/bookshelf-qa/internal/orchestrator"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Ask questions interactively",
	Long: `Shell reads one question per line and answers each against the same
index. With --watch (or corpus.watch) the corpus directory is watched and the
index is rebuilt and swapped in when book files change; questions in flight
finish against the index they started with.

Lines starting with ':' are commands:
  :book <id>    restrict questions to one book
  :library      search the whole library again
  :lang <code>  answer in this language
  :quit         leave the shell`,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().Bool("watch", false, "rebuild the index when corpus files change")
	shellCmd.Flags().String("lang", "en", "language for answers")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	svc, live, cl, err := newService()
	if err != nil {
		return err
	}
	defer cl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := &lockedWriter{w: cmd.OutOrStdout()}
	watch, _ := cmd.Flags().GetBool("watch")
	if watch || cfg.Corpus.Watch {
		go func() {
			err := corpus.Watch(ctx, cfg.Corpus.Dir, cfg.Corpus.Debounce, logger, func() {
				reloadCorpus(live, out)
			})
			if err != nil {
				logger.Error("corpus watcher stopped", zap.Error(err))
			}
		}()
	}

	lang, _ := cmd.Flags().GetString("lang")
	sess := &session{svc: svc, out: out, req: types.Request{Scope: types.ScopeLibrary, TargetLanguage: lang}}
	return sess.run(ctx, cmd.InOrStdin())
}

// reloadCorpus rebuilds the index from disk. A corpus that fails to load
// leaves the current index in service.
func reloadCorpus(live *index.Live, out io.Writer) {
	books, err := corpus.LoadDir(cfg.Corpus.Dir, logger)
	if err != nil {
		logger.Warn("corpus reload failed; keeping current index", zap.Error(err))
		return
	}
	report, err := live.Rebuild(books, logger)
	if err != nil {
		logger.Warn("corpus reload failed; keeping current index", zap.Error(err))
		return
	}
	fmt.Fprintf(out, "\nreloaded: %d book(s), %d paragraph(s), %d skipped\n", report.Books, report.Paragraphs, len(report.Skipped))
}

// lockedWriter serializes writes from the session and the reload watcher.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// session holds the shell's sticky scope and language between questions.
type session struct {
	svc *orchestrator.Service
	out io.Writer
	req types.Request
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, s.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, ":"):
			if quit := s.command(line); quit {
				return nil
			}
		default:
			s.ask(ctx, line)
		}
	}
}

func (s *session) prompt() string {
	if s.req.Scope == types.ScopeBook {
		return fmt.Sprintf("[%s %s]> ", s.req.BookID, s.req.TargetLanguage)
	}
	return fmt.Sprintf("[%s]> ", s.req.TargetLanguage)
}

// command applies a ':' command and reports whether the shell should exit.
func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":library":
		s.req.Scope, s.req.BookID = types.ScopeLibrary, ""
	case ":book":
		if len(fields) < 2 {
			fmt.Fprintln(s.out, "usage: :book <id>")
			break
		}
		s.req.Scope, s.req.BookID = types.ScopeBook, fields[1]
	case ":lang":
		if len(fields) < 2 {
			fmt.Fprintln(s.out, "usage: :lang <code>")
			break
		}
		s.req.TargetLanguage = fields[1]
	default:
		fmt.Fprintf(s.out, "unknown command %s\n", fields[0])
	}
	return false
}

func (s *session) ask(ctx context.Context, question string) {
	req := s.req
	req.Message = question

	resp, err := s.svc.Answer(ctx, req)
	switch {
	case errors.Is(err, orchestrator.ErrInvalidRequest), errors.Is(err, orchestrator.ErrInvalidScope):
		fmt.Fprintf(s.out, "invalid question: %v\n", err)
	case err != nil:
		fmt.Fprintf(s.out, "error: %v\n", err)
	default:
		printResponse(s.out, resp)
	}
}
