// Command wordcount counts the words of text files, one stream per file.
package main

import (
	"bufio"
	"cmp"
	"context"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"unicode"

	"github.com/cockroachdb/pebble"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"github.com/birdayz/rstreams"
	rlog "github.com/birdayz/rstreams/pkg/log"
	"github.com/birdayz/rstreams/rgraph"
	"github.com/birdayz/rstreams/rpebble"
)

func main() {
	top := flag.Int("top", 10, "number of words to print, 0 for all")
	dbDir := flag.String("db", "", "pebble directory to store the counts in")
	jsonLogs := flag.Bool("json", false, "log through zerolog instead of the terminal handler")
	flag.Parse()

	log := slog.New(tint.NewHandler(os.Stderr, nil))
	if *jsonLogs {
		log = rlog.NewSlog(rlog.New())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config{files: flag.Args(), top: *top, dbDir: *dbDir}
	if err := run(ctx, log, cfg, os.Stdout); err != nil {
		log.Error("wordcount failed", "error", err)
		os.Exit(1)
	}
}

type config struct {
	files []string
	top   int
	dbDir string
}

type wordCount struct {
	word  string
	count int
}

func run(ctx context.Context, log *slog.Logger, cfg config, out io.Writer) error {
	if len(cfg.files) == 0 {
		return fmt.Errorf("no input files")
	}

	e, err := rstreams.New(rstreams.WithLog(log))
	if err != nil {
		return err
	}

	perFile := make([]map[string]int, len(cfg.files))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, name := range cfg.files {
		eg.Go(func() error {
			counts, err := countFile(egCtx, e, name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			log.Debug("counted file", "file", name, "distinct", len(counts))
			perFile[i] = counts
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	ranked := rank(perFile)
	if cfg.dbDir != "" {
		n, err := persist(ctx, e, cfg.dbDir, ranked)
		if err != nil {
			return err
		}
		log.Info("stored counts", "dir", cfg.dbDir, "words", n)
	}

	if cfg.top > 0 && len(ranked) > cfg.top {
		ranked = ranked[:cfg.top]
	}
	for _, wc := range ranked {
		if _, err := fmt.Fprintf(out, "%d\t%s\n", wc.count, wc.word); err != nil {
			return err
		}
	}
	return nil
}

// words turns lines into normalized words.
func words() rgraph.Graph {
	return rgraph.Must(
		rgraph.FlatMapIterable(func(line string) (iter.Seq[string], error) {
			return strings.FieldsSeq(line), nil
		}),
		rgraph.Map(rgraph.Lift(normalize)),
		rgraph.FilterFunc(func(w string) bool { return w != "" }),
	)
}

func normalize(w string) string {
	w = strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.ToLower(w)
}

func countFile(ctx context.Context, e *rstreams.Engine, name string) (map[string]int, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src := rgraph.Must(rgraph.FromSeq2(lines(f)))
	g, err := rgraph.Join(src, words())
	if err != nil {
		return nil, err
	}
	g, err = rgraph.Append(g, rgraph.Collect(rgraph.GroupCount[string]()))
	if err != nil {
		return nil, err
	}
	return rstreams.Run[map[string]int](ctx, e, g)
}

func lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if !yield(sc.Text(), nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield("", err)
		}
	}
}

// rank merges the per-file counts, most frequent first.
func rank(perFile []map[string]int) []wordCount {
	total := map[string]int{}
	for _, counts := range perFile {
		for w, n := range counts {
			total[w] += n
		}
	}
	ranked := make([]wordCount, 0, len(total))
	for w, n := range total {
		ranked = append(ranked, wordCount{word: w, count: n})
	}
	slices.SortFunc(ranked, func(a, b wordCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return strings.Compare(a.word, b.word)
	})
	return ranked
}

func persist(ctx context.Context, e *rstreams.Engine, dir string, ranked []wordCount) (int, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return 0, err
	}
	defer db.Close()

	g := rgraph.Must(
		rgraph.Of(ranked...),
		rpebble.Sink(db, func(wc wordCount) ([]byte, []byte, error) {
			return []byte(wc.word), []byte(strconv.Itoa(wc.count)), nil
		}),
	)
	return rstreams.Run[int](ctx, e, g)
}
