package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/bulkqueue/pkg/log"
)

const (
	spoolExt   = ".ndjson"
	doneSuffix = ".done"
)

// DefaultDebounce is the quiet period after the last write event before a
// spool file is ingested.
const DefaultDebounce = 100 * time.Millisecond

// Spool ingests *.ndjson files dropped into a directory. Each file is read
// once and renamed to <name>.ndjson.done. Producers should write under
// another name and rename into place.
type Spool struct {
	dir      string
	q        Adder
	defaults Defaults
	logger   log.Logger
	debounce time.Duration
}

// NewSpool creates a Spool watching dir. A zero debounce uses DefaultDebounce.
func NewSpool(dir string, q Adder, defs Defaults, logger log.Logger, debounce time.Duration) *Spool {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Spool{
		dir:      dir,
		q:        q,
		defaults: defs,
		logger:   log.With(logger, log.String("component", "spool"), log.String("dir", dir)),
		debounce: debounce,
	}
}

// Run ingests files already present, then watches for new ones until ctx is
// cancelled.
func (s *Spool) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	s.logger.Info("watching spool directory")

	if err := s.ingestExisting(ctx); err != nil {
		return err
	}

	pending := make(map[string]*time.Timer)
	ready := make(chan string, 16)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSpoolFile(event.Name) || event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if t, ok := pending[event.Name]; ok {
				t.Reset(s.debounce)
				continue
			}
			name := event.Name
			pending[name] = time.AfterFunc(s.debounce, func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})

		case name := <-ready:
			delete(pending, name)
			s.ingestFile(ctx, name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", log.Err(err))
		}
	}
}

func (s *Spool) ingestExisting(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read spool dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && isSpoolFile(e.Name()) {
			names = append(names, filepath.Join(s.dir, e.Name()))
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if ctx.Err() != nil {
			return nil
		}
		s.ingestFile(ctx, name)
	}
	return nil
}

// ingestFile reads one spool file into the queue and marks it done.
func (s *Spool) ingestFile(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		// A rename event for the source side, or a file already ingested.
		if !os.IsNotExist(err) {
			s.logger.Error("open spool file", log.String("file", path), log.Err(err))
		}
		return
	}

	st, err := ReadNDJSON(ctx, f, s.q, s.defaults, s.logger)
	f.Close()
	if err != nil {
		s.logger.Error("ingest spool file", log.String("file", path), log.Err(err))
		return
	}

	if err := os.Rename(path, path+doneSuffix); err != nil {
		s.logger.Error("mark spool file done", log.String("file", path), log.Err(err))
		return
	}

	s.logger.Info("spool file ingested",
		log.String("file", filepath.Base(path)),
		log.Int("added", st.Added),
		log.Int("skipped", st.Skipped),
		log.Int("failed", st.Failed),
	)
}

func isSpoolFile(name string) bool {
	return strings.HasSuffix(name, spoolExt)
}
