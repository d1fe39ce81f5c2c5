package dictionary

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/bastiangx/wordassist/pkg/eventloop"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// Replacer swaps the word list of a provider.
type Replacer interface {
	Replace(words []string)
}

// Watcher reloads a dictionary file or directory when it changes and hands
// the new words to a Replacer on the event loop.
type Watcher struct {
	path     string
	isDir    bool
	target   Replacer
	poster   eventloop.Poster
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *log.Logger

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long to wait for writes to settle before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithWatchLogger(l *log.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher watches path. A file is watched through its directory, so
// editors that replace the file on save are noticed too.
func NewWatcher(path string, target Replacer, poster eventloop.Poster, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", abs)
	}
	isDir := info.IsDir()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	dir := abs
	if !isDir {
		dir = filepath.Dir(abs)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", dir)
	}

	w := &Watcher{
		path:     abs,
		isDir:    isDir,
		target:   target,
		poster:   poster,
		watcher:  fw,
		debounce: defaultDebounce,
		logger:   logger.New("dict"),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching in the background.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("dictionary changed", "file", event.Name, "op", event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("dictionary watcher error", "err", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Clean(event.Name)
	if w.isDir {
		ext := filepath.Ext(name)
		return ext == ".txt" || ext == ".bin"
	}
	return name == w.path
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}

	words, err := Load(w.path)
	if err != nil {
		w.logger.Error("dictionary reload failed, keeping the current words", "path", w.path, "err", err)
		return
	}
	if !w.poster.Post(func() { w.target.Replace(words) }) {
		return
	}
	w.logger.Info("dictionary reloaded", "path", w.path, "words", len(words))
}
