package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fsnotify/fsnotify"

	"scad-studio-be/internal/dto"
	"scad-studio-be/internal/pkg/logger"
)

// FileEventsTopic carries file-change events from the watcher to the
// websocket consumer over the in-process event bus.
const FileEventsTopic = "SCAD_FILE_EVENTS"

// debounce window: OpenSCAD-editing tools tend to emit bursts of writes for
// a single save.
const watchDebounce = 200 * time.Millisecond

// IWatcherService watches the data directory and publishes change events.
type IWatcherService interface {
	Watch(ctx context.Context) error
}

type watcherService struct {
	dataDir string
	pubSub  *gochannel.GoChannel
	logger  logger.ILogger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func NewWatcherService(dataDir string, pubSub *gochannel.GoChannel, sysLogger logger.ILogger) IWatcherService {
	return &watcherService{
		dataDir: dataDir,
		pubSub:  pubSub,
		logger:  sysLogger,
		pending: make(map[string]*time.Timer),
	}
}

// Watch blocks until ctx is done or the underlying watcher fails.
func (s *watcherService) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.dataDir); err != nil {
		return err
	}

	s.logger.Info("Watcher", "Watching data directory", map[string]interface{}{
		"dir": s.dataDir,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".scad") {
				continue
			}
			s.debouncePublish(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Watcher", "Watch error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func (s *watcherService) debouncePublish(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	op := opString(event.Op)

	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.pending[name]; ok {
		timer.Stop()
	}
	s.pending[name] = time.AfterFunc(watchDebounce, func() {
		s.mu.Lock()
		delete(s.pending, name)
		s.mu.Unlock()
		s.publish(name, op)
	})
}

func (s *watcherService) publish(name, op string) {
	payload, err := json.Marshal(dto.FileChangeEvent{
		Type: "file_change",
		Name: name,
		Op:   op,
	})
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(FileEventsTopic, msg); err != nil {
		s.logger.Warn("Watcher", "Failed to publish file event", map[string]interface{}{
			"file":  name,
			"error": err.Error(),
		})
	}
}

func opString(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return "chmod"
	}
}
