// Package lifecycle coordinates the transition from serving to terminated.
// One Coordinator per process: it subscribes to termination signals, accepts
// fatal-error reports from the outermost scopes of the application, and runs
// the cleanup sequence exactly once, bounded by a forced-exit deadline.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"groundwork/internal/logger"
)

// Listener is the serving side of shutdown: stop accepting new connections
// and drain in-flight requests until ctx expires.
type Listener interface {
	StopAccepting(ctx context.Context) error
}

// Storage is a connection handle released at the end of shutdown.
type Storage interface {
	Disconnect() error
}

// Coordinator owns the process's shutdown sequence. Construct it in main and
// pass it by reference to anything that needs to query shutdown status;
// nothing here is package-global.
type Coordinator struct {
	listener Listener
	storage  Storage
	logger   *logger.Logger

	gracePeriod  time.Duration // hard bound on total shutdown latency
	drainTimeout time.Duration // listener's in-flight drain budget

	mu         sync.Mutex
	registered bool
	inProgress bool
	deadline   *time.Timer

	sigCh     chan os.Signal
	stopWatch chan struct{}

	// exit is os.Exit in production. Tests swap it to observe the status code
	// instead of killing the test process.
	exit func(int)
}

// New creates a coordinator for the given listener and storage handles.
// gracePeriod bounds the whole shutdown; drainTimeout bounds the listener
// drain and must be shorter so the storage release still fits.
func New(listener Listener, storage Storage, log *logger.Logger, gracePeriod, drainTimeout time.Duration) *Coordinator {
	return &Coordinator{
		listener:     listener,
		storage:      storage,
		logger:       log,
		gracePeriod:  gracePeriod,
		drainTimeout: drainTimeout,
		exit:         os.Exit,
	}
}

// Install subscribes to the process termination signals. Calling Install
// again while subscribed has no effect, so bootstrap code that runs more than
// once (dev-mode reloads) cannot stack duplicate handlers.
func (c *Coordinator) Install() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registered {
		return
	}
	c.registered = true

	c.sigCh = make(chan os.Signal, 1)
	c.stopWatch = make(chan struct{})
	signal.Notify(c.sigCh, shutdownSignals...)

	go c.watch(c.sigCh, c.stopWatch)
}

// Uninstall detaches the signal subscription. Exists so tests can install and
// tear down coordinators repeatedly within one process; production code never
// calls it.
func (c *Coordinator) Uninstall() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.registered {
		return
	}
	c.registered = false

	signal.Stop(c.sigCh)
	close(c.stopWatch)
	c.sigCh = nil
	c.stopWatch = nil
}

// watch forwards received signals into the shutdown path. Repeated signals
// are absorbed here; the inProgress guard makes them no-ops.
func (c *Coordinator) watch(sigCh <-chan os.Signal, stop <-chan struct{}) {
	for {
		select {
		case sig := <-sigCh:
			c.shutdown(fmt.Sprintf("received signal %v", sig))
		case <-stop:
			return
		}
	}
}

// Fatal reports an unrecoverable error from the application's outermost
// scope (a listener failure, an escaped panic) and runs the same shutdown
// sequence as a termination signal. All fatal conditions are treated alike;
// the exit status depends only on how cleanup goes, not on what went wrong.
func (c *Coordinator) Fatal(reason string) {
	c.shutdown("fatal: " + reason)
}

// InProgress reports whether a shutdown sequence has started.
func (c *Coordinator) InProgress() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inProgress
}

// shutdown runs the cleanup sequence: arm the forced-exit deadline, drain the
// listener, release storage, disarm the deadline, exit. At most one sequence
// runs per process lifetime; later triggers return immediately.
func (c *Coordinator) shutdown(reason string) {
	c.mu.Lock()
	if c.inProgress {
		c.mu.Unlock()
		return
	}
	c.inProgress = true
	c.mu.Unlock()

	c.logger.Info("shutdown: %s", reason)

	// Independent watcher: if cleanup hangs past the grace period, force a
	// failure exit no matter where the main path is stuck.
	deadline := time.AfterFunc(c.gracePeriod, func() {
		c.logger.Error("shutdown: grace period of %s exceeded, forcing exit", c.gracePeriod)
		c.exit(1)
	})
	c.mu.Lock()
	c.deadline = deadline
	c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("shutdown: panic during cleanup: %v", r)
			deadline.Stop()
			c.exit(1)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), c.drainTimeout)
	defer cancel()
	if err := c.listener.StopAccepting(ctx); err != nil {
		c.logger.Warn("shutdown: listener drain: %v", err)
	}

	// Best effort: a failed disconnect must not prevent process exit.
	if err := c.storage.Disconnect(); err != nil {
		c.logger.Warn("shutdown: storage disconnect failed: %v", err)
	}

	deadline.Stop()
	c.logger.Info("shutdown: cleanup complete")
	c.exit(0)
}
