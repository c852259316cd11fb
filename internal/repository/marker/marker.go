package marker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"
	"github.com/spf13/afero"

	"github.com/oshokin/version-stamp/internal/logger"
)

const (
	// DefaultFilename is the marker file name inside the working directory.
	DefaultFilename = ".version-stamp.lock"

	// DefaultLifetime is the age after which a marker is ignored regardless of its owner.
	DefaultLifetime = 2 * time.Minute

	// filePermissions is the permission of the marker file.
	filePermissions = 0o644

	// acquireAttempts bounds the create, takeover, create cycle.
	acquireAttempts = 2
)

// ErrAlreadyRunning is returned when another live process holds the marker.
var ErrAlreadyRunning = errors.New("another version-stamp run holds the marker")

// AliveFunc reports whether a process with the given PID is running.
type AliveFunc func(pid int) (bool, error)

// Marker is a PID marker file on an afero filesystem.
type Marker struct {
	// fs is the filesystem holding the marker.
	fs afero.Fs
	// path is the marker file location.
	path string
	// lifetime is the age after which a marker is stale.
	lifetime time.Duration
	// now returns the current time.
	now func() time.Time
	// alive checks whether the recorded owner still runs.
	alive AliveFunc
	// pid is written into the marker on Acquire.
	pid int
}

// Option configures a Marker.
type Option func(*Marker)

// WithLifetime overrides DefaultLifetime.
func WithLifetime(lifetime time.Duration) Option {
	return func(m *Marker) {
		if lifetime > 0 {
			m.lifetime = lifetime
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Marker) {
		if now != nil {
			m.now = now
		}
	}
}

// WithAliveFunc overrides the process table lookup.
func WithAliveFunc(alive AliveFunc) Option {
	return func(m *Marker) {
		if alive != nil {
			m.alive = alive
		}
	}
}

// WithPID overrides the PID recorded in the marker.
func WithPID(pid int) Option {
	return func(m *Marker) {
		m.pid = pid
	}
}

// New creates a Marker at path.
func New(fs afero.Fs, path string, opts ...Option) *Marker {
	m := &Marker{
		fs:       fs,
		path:     filepath.Clean(path),
		lifetime: DefaultLifetime,
		now:      time.Now,
		alive:    ProcessAlive,
		pid:      os.Getpid(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Path returns the marker file location.
func (m *Marker) Path() string {
	return m.path
}

// Acquire creates the marker exclusively, taking over a stale one.
func (m *Marker) Acquire(ctx context.Context) error {
	for attempt := 0; attempt < acquireAttempts; attempt++ {
		err := m.create()
		if err == nil {
			logger.DebugKV(ctx, "Acquired run marker", "path", m.path, "pid", m.pid)
			return nil
		}

		if !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("create marker: %w", err)
		}

		busy, err := m.isHeld(ctx)
		if err != nil {
			return err
		}

		if busy {
			return fmt.Errorf("%w: %s", ErrAlreadyRunning, m.path)
		}
	}

	// Someone else recreated the marker between takeover and our attempt.
	return fmt.Errorf("%w: %s", ErrAlreadyRunning, m.path)
}

// create writes the marker only if it does not exist yet.
func (m *Marker) create() error {
	file, err := m.fs.OpenFile(m.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePermissions)
	if err != nil {
		return err
	}

	if _, err = file.WriteString(strconv.Itoa(m.pid)); err != nil {
		_ = file.Close()
		return fmt.Errorf("write marker: %w", err)
	}

	return file.Close()
}

// Release removes the marker if it still belongs to this process.
func (m *Marker) Release(ctx context.Context) error {
	owner, err := m.owner()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err == nil && owner != m.pid {
		logger.WarnKV(ctx, "Run marker was taken over, leaving it in place", "path", m.path, "owner", owner)
		return nil
	}

	if err = m.fs.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove marker: %w", err)
	}

	return nil
}

// isHeld reports whether a fresh marker owned by another live process exists.
// Stale markers are removed so the caller can retry creating its own.
func (m *Marker) isHeld(ctx context.Context) (bool, error) {
	info, err := m.fs.Stat(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("stat marker: %w", err)
	}

	if m.now().Sub(info.ModTime()) > m.lifetime {
		logger.InfoKV(ctx, "Run marker is too old, taking it over", "path", m.path)
		return false, m.removeStale()
	}

	// A fresh marker without a PID is either being written right now or
	// garbage; both count as held until the lifetime runs out.
	owner, err := m.owner()
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		logger.DebugKV(ctx, "Run marker has no readable owner yet", "path", m.path, "error", err)
		return true, nil
	}

	if owner == m.pid {
		return false, m.removeStale()
	}

	alive, err := m.alive(owner)
	if err != nil {
		return false, fmt.Errorf("check marker owner %d: %w", owner, err)
	}

	if !alive {
		logger.InfoKV(ctx, "Run marker owner has exited, taking it over", "path", m.path, "owner", owner)
		return false, m.removeStale()
	}

	return true, nil
}

func (m *Marker) owner() (int, error) {
	contents, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil {
		return 0, fmt.Errorf("parse marker pid: %w", err)
	}

	return pid, nil
}

func (m *Marker) removeStale() error {
	if err := m.fs.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale marker: %w", err)
	}

	return nil
}

// ProcessAlive looks pid up in the process table.
func ProcessAlive(pid int) (bool, error) {
	process, err := ps.FindProcess(pid)
	if err != nil {
		return false, err
	}

	return process != nil, nil
}
