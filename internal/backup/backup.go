// Package backup writes encrypted snapshots of local storage to
// S3-compatible object storage and restores them.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
)

const (
	snapshotVersion   = 1
	keyTimeFormat     = "2006-01-02T150405.000000000Z"
	defaultPrefix     = "grocerymate/"
	objectExt         = ".json.enc"
	maxSnapshotLength = 64 << 20
)

var (
	ErrNotConfigured = errors.New("backup not configured: S3 bucket or credentials missing")
	ErrNoPassphrase  = errors.New("backup passphrase not configured")
	ErrNoBackups     = errors.New("no backups found")
	ErrBadSnapshot   = errors.New("backup snapshot is not valid")
)

// Source is the storage a snapshot is taken from and restored into.
type Source interface {
	Snapshot() (map[string][]byte, error)
	Restore(entries map[string][]byte) error
}

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func (c S3Config) complete() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Config holds backup manager configuration. Interval and Keep only apply to
// scheduled backups.
type Config struct {
	S3         S3Config
	Prefix     string
	Passphrase string
	Interval   time.Duration
	Keep       int
}

// State represents the backup manager state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current backup manager status.
type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	LastKey    string     `json:"last_key,omitempty"`
	Error      string     `json:"error,omitempty"`
	InProgress bool       `json:"in_progress"`
}

// StatusCallback is called whenever the backup state changes.
type StatusCallback func(Status)

// Object describes one stored backup.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

type snapshot struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Entries   map[string]string `json:"entries"`
}

// Manager manages encrypted backups to S3-compatible storage.
type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	status   Status
	callback StatusCallback
	source   Source
	client   s3Client
	logger   *slog.Logger
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Manager)

func WithStatusCallback(cb StatusCallback) Option {
	return func(m *Manager) { m.callback = cb }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func withClient(c s3Client) Option {
	return func(m *Manager) {
		m.client = c
		m.status.State = StateIdle
	}
}

// NewManager creates a backup manager over source. It stays disabled until
// the S3 bucket and credentials are configured.
func NewManager(cfg Config, source Source, opts ...Option) *Manager {
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	m := &Manager{
		cfg:    cfg,
		source: source,
		logger: slog.Default(),
		now:    time.Now,
		status: Status{State: StateDisabled},
	}
	if cfg.S3.complete() {
		m.client = newS3Client(cfg.S3)
		m.status.State = StateIdle
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "backup")
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether object storage is configured.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client != nil
}

// Start begins the scheduled backup loop. It does nothing unless storage,
// a passphrase and an interval are all configured.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.client == nil || m.cfg.Passphrase == "" || m.cfg.Interval <= 0 || m.done != nil {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	interval := m.cfg.Interval
	m.mu.Unlock()

	m.logger.Info("scheduled backups enabled", "interval", interval)

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.scheduled(ctx)
			}
		}
	}()
}

// Stop gracefully stops the backup loop.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Status returns the current backup status.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(s)
	}
}

func (m *Manager) scheduled(ctx context.Context) {
	m.mu.RLock()
	passphrase, keep := m.cfg.Passphrase, m.cfg.Keep
	m.mu.RUnlock()

	if _, err := m.Run(ctx, passphrase); err != nil {
		m.logger.Error("scheduled backup failed", "error", err)
		return
	}
	if keep > 0 {
		if _, err := m.Cleanup(ctx, keep); err != nil {
			m.logger.Error("backup cleanup failed", "error", err)
		}
	}
}

// Run snapshots the source, encrypts it with passphrase and uploads it.
// An empty passphrase falls back to the configured one.
func (m *Manager) Run(ctx context.Context, passphrase string) (Object, error) {
	m.mu.RLock()
	client := m.client
	bucket, prefix := m.cfg.S3.Bucket, m.cfg.Prefix
	if passphrase == "" {
		passphrase = m.cfg.Passphrase
	}
	last := m.status
	m.mu.RUnlock()

	if client == nil {
		return Object{}, ErrNotConfigured
	}
	if passphrase == "" {
		return Object{}, ErrNoPassphrase
	}

	m.setStatus(Status{State: StateRunning, InProgress: true, LastBackup: last.LastBackup, LastKey: last.LastKey})
	fail := func(err error) (Object, error) {
		m.setStatus(Status{State: StateError, Error: err.Error(), LastBackup: last.LastBackup, LastKey: last.LastKey})
		return Object{}, err
	}

	entries, err := m.source.Snapshot()
	if err != nil {
		return fail(fmt.Errorf("snapshot storage: %w", err))
	}

	now := m.now().UTC()
	doc := snapshot{Version: snapshotVersion, CreatedAt: now, Entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		doc.Entries[k] = string(v)
	}
	plaintext, err := json.Marshal(doc)
	if err != nil {
		return fail(fmt.Errorf("encode snapshot: %w", err))
	}

	sealed, err := Encrypt(plaintext, passphrase)
	if err != nil {
		return fail(fmt.Errorf("encrypt: %w", err))
	}

	key := prefix + "backup-" + now.Format(keyTimeFormat) + objectExt
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(sealed),
		ContentLength: aws.Int64(int64(len(sealed))),
	})
	if err != nil {
		return fail(fmt.Errorf("upload to s3: %w", err))
	}

	m.setStatus(Status{State: StateIdle, LastBackup: &now, LastKey: key})
	m.logger.Info("backup uploaded", "key", key, "entries", len(entries), "size", humanize.Bytes(uint64(len(sealed))))

	return Object{Key: key, Size: int64(len(sealed)), LastModified: now}, nil
}

// List returns stored backups, newest first.
func (m *Manager) List(ctx context.Context) ([]Object, error) {
	m.mu.RLock()
	client := m.client
	bucket, prefix := m.cfg.S3.Bucket, m.cfg.Prefix
	m.mu.RUnlock()

	if client == nil {
		return nil, ErrNotConfigured
	}

	var objects []Object
	p := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list backups: %w", err)
		}
		for _, o := range page.Contents {
			key := aws.ToString(o.Key)
			if !strings.HasSuffix(key, objectExt) {
				continue
			}
			objects = append(objects, Object{
				Key:          key,
				Size:         aws.ToInt64(o.Size),
				LastModified: aws.ToTime(o.LastModified),
			})
		}
	}

	// Keys embed a fixed-width UTC timestamp, so lexical order is chronological.
	slices.SortFunc(objects, func(a, b Object) int { return strings.Compare(b.Key, a.Key) })
	return objects, nil
}

// Restore downloads the backup at key (the newest one when key is empty),
// decrypts it and writes every entry back to the source. It returns the
// number of entries restored.
func (m *Manager) Restore(ctx context.Context, key, passphrase string) (int, error) {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	if passphrase == "" {
		passphrase = m.cfg.Passphrase
	}
	m.mu.RUnlock()

	if client == nil {
		return 0, ErrNotConfigured
	}
	if passphrase == "" {
		return 0, ErrNoPassphrase
	}

	if key == "" {
		objects, err := m.List(ctx)
		if err != nil {
			return 0, err
		}
		if len(objects) == 0 {
			return 0, ErrNoBackups
		}
		key = objects[0].Key
	}

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	sealed, err := io.ReadAll(io.LimitReader(result.Body, int64(maxSnapshotLength)))
	if err != nil {
		return 0, fmt.Errorf("read backup: %w", err)
	}

	plaintext, err := Decrypt(sealed, passphrase)
	if err != nil {
		return 0, err
	}

	var doc snapshot
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if doc.Version != snapshotVersion {
		return 0, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, doc.Version)
	}

	entries := make(map[string][]byte, len(doc.Entries))
	for k, v := range doc.Entries {
		entries[k] = []byte(v)
	}
	if err := m.source.Restore(entries); err != nil {
		return 0, fmt.Errorf("restore storage: %w", err)
	}

	m.logger.Info("backup restored", "key", key, "entries", len(entries), "taken", humanize.Time(doc.CreatedAt))
	return len(entries), nil
}

// Cleanup deletes all but the newest keep backups and returns how many were
// removed.
func (m *Manager) Cleanup(ctx context.Context, keep int) (int, error) {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	m.mu.RUnlock()

	if client == nil || keep <= 0 {
		return 0, nil
	}

	objects, err := m.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(objects) <= keep {
		return 0, nil
	}

	removed := 0
	for _, o := range objects[keep:] {
		if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(o.Key),
		}); err != nil {
			m.logger.Warn("failed to delete old backup", "key", o.Key, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
