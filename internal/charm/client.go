// ABOUTME: Charm Cloud file storage as a remote home for the embedded contract
// ABOUTME: charm:// locations read through Charm FS with automatic SSH key auth
package charm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	charmfs "github.com/charmbracelet/charm/fs"

	"github.com/harper/answerbot/internal/corpus"
)

// Scheme prefixes corpus locations stored in Charm FS
const Scheme = "charm://"

// Config holds charm client configuration
type Config struct {
	Host string
}

// DefaultConfig returns default configuration for charm client
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	return &Config{Host: host}
}

// FileSystem is the subset of Charm FS answerbot needs
type FileSystem interface {
	Open(name string) (fs.File, error)
	WriteFile(name string, src fs.File) error
}

// Client wraps Charm FS for corpus storage
type Client struct {
	fs     FileSystem
	config *Config
}

// NewClient creates a new charm client with the given config
func NewClient(cfg *Config) (*Client, error) {
	// Set CHARM_HOST before opening the FS
	if cfg.Host != "" {
		os.Setenv("CHARM_HOST", cfg.Host)
	}

	cfs, err := charmfs.NewFS()
	if err != nil {
		return nil, fmt.Errorf("failed to open charm fs: %w", err)
	}

	return NewClientWithFS(cfs, cfg), nil
}

// NewClientWithFS wraps an existing file system, mainly for tests
func NewClientWithFS(fsys FileSystem, cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{fs: fsys, config: cfg}
}

// Host returns the charm server this client talks to
func (c *Client) Host() string {
	return c.config.Host
}

// ParseLocation splits a charm:// location into its Charm FS path.
// ok is false for anything that is not a charm location.
func ParseLocation(location string) (path string, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(location), Scheme)
	if !found {
		return "", false
	}
	return strings.TrimLeft(rest, "/"), true
}

// Source returns a corpus source reading path from Charm FS
func (c *Client) Source(path string) *Source {
	return &Source{fs: c.fs, path: path}
}

// Push validates a local corpus CSV and uploads it to path
func (c *Client) Push(ctx context.Context, localPath, path string) (*corpus.Corpus, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("remote path is required")
	}

	parsed, err := corpus.Load(ctx, corpus.FileSource{Path: localPath})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	if err := c.fs.WriteFile(path, f); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return parsed, nil
}

// Source reads one corpus file from Charm FS
type Source struct {
	fs   FileSystem
	path string
}

// Open fetches the file from Charm Cloud
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm file %s: %w", s.path, err)
	}
	return f, nil
}

func (s *Source) String() string {
	return Scheme + s.path
}
