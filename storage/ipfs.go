package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
	"github.com/ruteri/ccip-gateway/interfaces"
)

// IPFSBackend reads a document from IPFS through a node's HTTP API.
type IPFSBackend struct {
	shell       *shell.Shell
	host        string
	port        string
	path        string
	log         *slog.Logger
	locationURI string
}

// NewIPFSBackend creates a backend for ipfsPath (a CID optionally followed by
// a path inside it) served by the node at host:port.
func NewIPFSBackend(host, port, ipfsPath string, log *slog.Logger) (*IPFSBackend, error) {
	ipfsPath = strings.Trim(ipfsPath, "/")
	if ipfsPath == "" {
		return nil, fmt.Errorf("%w: IPFS location needs a CID", interfaces.ErrInvalidLocationURI)
	}

	apiURL := fmt.Sprintf("%s:%s", host, port)

	return &IPFSBackend{
		shell:       shell.NewShell(apiURL),
		host:        host,
		port:        port,
		path:        "/ipfs/" + ipfsPath,
		log:         log,
		locationURI: fmt.Sprintf("ipfs://%s/%s", apiURL, ipfsPath),
	}, nil
}

// Fetch retrieves the document. Returns ErrBackendUnavailable if the node is
// not accessible.
func (b *IPFSBackend) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()

	if !b.shell.IsUp() {
		b.log.Warn("IPFS node unavailable",
			slog.String("host", b.host),
			slog.String("port", b.port))
		return nil, interfaces.ErrBackendUnavailable
	}

	reader, err := b.shell.Cat(b.path)
	if err != nil {
		if strings.Contains(err.Error(), "no link named") {
			return nil, interfaces.ErrContentNotFound
		}

		b.log.Error("Failed to fetch data from IPFS",
			slog.String("path", b.path),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to fetch data from IPFS: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data from IPFS: %w", err)
	}

	b.log.Debug("Fetched content from IPFS",
		slog.String("path", b.path),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// Available checks if the IPFS node is accessible.
func (b *IPFSBackend) Available(ctx context.Context) bool {
	return b.shell.IsUp()
}

// Name returns a unique identifier for this storage backend.
func (b *IPFSBackend) Name() string {
	return fmt.Sprintf("ipfs-%s-%s", b.host, b.port)
}

// LocationURI returns the URI that identifies this storage backend.
func (b *IPFSBackend) LocationURI() string {
	return b.locationURI
}
