package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ChannelLoadResource is the host operation that reads a packaged asset.
const ChannelLoadResource = "load-resource"

// HostBridge invokes privileged operations on the host shell.
type HostBridge interface {
	Invoke(ctx context.Context, channel, arg string) (json.RawMessage, error)
}

// BridgeLoader loads assets through a HostBridge.
type BridgeLoader struct {
	Bridge HostBridge
}

// Load implements Loader. Host errors are returned unchanged.
func (l *BridgeLoader) Load(ctx context.Context, path string) (json.RawMessage, error) {
	return l.Bridge.Invoke(ctx, ChannelLoadResource, path)
}

// PackagedBridge serves load-resource from the packaged application directory.
type PackagedBridge struct {
	AppDir string
}

// Root returns the directory packaged assets are read from.
func (b *PackagedBridge) Root() string {
	return filepath.Join(b.AppDir, "dist_app")
}

// Invoke implements HostBridge.
func (b *PackagedBridge) Invoke(ctx context.Context, channel, arg string) (json.RawMessage, error) {
	if channel != ChannelLoadResource {
		return nil, fmt.Errorf("no handler registered for %q", channel)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root := b.Root()
	full := filepath.Join(root, filepath.FromSlash(arg))
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("resource path %q escapes the application directory", arg)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("resource %q is not valid JSON", arg)
	}
	return json.RawMessage(data), nil
}
