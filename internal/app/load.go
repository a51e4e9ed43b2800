package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/netgraph/internal/ctxlog"
	"github.com/vk/netgraph/internal/network"
	"github.com/vk/netgraph/internal/serializer"
)

// LoadNetwork opens a network from path. Directories and .hcl files are read
// as HCL descriptions and connected; .json and .yaml files are restored from
// their records.
func (a *App) LoadNetwork(ctx context.Context, path string) (*network.Network, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}

	if info.IsDir() || filepath.Ext(path) == ".hcl" {
		logger.Debug("Loading network description.", "path", path)
		desc, err := a.loader.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		def, err := desc.Definition(a.registry)
		if err != nil {
			return nil, err
		}
		net := network.New(def, network.WithMetrics(a.metrics))
		if err := net.ConnectLayers(ctx); err != nil {
			return nil, err
		}
		return net, nil
	}

	logger.Debug("Loading network document.", "path", path)
	doc, err := serializer.Load(path)
	if err != nil {
		return nil, err
	}
	return network.FromDocument(ctx, doc, a.registry.Reconstruct, network.WithMetrics(a.metrics))
}

// writeDocument writes doc to the configured output.
func (a *App) writeDocument(doc serializer.Document) error {
	format, err := a.config.documentFormat()
	if err != nil {
		return err
	}
	data, err := serializer.Marshal(doc, format)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if a.config.Output == "" {
		_, err = a.outW.Write(data)
		return err
	}
	if err := os.WriteFile(a.config.Output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", a.config.Output, err)
	}
	a.logger.Info("Document written.", "path", a.config.Output, "format", string(format), "layers", len(doc.Layers))
	return nil
}
