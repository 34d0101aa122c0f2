package shell

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/lumen-dev/lumen/pkg/assets"
)

// AssetLoader resolves image and font sources referenced by markup
// through an asset resolver. Document engines use it to fetch the bytes
// behind src attributes.
type AssetLoader struct {
	resolver *assets.Resolver
	logger   *slog.Logger
}

// NewAssetLoader creates a loader over the given resolver.
func NewAssetLoader(resolver *assets.Resolver) *AssetLoader {
	return &AssetLoader{
		resolver: resolver,
		logger:   slog.Default().With("component", "assets"),
	}
}

// Raw resolves an asset by logical name and returns it as stored.
func (l *AssetLoader) Raw(ctx context.Context, name string) (*assets.Asset, error) {
	return l.resolver.Resolve(ctx, name)
}

// Image resolves an asset and decodes it as an image. PNG and JPEG are
// supported.
func (l *AssetLoader) Image(ctx context.Context, name string) (image.Image, error) {
	asset, err := l.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(asset.Data))
	if err != nil {
		return nil, fmt.Errorf("decode asset %q: %w", name, err)
	}
	l.logger.Debug("decoded image asset", "name", name, "format", format)
	return img, nil
}
