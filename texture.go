package thicket

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// LoadTexture reads and decodes the image at path and uploads it to device.
// PNG, JPEG, BMP and WebP are supported.
func LoadTexture(device Device, path string) (Texture, error) {
	if device == nil {
		return nil, fmt.Errorf("load texture %s: %w", path, ErrNoDevice)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load texture: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	tex, err := device.NewTexture(img)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	return tex, nil
}

// Texture2DComponent holds at most one texture. A texture loaded by the
// component is exclusively owned and disposed with it; one taken from a
// TextureAsset is shared and left to the asset manager. Attach it under
// "texture" so renderers on the same entity can sample it.
type Texture2DComponent struct {
	ComponentBase

	device  Device
	path    string
	texture Texture
	asset   *TextureAsset
}

// NewTexture2DComponent loads the texture at path synchronously. An empty
// path creates a component with no texture. Load failures are logged and
// leave the component invalid.
func NewTexture2DComponent(device Device, path string) *Texture2DComponent {
	c := &Texture2DComponent{device: device}
	c.SetTexturePath(path)
	return c
}

// NewTexture2DComponentFrom shares the texture of a cached asset. The
// component keeps the asset alive and never disposes its texture. A nil
// asset creates a component with no texture.
func NewTexture2DComponentFrom(asset *TextureAsset) *Texture2DComponent {
	c := &Texture2DComponent{}
	if asset == nil {
		return c
	}
	c.path = asset.Path
	c.texture = asset.Texture
	c.asset = asset
	return c
}

// SetTexturePath releases the current texture and loads the one at path.
// An empty path only releases.
func (c *Texture2DComponent) SetTexturePath(path string) {
	c.path = path
	c.release()
	if path == "" {
		return
	}
	tex, err := LoadTexture(c.device, path)
	if err != nil {
		Logger().Error("texture component: load failed", zap.String("path", path), zap.Error(err))
		return
	}
	c.texture = tex
}

// TexturePath returns the path last passed to SetTexturePath.
func (c *Texture2DComponent) TexturePath() string {
	return c.path
}

// Texture returns the owned texture, or nil.
func (c *Texture2DComponent) Texture() Texture {
	return c.texture
}

// Valid reports whether a texture is loaded and usable.
func (c *Texture2DComponent) Valid() bool {
	return c.texture != nil && c.texture.Valid()
}

// Width returns the texture width, or 0 without a texture.
func (c *Texture2DComponent) Width() int {
	if c.texture == nil {
		return 0
	}
	return c.texture.Width()
}

// Height returns the texture height, or 0 without a texture.
func (c *Texture2DComponent) Height() int {
	if c.texture == nil {
		return 0
	}
	return c.texture.Height()
}

// AspectRatio returns width/height, or 1 when there is no texture or the
// height is zero.
func (c *Texture2DComponent) AspectRatio() float32 {
	if c.texture == nil || c.texture.Height() == 0 {
		return 1
	}
	return float32(c.texture.Width()) / float32(c.texture.Height())
}

// Dispose releases the texture. A shared texture is only dropped.
func (c *Texture2DComponent) Dispose() {
	c.release()
}

func (c *Texture2DComponent) release() {
	if c.texture != nil && c.asset == nil {
		c.texture.Dispose()
	}
	c.texture = nil
	c.asset = nil
}
