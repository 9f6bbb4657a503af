// Package framebuffer creates framebuffers with generated or caller-supplied attachments, validates
// their completeness and blits their color attachments to the default framebuffer. All binding
// changes go through the state shadow, so callers never observe a changed binding.
package framebuffer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/state"
)

// Config describes a framebuffer for the auto-configured path.
type Config struct {
	Width, Height int

	// Colors is the number of color attachments. Zero means one.
	Colors int

	// ColorType is the texel type of the color textures. The default is native.UNSIGNED_BYTE;
	// native.FLOAT requires float texture support.
	ColorType native.Enum

	// Filter is the min and mag filter of the color textures. The default is native.LINEAR.
	Filter native.Enum

	// Depth adds a depth attachment. Stencil adds a combined depth-stencil attachment instead.
	Depth   bool
	Stencil bool
}

// Attachment pairs an attachment point with a texture or renderbuffer handle.
type Attachment struct {
	Point  native.Enum
	Target resource.Handle
}

// BlitOptions selects what Blit draws and where.
type BlitOptions struct {
	// Attachment is the index of the color attachment to draw.
	Attachment int

	// Viewport is the destination rectangle. Nil covers the whole screen as last set by
	// SetScreenSize.
	Viewport *state.Rect
}

// Manager creates, deletes and blits framebuffers.
type Manager interface {
	// Create allocates a framebuffer with generated attachments: Colors color textures, and a depth
	// or depth-stencil attachment that is a texture when depth textures are supported and a
	// renderbuffer otherwise. The framebuffer owns its attachments.
	//
	// Parameters:
	//   - cfg: the configuration
	//
	// Returns:
	//   - resource.Handle: the framebuffer handle
	//   - error: common.ErrArgumentShape for bad dimensions, common.ErrUnsupported for more color
	//     attachments than draw buffers or an unsupported texel type, or a *common.IncompleteError;
	//     nothing is left allocated on failure
	Create(cfg Config) (resource.Handle, error)

	// CreateWithAttachments wires caller-supplied textures or renderbuffers into a new framebuffer.
	// The framebuffer size is the minimum width and height over the attachments.
	//
	// Parameters:
	//   - attachments: the attachment list
	//   - owns: whether deleting the framebuffer also deletes the attachments
	//
	// Returns:
	//   - resource.Handle: the framebuffer handle
	//   - error: common.ErrInvalidHandle for a missing or unknown target, common.ErrDuplicateBinding
	//     for a repeated point, common.ErrUnsupported for an unknown point, or a
	//     *common.IncompleteError
	CreateWithAttachments(attachments []Attachment, owns bool) (resource.Handle, error)

	// Delete deletes a framebuffer, and its attachments when it owns them.
	//
	// Parameters:
	//   - h: the framebuffer handle
	//
	// Returns:
	//   - error: common.ErrInvalidHandle for an unknown handle
	Delete(h resource.Handle) error

	// Blit draws one color attachment of h to the default framebuffer as a full-screen quad. Every
	// group the draw touches is saved before and restored after.
	//
	// Parameters:
	//   - h: the framebuffer handle
	//   - opts: the attachment and destination
	//
	// Returns:
	//   - error: common.ErrInvalidHandle for an unknown framebuffer or attachment index,
	//     common.ErrUnsupported when the attachment is a renderbuffer
	Blit(h resource.Handle, opts BlitOptions) error

	// SetScreenSize records the size of the default framebuffer. Blits without an explicit
	// viewport cover it. Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width: the width in pixels
	//   - height: the height in pixels
	SetScreenSize(width, height int)

	// Screen returns the rectangle covering the default framebuffer.
	//
	// Returns:
	//   - state.Rect: the screen rectangle
	Screen() state.Rect

	// Release deletes the blit program and geometry. The next Blit recreates them.
	Release()
}

type manager struct {
	shadow state.Shadow
	reg    *resource.Registry
	ctx    native.Context

	blitSource *resource.ProgramSource
	blit       *blitResources
	screen     state.Rect
}

var _ Manager = &manager{}

// NewManager creates a framebuffer manager on top of a state shadow.
//
// Parameters:
//   - shadow: the shadow owning the framebuffer binding
//   - options: functional options
//
// Returns:
//   - Manager: the manager
func NewManager(shadow state.Shadow, options ...ManagerBuilderOption) Manager {
	m := &manager{
		shadow: shadow,
		reg:    shadow.Registry(),
		ctx:    shadow.Registry().Context(),
	}
	// A fresh context's viewport is the default framebuffer size.
	vp := shadow.Viewport()
	m.screen = state.Rect{Width: vp.Width, Height: vp.Height}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *manager) Create(cfg Config) (resource.Handle, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return resource.None, fmt.Errorf("framebuffer size %dx%d: %w", cfg.Width, cfg.Height, common.ErrArgumentShape)
	}
	caps := m.reg.Capabilities()
	colors := max(cfg.Colors, 1)
	if colors > caps.Record.MaxDrawBuffers {
		return resource.None, fmt.Errorf("%d color attachments with %d draw buffers: %w", colors, caps.Record.MaxDrawBuffers, common.ErrUnsupported)
	}

	rec := &resource.Framebuffer{Width: cfg.Width, Height: cfg.Height, OwnsAttachments: true}
	var created []resource.Handle
	fail := func(err error) (resource.Handle, error) {
		m.deleteAttachments(created)
		return resource.None, err
	}

	filter := common.Coalesce(cfg.Filter, native.LINEAR)
	for i := range colors {
		tex, err := m.shadow.CreateTexture(state.TextureConfig{
			Width:     cfg.Width,
			Height:    cfg.Height,
			Type:      cfg.ColorType,
			MinFilter: filter,
			MagFilter: filter,
		})
		if err != nil {
			return fail(fmt.Errorf("color attachment %d: %w", i, err))
		}
		created = append(created, tex)
		rec.ColorAttachments = append(rec.ColorAttachments, tex)
		rec.AttachmentPoints = append(rec.AttachmentPoints, native.COLOR_ATTACHMENT0+native.Enum(i))
	}

	if cfg.Depth || cfg.Stencil {
		h, err := m.createDepth(cfg)
		if err != nil {
			return fail(err)
		}
		created = append(created, h)
		if cfg.Stencil {
			rec.DepthStencil = h
		} else {
			rec.Depth = h
		}
	}

	h, err := m.assemble(rec)
	if err != nil {
		return fail(err)
	}
	return h, nil
}

// createDepth allocates the depth or depth-stencil attachment of cfg.
func (m *manager) createDepth(cfg Config) (resource.Handle, error) {
	caps := m.reg.Capabilities()
	modern := caps.Record.Major >= 3

	if caps.Record.DepthTexture {
		tc := state.TextureConfig{
			Width:          cfg.Width,
			Height:         cfg.Height,
			InternalFormat: native.DEPTH_COMPONENT,
			Format:         native.DEPTH_COMPONENT,
			Type:           native.UNSIGNED_INT,
			MinFilter:      native.NEAREST,
			MagFilter:      native.NEAREST,
		}
		if modern {
			tc.InternalFormat = native.DEPTH_COMPONENT24
		}
		if cfg.Stencil {
			tc.InternalFormat, tc.Format, tc.Type = native.DEPTH_STENCIL, native.DEPTH_STENCIL, native.UNSIGNED_INT_24_8
			if modern {
				tc.InternalFormat = native.DEPTH24_STENCIL8
			}
		}
		h, err := m.shadow.CreateTexture(tc)
		if err != nil {
			return resource.None, fmt.Errorf("depth attachment: %w", err)
		}
		return h, nil
	}

	format := native.DEPTH_COMPONENT16
	if cfg.Stencil {
		format = native.DEPTH_STENCIL
		if modern {
			format = native.DEPTH24_STENCIL8
		}
	}
	return m.reg.CreateRenderbuffer(format, cfg.Width, cfg.Height), nil
}

func (m *manager) CreateWithAttachments(attachments []Attachment, owns bool) (resource.Handle, error) {
	if len(attachments) == 0 {
		return resource.None, fmt.Errorf("framebuffer without attachments: %w", common.ErrArgumentShape)
	}
	caps := m.reg.Capabilities()
	rec := &resource.Framebuffer{OwnsAttachments: owns}
	seen := map[native.Enum]bool{}

	for _, a := range attachments {
		if seen[a.Point] {
			return resource.None, fmt.Errorf("attachment point %#x: %w", uint32(a.Point), common.ErrDuplicateBinding)
		}
		seen[a.Point] = true

		w, h, ok := m.reg.AttachmentSize(a.Target)
		if !ok {
			return resource.None, fmt.Errorf("attachment %#x: %w", uint32(a.Point), &common.InvalidHandleError{Kind: resource.KindTexture, Handle: int(a.Target)})
		}
		if rec.Width == 0 || w < rec.Width {
			rec.Width = w
		}
		if rec.Height == 0 || h < rec.Height {
			rec.Height = h
		}

		switch {
		case a.Point >= native.COLOR_ATTACHMENT0 && a.Point < native.COLOR_ATTACHMENT0+native.Enum(caps.Record.MaxColorAttachments):
			rec.ColorAttachments = append(rec.ColorAttachments, a.Target)
			rec.AttachmentPoints = append(rec.AttachmentPoints, a.Point)
		case a.Point == native.DEPTH_ATTACHMENT:
			rec.Depth = a.Target
		case a.Point == native.DEPTH_STENCIL_ATTACHMENT:
			rec.DepthStencil = a.Target
		default:
			return resource.None, fmt.Errorf("attachment point %#x: %w", uint32(a.Point), common.ErrUnsupported)
		}
	}
	if rec.Depth != resource.None && rec.DepthStencil != resource.None {
		return resource.None, fmt.Errorf("depth and depth-stencil attachments: %w", common.ErrDuplicateBinding)
	}
	return m.assemble(rec)
}

// assemble creates the native framebuffer for rec, attaches everything and validates completeness
// once all attachments exist. On failure the framebuffer is gone and the caller cleans up its
// attachments.
func (m *manager) assemble(rec *resource.Framebuffer) (resource.Handle, error) {
	rec.Native = m.ctx.CreateFramebuffer()
	h := m.reg.NextHandle()
	m.reg.Framebuffers.Insert(h, rec)

	if err := m.shadow.PushFramebuffer(&h); err != nil {
		_ = m.shadow.DeleteFramebuffer(h)
		return resource.None, err
	}
	err := m.attach(rec)
	if err == nil {
		if status := m.ctx.CheckFramebufferStatus(native.FRAMEBUFFER); status != native.FRAMEBUFFER_COMPLETE {
			err = &common.IncompleteError{Status: uint32(status)}
		}
	}
	if popErr := m.shadow.PopFramebuffer(); err == nil {
		err = popErr
	}
	if err != nil {
		_ = m.shadow.DeleteFramebuffer(h)
		return resource.None, fmt.Errorf("framebuffer %d: %w", h, err)
	}

	logging.Logger().Debug("framebuffer: created", "handle", h,
		"width", rec.Width, "height", rec.Height, "colors", len(rec.ColorAttachments))
	return h, nil
}

// attach wires every attachment of rec into the bound framebuffer and selects its draw buffers.
func (m *manager) attach(rec *resource.Framebuffer) error {
	for i, target := range rec.ColorAttachments {
		if err := m.attachTarget(rec.AttachmentPoints[i], target); err != nil {
			return err
		}
	}
	if rec.Depth != resource.None {
		if err := m.attachTarget(native.DEPTH_ATTACHMENT, rec.Depth); err != nil {
			return err
		}
	}
	if rec.DepthStencil != resource.None {
		if err := m.attachTarget(native.DEPTH_STENCIL_ATTACHMENT, rec.DepthStencil); err != nil {
			return err
		}
	}
	if err := m.reg.Capabilities().Functions.DrawBuffers(rec.AttachmentPoints); err != nil {
		return err
	}
	return nil
}

func (m *manager) attachTarget(point native.Enum, h resource.Handle) error {
	if tex, err := m.reg.Textures.Get(h); err == nil {
		m.ctx.FramebufferTexture2D(native.FRAMEBUFFER, point, native.TEXTURE_2D, tex.Native, int32(tex.Level))
		return nil
	}
	rb, err := m.reg.Renderbuffers.Get(h)
	if err != nil {
		return err
	}
	m.ctx.FramebufferRenderbuffer(native.FRAMEBUFFER, point, native.RENDERBUFFER, rb.Native)
	return nil
}

func (m *manager) Delete(h resource.Handle) error {
	rec, err := m.reg.Framebuffers.Get(h)
	if err != nil {
		return err
	}
	if err := m.shadow.DeleteFramebuffer(h); err != nil {
		return err
	}
	if rec.OwnsAttachments {
		owned := append([]resource.Handle(nil), rec.ColorAttachments...)
		m.deleteAttachments(append(owned, rec.Depth, rec.DepthStencil))
	}
	logging.Logger().Debug("framebuffer: deleted", "handle", h, "ownsAttachments", rec.OwnsAttachments)
	return nil
}

// deleteAttachments deletes texture and renderbuffer handles, skipping none and unknown ones.
func (m *manager) deleteAttachments(handles []resource.Handle) {
	for _, h := range handles {
		switch {
		case h == resource.None:
		case m.reg.Textures.Has(h):
			_ = m.shadow.DeleteTexture(h)
		case m.reg.Renderbuffers.Has(h):
			_ = m.reg.DeleteRenderbuffer(h)
		}
	}
}
