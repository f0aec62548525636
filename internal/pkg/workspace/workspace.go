// Package workspace holds the per-session workflow: the selected original,
// the compression settings and result, the viewer state and the inline
// errors of each action.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/compressor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/cropper"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/geometry"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/upload"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/viewport"
)

// DefaultCompressTimeout bounds one compression request.
const DefaultCompressTimeout = 60 * time.Second

// Workspace is safe for concurrent use.
type Workspace struct {
	mu sync.Mutex

	id       string
	original *models.ImageAsset
	result   *models.CompressionResult
	settings models.CompressionSettings
	busy     bool

	// generation changes whenever the original/compressed pair is replaced.
	generation uint64
	// viewerSeq changes on every open and close of the viewer.
	viewerSeq uint64
	viewer    viewport.State

	errors   map[Action]*ActionError
	lastSeen time.Time
}

// New returns an empty workspace with default settings.
func New(id string) *Workspace {
	return &Workspace{
		id:       id,
		settings: models.DefaultCompressionSettings(),
		viewer:   viewport.NewState(),
		errors:   make(map[Action]*ActionError),
		lastSeen: time.Now(),
	}
}

// ID returns the workspace id.
func (w *Workspace) ID() string {
	return w.id
}

func (w *Workspace) touch() {
	w.lastSeen = time.Now()
}

func (w *Workspace) closeViewer() {
	if w.viewer.Open {
		w.viewerSeq++
	}
	w.viewer = viewport.NewState()
}

// Select validates data and makes it the new original. The previous result,
// all inline errors and the viewer are cleared; settings are kept.
func (w *Workspace) Select(filename string, data []byte) (models.ImageAsset, error) {
	asset, err := materialize(filename, data)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if err != nil {
		w.errors[ActionUpload] = uploadError(err)
		return models.ImageAsset{}, err
	}

	w.original = &asset
	w.result = nil
	w.errors = make(map[Action]*ActionError)
	w.closeViewer()
	w.generation++
	log.Infof("[Workspace] %s selected %s %dx%d (%d bytes)", w.id, asset.MimeType, asset.Width, asset.Height, asset.ByteSize)
	return asset, nil
}

func materialize(filename string, data []byte) (models.ImageAsset, error) {
	// size is checked first so oversized input never reaches a decoder
	if err := upload.ValidateSize(int64(len(data))); err != nil {
		return models.ImageAsset{}, err
	}
	if _, err := upload.ValidateImageBySniff(filename, data); err != nil {
		return models.ImageAsset{}, err
	}
	return imageprocessor.NewAsset(data)
}

// UpdateSettings replaces the settings used by the next compression.
func (w *Workspace) UpdateSettings(settings models.CompressionSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.settings = settings
	return nil
}

// Settings returns the current settings.
func (w *Workspace) Settings() models.CompressionSettings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// Busy reports whether a compression request is in flight.
func (w *Workspace) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Compress sends the original to c. Only one request runs at a time; a call
// while busy returns ErrBusy without contacting c. The busy flag is cleared
// on every return path.
func (w *Workspace) Compress(ctx context.Context, c compressor.Compressor, timeout time.Duration) (*models.CompressionResult, error) {
	w.mu.Lock()
	w.touch()
	if w.busy {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	if w.original == nil {
		w.mu.Unlock()
		return nil, ErrNoOriginal
	}
	w.busy = true
	delete(w.errors, ActionCompress)
	w.result = nil
	w.closeViewer()
	gen := w.generation
	original := *w.original
	settings := w.settings
	w.mu.Unlock()

	result, err := runCompression(ctx, c, timeout, original, settings)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false

	if gen != w.generation {
		log.Infof("[Workspace] %s discarding compression result for replaced image", w.id)
		return nil, ErrStaleResult
	}
	if err != nil {
		f := compressor.AsFailure(err)
		w.errors[ActionCompress] = compressError(f)
		log.Warnf("[Workspace] %s compression failed: %v", w.id, err)
		return nil, f
	}

	w.result = result
	w.generation++
	log.Infof("[Workspace] %s compressed %d -> %d bytes (%.1f%%)", w.id, result.Reduction.OriginalBytes, result.Reduction.CompressedBytes, result.Reduction.Percent)
	return result, nil
}

func runCompression(ctx context.Context, c compressor.Compressor, timeout time.Duration, original models.ImageAsset, settings models.CompressionSettings) (*models.CompressionResult, error) {
	if timeout <= 0 {
		timeout = DefaultCompressTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := c.Compress(ctx, original.Data, original.MimeType, settings.OutputFormat, settings.Level)
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Data) == 0 {
		return nil, &compressor.Failure{Kind: compressor.KindNoOutputProduced, Message: "empty image payload"}
	}

	asset, err := imageprocessor.NewAsset(out.Data)
	if err != nil {
		return nil, &compressor.Failure{Kind: compressor.KindNoOutputProduced, Message: "returned data is not a readable image", Err: err}
	}

	return &models.CompressionResult{
		Asset:     asset,
		Settings:  settings,
		Reduction: models.NewSizeReduction(original.ByteSize, asset.ByteSize),
	}, nil
}

// OpenViewer opens the detail viewer for the current pair.
func (w *Workspace) OpenViewer(container geometry.Rect) (viewport.State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if w.original == nil {
		return w.viewer, ErrNoOriginal
	}
	if w.result == nil {
		return w.viewer, ErrNoCompressed
	}
	w.viewerSeq++
	w.viewer = viewport.HandleEvent(viewport.NewState(), w.openEvent(container))
	return w.viewer, nil
}

func (w *Workspace) openEvent(container geometry.Rect) viewport.Event {
	natural := geometry.Size{Width: float64(w.original.Width), Height: float64(w.original.Height)}
	return viewport.Event{Type: viewport.EventOpen, Container: &container, Natural: &natural}
}

// CloseViewer closes the viewer. Closing a closed viewer is a no-op.
func (w *Workspace) CloseViewer() viewport.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.closeViewer()
	return w.viewer
}

// Dispatch feeds events to the open viewer. Open events are rejected; the
// viewer is opened through OpenViewer so its natural size always matches
// the current original.
func (w *Workspace) Dispatch(events ...viewport.Event) (viewport.State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if !w.viewer.Open {
		return w.viewer, ErrViewerClosed
	}
	wasOpen := true
	for _, e := range events {
		if e.Type == viewport.EventOpen {
			return w.viewer, fmt.Errorf("%s: use OpenViewer", e.Type)
		}
		w.viewer = viewport.HandleEvent(w.viewer, e)
		if wasOpen && !w.viewer.Open {
			w.viewerSeq++
			wasOpen = false
		}
	}
	return w.viewer, nil
}

// Viewer returns the current viewer state.
func (w *Workspace) Viewer() viewport.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewer
}

// ConfirmCrop applies the drawn crop rect to both images. It returns false
// without error when there is no confirmable rect. The crop runs outside the
// lock; its result is dropped with ErrStaleResult if the pair was replaced or
// the viewer was closed meanwhile. A crop failure keeps the viewer open.
func (w *Workspace) ConfirmCrop(ctx context.Context, c cropper.Cropper) (bool, error) {
	w.mu.Lock()
	w.touch()
	rect, ok := w.viewer.ConfirmableRect()
	if !ok || w.original == nil || w.result == nil {
		w.mu.Unlock()
		return false, nil
	}
	gen, seq := w.generation, w.viewerSeq
	original, compressed := *w.original, w.result.Asset
	format := w.result.Settings.OutputFormat
	w.mu.Unlock()

	croppedOriginal, croppedCompressed, err := c.Crop(ctx, original, compressed, rect, format)

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.generation || seq != w.viewerSeq || !w.viewer.Open {
		log.Infof("[Workspace] %s discarding stale crop", w.id)
		return false, ErrStaleResult
	}
	if err != nil {
		w.errors[ActionCrop] = cropError(err)
		log.Warnf("[Workspace] %s crop failed: %v", w.id, err)
		return false, err
	}

	w.original = &croppedOriginal
	result := *w.result
	result.Asset = croppedCompressed
	result.Reduction = models.NewSizeReduction(croppedOriginal.ByteSize, croppedCompressed.ByteSize)
	w.result = &result
	w.generation++
	delete(w.errors, ActionCrop)

	// reopen with the new natural size, leaving crop mode
	compareState := w.viewer.Compare
	w.viewer = viewport.HandleEvent(viewport.NewState(), w.openEvent(w.viewer.Container))
	w.viewer.Compare = compareState
	log.Infof("[Workspace] %s cropped to %dx%d", w.id, croppedOriginal.Width, croppedOriginal.Height)
	return true, nil
}

// StartOver clears images, result, errors and viewer. Settings are kept.
func (w *Workspace) StartOver() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	w.original = nil
	w.result = nil
	w.errors = make(map[Action]*ActionError)
	w.closeViewer()
	w.generation++
}

// DismissError clears the inline error of action.
func (w *Workspace) DismissError(action Action) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	delete(w.errors, action)
}

// Original returns the current original, if any.
func (w *Workspace) Original() (models.ImageAsset, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.original == nil {
		return models.ImageAsset{}, false
	}
	return *w.original, true
}

// Result returns the current compression result, if any.
func (w *Workspace) Result() (models.CompressionResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		return models.CompressionResult{}, false
	}
	return *w.result, true
}

// Snapshot is a consistent read of the whole workspace.
type Snapshot struct {
	ID               string                     `json:"id"`
	Original         *models.ImageAsset         `json:"original,omitempty"`
	Compressed       *models.ImageAsset         `json:"compressed,omitempty"`
	Settings         models.CompressionSettings `json:"settings"`
	Reduction        *models.SizeReduction      `json:"reduction,omitempty"`
	ReductionMessage string                     `json:"reduction_message,omitempty"`
	DownloadName     string                     `json:"download_name,omitempty"`
	Busy             bool                       `json:"busy"`
	Generation       uint64                     `json:"generation"`
	Viewer           viewport.State             `json:"viewer"`
	Errors           map[Action]*ActionError    `json:"errors"`
}

// Error returns the inline error of action, or nil.
func (s Snapshot) Error(action Action) *ActionError {
	return s.Errors[action]
}

// Snapshot copies the current state.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		ID:         w.id,
		Settings:   w.settings,
		Busy:       w.busy,
		Generation: w.generation,
		Viewer:     w.viewer,
		Errors:     make(map[Action]*ActionError, len(w.errors)),
	}
	if w.original != nil {
		o := *w.original
		snap.Original = &o
	}
	if w.result != nil {
		c := w.result.Asset
		r := w.result.Reduction
		snap.Compressed = &c
		snap.Reduction = &r
		snap.ReductionMessage = r.Message()
		snap.DownloadName = DownloadFormat(*w.result).DownloadName()
	}
	for k, v := range w.errors {
		e := *v
		snap.Errors[k] = &e
	}
	return snap
}

// DownloadFormat is the format of the compressed bytes as returned, which
// may differ from the requested one.
func DownloadFormat(r models.CompressionResult) models.OutputFormat {
	if f, ok := imageprocessor.FormatForMime(r.Asset.MimeType); ok {
		return f
	}
	return r.Settings.OutputFormat
}
