package clipboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/berrythewa/clipsense/internal/classifier"
	"github.com/berrythewa/clipsense/internal/imaging"
	"github.com/berrythewa/clipsense/internal/types"
	"go.uber.org/zap"
)

const (
	defaultInterval      = 500 * time.Millisecond
	defaultBackoffFactor = 4
	defaultReadTimeout   = 2 * time.Second
)

var (
	// ErrAlreadyRunning is returned by Run when the loop is active
	ErrAlreadyRunning = errors.New("detector already running")
	// ErrSourcePanic wraps a panic recovered from a clipboard read
	ErrSourcePanic = errors.New("clipboard source panicked")
)

// Outcome describes what a single tick did
type Outcome int

const (
	// OutcomeIdle means the clipboard held nothing to process
	OutcomeIdle Outcome = iota
	OutcomeDispatched
	// OutcomeSuppressed means the payload matched the novelty memory
	OutcomeSuppressed
	// OutcomeVetoed means policy rejected a novel payload
	OutcomeVetoed
	// OutcomeSelfBackoff means this program was frontmost
	OutcomeSelfBackoff
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeDispatched:
		return "dispatched"
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeVetoed:
		return "vetoed"
	case OutcomeSelfBackoff:
		return "self_backoff"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// ImageIngester normalizes clipboard image payloads
type ImageIngester interface {
	Ingest(data []byte, width, height int) (*imaging.NormalizedImage, error)
}

// Options configures a Detector
type Options struct {
	Source   Source
	Probe    AppProbe
	Ingester ImageIngester
	Policy   Policy
	// Novelty defaults to a single-slot tracker
	Novelty NoveltyTracker

	Interval      time.Duration
	BackoffFactor int
	// ReadTimeout bounds each clipboard read
	ReadTimeout time.Duration

	Logger *zap.Logger
	Now    func() time.Time
}

// Detector polls a Source and publishes a Draft for every new payload.
// Ticks never overlap.
type Detector struct {
	source   Source
	probe    AppProbe
	ingester ImageIngester
	policy   Policy
	novelty  NoveltyTracker

	interval      time.Duration
	backoffFactor int
	readTimeout   time.Duration

	logger *zap.Logger
	now    func() time.Time

	drafts  *Broadcaster[types.Draft]
	tickMu  sync.Mutex
	running atomic.Bool
}

// NewDetector creates a detector; Source and Policy are required
func NewDetector(opts Options) (*Detector, error) {
	if opts.Source == nil {
		return nil, errors.New("clipboard: source is required")
	}
	if opts.Policy == nil {
		return nil, errors.New("clipboard: policy is required")
	}

	d := &Detector{
		source:        opts.Source,
		probe:         opts.Probe,
		ingester:      opts.Ingester,
		policy:        opts.Policy,
		novelty:       opts.Novelty,
		interval:      opts.Interval,
		backoffFactor: opts.BackoffFactor,
		readTimeout:   opts.ReadTimeout,
		logger:        opts.Logger,
		now:           opts.Now,
		drafts:        NewBroadcaster[types.Draft](),
	}
	if d.novelty == nil {
		d.novelty = &LastHash{}
	}
	if d.interval <= 0 {
		d.interval = defaultInterval
	}
	if d.backoffFactor < 1 {
		d.backoffFactor = defaultBackoffFactor
	}
	if d.readTimeout <= 0 {
		d.readTimeout = defaultReadTimeout
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d, nil
}

// Subscribe returns a channel of dispatched drafts
func (d *Detector) Subscribe(buffer int) (<-chan types.Draft, func()) {
	return d.drafts.Subscribe(buffer)
}

// Dropped returns how many draft deliveries were skipped for slow subscribers
func (d *Detector) Dropped() int64 {
	return d.drafts.Dropped()
}

// Running reports whether Run is active
func (d *Detector) Running() bool {
	return d.running.Load()
}

// Run polls until ctx is done. Tick failures are logged and never stop the loop.
func (d *Detector) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer d.running.Store(false)

	d.logger.Info("Starting clipboard detector",
		zap.Duration("interval", d.interval),
		zap.Int("self_backoff_factor", d.backoffFactor))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Clipboard detector stopped")
			return nil
		case <-timer.C:
		}

		wait := d.interval
		outcome, _, err := d.Tick(ctx)
		switch {
		case err != nil:
			d.logger.Warn("Clipboard tick failed", zap.Error(err))
		case outcome == OutcomeSelfBackoff:
			wait = d.interval * time.Duration(d.backoffFactor)
		}
		timer.Reset(wait)
	}
}

// Tick runs one detection pass: self check, then text, then image, then file list.
func (d *Detector) Tick(ctx context.Context) (Outcome, *types.Draft, error) {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()

	app := d.activeApp(ctx)
	if d.policy.IsSelfApp(app) {
		d.logger.Debug("Own window is frontmost, backing off", zap.String("app", app.Name))
		return OutcomeSelfBackoff, nil, nil
	}

	if outcome, draft, err, done := d.checkText(ctx, app); done {
		return outcome, draft, err
	}
	if outcome, draft, err, done := d.checkImage(ctx, app); done {
		return outcome, draft, err
	}
	return d.checkFiles(ctx, app)
}

func (d *Detector) activeApp(ctx context.Context) types.AppInfo {
	if d.probe == nil {
		return types.AppInfo{}
	}
	app, err := readOff(ctx, d.readTimeout, d.probe.ActiveApp)
	if err != nil {
		d.logger.Debug("Active app unavailable", zap.Error(err))
		return types.AppInfo{}
	}
	return app
}

// checkText handles the text path; done reports whether the tick ends here
func (d *Detector) checkText(ctx context.Context, app types.AppInfo) (Outcome, *types.Draft, error, bool) {
	text, err := readOff(ctx, d.readTimeout, d.source.ReadText)
	if err != nil {
		d.logger.Debug("Text read failed", zap.Error(err))
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return OutcomeIdle, nil, nil, false
	}

	// written back by our own image copy
	if isImageDataURI(trimmed) {
		return OutcomeIdle, nil, nil, true
	}

	hash := HashBytes([]byte(trimmed))
	if !d.novelty.Observe(hash) {
		return OutcomeSuppressed, nil, nil, true
	}

	if d.policy.ExclusionApplies(types.TypeText) && d.policy.IsAppExcluded(app) {
		d.logger.Debug("Skipping text from excluded app", zap.String("app", app.Name))
		return OutcomeVetoed, nil, nil, true
	}
	if !d.policy.TextSizeAllowed(len(trimmed)) {
		d.logger.Debug("Text exceeds maximum size", zap.Int("size", len(trimmed)))
		return OutcomeVetoed, nil, nil, true
	}

	result := classifier.Classify(trimmed)
	draft := types.Draft{
		ContentHash:    hash,
		ContentType:    types.TypeText,
		ContentSubtype: result.Subtype,
		ContentData:    trimmed,
		Source:         app,
		SeenAt:         d.now(),
		Metadata:       result.MetadataJSON(),
	}
	d.dispatch(draft)
	return OutcomeDispatched, &draft, nil, true
}

func (d *Detector) checkImage(ctx context.Context, app types.AppInfo) (Outcome, *types.Draft, error, bool) {
	img, err := readOff(ctx, d.readTimeout, d.source.ReadImage)
	if err != nil {
		d.logger.Debug("Image read failed", zap.Error(err))
	}
	if img == nil || len(img.Bytes) == 0 {
		return OutcomeIdle, nil, nil, false
	}

	hash := HashBytes(img.Bytes)
	if !d.novelty.Observe(hash) {
		return OutcomeSuppressed, nil, nil, true
	}

	if d.policy.ExclusionApplies(types.TypeImage) && d.policy.IsAppExcluded(app) {
		d.logger.Debug("Skipping image from excluded app", zap.String("app", app.Name))
		return OutcomeVetoed, nil, nil, true
	}
	if d.ingester == nil {
		return OutcomeFailed, nil, errors.New("image received but no ingester configured"), true
	}

	d.logger.Debug("New image detected",
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("bytes", len(img.Bytes)))

	normalized, err := d.ingester.Ingest(img.Bytes, img.Width, img.Height)
	if err != nil {
		return OutcomeFailed, nil, fmt.Errorf("failed to ingest image: %w", err), true
	}

	metadata, err := json.Marshal(types.ImageEnvelope{ImageMetadata: types.ImageMetadata{
		Width:    normalized.Width,
		Height:   normalized.Height,
		FileSize: normalized.Size,
		Format:   normalized.Format,
	}})
	if err != nil {
		return OutcomeFailed, nil, fmt.Errorf("failed to encode image metadata: %w", err), true
	}

	draft := types.Draft{
		ContentHash: hash,
		ContentType: types.TypeImage,
		ContentData: normalized.Path,
		FilePath:    normalized.Path,
		Source:      app,
		SeenAt:      d.now(),
		Metadata:    metadata,
	}
	d.dispatch(draft)
	return OutcomeDispatched, &draft, nil, true
}

func (d *Detector) checkFiles(ctx context.Context, app types.AppInfo) (Outcome, *types.Draft, error) {
	files, err := readOff(ctx, d.readTimeout, d.source.ReadFiles)
	if err != nil {
		d.logger.Debug("File list read failed", zap.Error(err))
	}
	if len(files) == 0 {
		return OutcomeIdle, nil, nil
	}

	content := strings.Join(files, "\n")
	hash := HashBytes([]byte(content))
	if !d.novelty.Observe(hash) {
		return OutcomeSuppressed, nil, nil
	}
	if d.policy.ExclusionApplies(types.TypeFile) && d.policy.IsAppExcluded(app) {
		d.logger.Debug("Skipping files from excluded app", zap.String("app", app.Name))
		return OutcomeVetoed, nil, nil
	}

	draft := types.Draft{
		ContentHash: hash,
		ContentType: types.TypeFile,
		ContentData: content,
		Source:      app,
		SeenAt:      d.now(),
	}
	d.dispatch(draft)
	return OutcomeDispatched, &draft, nil
}

func (d *Detector) dispatch(draft types.Draft) {
	delivered := d.drafts.Publish(draft)
	d.logger.Debug("Dispatched clipboard change",
		zap.String("hash", draft.ContentHash),
		zap.String("type", string(draft.ContentType)),
		zap.String("subtype", string(draft.ContentSubtype)),
		zap.String("app", draft.Source.Name),
		zap.Int("subscribers", delivered))
}

// HashBytes returns the hex SHA-256 digest used as the dedup key
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func isImageDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image/") && strings.Contains(s, ";base64,")
}

// readOff runs read on its own goroutine so a stuck native call cannot stall
// the loop. Panics become ErrSourcePanic.
func readOff[T any](ctx context.Context, timeout time.Duration, read func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrSourcePanic, r)}
			}
		}()
		v, err := read()
		done <- result{v: v, err: err}
	}()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
