// Package opencv implements the vision locator and classifier on top of gocv.
//
// Each worker owns its own cascade and network handles; gocv objects are not
// safe for concurrent use, so calls borrow a worker for their duration.
package opencv

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/vision"
	"gocv.io/x/gocv"
)

// scaleImage is CASCADE_SCALE_IMAGE.
const scaleImage = 2

type worker struct {
	cascade gocv.CascadeClassifier
	net     gocv.Net
}

func (w *worker) close() {
	w.cascade.Close()
	w.net.Close()
}

// Engine implements [vision.FaceLocator] and [vision.EmotionClassifier].
type Engine struct {
	workers      chan *worker
	all          []*worker
	shape        []int
	scaleFactor  float64
	minNeighbors int
	minSize      int
	logger       *log.Logger
}

// NewEngine loads cfg.Workers copies of the cascade and model. Any load failure is fatal and wraps [shared.ErrModelLoad].
func NewEngine(cfg shared.VisionConfig, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	shape, err := vision.TensorShape(cfg.InputLayout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrModelLoad, err)
	}

	n := max(cfg.Workers, 1)
	e := &Engine{
		workers:      make(chan *worker, n),
		shape:        shape,
		scaleFactor:  cfg.ScaleFactor,
		minNeighbors: cfg.MinNeighbors,
		minSize:      cfg.MinSize,
		logger:       logger,
	}
	if e.scaleFactor <= 1 {
		e.scaleFactor = 1.1
	}
	if e.minNeighbors <= 0 {
		e.minNeighbors = 5
	}
	if e.minSize <= 0 {
		e.minSize = vision.FaceSize
	}

	for range n {
		w, err := loadWorker(cfg.CascadePath, cfg.ModelPath)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.all = append(e.all, w)
		e.workers <- w
	}

	logger.Info("vision engine ready", "workers", n, "cascade", cfg.CascadePath, "model", cfg.ModelPath, "layout", shape)
	return e, nil
}

func loadWorker(cascadePath, modelPath string) (*worker, error) {
	cascade := gocv.NewCascadeClassifier()
	if !cascade.Load(cascadePath) {
		cascade.Close()
		return nil, fmt.Errorf("%w: failed to load face cascade %s", shared.ErrModelLoad, cascadePath)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		cascade.Close()
		net.Close()
		return nil, fmt.Errorf("%w: failed to load emotion model %s", shared.ErrModelLoad, modelPath)
	}

	return &worker{cascade: cascade, net: net}, nil
}

// Close releases every worker's handles.
func (e *Engine) Close() {
	for _, w := range e.all {
		w.close()
	}
	e.all = nil
}

func (e *Engine) acquire(ctx context.Context) (*worker, error) {
	select {
	case w := <-e.workers:
		return w, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) release(w *worker) {
	e.workers <- w
}

// Locate runs the Haar cascade over a grayscale copy of buf and returns the first detection.
func (e *Engine) Locate(ctx context.Context, buf *vision.ImageBuffer) (image.Rectangle, bool, error) {
	w, err := e.acquire(ctx)
	if err != nil {
		return image.Rectangle{}, false, err
	}
	defer e.release(w)

	gray, err := grayscale(buf)
	if err != nil {
		return image.Rectangle{}, false, err
	}
	defer gray.Close()

	minSize := image.Pt(e.minSize, e.minSize)
	faces := w.cascade.DetectMultiScaleWithParams(gray, e.scaleFactor, e.minNeighbors, scaleImage, minSize, image.Pt(0, 0))
	region, ok := vision.SelectFace(faces)
	if ok {
		e.logger.Debug("faces detected", "count", len(faces), "selected", region.String())
	}
	return region, ok, nil
}

// Classify crops region, resizes it to 48x48 grayscale, and returns the label with the highest score.
func (e *Engine) Classify(ctx context.Context, buf *vision.ImageBuffer, region image.Rectangle) (models.Emotion, error) {
	region, err := vision.ClampRegion(region, buf.Bounds())
	if err != nil {
		return "", err
	}

	w, err := e.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer e.release(w)

	gray, err := grayscale(buf)
	if err != nil {
		return "", err
	}
	defer gray.Close()

	crop := gray.Region(region)
	defer crop.Close()

	face := gocv.NewMat()
	defer face.Close()
	gocv.Resize(crop, &face, image.Pt(vision.FaceSize, vision.FaceSize), 0, 0, gocv.InterpolationLinear)
	if face.Empty() {
		return "", errors.New("resize produced an empty face")
	}

	blob, err := gocv.NewMatWithSizesFromBytes(e.shape, gocv.MatTypeCV32F, vision.TensorBytes(vision.Normalize(face.ToBytes())))
	if err != nil {
		return "", fmt.Errorf("failed to build input tensor: %w", err)
	}
	defer blob.Close()

	w.net.SetInput(blob, "")
	out := w.net.Forward("")
	defer out.Close()

	scores, err := out.DataPtrFloat32()
	if err != nil {
		return "", fmt.Errorf("failed to read model output: %w", err)
	}
	if len(scores) != len(models.Labels) {
		return "", fmt.Errorf("model produced %d scores, expected %d", len(scores), len(models.Labels))
	}

	idx, err := vision.ArgMax(scores)
	if err != nil {
		return "", err
	}
	return models.LabelAt(idx)
}

func grayscale(buf *vision.ImageBuffer) (gocv.Mat, error) {
	bgr, err := gocv.NewMatFromBytes(buf.Height, buf.Width, gocv.MatTypeCV8UC3, buf.Pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to wrap image buffer: %w", err)
	}
	defer bgr.Close()

	gray := gocv.NewMat()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)
	if gray.Empty() {
		gray.Close()
		return gocv.Mat{}, errors.New("grayscale conversion produced an empty image")
	}
	return gray, nil
}
