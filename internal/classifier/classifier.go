// Package classifier wraps the TensorFlow Lite audio event model. It exposes
// one-time initialization via New and per-window inference via Predict.
package classifier

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"sync"

	tflite "github.com/tphakala/go-tflite"

	"github.com/SolomonGithu/barkdet-go/internal/conf"
	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

// Result pairs a class label with the model's confidence for one window.
// Results are returned in label-file order, which callers rely on for
// deterministic tie-breaking.
type Result struct {
	Label      string
	Confidence float32
}

// Classifier represents the audio event model with its interpreter and labels.
// Predict is serialized with an internal mutex; the interpreter is not safe
// for concurrent invocation.
type Classifier struct {
	interpreter *tflite.Interpreter
	labels      []string
	inputSize   int
	sensitivity float64

	mu               sync.Mutex
	closed           bool
	confidenceBuffer []float32 // reused between calls to reduce allocations
}

// New loads the TFLite model and labels and allocates the interpreter.
// This is the one-time initialization step and must complete before Predict.
func New(settings *conf.Settings) (*Classifier, error) {
	if settings.Classifier.ModelPath == "" {
		return nil, errors.Newf("classifier model path is not configured").
			Component("classifier").
			Category(errors.CategoryConfiguration).
			Build()
	}

	modelData, err := os.ReadFile(settings.Classifier.ModelPath)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to read model file: %w", err)).
			Component("classifier").
			Category(errors.CategoryModelLoad).
			Context("model_path", settings.Classifier.ModelPath).
			Build()
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return nil, errors.Newf("cannot load TensorFlow Lite model").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Context("model_path", settings.Classifier.ModelPath).
			Context("model_size_kb", len(modelData)/1024).
			Build()
	}

	threads := settings.Classifier.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(threads)

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		return nil, errors.Newf("cannot create TensorFlow Lite interpreter").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		return nil, errors.Newf("tensor allocation failed").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}

	inputTensor := interpreter.GetInputTensor(0)
	if inputTensor == nil {
		interpreter.Delete()
		return nil, errors.Newf("cannot get model input tensor").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}
	inputSize := len(inputTensor.Float32s())

	labels, err := loadLabels(settings.Classifier.LabelPath)
	if err != nil {
		interpreter.Delete()
		return nil, err
	}

	c := &Classifier{
		interpreter: interpreter,
		labels:      labels,
		inputSize:   inputSize,
		sensitivity: settings.Classifier.Sensitivity,
	}

	if err := c.validateModelAndLabels(); err != nil {
		interpreter.Delete()
		return nil, err
	}

	// Model data is no longer needed, TFLite keeps its own copy
	runtime.GC()

	return c, nil
}

// InputSize returns the model's expected window length in samples.
func (c *Classifier) InputSize() int {
	return c.inputSize
}

// Labels returns the class labels in model output order.
func (c *Classifier) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Predict performs inference on one analysis window and returns per-label
// confidences in label order. The window length must equal InputSize.
func (c *Classifier) Predict(window []float32) ([]Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.Newf("classifier is closed").
			Component("classifier").
			Category(errors.CategoryAudioAnalysis).
			Build()
	}

	if len(window) != c.inputSize {
		return nil, errors.Newf("window length %d does not match model input length %d", len(window), c.inputSize).
			Component("classifier").
			Category(errors.CategoryValidation).
			Context("window_length", len(window)).
			Context("input_size", c.inputSize).
			Build()
	}

	inputTensor := c.interpreter.GetInputTensor(0)
	if inputTensor == nil {
		return nil, errors.Newf("cannot get input tensor").
			Component("classifier").
			Category(errors.CategoryAudioAnalysis).
			Build()
	}
	copy(inputTensor.Float32s(), window)

	if status := c.interpreter.Invoke(); status != tflite.OK {
		return nil, errors.Newf("tensor invoke failed: %v", status).
			Component("classifier").
			Category(errors.CategoryAudioAnalysis).
			Build()
	}

	outputTensor := c.interpreter.GetOutputTensor(0)
	if outputTensor == nil {
		return nil, errors.Newf("cannot get output tensor").
			Component("classifier").
			Category(errors.CategoryAudioAnalysis).
			Build()
	}

	predictions := outputTensor.Float32s()
	c.confidenceBuffer = applySigmoidToPredictions(predictions, c.sensitivity, c.confidenceBuffer)

	return pairLabelsAndConfidence(c.labels, c.confidenceBuffer)
}

// Close releases the interpreter. Predict fails after Close.
func (c *Classifier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.interpreter != nil {
		c.interpreter.Delete()
		c.interpreter = nil
	}
}

// validateModelAndLabels ensures the label count matches the model output.
func (c *Classifier) validateModelAndLabels() error {
	outputTensor := c.interpreter.GetOutputTensor(0)
	if outputTensor == nil {
		return errors.Newf("cannot get model output tensor").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}
	outputSize := len(outputTensor.Float32s())
	if outputSize != len(c.labels) {
		return errors.Newf("label count %d does not match model output size %d", len(c.labels), outputSize).
			Component("classifier").
			Category(errors.CategoryLabelLoad).
			Context("labels", len(c.labels)).
			Context("output_size", outputSize).
			Build()
	}
	return nil
}

// loadLabels reads class labels from the label file, one per line.
func loadLabels(path string) ([]string, error) {
	if path == "" {
		return nil, errors.Newf("classifier label path is not configured").
			Component("classifier").
			Category(errors.CategoryConfiguration).
			Build()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to open label file: %w", err)).
			Component("classifier").
			Category(errors.CategoryLabelLoad).
			Context("label_path", path).
			Build()
	}
	defer f.Close() //nolint:errcheck

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			labels = append(labels, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(fmt.Errorf("failed to read label file: %w", err)).
			Component("classifier").
			Category(errors.CategoryLabelLoad).
			Context("label_path", path).
			Build()
	}
	if len(labels) == 0 {
		return nil, errors.Newf("label file contains no labels").
			Component("classifier").
			Category(errors.CategoryLabelLoad).
			Context("label_path", path).
			Build()
	}
	return labels, nil
}
