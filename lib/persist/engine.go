package persist

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/techlog/lib/codec"
	"github.com/ValentinKolb/techlog/lib/record"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/afero"
)

var log = logger.GetLogger("persist")

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// DataFile is the name of the data file
	DataFile = "techlog.dat"
	// TempFile is the name of the file a save is staged in before it is renamed to DataFile
	TempFile = DataFile + ".tmp"

	filePerm = 0o644
)

// --------------------------------------------------------------------------
// Engine
// --------------------------------------------------------------------------

// Options configures an Engine
type Options struct {
	Fs    afero.Fs     // Filesystem (nil = the os filesystem)
	Dir   string       // Directory holding the data file ("" = working directory)
	Codec codec.ICodec // Codec used for saving (nil = json)
}

// LoadResult is the outcome of Engine.Load
type LoadResult struct {
	// Records is the loaded sequence, empty on first run or on a warning
	Records []record.Record
	// FirstRun is set when no data file exists yet
	FirstRun bool
	// Warning is a *ReadError when the data file exists but could not be used
	Warning error
}

// Engine saves and loads the record sequence of a single data file.
//
// Thread-safety: Save and Load may be called concurrently, saves are serialized.
type Engine struct {
	fs       afero.Fs
	codec    codec.ICodec
	dataPath string
	tempPath string

	saveMu sync.Mutex

	metrics      *metrics.Set
	saves        *metrics.Counter
	saveErrors   *metrics.Counter
	loads        *metrics.Counter
	loadWarnings *metrics.Counter
	saveDuration *metrics.Histogram
	savedRecords atomic.Int64
}

// NewEngine creates a new engine for the data file in opts.Dir
func NewEngine(opts Options) *Engine {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Codec == nil {
		opts.Codec = codec.NewJSONCodec()
	}

	e := &Engine{
		fs:       opts.Fs,
		codec:    opts.Codec,
		dataPath: filepath.Join(opts.Dir, DataFile),
		tempPath: filepath.Join(opts.Dir, TempFile),
		metrics:  metrics.NewSet(),
	}
	e.saves = e.metrics.NewCounter("techlog_saves_total")
	e.saveErrors = e.metrics.NewCounter("techlog_save_errors_total")
	e.loads = e.metrics.NewCounter("techlog_loads_total")
	e.loadWarnings = e.metrics.NewCounter("techlog_load_warnings_total")
	e.saveDuration = e.metrics.NewHistogram("techlog_save_duration_seconds")
	e.metrics.NewGauge("techlog_saved_records", func() float64 {
		return float64(e.savedRecords.Load())
	})
	return e
}

// DataPath returns the path of the data file
func (e *Engine) DataPath() string {
	return e.dataPath
}

// TempPath returns the path of the temporary file used during a save
func (e *Engine) TempPath() string {
	return e.tempPath
}

// Codec returns the codec used for saving
func (e *Engine) Codec() codec.ICodec {
	return e.codec
}

// WriteMetrics writes the engine metrics in Prometheus text format to w
func (e *Engine) WriteMetrics(w io.Writer) {
	e.metrics.WritePrometheus(w)
}

// --------------------------------------------------------------------------
// Save
// --------------------------------------------------------------------------

// Save replaces the content of the data file with records.
// On error the returned *WriteError describes the failed step and the data
// file still holds the content of the last successful save.
func (e *Engine) Save(records []record.Record) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	start := time.Now()
	err := e.save(records)
	e.saveDuration.UpdateDuration(start)

	if err != nil {
		e.saveErrors.Inc()
		log.Errorf("save of %d records failed: %v", len(records), err)
		return err
	}
	e.saves.Inc()
	e.savedRecords.Store(int64(len(records)))
	log.Infof("saved %d records to %s (%s, %v)", len(records), e.dataPath, e.codec.Name(), time.Since(start))
	return nil
}

// save performs a single save cycle.
//
// Thread-safety: the caller must hold saveMu.
func (e *Engine) save(records []record.Record) (err error) {
	data, err := e.codec.Encode(records)
	if err != nil {
		return &WriteError{Op: "encode", Path: e.dataPath, Err: err}
	}

	f, err := e.fs.OpenFile(e.tempPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return &WriteError{Op: "create", Path: e.tempPath, Err: err}
	}

	// from here on the temp file has to go away if anything fails
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = f.Close()
		}
		if rmErr := e.fs.Remove(e.tempPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			log.Warningf("failed to remove temp file %s: %v", e.tempPath, rmErr)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return &WriteError{Op: "write", Path: e.tempPath, Err: err}
	}
	if err = f.Sync(); err != nil {
		return &WriteError{Op: "sync", Path: e.tempPath, Err: err}
	}
	closed = true
	if err = f.Close(); err != nil {
		return &WriteError{Op: "close", Path: e.tempPath, Err: err}
	}
	if err = e.fs.Rename(e.tempPath, e.dataPath); err != nil {
		return &WriteError{Op: "rename", Path: e.dataPath, Err: err}
	}

	e.syncDir()
	return nil
}

// syncDir makes the rename durable. Not every filesystem supports syncing a
// directory, so failures are only logged.
func (e *Engine) syncDir() {
	dir, err := e.fs.Open(filepath.Dir(e.dataPath))
	if err != nil {
		log.Debugf("cannot open data directory for sync: %v", err)
		return
	}
	defer dir.Close()
	if err := dir.Sync(); err != nil {
		log.Debugf("cannot sync data directory: %v", err)
	}
}

// --------------------------------------------------------------------------
// Load
// --------------------------------------------------------------------------

// Load reads the data file. It never fails: problems are reported in
// LoadResult.Warning and result in an empty sequence.
func (e *Engine) Load() LoadResult {
	e.loads.Inc()

	if _, err := e.fs.Stat(e.tempPath); err == nil {
		log.Warningf("found leftover temp file %s from an interrupted save, ignoring it", e.tempPath)
	}

	data, err := afero.ReadFile(e.fs, e.dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Infof("no data file at %s, starting empty", e.dataPath)
		return LoadResult{FirstRun: true}
	}
	if err != nil {
		return e.warn(err)
	}

	records, used, err := codec.DecodeAny(data)
	if err != nil {
		return e.warn(err)
	}
	if used.Name() != e.codec.Name() {
		log.Infof("data file is %s encoded, next save will use %s", used.Name(), e.codec.Name())
	}

	e.savedRecords.Store(int64(len(records)))
	log.Infof("loaded %d records from %s", len(records), e.dataPath)
	return LoadResult{Records: records}
}

// warn builds the result of a failed load
func (e *Engine) warn(err error) LoadResult {
	e.loadWarnings.Inc()
	rerr := &ReadError{Path: e.dataPath, Err: err}
	log.Warningf("%v, starting with an empty log", rerr)
	return LoadResult{Warning: rerr}
}
