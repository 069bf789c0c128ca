// Package transfer snapshots the result store to a directory of CSV files
// and hydrates the store from such a directory.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/roach88/ascent/internal/codec"
	"github.com/roach88/ascent/internal/logging"
	"github.com/roach88/ascent/internal/model"
	"github.com/roach88/ascent/internal/store"
)

// RunIDGenerator generates the id attached to each export or import run.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered UUIDv7 run ids.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FileSummary describes what happened to one snapshot file.
type FileSummary struct {
	Kind     model.Kind `json:"kind"`
	Path     string     `json:"path"`
	Records  int        `json:"records"`
	Inserted int        `json:"inserted,omitempty"`
	Skipped  int        `json:"skipped,omitempty"`
	Missing  bool       `json:"missing,omitempty"`
}

// Summary reports the outcome of one Export or Import call.
type Summary struct {
	RunID string        `json:"runId"`
	Dir   string        `json:"dir"`
	Files []FileSummary `json:"files"`
}

// Records returns the number of records written or read across all files.
func (s Summary) Records() int {
	n := 0
	for _, f := range s.Files {
		n += f.Records
	}
	return n
}

// Inserted returns the number of records added to the store by an import.
func (s Summary) Inserted() int {
	n := 0
	for _, f := range s.Files {
		n += f.Inserted
	}
	return n
}

// Skipped returns the number of duplicate records an import left alone.
func (s Summary) Skipped() int {
	n := 0
	for _, f := range s.Files {
		n += f.Skipped
	}
	return n
}

// Service moves records between a Store and a snapshot directory.
type Service struct {
	store  *store.Store
	logger *slog.Logger
	runIDs RunIDGenerator
}

// Option configures a Service.
type Option func(*Service)

// WithRunIDGenerator replaces the default UUIDv7 run id source.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(s *Service) {
		if g != nil {
			s.runIDs = g
		}
	}
}

// New creates a Service over st. A nil logger discards output.
func New(st *store.Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Service{
		store:  st,
		logger: logger,
		runIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export writes every record of every kind to dir, one file per kind
// named by model.Kind.FileName. Existing files are overwritten.
func (s *Service) Export(ctx context.Context, dir string) (Summary, error) {
	sum := Summary{RunID: s.runIDs.Generate(), Dir: dir}
	log := s.logger.With("run_id", sum.RunID, "dir", dir)
	log.Info("export started")

	steps := []func() (FileSummary, error){
		func() (FileSummary, error) {
			return exportKind(ctx, s.store.Climbers().Collection, codec.Climbers, dir)
		},
		func() (FileSummary, error) {
			return exportKind(ctx, s.store.Leads().Collection, codec.Leads, dir)
		},
		func() (FileSummary, error) {
			return exportKind(ctx, s.store.Speeds().Collection, codec.Speeds, dir)
		},
		func() (FileSummary, error) {
			return exportKind(ctx, s.store.Boulders().Collection, codec.Boulders, dir)
		},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		fs, err := step()
		if err != nil {
			log.Error("export failed", "kind", fs.Kind, "error", err)
			return sum, err
		}
		log.Debug("file exported", "kind", fs.Kind, "path", fs.Path, "records", fs.Records)
		sum.Files = append(sum.Files, fs)
	}

	log.Info("export finished", "records", sum.Records())
	return sum, nil
}

func exportKind[T model.Record](ctx context.Context, coll *store.Collection[T], c codec.Codec[T], dir string) (FileSummary, error) {
	kind := coll.Kind()
	fs := FileSummary{Kind: kind}
	recs, err := coll.All(ctx)
	if err != nil {
		return fs, fmt.Errorf("export %s: %w", kind, err)
	}
	path, err := c.WriteFile(recs, dir, kind.FileName())
	if err != nil {
		return fs, fmt.Errorf("export %s: %w", kind, err)
	}
	fs.Path = path
	fs.Records = len(recs)
	return fs, nil
}

// Snapshot is the parsed content of a snapshot directory.
type Snapshot struct {
	Dir      string
	Climbers []model.Climber
	Leads    []model.LeadResult
	Speeds   []model.SpeedResult
	Boulders []model.BoulderResult
	// Missing lists the kinds whose file was absent.
	Missing []model.Kind
}

// Has reports whether the file for kind was present.
func (s *Snapshot) Has(kind model.Kind) bool {
	for _, k := range s.Missing {
		if k == kind {
			return false
		}
	}
	return true
}

func (s *Snapshot) files() []FileSummary {
	counts := map[model.Kind]int{
		model.KindClimber: len(s.Climbers),
		model.KindLead:    len(s.Leads),
		model.KindSpeed:   len(s.Speeds),
		model.KindBoulder: len(s.Boulders),
	}
	files := make([]FileSummary, 0, len(model.Kinds))
	for _, k := range model.Kinds {
		files = append(files, FileSummary{
			Kind:    k,
			Path:    filepath.Join(s.Dir, k.FileName()),
			Records: counts[k],
			Missing: !s.Has(k),
		})
	}
	return files
}

// ReadSnapshot parses every snapshot file present in dir. Missing files are
// recorded in Snapshot.Missing; any other failure, including the first
// malformed row of any file, is returned and no partial Snapshot is.
//
// dir itself must exist and be a directory; otherwise a *codec.IOError is
// returned, so a mistyped path is never mistaken for an empty snapshot.
func ReadSnapshot(dir string) (*Snapshot, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &codec.IOError{Op: "stat", Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &codec.IOError{Op: "stat", Path: dir, Err: errNotDir}
	}

	snap := &Snapshot{Dir: dir}
	if snap.Climbers, err = readKind(snap, codec.Climbers); err != nil {
		return nil, err
	}
	if snap.Leads, err = readKind(snap, codec.Leads); err != nil {
		return nil, err
	}
	if snap.Speeds, err = readKind(snap, codec.Speeds); err != nil {
		return nil, err
	}
	if snap.Boulders, err = readKind(snap, codec.Boulders); err != nil {
		return nil, err
	}
	return snap, nil
}

var errNotDir = errors.New("not a directory")

func readKind[T model.Record](snap *Snapshot, c codec.Codec[T]) ([]T, error) {
	recs, err := c.ReadFile(filepath.Join(snap.Dir, c.Kind.FileName()))
	if errors.Is(err, os.ErrNotExist) {
		snap.Missing = append(snap.Missing, c.Kind)
		return nil, nil
	}
	return recs, err
}

// Check parses dir like ReadSnapshot and reports per-file record counts.
func Check(dir string) (Summary, error) {
	snap, err := ReadSnapshot(dir)
	if err != nil {
		return Summary{Dir: dir}, err
	}
	return Summary{Dir: dir, Files: snap.files()}, nil
}

// Import reads every snapshot file present in dir and inserts its records.
//
// All files are parsed before the store is touched: a single malformed row
// in any file aborts the whole import with a *codec.MalformedRowError and
// nothing is inserted. Missing files are skipped. Records whose identity is
// already stored are counted as skipped and left unchanged.
func (s *Service) Import(ctx context.Context, dir string) (Summary, error) {
	sum := Summary{RunID: s.runIDs.Generate(), Dir: dir}
	log := s.logger.With("run_id", sum.RunID, "dir", dir)
	log.Info("import started")

	snap, err := ReadSnapshot(dir)
	if err != nil {
		log.Error("import aborted", "error", err)
		return sum, err
	}
	for _, k := range snap.Missing {
		log.Debug("snapshot file missing, skipping", "kind", k)
	}

	inserts := map[model.Kind]func() (store.BatchResult, error){
		model.KindClimber: func() (store.BatchResult, error) {
			return s.store.Climbers().InsertBatch(ctx, snap.Climbers)
		},
		model.KindLead: func() (store.BatchResult, error) {
			return s.store.Leads().InsertBatch(ctx, snap.Leads)
		},
		model.KindSpeed: func() (store.BatchResult, error) {
			return s.store.Speeds().InsertBatch(ctx, snap.Speeds)
		},
		model.KindBoulder: func() (store.BatchResult, error) {
			return s.store.Boulders().InsertBatch(ctx, snap.Boulders)
		},
	}

	for _, fs := range snap.files() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if !fs.Missing {
			res, err := inserts[fs.Kind]()
			fs.Inserted, fs.Skipped = res.Inserted, res.Skipped
			if err != nil {
				sum.Files = append(sum.Files, fs)
				log.Error("import failed", "kind", fs.Kind, "inserted", fs.Inserted, "error", err)
				return sum, fmt.Errorf("import %s: %w", fs.Kind, err)
			}
			log.Debug("file imported", "kind", fs.Kind, "inserted", fs.Inserted, "skipped", fs.Skipped)
		}
		sum.Files = append(sum.Files, fs)
	}

	log.Info("import finished", "inserted", sum.Inserted(), "skipped", sum.Skipped())
	return sum, nil
}
