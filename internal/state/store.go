package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/cruciblehq/dockerpack/internal/paths"
)

// Persisted record of completed jobs and steps.
//
// A Store is not safe for concurrent use, and two processes must not share
// the same record path.
type Store struct {
	path    string    // Location of the JSON record.
	enabled bool      // Whether the store reads, writes and answers queries.
	started time.Time // Start of the current build, written as last_build_time.
	loaded  time.Time // last_build_time of the record read by Load, if any.
	rec     record    // In-memory collections.
}

// Creates an enabled, empty store backed by the record at path.
//
// Nothing is read until [Store.Load] is called.
func New(path string) *Store {
	return &Store{
		path:    path,
		enabled: true,
		started: time.Now().Truncate(time.Second),
		rec:     newRecord(),
	}
}

// Returns the path of the backing record.
func (s *Store) Path() string {
	return s.path
}

// Enables or disables the store.
//
// A disabled store answers every query with false, ignores marks, and
// neither writes nor deletes the record.
func (s *Store) Enable(enabled bool) {
	s.enabled = enabled
}

// Returns true if the store is enabled.
func (s *Store) Enabled() bool {
	return s.enabled
}

// Reports whether a record exists on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Reads the record into memory.
//
// If the store is disabled or no record exists, the in-memory collections
// are left empty and no error is returned.
func (s *Store) Load() error {
	s.rec = newRecord()
	s.loaded = time.Time{}

	if !s.enabled {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading state %s", s.path)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return errors.Wrapf(ErrCorruptRecord, "%s: %v", s.path, err)
	}
	rec.normalize()

	s.rec = rec
	if rec.LastBuildTime > 0 {
		s.loaded = time.Unix(rec.LastBuildTime, 0)
	}
	return nil
}

// Writes the in-memory collections to the record, replacing it.
//
// The record is written to a temporary file in the same directory and
// renamed into place, so a crash never leaves a truncated record behind.
func (s *Store) Save() error {
	if !s.enabled {
		return nil
	}

	rec := s.rec
	rec.LastBuildTime = s.started.Unix()

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding state")
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return errors.Wrapf(err, "writing state %s", s.path)
	}
	return nil
}

// Deletes the record from disk.
//
// A missing record is not an error. The in-memory collections are cleared.
func (s *Store) Remove() error {
	if !s.enabled {
		return nil
	}

	s.rec = newRecord()
	s.loaded = time.Time{}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing state %s", s.path)
	}
	return nil
}

// Returns the last_build_time of the record read by [Store.Load], or the
// zero time if none was read.
func (s *Store) LastBuild() time.Time {
	return s.loaded
}

// Reports whether the job has been marked completed.
func (s *Store) HasCompletedJob(job string) bool {
	if !s.enabled {
		return false
	}
	return containsFold(s.rec.SuccessJobs, job)
}

// Reports whether the step with the given hash has completed within job.
func (s *Store) HasCompletedStep(job, hash string) bool {
	if !s.enabled {
		return false
	}
	return containsFold(s.rec.SuccessSteps[job], hash)
}

// Reports whether the step with the given hash has completed within the
// image build.
func (s *Store) HasCompletedBuildStep(image, hash string) bool {
	if !s.enabled {
		return false
	}
	return containsFold(s.rec.SuccessBuildSteps[image], hash)
}

// Marks the job as completed.
func (s *Store) MarkJobCompleted(job string) {
	if !s.enabled {
		return
	}
	s.rec.SuccessJobs = appendUnique(s.rec.SuccessJobs, job)
}

// Marks the step with the given hash as completed within job.
func (s *Store) MarkStepCompleted(job, hash string) {
	if !s.enabled {
		return
	}
	s.rec.SuccessSteps[job] = appendUnique(s.rec.SuccessSteps[job], hash)
}

// Marks the step with the given hash as completed within the image build.
func (s *Store) MarkBuildStepCompleted(image, hash string) {
	if !s.enabled {
		return
	}
	s.rec.SuccessBuildSteps[image] = appendUnique(s.rec.SuccessBuildSteps[image], hash)
}

// Writes data to path through a temporary file and an atomic rename.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(paths.DefaultFileMode); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	committed = true
	return nil
}
