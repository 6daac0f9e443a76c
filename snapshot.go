package stage

import (
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EntryRecord is the pixel-free form of an Entry.
type EntryRecord struct {
	ID     int    `yaml:"id"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Alpha  uint8  `yaml:"alpha"`
	Recipe Recipe `yaml:"recipe"`
}

// Snapshot is the serialized state of a Cache: recipes only, no pixels.
// The format is internal and carries no cross-version guarantee.
type Snapshot struct {
	NextID  int            `yaml:"next_id"`
	Entries []EntryRecord  `yaml:"entries"`
	Paths   map[string]int `yaml:"paths,omitempty"`
}

// Serialize captures every retained entry's recipe. The ephemeral slot is
// never included. The cache itself is left untouched.
func (c *Cache) Serialize() *Snapshot {
	s := &Snapshot{NextID: c.nextID, Paths: make(map[string]int, len(c.paths))}
	for path, id := range c.paths {
		s.Paths[path] = id
	}
	for _, id := range c.ids() {
		e := c.entries[id]
		var rec EntryRecord
		if err := copier.CopyWithOption(&rec.Recipe, &e.Recipe, copier.Option{DeepCopy: true}); err != nil {
			panic(errors.Wrap(err, "stage: serialize recipe"))
		}
		rec.ID = id
		rec.Width, rec.Height = e.Size.X, e.Size.Y
		rec.Alpha = e.Alpha
		s.Entries = append(s.Entries, rec)
	}
	return s
}

// Restore replaces the cache contents with the entries of s, regenerating
// every surface from its recipe. On error the cache is left unchanged.
func (c *Cache) Restore(s *Snapshot) error {
	entries := make(map[int]*Entry, len(s.Entries))
	for _, rec := range s.Entries {
		surf, err := c.regenerate(rec)
		if err != nil {
			return err
		}
		entries[rec.ID] = &Entry{
			ID:      rec.ID,
			Surface: surf,
			Size:    image.Pt(rec.Width, rec.Height),
			Alpha:   rec.Alpha,
			Recipe:  rec.Recipe,
		}
	}
	c.entries = entries
	c.paths = make(map[string]int, len(s.Paths))
	for path, id := range s.Paths {
		c.paths[path] = id
	}
	c.nextID = s.NextID
	c.temp = nil
	return nil
}

// Encode writes s as YAML.
func (s *Snapshot) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "stage: encode snapshot")
	}
	return errors.Wrap(enc.Close(), "stage: encode snapshot")
}

// DecodeSnapshot reads a snapshot written by Encode.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(err, "stage: decode snapshot")
	}
	return &s, nil
}

// WriteSnapshotFile encodes s to path, creating parent directories.
func WriteSnapshotFile(path string, s *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "stage: save %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "stage: save %s", path)
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "stage: save %s", path)
}

// ReadSnapshotFile decodes the snapshot stored at path.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stage: load %s", path)
	}
	defer f.Close()
	return DecodeSnapshot(f)
}
