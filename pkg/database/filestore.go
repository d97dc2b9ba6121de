package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"cycle-insights/pkg/models"

	"gopkg.in/yaml.v3"
)

// userData is the per-user document of a FileStore.
type userData struct {
	Ledger     models.LedgerSnapshot    `yaml:"ledger"`
	Recordings []models.VoiceRecording  `yaml:"recordings,omitempty"`
	Metrics    []models.HealthMetric    `yaml:"metrics,omitempty"`
	Profile    *models.RiskInputProfile `yaml:"profile,omitempty"`
}

type fileDoc struct {
	Users map[string]*userData `yaml:"users"`
}

// FileStore keeps every user in a single YAML document. It is meant for local,
// single-process use when no MySQL server is configured.
type FileStore struct {
	path   string
	userID string
}

func NewFileStore(path, userID string) *FileStore {
	return &FileStore{path: path, userID: userID}
}

// ForUser returns a store on the same file for another user.
func (f *FileStore) ForUser(userID string) *FileStore {
	return &FileStore{path: f.path, userID: userID}
}

func (f *FileStore) read() (*fileDoc, error) {
	doc := &fileDoc{Users: map[string]*userData{}}
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if err := yaml.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if doc.Users == nil {
		doc.Users = map[string]*userData{}
	}
	return doc, nil
}

func (f *FileStore) user() (*userData, error) {
	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	if u, ok := doc.Users[f.userID]; ok && u != nil {
		return u, nil
	}
	return &userData{}, nil
}

// update applies fn to the user's document and rewrites the file atomically.
func (f *FileStore) update(fn func(u *userData)) error {
	doc, err := f.read()
	if err != nil {
		return err
	}
	u := doc.Users[f.userID]
	if u == nil {
		u = &userData{}
		doc.Users[f.userID] = u
	}
	fn(u)

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) PeriodLedger(context.Context) (models.LedgerSnapshot, error) {
	u, err := f.user()
	if err != nil {
		return models.LedgerSnapshot{}, err
	}
	return u.Ledger, nil
}

func (f *FileStore) Recordings(context.Context) ([]models.VoiceRecording, error) {
	u, err := f.user()
	if err != nil {
		return nil, err
	}
	return u.Recordings, nil
}

func (f *FileStore) Metrics(context.Context) (map[string]models.HealthMetric, error) {
	u, err := f.user()
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.HealthMetric, len(u.Metrics))
	for _, m := range u.Metrics {
		out[m.Date] = m
	}
	return out, nil
}

func (f *FileStore) Profile(context.Context) (*models.RiskInputProfile, error) {
	u, err := f.user()
	if err != nil {
		return nil, err
	}
	return u.Profile, nil
}

func (f *FileStore) SaveLedger(_ context.Context, s models.LedgerSnapshot) error {
	return f.update(func(u *userData) { u.Ledger = s })
}

func (f *FileStore) SaveRecordings(_ context.Context, recs []models.VoiceRecording) error {
	return f.update(func(u *userData) { u.Recordings = recs })
}

// SaveMetrics upserts the given days; other days are left untouched.
func (f *FileStore) SaveMetrics(_ context.Context, ms []models.HealthMetric) error {
	return f.update(func(u *userData) {
		byDate := make(map[string]models.HealthMetric, len(u.Metrics)+len(ms))
		for _, m := range u.Metrics {
			byDate[m.Date] = m
		}
		for _, m := range ms {
			byDate[m.Date] = m
		}
		u.Metrics = u.Metrics[:0]
		for _, m := range byDate {
			u.Metrics = append(u.Metrics, m)
		}
		sort.Slice(u.Metrics, func(i, j int) bool { return u.Metrics[i].Date < u.Metrics[j].Date })
	})
}

func (f *FileStore) SaveProfile(_ context.Context, p models.RiskInputProfile) error {
	return f.update(func(u *userData) { u.Profile = &p })
}
