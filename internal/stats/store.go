package stats

import (
	"os"
	"path/filepath"
	"time"

	"signal_bot/internal/models"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// Store snapshots the whole ledger to one local file. Written via temp file
// plus rename so a crash mid-write cannot corrupt the next load.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Save(st *models.TradeStats) error {
	data, err := sonic.Marshal(st)
	if err != nil {
		return errors.Wrap(err, "marshal stats")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".stats-*")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "write snapshot")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "close snapshot")
	}
	return os.Rename(tmp.Name(), s.path)
}

// Load restores the latest snapshot. A missing or corrupt file is not an
// error condition for the caller to act on beyond starting fresh.
func (s *Store) Load() (*models.TradeStats, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var st models.TradeStats
	if err := sonic.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	if st.StartedAt.IsZero() {
		st.StartedAt = time.Now()
	}
	return &st, nil
}
