package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"solar_sizer/internal/ingest"
	"solar_sizer/internal/model"
	"solar_sizer/internal/sizing"
)

// ErrLoadIndex is returned when a load index is outside the session's list.
var ErrLoadIndex = errors.New("load index out of range")

// Store persists sessions between requests.
type Store interface {
	Get(ctx context.Context, id string) (model.Session, error)
	Put(ctx context.Context, s model.Session) error
	Delete(ctx context.Context, id string) error
}

// Snapshot is the recomputed view of a session after a change.
type Snapshot struct {
	SessionID string                `json:"session_id"`
	Loads     []model.LoadItem      `json:"loads"`
	Config    model.SystemConfig    `json:"config"`
	Result    model.SizingResult    `json:"result"`
	BOM       model.BillOfMaterials `json:"bom"`
	Summary   []string              `json:"summary"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Callback receives a snapshot after every successful mutation.
type Callback interface {
	OnSnapshot(sessionID string, snap Snapshot)
}

// Service owns the load lists of all sessions. Mutations are serialized so
// that two writers never lose each other's edits.
type Service struct {
	mu       sync.Mutex
	store    Store
	callback Callback
	defaults model.SystemConfig
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a service. cb may be nil.
func New(st Store, cb Callback, defaults model.SystemConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    st,
		callback: cb,
		defaults: defaults,
		logger:   logger,
		now:      time.Now,
	}
}

// Defaults returns the configuration new sessions start with.
func (s *Service) Defaults() model.SystemConfig {
	return s.defaults
}

// Create starts a session with an empty load list. A nil cfg uses the
// service defaults.
func (s *Service) Create(ctx context.Context, cfg *model.SystemConfig) (Snapshot, error) {
	config := s.defaults
	if cfg != nil {
		config = *cfg
	}
	if err := sizing.ValidateConfig(config); err != nil {
		return Snapshot{}, err
	}

	sess := model.Session{
		ID:        uuid.NewString(),
		Loads:     []model.LoadItem{},
		Config:    config,
		UpdatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Put(ctx, sess); err != nil {
		return Snapshot{}, fmt.Errorf("creating session: %w", err)
	}
	s.logger.Info("session created", zap.String("session_id", sess.ID))
	return s.publish(sess)
}

// Snapshot recomputes the current state of a session without changing it.
func (s *Service) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return build(sess)
}

// Refresh recomputes a session and reports it to the callback.
func (s *Service) Refresh(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.publish(sess)
}

// Delete drops a session.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// AddLoad appends a load to the session.
func (s *Service) AddLoad(ctx context.Context, id string, load model.LoadItem) (Snapshot, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		sess.Loads = append(sess.Loads, sizing.ClampLoad(load))
		return nil
	})
}

// UpdateLoad replaces the load at index.
func (s *Service) UpdateLoad(ctx context.Context, id string, index int, load model.LoadItem) (Snapshot, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		if index < 0 || index >= len(sess.Loads) {
			return fmt.Errorf("%w: %d of %d", ErrLoadIndex, index, len(sess.Loads))
		}
		sess.Loads[index] = sizing.ClampLoad(load)
		return nil
	})
}

// RemoveLoad deletes the load at index, keeping the order of the rest.
func (s *Service) RemoveLoad(ctx context.Context, id string, index int) (Snapshot, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		if index < 0 || index >= len(sess.Loads) {
			return fmt.Errorf("%w: %d of %d", ErrLoadIndex, index, len(sess.Loads))
		}
		sess.Loads = append(sess.Loads[:index], sess.Loads[index+1:]...)
		return nil
	})
}

// ReplaceLoads swaps the whole load list.
func (s *Service) ReplaceLoads(ctx context.Context, id string, loads []model.LoadItem) (Snapshot, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		sess.Loads = clampAll(loads)
		return nil
	})
}

// SetConfig validates and stores a new configuration. On error the stored
// configuration is unchanged.
func (s *Service) SetConfig(ctx context.Context, id string, cfg model.SystemConfig) (Snapshot, error) {
	if err := sizing.ValidateConfig(cfg); err != nil {
		return Snapshot{}, err
	}
	return s.mutate(ctx, id, func(sess *model.Session) error {
		sess.Config = cfg
		return nil
	})
}

// PatchConfig merges a partial JSON configuration over the session's current
// one. On error the stored configuration is unchanged.
func (s *Service) PatchConfig(ctx context.Context, id string, patch []byte) (Snapshot, error) {
	return s.mutate(ctx, id, func(sess *model.Session) error {
		cfg, err := sizing.MergeConfig(sess.Config, patch)
		if err != nil {
			return err
		}
		sess.Config = cfg
		return nil
	})
}

// ImportLoads parses a CSV or XLSX load file. With replace the file becomes
// the load list, otherwise its rows are appended.
func (s *Service) ImportLoads(ctx context.Context, id, filename string, r io.Reader, replace bool) (Snapshot, error) {
	loads, err := ingest.Parse(filename, r)
	if err != nil {
		return Snapshot{}, err
	}

	s.logger.Info("loads imported",
		zap.String("session_id", id),
		zap.String("file", filename),
		zap.Int("rows", len(loads)),
		zap.Bool("replace", replace),
	)
	return s.mutate(ctx, id, func(sess *model.Session) error {
		if replace {
			sess.Loads = loads
		} else {
			sess.Loads = append(sess.Loads, loads...)
		}
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*model.Session) error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := fn(&sess); err != nil {
		return Snapshot{}, err
	}
	sess.UpdatedAt = s.now()
	if err := s.store.Put(ctx, sess); err != nil {
		return Snapshot{}, fmt.Errorf("saving session %s: %w", id, err)
	}
	return s.publish(sess)
}

func (s *Service) publish(sess model.Session) (Snapshot, error) {
	snap, err := build(sess)
	if err != nil {
		return Snapshot{}, err
	}
	if s.callback != nil {
		s.callback.OnSnapshot(sess.ID, snap)
	}
	return snap, nil
}

func build(sess model.Session) (Snapshot, error) {
	res, err := sizing.Compute(sess.Loads, sess.Config)
	if err != nil {
		return Snapshot{}, err
	}
	loads := sess.Loads
	if loads == nil {
		loads = []model.LoadItem{}
	}
	return Snapshot{
		SessionID: sess.ID,
		Loads:     loads,
		Config:    sess.Config,
		Result:    res,
		BOM:       sizing.BuildBOM(res, sess.Config),
		Summary:   sizing.SummaryLines(res, sess.Config),
		UpdatedAt: sess.UpdatedAt,
	}, nil
}

func clampAll(loads []model.LoadItem) []model.LoadItem {
	out := make([]model.LoadItem, len(loads))
	for i, l := range loads {
		out[i] = sizing.ClampLoad(l)
	}
	return out
}
