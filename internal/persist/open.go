package persist

import (
	"context"
	"fmt"

	"github.com/fractallands/simcore/internal/config"
	"go.uber.org/zap"
)

// Store is a named map blob store. DirStore and PGStore both implement it.
type Store interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	List(ctx context.Context) ([]string, error)
}

// Opened is the store selected by Open.
type Opened struct {
	Store  Store
	Driver string
	// Schema and Seeded are only set for postgres.
	Schema int64
	Seeded int

	close func()
}

// Close releases the store's connections, if any.
func (o *Opened) Close() {
	if o.close != nil {
		o.close()
	}
}

// Open returns the store named by cfg.Driver. For postgres it connects,
// migrates and, when SeedFromDir is set, imports the map directory into an
// empty table.
func Open(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*Opened, error) {
	dir := NewDirStore(cfg.MapDir)
	switch cfg.Driver {
	case "file":
		return &Opened{Store: dir, Driver: cfg.Driver}, nil
	case "postgres":
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	db, err := Connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	o := &Opened{Store: NewPGStore(db), Driver: cfg.Driver, close: db.Close}
	if o.Schema, err = db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if cfg.SeedFromDir {
		if o.Seeded, err = Seed(ctx, dir, o.Store); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed maps: %w", err)
		}
		log.Info("maps imported", zap.Int("count", o.Seeded), zap.String("from", cfg.MapDir))
	}
	return o, nil
}

// Seed copies every map of src into dst when dst holds no maps yet and
// returns how many were copied.
func Seed(ctx context.Context, src, dst Store) (int, error) {
	existing, err := dst.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	names, err := src.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, name := range names {
		body, err := src.Read(ctx, name)
		if err != nil {
			return 0, err
		}
		if err := dst.Write(ctx, name, body); err != nil {
			return 0, err
		}
	}
	return len(names), nil
}
