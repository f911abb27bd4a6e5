package storages

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/reusee/arcflow/flowconfigs"
	"github.com/reusee/arcflow/logs"
	"github.com/reusee/arcflow/nets"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs flowconfigs.Module
	Nets    nets.Module
	Logs    logs.Module
}

var ErrNoStorage = errors.New("no storage configured")

// GetStorage opens the configured storage once.
// Postgres is preferred over a project service, which is preferred over a directory.
type GetStorage func(ctx context.Context) (Storage, error)

func (Module) GetStorage(
	dsn flowconfigs.PostgresDSN,
	storageURL flowconfigs.StorageURL,
	storageDir flowconfigs.StorageDir,
	client nets.HTTPClient,
	logger logs.Logger,
) GetStorage {
	var l sync.Mutex
	var storage Storage
	return func(ctx context.Context) (Storage, error) {
		l.Lock()
		defer l.Unlock()
		if storage != nil {
			return storage, nil
		}

		var ret Storage
		switch {

		case dsn != "":
			pg, err := OpenPostgres(ctx, string(dsn), "")
			if err != nil {
				return nil, err
			}
			logger.Info("storage", "type", "postgres")
			ret = pg

		case storageURL != "":
			ret = NewHTTP(string(storageURL), client)
			logger.Info("storage", "type", "http", "url", storageURL)

		case storageDir != "":
			ret = NewDir(strings.TrimSpace(string(storageDir)))
			logger.Info("storage", "type", "dir", "path", storageDir)

		default:
			return nil, ErrNoStorage
		}

		storage = NewLogged(ret, logger)
		return storage, nil
	}
}
