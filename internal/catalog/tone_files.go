package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/amafra/tonecapture/internal/datastore/entities"
	"github.com/amafra/tonecapture/internal/datastore/repository"
	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/observability/metrics"
)

// CreateToneFile adds a tone file of kind. The base row and the variant row
// are written in one transaction. An empty filename defaults to the last
// element of path.
func (c *Catalog) CreateToneFile(ctx context.Context, kind ToneFileKind, path, filename, notes string) (tf ToneFile, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpCreateToneFile, start, err) }(time.Now())

	if !kind.Valid() {
		return nil, invalidKind("tone file", string(kind))
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, invalidInput("tone file path", "is empty")
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = filepath.Base(path)
	}

	row := &entities.ToneFile{Path: path, Filename: filename, Notes: notes, FileType: kind}
	err = c.tx(ctx, func(repos *repository.Set) error {
		if err := repos.ToneFiles.Create(ctx, row); err != nil {
			return err
		}
		return repos.ToneFiles.CreateVariant(ctx, kind, row.ID)
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, duplicate("tone file", "path", path)
	}
	if err != nil {
		return nil, mapRepoError(metrics.OpCreateToneFile, "tone file", path, err)
	}

	c.log.WithContext(ctx).Debug("tone file created",
		logger.Uint64("id", uint64(row.ID)),
		logger.String("kind", string(kind)),
		logger.String("filename", filename))
	return toToneFile(row, nil)
}

// FindToneFile returns the tone file with id resolved to its variant, with
// its device chain attached. The base row, variant row and chain are read in
// one transaction.
func (c *Catalog) FindToneFile(ctx context.Context, id uint) (tf ToneFile, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpFindToneFile, start, err) }(time.Now())

	err = c.tx(ctx, func(repos *repository.Set) error {
		row, err := repos.ToneFiles.GetByID(ctx, id)
		if err != nil {
			return mapRepoError(metrics.OpFindToneFile, "tone file", id, err)
		}
		tf, err = resolveToneFile(ctx, repos, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tf, nil
}

// FindToneFileByPath returns the tone file stored under path.
func (c *Catalog) FindToneFileByPath(ctx context.Context, path string) (tf ToneFile, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpFindToneFile, start, err) }(time.Now())

	path = strings.TrimSpace(path)
	err = c.tx(ctx, func(repos *repository.Set) error {
		row, err := repos.ToneFiles.GetByPath(ctx, path)
		if err != nil {
			return mapRepoError(metrics.OpFindToneFile, "tone file", path, err)
		}
		tf, err = resolveToneFile(ctx, repos, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tf, nil
}

// resolveToneFile checks the variant row and loads the chain. A base row
// without its variant row is reported as not found.
func resolveToneFile(ctx context.Context, repos *repository.Set, row *entities.ToneFile) (ToneFile, error) {
	if !row.FileType.Valid() {
		return nil, invalidKind("tone file", string(row.FileType))
	}

	ok, err := repos.ToneFiles.VariantExists(ctx, row.FileType, row.ID)
	if err != nil {
		return nil, mapRepoError(metrics.OpFindToneFile, "tone file", row.ID, err)
	}
	if !ok {
		return nil, notFound(string(row.FileType)+" file", row.ID)
	}

	chain, err := loadChain(ctx, repos, row.ID)
	if err != nil {
		return nil, err
	}
	return toToneFile(row, chain)
}

// ListToneFiles returns tone files of kind ordered by id, chains attached.
// An empty kind lists every tone file. All rows come from one transaction.
func (c *Catalog) ListToneFiles(ctx context.Context, kind ToneFileKind) (tfs []ToneFile, err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpListToneFiles, start, err) }(time.Now())

	if kind != "" && !kind.Valid() {
		return nil, invalidKind("tone file", string(kind))
	}

	err = c.tx(ctx, func(repos *repository.Set) error {
		rows, err := repos.ToneFiles.GetAll(ctx, kind)
		if err != nil {
			return mapRepoError(metrics.OpListToneFiles, "tone file", kind, err)
		}

		tfs = make([]ToneFile, 0, len(rows))
		for _, row := range rows {
			chain, err := loadChain(ctx, repos, row.ID)
			if err != nil {
				return err
			}
			tf, err := toToneFile(row, chain)
			if err != nil {
				return err
			}
			tfs = append(tfs, tf)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tfs, nil
}

// UpdateNotes replaces the notes of a tone file.
func (c *Catalog) UpdateNotes(ctx context.Context, id uint, notes string) (err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpUpdateToneFile, start, err) }(time.Now())

	err = c.tx(ctx, func(repos *repository.Set) error {
		return repos.ToneFiles.Update(ctx, id, map[string]any{"notes": notes})
	})
	return mapRepoError(metrics.OpUpdateToneFile, "tone file", id, err)
}

// UpdateEmbedding stores an opaque embedding blob. A nil blob clears it.
// UpdatedAt moves forward; CreatedAt is left alone.
func (c *Catalog) UpdateEmbedding(ctx context.Context, id uint, blob []byte) (err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpUpdateToneFile, start, err) }(time.Now())

	err = c.tx(ctx, func(repos *repository.Set) error {
		return repos.ToneFiles.Update(ctx, id, map[string]any{"embedding": blob})
	})
	return mapRepoError(metrics.OpUpdateToneFile, "tone file", id, err)
}

// DeleteToneFile removes a tone file with its variant row and every link
// in one transaction.
func (c *Catalog) DeleteToneFile(ctx context.Context, id uint) (err error) {
	defer func(start time.Time) { c.observe(ctx, metrics.OpDeleteToneFile, start, err) }(time.Now())

	var removed int64
	err = c.tx(ctx, func(repos *repository.Set) error {
		row, err := repos.ToneFiles.GetByID(ctx, id)
		if err != nil {
			return err
		}

		removed, err = repos.Links.DeleteByToneFile(ctx, id)
		if err != nil {
			return err
		}
		if row.FileType.Valid() {
			if err := repos.ToneFiles.DeleteVariant(ctx, row.FileType, id); err != nil {
				return err
			}
		}
		return repos.ToneFiles.Delete(ctx, id)
	})
	if err != nil {
		return mapRepoError(metrics.OpDeleteToneFile, "tone file", id, err)
	}

	c.log.WithContext(ctx).Info("tone file deleted",
		logger.Uint64("id", uint64(id)),
		logger.Int64("links_removed", removed))
	return nil
}
