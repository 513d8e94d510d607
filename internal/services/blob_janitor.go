package services

import (
	"bytes"
	"context"
	"errors"
	"io"

	"aviablog/internal/blob"
	"aviablog/internal/logging"
	"aviablog/internal/metrics"
)

// blobWrite records one blob written during a transaction. previous holds
// the content the key had before the write, nil when the key was new.
type blobWrite struct {
	key      string
	previous []byte
}

// blobJanitor tracks blob side effects of one transaction. Files written
// while the transaction is open are undone if it rolls back: a fresh key is
// removed, an overwritten key gets its previous content restored. Files
// made garbage by the transaction (replaced or owner-deleted) are removed
// only after it commits. A crash between commit and cleanup can leak a
// file but never lose one.
type blobJanitor struct {
	store    blob.Store
	metrics  *metrics.MetricsRegistry
	written  []blobWrite
	orphaned []string
}

func newBlobJanitor(store blob.Store, m *metrics.MetricsRegistry) *blobJanitor {
	return &blobJanitor{store: store, metrics: m}
}

// put writes a blob and remembers it for compensation on rollback. When the
// key already holds content its bytes are snapshotted first, so a re-upload
// to an unchanged derived key survives a rollback intact.
func (j *blobJanitor) put(ctx context.Context, key string, data []byte) error {
	var previous []byte
	rc, err := j.store.Open(ctx, key)
	if err == nil {
		previous, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return err
		}
	} else if !errors.Is(err, blob.ErrNotExist) {
		return err
	}

	if err := j.store.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return err
	}
	if j.metrics != nil {
		j.metrics.BlobsWrittenTotal.Inc()
	}
	j.written = append(j.written, blobWrite{key: key, previous: previous})
	return nil
}

// discard marks keys whose files become garbage when the transaction commits.
func (j *blobJanitor) discard(keys ...string) {
	for _, k := range keys {
		if k != "" {
			j.orphaned = append(j.orphaned, k)
		}
	}
}

// commit removes the garbage files after a successful commit.
func (j *blobJanitor) commit(ctx context.Context) {
	for _, key := range j.orphaned {
		if err := j.store.Remove(ctx, key); err != nil {
			logging.Warn("failed to remove orphaned blob", "key", key, "error", err.Error())
			continue
		}
		if j.metrics != nil {
			j.metrics.BlobsRemovedTotal.Inc()
		}
	}
}

// compensate undoes the writes of a transaction that rolled back: keys that
// did not exist before are removed, overwritten keys get their snapshotted
// content put back. Writes are undone newest first so a key written twice
// ends up with its pre-transaction content.
func (j *blobJanitor) compensate(ctx context.Context) {
	for i := len(j.written) - 1; i >= 0; i-- {
		w := j.written[i]
		if w.previous != nil {
			if err := j.store.Put(ctx, w.key, bytes.NewReader(w.previous)); err != nil {
				logging.Warn("failed to restore overwritten blob after rollback", "key", w.key, "error", err.Error())
			}
			continue
		}
		if err := j.store.Remove(ctx, w.key); err != nil {
			logging.Warn("failed to remove written blob after rollback", "key", w.key, "error", err.Error())
			continue
		}
		if j.metrics != nil {
			j.metrics.BlobsRemovedTotal.Inc()
		}
	}
}
