package services

import (
	"context"
	"fmt"

	"aviablog/internal/db/repositories"
	"aviablog/internal/models/dtos"
	gormModels "aviablog/internal/models/gorm"

	"gorm.io/gorm"
)

// TrackImageReconciler reconciles a submitted list of attachment intents
// against the track images already stored for a trip. It runs inside the
// caller's transaction and reports blob effects through the same janitor.
type TrackImageReconciler struct{}

// NewTrackImageReconciler creates a new reconciler
func NewTrackImageReconciler() *TrackImageReconciler {
	return &TrackImageReconciler{}
}

// Reconcile processes intents independently, in submission order:
// upload with no id creates, id + upload replaces the image (discarding the
// previous blob unless the derived key is unchanged), id + clear deletes
// the record. An intent with neither is a no-op.
func (r *TrackImageReconciler) Reconcile(ctx context.Context, tx *gorm.DB, trip *gormModels.UserTrip, flight *gormModels.Flight, username string, intents []dtos.TrackImageIntent, janitor *blobJanitor) error {
	repo := repositories.NewTrackImageRepository(tx)

	for i, intent := range intents {
		switch {
		case intent.ID == nil && intent.Upload != nil:
			img := &gormModels.TrackImage{TripID: trip.ID}
			key := img.ImageKey(username, flight.FlightNumber, flight.DateString(), intent.Upload.Filename)
			if err := janitor.put(ctx, key, intent.Upload.Data); err != nil {
				return fmt.Errorf("failed to store track image %d: %w", i, err)
			}
			img.TrackImg = &key
			if err := repo.Create(ctx, img); err != nil {
				return err
			}

		case intent.ID != nil && intent.Clear:
			img, err := repo.GetByID(ctx, *intent.ID)
			if err != nil {
				return err
			}
			if img.TripID != trip.ID {
				return repositories.ErrNotFound
			}
			orphaned, err := repo.Delete(ctx, *intent.ID)
			if err != nil {
				return err
			}
			janitor.discard(orphaned...)

		case intent.ID != nil && intent.Upload != nil:
			img, err := repo.GetByID(ctx, *intent.ID)
			if err != nil {
				return err
			}
			// a submitted image id must belong to the trip being edited
			if img.TripID != trip.ID {
				return repositories.ErrNotFound
			}
			key := img.ImageKey(username, flight.FlightNumber, flight.DateString(), intent.Upload.Filename)
			if img.TrackImg != nil && *img.TrackImg != "" && *img.TrackImg != key {
				janitor.discard(*img.TrackImg)
			}
			if err := janitor.put(ctx, key, intent.Upload.Data); err != nil {
				return fmt.Errorf("failed to store track image %d: %w", i, err)
			}
			img.TrackImg = &key
			if err := repo.Save(ctx, img); err != nil {
				return err
			}

		default:
			// no upload, no clear flag: nothing changed
		}
	}

	return nil
}
