package core

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"donorstay/internal/blob"
	"donorstay/pkg/domain"
)

// PutDonorPhoto stores a donor photograph in the attachment store and
// records the resulting key on the donor. Earlier photos stay in storage
// under their own keys; only the recorded key moves.
func (s *Service) PutDonorPhoto(ctx context.Context, donorID string, data []byte, contentType string) (Donor, Result, error) {
	if s.blobs == nil {
		return Donor{}, Result{}, blob.ErrUnsupported
	}
	if len(data) == 0 {
		return Donor{}, Result{}, validationErrorf("empty photo payload")
	}

	key := fmt.Sprintf("donors/%s/photos/%s", donorID, uuid.NewString())
	ctx, done := s.instrument(ctx, "put_donor_photo")
	var updated Donor
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, ok := tx.FindDonor(donorID); !ok {
			return ErrNotFound{Entity: EntityDonor, ID: donorID}
		}
		if _, err := s.blobs.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{
			ContentType: contentType,
			Metadata:    map[string]string{"donor_id": donorID},
		}); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateDonor(donorID, func(d *Donor) error {
			d.PhotoKey = key
			return nil
		})
		return err
	})
	done(err)
	s.logWarnings("put_donor_photo", res)
	return updated, res, err
}

// OpenAttachment retrieves a stored attachment by key.
func (s *Service) OpenAttachment(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	if s.blobs == nil {
		return blob.Info{}, nil, blob.ErrUnsupported
	}
	return s.blobs.Get(ctx, key)
}

// AttachmentURL returns a time-limited URL for an attachment key. Drivers
// without pre-signing support return ErrUnsupported.
func (s *Service) AttachmentURL(ctx context.Context, key string) (string, error) {
	if s.blobs == nil {
		return "", blob.ErrUnsupported
	}
	return s.blobs.PresignURL(ctx, key, blob.SignedURLOptions{})
}
