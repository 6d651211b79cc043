package blob

import (
	"context"
	"fmt"
	"os"

	fsblob "donorstay/internal/infra/blob/fs"
	memblob "donorstay/internal/infra/blob/memory"
	s3blob "donorstay/internal/infra/blob/s3"
)

// Open selects a blob.Store implementation using environment variables.
//
//	DONORSTAY_BLOB_DRIVER: fs|s3|memory (default fs)
//	DONORSTAY_BLOB_FS_ROOT: directory root when driver=fs (default ./attachments)
//	(S3 specific variables documented in the s3 driver package)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("DONORSTAY_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("DONORSTAY_BLOB_FS_ROOT")
		return fsblob.New(root)
	case DriverS3:
		return s3blob.OpenFromEnv(ctx)
	case DriverMemory:
		return memblob.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
