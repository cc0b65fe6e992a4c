package common

import (
	"github.com/google/uuid"
)

// NewUploadID generates a unique upload ID with the "upload_" prefix
// Format: upload_<uuid>
func NewUploadID() string {
	return "upload_" + uuid.New().String()
}
