package domain

import "errors"

var (
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrPersistence       = errors.New("persistence error")
	ErrArchive           = errors.New("archive error")
	ErrNotFound          = errors.New("listing not found")
	ErrInvalidListing    = errors.New("invalid listing data")
	ErrBlobNotFound      = errors.New("blob not found")
)
