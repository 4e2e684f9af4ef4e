package models

import "errors"

// File is an uploaded file owned by a user.
//
// Filename is the storage name the bytes live under; Originalname is the name
// the owner chose and is unique among that owner's files.
type File struct {
	Filename     string `json:"filename"`
	Originalname string `json:"originalname"`
	Shared       bool   `json:"shared"`
}

var (
	errMissingFilename     = errors.New("missing filename")
	errMissingOriginalname = errors.New("missing originalname")
)

func (f *File) Validate() error {
	if f.Filename == "" {
		return errMissingFilename
	}
	if f.Originalname == "" {
		return errMissingOriginalname
	}
	return nil
}
