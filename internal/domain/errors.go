package domain

import "errors"

var (
	ErrSnapshotNotFound = errors.New("story snapshot not found")
	ErrNoParagraphs     = errors.New("no story paragraphs yet")
)
