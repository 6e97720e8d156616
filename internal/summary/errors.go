// internal/summary/errors.go
package summary

import "errors"

var (
	errNoHeader   = errors.New("association row before the alternate_ids header")
	errNoPosition = errors.New("variant id carries no position")
)
