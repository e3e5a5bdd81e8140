package errors

import (
	"errors"
	"fmt"
)

var (
	ErrConfigNotFound = errors.New("config not found")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrRuleInvalid    = errors.New("invalid alert rule")
	ErrInputTooLarge  = errors.New("input too large")
	ErrChartNotFound  = errors.New("chart not found")
	ErrRenderFailed   = errors.New("chart render failed")
	ErrFileNotFound   = errors.New("file not found")
)

func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}

func NewRuleError(id string, reason error) error {
	return fmt.Errorf("%w: rule=%s: %v", ErrRuleInvalid, id, reason)
}

func NewInputTooLargeError(limit int64) error {
	return fmt.Errorf("%w: limit=%d bytes", ErrInputTooLarge, limit)
}

func NewChartError(id string) error {
	return fmt.Errorf("%w: %s", ErrChartNotFound, id)
}

func NewRenderError(reason error) error {
	return fmt.Errorf("%w: %v", ErrRenderFailed, reason)
}

func NewFileError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, reason)
}
