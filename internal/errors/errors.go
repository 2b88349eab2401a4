// Package errors provides standardized error handling for imgfilter.
// It defines common error types, constants, and helper functions for consistent
// error creation, wrapping, and handling across the application.
package errors

import (
	"errors"
	"fmt"
	"os"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Common error constants for frequently occurring errors
var (
	ErrFileNotFound  = NewFileError("file not found", "", FileNotFound, nil)
	ErrFileAccess    = NewFileError("file access denied", "", FileAccessDenied, nil)
	ErrInvalidPath   = NewFileError("invalid file path", "", InvalidPath, nil)
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileCreateFailed
	FileOperationFailed
	FileExists
	InvalidOperation
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Collection error kinds
	EmptyCollection
	OutOfRange
	InvalidCategory
)

var kindNames = map[ErrorKind]string{
	Unknown:             "unknown",
	FileNotFound:        "file_not_found",
	FileAccessDenied:    "file_access_denied",
	InvalidPath:         "invalid_path",
	FileCreateFailed:    "file_create_failed",
	FileOperationFailed: "file_operation_failed",
	FileExists:          "file_exists",
	InvalidOperation:    "invalid_operation",
	InvalidConfig:       "invalid_config",
	ConfigNotFound:      "config_not_found",
	EmptyCollection:     "empty_collection",
	OutOfRange:          "out_of_range",
	InvalidCategory:     "invalid_category",
}

// String returns the snake_case name of the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// FileErrorFromOS classifies an error returned by the os package into a FileError.
// Returns nil when err is nil.
func FileErrorFromOS(msg string, path string, err error) *FileError {
	if err == nil {
		return nil
	}
	kind := FileOperationFailed
	switch {
	case os.IsNotExist(err):
		kind = FileNotFound
	case os.IsPermission(err):
		kind = FileAccessDenied
	case os.IsExist(err):
		kind = FileExists
	}
	return NewFileError(msg, path, kind, err)
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// CollectionError represents a navigation or classification request the
// image collection cannot satisfy. These are expected user-navigation edges,
// not failures.
type CollectionError struct {
	ApplicationError
}

// NewCollectionError creates a new collection error
func NewCollectionError(msg string, kind ErrorKind) *CollectionError {
	return &CollectionError{
		ApplicationError: ApplicationError{
			msg:  msg,
			kind: kind,
		},
	}
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first typed error in err's chain, or Unknown.
func KindOf(err error) ErrorKind {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind()
	}
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind()
	}
	var collErr *CollectionError
	if errors.As(err, &collErr) {
		return collErr.Kind()
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return Unknown
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsFileExists checks if the error reports an existing destination file
func IsFileExists(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileExists
	}
	return false
}

// IsIOFailure reports whether err came from the filesystem layer.
// Callers must surface these to the user rather than continue.
func IsIOFailure(err error) bool {
	var fileErr *FileError
	return errors.As(err, &fileErr)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsEmptyCollection checks if the error reports an empty image collection
func IsEmptyCollection(err error) bool {
	var collErr *CollectionError
	if errors.As(err, &collErr) {
		return collErr.Kind() == EmptyCollection
	}
	return false
}

// IsOutOfRange checks if the error reports a cursor position outside the collection
func IsOutOfRange(err error) bool {
	var collErr *CollectionError
	if errors.As(err, &collErr) {
		return collErr.Kind() == OutOfRange
	}
	return false
}
