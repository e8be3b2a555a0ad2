package module

import "errors"

var (
	ErrModuleNotFound     = errors.New("module: not found")
	ErrInvalidManifest    = errors.New("module: invalid manifest")
	ErrHookRejected       = errors.New("module: hook returned false")
	ErrHookFailed         = errors.New("module: hook failed")
	ErrRegistrationFailed = errors.New("module: failed to write registration record")
	ErrNotInstalled       = errors.New("module: not installed")
)
