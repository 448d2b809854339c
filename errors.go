package macropad

import "errors"

var (
	// ErrInputRead is a transient pin read failure. The sample is dropped and
	// retried on the next tick.
	ErrInputRead = errors.New("macropad: input read failed")

	// ErrDisplayWrite is a failed display refresh. The loop keeps running.
	ErrDisplayWrite = errors.New("macropad: display write failed")

	// ErrEncoderDesync means both encoder phases changed between two samples.
	ErrEncoderDesync = errors.New("macropad: encoder desync")

	// ErrConfig is returned by Config.Validate and New.
	ErrConfig = errors.New("macropad: invalid config")
)
