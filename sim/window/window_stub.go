//go:build !tinygo && !cgo

package window

import (
	"errors"

	"github.com/sago35/macropad/sim"
)

func Run(_ *sim.Sim, _ string, _ int) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1), use -headless")
}
