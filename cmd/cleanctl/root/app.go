package root

import (
	"cleanops/internal/app"
)

// openApp wires the same services as the API server. The scheduler is never
// started, so registered jobs stay idle for the life of the command.
func openApp() (*app.App, func(), error) {
	a, err := app.New()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = a.Close()
	}
	return a, cleanup, nil
}
