package shell

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/web/navigation"
)

// Fetcher loads the combined configuration of a role; *Client implements it.
type Fetcher interface {
	FetchCombined(ctx context.Context, roleName string) (*Result, error)
}

// Manifest is everything the shell renders for a principal.
type Manifest struct {
	Role       string           `json:"role"`
	Generation string           `json:"generation"`
	Menu       *navigation.Menu `json:"menu"`
	Panels     []Panel          `json:"panels"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Loader fetches and interprets the configuration of the signed-in principal.
// Concurrent loads for the same role share one fetch.
type Loader struct {
	fetcher     Fetcher
	interpreter *Interpreter
	inflight    singleflight.Group
}

// NewLoader creates a loader.
func NewLoader(fetcher Fetcher, interpreter *Interpreter) *Loader {
	return &Loader{fetcher: fetcher, interpreter: interpreter}
}

// Load returns the manifest for p's role.
func (l *Loader) Load(ctx context.Context, p *auth.Principal) (*Manifest, error) {
	roleName := p.RoleName()
	if roleName == "" {
		return nil, auth.ErrUnauthenticated
	}

	// the shared fetch must not fail because the first caller went away
	shared := context.WithoutCancel(ctx)

	ch := l.inflight.DoChan(roleName, func() (any, error) {
		return l.fetcher.FetchCombined(shared, roleName)
	})

	select {
	case <-ctx.Done():
		return nil, &LoadError{Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		result, _ := res.Val.(*Result)

		return &Manifest{
			Role:       roleName,
			Generation: result.Generation,
			Menu:       l.interpreter.Menu(result.Config.SidebarItems),
			Panels:     l.interpreter.Panels(result.Config.DashboardConfig),
			UpdatedAt:  result.Config.UpdatedAt,
		}, nil
	}
}
