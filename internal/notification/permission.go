package notification

import (
	"context"
	"sync"

	"github.com/SolomonGithu/barkdet-go/internal/conf"
)

// StaticPermissionManager is a config-backed permission manager. The initial
// state comes from configuration; a Request from the default state resolves
// to granted or denied according to the autoGrant setting, emulating the
// platform permission prompt for headless operation.
type StaticPermissionManager struct {
	mu        sync.RWMutex
	state     PermissionState
	autoGrant bool
}

// NewStaticPermissionManager creates a permission manager from settings.
func NewStaticPermissionManager(settings *conf.Settings) *StaticPermissionManager {
	return &StaticPermissionManager{
		state:     PermissionState(settings.Notification.Permission),
		autoGrant: settings.Notification.AutoGrant,
	}
}

// State returns the current permission state.
func (m *StaticPermissionManager) State() PermissionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Request resolves a default state to granted or denied. Requests in any
// other state return the current state unchanged.
func (m *StaticPermissionManager) Request(ctx context.Context) (PermissionState, error) {
	if err := ctx.Err(); err != nil {
		return m.State(), err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == PermissionDefault {
		if m.autoGrant {
			m.state = PermissionGranted
		} else {
			m.state = PermissionDenied
		}
	}
	return m.state, nil
}

// SetState overrides the permission state, emulating an external platform
// change.
func (m *StaticPermissionManager) SetState(state PermissionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}
