package state

import (
	"sync"

	"github.com/analogkb/analogkb/internal/analog"
	"github.com/analogkb/analogkb/internal/types"
)

var (
	once     sync.Once
	instance *AppState
)

type AppState struct {
	Config   *types.Config
	Keyboard *analog.State
}

func Init(cfg *types.Config, keyboard *analog.State) {
	once.Do(func() {
		instance = &AppState{
			Config:   cfg,
			Keyboard: keyboard,
		}
	})
}

func Get() *AppState {
	if instance == nil {
		panic("AppState not initialized")
	}
	return instance
}
