package httpapi

import (
	"sync/atomic"

	"go.uber.org/zap"

	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/scheduler"
	"jobfeed-engine/internal/search"
	"jobfeed-engine/internal/store"
)

type Deps struct {
	Store *store.Store
	Hub   *events.Hub
	Log   *zap.SugaredLogger

	Scheduler *scheduler.Scheduler
	Search    *search.Service

	// Atomic store for the live config snapshot
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
}
